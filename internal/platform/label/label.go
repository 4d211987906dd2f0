package label

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Title renders a classifier label for display ("social media" -> "Social Media").
func Title(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ToLower(s))
}

// Normalize lower-cases and trims a label for comparisons.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

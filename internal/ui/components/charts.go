package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"engagemon/internal/ui/theme"
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values within [lo,hi] as one rune each, keeping the
// newest width values.
func Sparkline(values []float64, lo, hi float64, width int) string {
	if width <= 0 || len(values) == 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	span := hi - lo
	var sb strings.Builder
	for _, v := range values {
		idx := 0
		if span > 0 {
			idx = int((v - lo) / span * float64(len(sparkLevels)-1))
		}
		idx = max(0, min(len(sparkLevels)-1, idx))
		sb.WriteRune(sparkLevels[idx])
	}
	return sb.String()
}

// Bar renders share (0..1) as a horizontal bar of width cells.
func Bar(share float64, width int, colour lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	share = max(0, min(1, share))
	filled := int(share*float64(width) + 0.5)
	return lipgloss.NewStyle().Foreground(colour).Render(strings.Repeat("█", filled)) +
		theme.Muted.Render(strings.Repeat("░", width-filled))
}

// BarRow is one labelled line of a bar chart.
type BarRow struct {
	Label string
	Share float64
	Note  string
}

// BarChart renders rows with labels padded to the widest one.
func BarChart(rows []BarRow, width int, colour lipgloss.Color) string {
	if len(rows) == 0 {
		return theme.Muted.Render("no data yet")
	}
	labelW := 0
	for _, r := range rows {
		labelW = max(labelW, lipgloss.Width(r.Label))
	}
	barW := max(4, width-labelW-14)
	lines := make([]string, len(rows))
	for i, r := range rows {
		note := r.Note
		if note == "" {
			note = fmt.Sprintf("%3.0f%%", 100*r.Share)
		}
		lines[i] = fmt.Sprintf("%-*s %s %s", labelW, r.Label, Bar(r.Share, barW, colour), note)
	}
	return strings.Join(lines, "\n")
}

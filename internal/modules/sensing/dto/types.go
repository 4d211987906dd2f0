package dto

import "time"

type SampleAllInput struct {
	Kinds []string
}

type SampleOutput struct {
	Timestamp  time.Time
	Kind       string
	Label      string
	Confidence float64
	Sentiment  string
	Mode       string
}

type SampleAllOutput struct {
	Samples []SampleOutput
	// Substituted lists the kinds whose sample came from the simulated fallback.
	Substituted []string
}

type SourceStatus struct {
	Kind   string
	Mode   string
	Reason string
}

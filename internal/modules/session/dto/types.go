package dto

import (
	"time"

	analyticsdto "engagemon/internal/modules/analytics/dto"
)

type Sample struct {
	Timestamp  time.Time
	Kind       string
	Label      string
	Confidence float64
	Sentiment  string
	Mode       string
}

// CollectOutput is the blocking half of a tick, handed to Commit.
type CollectOutput struct {
	Samples     []Sample
	Substituted []string
}

type Record struct {
	Timestamp         time.Time
	Emotion           string
	Engagement        string
	Context           string
	Sentiment         string
	ProductivityScore int
	Confidence        float64
}

type TickOutput struct {
	Record      Record
	Substituted []string
}

type CurrentOutput struct {
	SessionID         string
	StartedAt         time.Time
	Emotion           string
	EmotionConfidence float64
	Context           string
	Sentiment         string
	ContextConfidence float64
	AudioEnabled      bool
	ScreenEnabled     bool
	Records           int
	Capacity          int
	TickInterval      time.Duration
	Threshold         float64
}

type ToggleInput struct {
	Kind string
	On   bool
}

type InjectInput struct {
	Kind       string
	Label      string
	Confidence float64
	Sentiment  string
}

type ReportOutput struct {
	Records   []Record
	Analytics analyticsdto.BreakdownOutput
}

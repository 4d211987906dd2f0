package dto

import "time"

type Observation struct {
	Timestamp  time.Time
	Emotion    string
	Engaged    bool
	Context    string
	Sentiment  string
	Confidence float64
}

type ComputeInput struct {
	Records []Observation
	// TickInterval estimates session time in breakdowns.
	TickInterval time.Duration
}

type SummaryOutput struct {
	Records           int
	EngagedRatio      float64
	AvgConfidence     float64
	ProductivityScore int
}

type CountOutput struct {
	Label string
	Count int
	Share float64
}

type HourOutput struct {
	Hour    int
	Records int
	Rate    float64
}

type CrossOutput struct {
	Label         string
	Records       int
	EngagedPct    float64
	DistractedPct float64
}

type BreakdownOutput struct {
	Summary      SummaryOutput
	Contexts     []CountOutput
	Emotions     []CountOutput
	Hourly       []HourOutput
	ContextCross []CrossOutput
	EmotionCross []CrossOutput
	Recent       []Observation
	SessionTime  time.Duration
}

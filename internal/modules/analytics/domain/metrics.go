package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

var productiveContexts = map[string]struct{}{
	"programming": {},
	"reading":     {},
	"writing":     {},
	"learning":    {},
}

var sentimentPositivity = map[string]float64{
	"positive": 1,
	"neutral":  0.5,
	"negative": 0,
}

// Observation is the slice of a record the aggregator looks at.
type Observation struct {
	Timestamp  time.Time
	Emotion    string
	Engaged    bool
	Context    string
	Sentiment  string
	Confidence float64
}

type Weights struct {
	Engagement float64
	Context    float64
	Sentiment  float64
}

func (w Weights) Validate() error {
	if w.Engagement < 0 || w.Context < 0 || w.Sentiment < 0 {
		return fmt.Errorf("weights must be non-negative")
	}
	if w.Engagement+w.Context+w.Sentiment <= 0 {
		return fmt.Errorf("at least one weight must be positive")
	}
	return nil
}

// Params configure Compute. Window is the number of trailing observations
// scored for productivity; zero scores the whole snapshot.
type Params struct {
	Weights Weights
	Window  int
}

func DefaultParams() Params {
	return Params{Weights: Weights{Engagement: 0.3, Context: 0.5, Sentiment: 0.2}, Window: 10}
}

type Summary struct {
	Records           int
	EngagedRatio      float64
	AvgConfidence     float64
	ProductivityScore int
}

// Compute is pure; an empty snapshot yields the zero Summary.
func Compute(snapshot []Observation, params Params) Summary {
	if len(snapshot) == 0 {
		return Summary{}
	}
	var engaged int
	var confidence float64
	for _, o := range snapshot {
		if o.Engaged {
			engaged++
		}
		confidence += o.Confidence
	}
	return Summary{
		Records:           len(snapshot),
		EngagedRatio:      float64(engaged) / float64(len(snapshot)),
		AvgConfidence:     confidence / float64(len(snapshot)),
		ProductivityScore: ProductivityScore(snapshot, params),
	}
}

// ProductivityScore is the weighted share of engaged, productive-context and
// positive-sentiment observations over the trailing window, in 0..100.
func ProductivityScore(snapshot []Observation, params Params) int {
	window := snapshot
	if params.Window > 0 && len(window) > params.Window {
		window = window[len(window)-params.Window:]
	}
	w := params.Weights
	total := w.Engagement + w.Context + w.Sentiment
	if len(window) == 0 || total <= 0 {
		return 0
	}

	var engaged, productive, positivity float64
	for _, o := range window {
		if o.Engaged {
			engaged++
		}
		if IsProductive(o.Context) {
			productive++
		}
		positivity += Positivity(o.Sentiment)
	}
	n := float64(len(window))
	raw := (w.Engagement*engaged/n + w.Context*productive/n + w.Sentiment*positivity/n) / total
	score := int(math.Floor(100*raw + 1e-9))
	return max(0, min(100, score))
}

func IsProductive(context string) bool {
	_, ok := productiveContexts[strings.ToLower(strings.TrimSpace(context))]
	return ok
}

// Positivity maps a sentiment label to [0,1]; unknown labels count as neutral.
func Positivity(sentiment string) float64 {
	if v, ok := sentimentPositivity[strings.ToLower(strings.TrimSpace(sentiment))]; ok {
		return v
	}
	return 0.5
}

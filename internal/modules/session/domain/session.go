package domain

import (
	"fmt"
	"time"

	"engagemon/internal/platform/label"
)

type Engagement string

const (
	Engaged    Engagement = "Engaged"
	Distracted Engagement = "Distracted"
)

func ParseEngagement(raw string) (Engagement, error) {
	switch Engagement(raw) {
	case Engaged, Distracted:
		return Engagement(raw), nil
	default:
		return "", fmt.Errorf("unknown engagement: %q", raw)
	}
}

// Source names the sensor a reading came from.
type Source string

const (
	SourceAudio  Source = "audio"
	SourceScreen Source = "screen"
)

const (
	Unknown          = "Unknown"
	NeutralSentiment = "Neutral"
)

// engagedEmotions are the lower-cased emotions counted as attentive.
var engagedEmotions = map[string]struct{}{
	"neutral":   {},
	"happy":     {},
	"surprised": {},
	"calm":      {},
}

// Record is one fused engagement reading.
type Record struct {
	Timestamp         time.Time
	Emotion           string
	Engagement        Engagement
	Context           string
	Sentiment         string
	ProductivityScore int
	Confidence        float64
}

// Reading is the latest sample of one source as the session sees it.
type Reading struct {
	Source     Source
	Label      string
	Confidence float64
	Sentiment  string
	At         time.Time
}

// State holds the most recent reading per source.
type State struct {
	Audio  *Reading
	Screen *Reading
}

func (s State) Emotion() string {
	if s.Audio == nil {
		return Unknown
	}
	return label.Title(s.Audio.Label)
}

func (s State) Context() string {
	if s.Screen == nil {
		return Unknown
	}
	return label.Title(s.Screen.Label)
}

func (s State) Sentiment() string {
	if s.Screen == nil || s.Screen.Sentiment == "" {
		return NeutralSentiment
	}
	return label.Title(s.Screen.Sentiment)
}

// Observe returns a copy of s with r as the latest reading of its source.
func (s State) Observe(r Reading) State {
	switch r.Source {
	case SourceAudio:
		s.Audio = &r
	case SourceScreen:
		s.Screen = &r
	}
	return s
}

// Fuse builds the record for a tick at time at. The productivity score is
// left for the caller since it depends on the buffer contents.
func Fuse(state State, at time.Time, threshold float64) Record {
	rec := Record{
		Timestamp:  at.Truncate(time.Millisecond),
		Emotion:    state.Emotion(),
		Engagement: Distracted,
		Context:    state.Context(),
		Sentiment:  state.Sentiment(),
	}
	if a := state.Audio; a != nil {
		if _, ok := engagedEmotions[label.Normalize(a.Label)]; ok && a.Confidence >= threshold {
			rec.Engagement = Engaged
		}
	}

	var sum float64
	var n int
	for _, r := range []*Reading{state.Audio, state.Screen} {
		if r != nil {
			sum += r.Confidence
			n++
		}
	}
	if n > 0 {
		rec.Confidence = sum / float64(n)
	}
	return rec
}

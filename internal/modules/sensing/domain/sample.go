package domain

import (
	"fmt"
	"time"
)

type Kind string

const (
	KindAudio  Kind = "audio"
	KindScreen Kind = "screen"
)

// Kinds lists every sensor kind in display order.
var Kinds = []Kind{KindAudio, KindScreen}

func (k Kind) Validate() error {
	switch k {
	case KindAudio, KindScreen:
		return nil
	default:
		return fmt.Errorf("unknown sensor kind: %s", k)
	}
}

// Sample is one classifier reading. Screen samples also carry the sentiment
// detected in the same OCR pass.
type Sample struct {
	Timestamp  time.Time
	Source     Kind
	Label      string
	Confidence float64
	Sentiment  string
}

func (s Sample) Validate() error {
	if err := s.Source.Validate(); err != nil {
		return err
	}
	if s.Label == "" {
		return fmt.Errorf("sample label is required")
	}
	if s.Confidence < 0 || s.Confidence > 1 {
		return fmt.Errorf("sample confidence must be within [0,1], got %v", s.Confidence)
	}
	if s.Timestamp.IsZero() {
		return fmt.Errorf("sample timestamp is required")
	}
	return nil
}

// Mode describes where a kind's samples currently come from.
type Mode string

const (
	ModeReal      Mode = "real"
	ModeSimulated Mode = "simulated"
	ModeFallback  Mode = "fallback"
	ModeDisabled  Mode = "disabled"
)

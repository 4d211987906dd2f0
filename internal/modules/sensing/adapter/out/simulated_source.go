package out

import (
	"context"
	"math/rand/v2"
	"sync"

	"engagemon/internal/modules/sensing/domain"
	sensingout "engagemon/internal/modules/sensing/port/out"
	"engagemon/internal/platform/clock"
)

const (
	minSimulatedConfidence = 0.50
	maxSimulatedConfidence = 0.99
)

// SimulatedSource draws labels from the fixed vocabulary of its kind. Two
// sources built with the same seed produce the same sequence.
type SimulatedSource struct {
	kind  domain.Kind
	clock clock.Clock

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulatedSource(kind domain.Kind, seed uint64, clk clock.Clock) sensingout.Source {
	return &SimulatedSource{
		kind:  kind,
		clock: clk,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (s *SimulatedSource) Kind() domain.Kind { return s.kind }

func (s *SimulatedSource) Sample(_ context.Context) (domain.Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vocab := domain.Vocabulary(s.kind)
	sample := domain.Sample{
		Timestamp:  s.clock.Now(),
		Source:     s.kind,
		Label:      vocab[s.rng.IntN(len(vocab))],
		Confidence: minSimulatedConfidence + s.rng.Float64()*(maxSimulatedConfidence-minSimulatedConfidence),
	}
	if s.kind == domain.KindScreen {
		sample.Sentiment = domain.Sentiments[s.rng.IntN(len(domain.Sentiments))]
	}
	return sample, nil
}

func (s *SimulatedSource) Close() error { return nil }

package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	sensingadapter "engagemon/internal/modules/sensing/adapter/out"
	"engagemon/internal/modules/sensing/domain"
	sensingout "engagemon/internal/modules/sensing/port/out"
	"engagemon/internal/modules/sensing/service"
	"engagemon/internal/platform/clock"
	apperrors "engagemon/internal/platform/errors"
)

type scriptedSource struct {
	kind    domain.Kind
	results []error
	idx     int
	closed  bool
}

func (s *scriptedSource) Kind() domain.Kind { return s.kind }

func (s *scriptedSource) Sample(context.Context) (domain.Sample, error) {
	var err error
	if s.idx < len(s.results) {
		err = s.results[s.idx]
	}
	s.idx++
	if err != nil {
		return domain.Sample{}, err
	}
	return domain.Sample{Timestamp: time.Now().UTC(), Source: s.kind, Label: "real-" + string(s.kind), Confidence: 0.9, Sentiment: "Positive"}, nil
}

func (s *scriptedSource) Close() error {
	s.closed = true
	return nil
}

func simulated() map[domain.Kind]sensingout.Source {
	clk := clock.Fixed{At: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	return map[domain.Kind]sensingout.Source{
		domain.KindAudio:  sensingadapter.NewSimulatedSource(domain.KindAudio, 1, clk),
		domain.KindScreen: sensingadapter.NewSimulatedSource(domain.KindScreen, 2, clk),
	}
}

func bufferLogger(buf *bytes.Buffer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{Output: buf, Level: hclog.Info})
}

func TestSimulatedModeWithoutFactory(t *testing.T) {
	t.Parallel()
	svc := service.NewSensingService(nil, simulated(), nil)
	if err := svc.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}
	sample, mode, err := svc.Sample(context.Background(), domain.KindAudio)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if mode != domain.ModeSimulated || sample.Source != domain.KindAudio {
		t.Fatalf("unexpected sample %+v mode %s", sample, mode)
	}
}

func TestUnavailableFactoryFallsBackAndLogsOnce(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	factory := func(_ context.Context, kind domain.Kind) (sensingout.Source, error) {
		return nil, fmt.Errorf("%w: no microphone", apperrors.ErrSourceUnavailable)
	}
	svc := service.NewSensingService(bufferLogger(&logs), simulated(), factory)
	if err := svc.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 5; i++ {
		sample, mode, err := svc.Sample(context.Background(), domain.KindAudio)
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if mode != domain.ModeFallback {
			t.Fatalf("expected fallback mode, got %s", mode)
		}
		if err := sample.Validate(); err != nil {
			t.Fatalf("fallback sample invalid: %v", err)
		}
	}
	if n := strings.Count(logs.String(), "kind=audio"); n != 1 {
		t.Fatalf("expected one audio unavailability log line, got %d:\n%s", n, logs.String())
	}
	if !strings.Contains(svc.Reason(domain.KindAudio), "no microphone") {
		t.Fatalf("reason should keep the failure, got %q", svc.Reason(domain.KindAudio))
	}
}

func TestRealSourceErrorsSubstituteSimulatedSampleForThatTick(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	audio := &scriptedSource{kind: domain.KindAudio, results: []error{nil, errors.New("model crashed"), errors.New("model crashed"), nil}}
	factory := func(_ context.Context, kind domain.Kind) (sensingout.Source, error) {
		if kind == domain.KindAudio {
			return audio, nil
		}
		return nil, apperrors.ErrSourceUnavailable
	}
	svc := service.NewSensingService(bufferLogger(&logs), simulated(), factory)
	if err := svc.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}

	wantModes := []domain.Mode{domain.ModeReal, domain.ModeFallback, domain.ModeFallback, domain.ModeReal}
	for i, want := range wantModes {
		sample, mode, err := svc.Sample(context.Background(), domain.KindAudio)
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if mode != want {
			t.Fatalf("tick %d: expected mode %s, got %s", i, want, mode)
		}
		if want == domain.ModeReal && sample.Label != "real-audio" {
			t.Fatalf("tick %d: expected real sample, got %+v", i, sample)
		}
		if want == domain.ModeFallback && sample.Label == "real-audio" {
			t.Fatalf("tick %d: expected substituted sample", i)
		}
	}
	if n := strings.Count(logs.String(), "model crashed"); n != 1 {
		t.Fatalf("expected sampling error logged once, got %d", n)
	}

	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !audio.closed {
		t.Fatalf("real sources must be closed")
	}
}

func TestSampleRejectsUnknownKindAndCancelledContext(t *testing.T) {
	t.Parallel()
	svc := service.NewSensingService(nil, simulated(), nil)
	if _, _, err := svc.Sample(context.Background(), "camera"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	failing := service.NewSensingService(nil, simulated(), func(context.Context, domain.Kind) (sensingout.Source, error) {
		return nil, apperrors.ErrSourceUnavailable
	})
	if err := failing.Open(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("open with cancelled context should fail, got %v", err)
	}
}

package usecase

import (
	"context"
	"fmt"
	"time"

	analyticsdto "engagemon/internal/modules/analytics/dto"
	analyticsin "engagemon/internal/modules/analytics/port/in"
	sensingdto "engagemon/internal/modules/sensing/dto"
	sensingin "engagemon/internal/modules/sensing/port/in"
	"engagemon/internal/modules/session/domain"
	sessiondto "engagemon/internal/modules/session/dto"
	sessionin "engagemon/internal/modules/session/port/in"
	"engagemon/internal/modules/session/service"
	apperrors "engagemon/internal/platform/errors"
)

type Interactor struct {
	svc       *service.SessionService
	sensing   sensingin.Usecase
	analytics analyticsin.Usecase
}

func NewInteractor(svc *service.SessionService, sensing sensingin.Usecase, analytics analyticsin.Usecase) sessionin.Usecase {
	return &Interactor{svc: svc, sensing: sensing, analytics: analytics}
}

func (i *Interactor) Collect(ctx context.Context) (sessiondto.CollectOutput, error) {
	sources := i.svc.EnabledSources()
	if len(sources) == 0 {
		return sessiondto.CollectOutput{}, apperrors.ErrMonitoringStopped
	}
	if i.sensing == nil {
		return sessiondto.CollectOutput{}, fmt.Errorf("sensing usecase is not configured")
	}
	kinds := make([]string, len(sources))
	for idx, src := range sources {
		kinds[idx] = string(src)
	}
	sampled, err := i.sensing.SampleAll(ctx, sensingdto.SampleAllInput{Kinds: kinds})
	if err != nil {
		return sessiondto.CollectOutput{}, fmt.Errorf("collect samples: %w", err)
	}
	out := sessiondto.CollectOutput{Substituted: sampled.Substituted}
	for _, s := range sampled.Samples {
		out.Samples = append(out.Samples, sessiondto.Sample{
			Timestamp:  s.Timestamp,
			Kind:       s.Kind,
			Label:      s.Label,
			Confidence: s.Confidence,
			Sentiment:  s.Sentiment,
			Mode:       s.Mode,
		})
	}
	return out, nil
}

// Commit applies collected samples, fuses and appends one record. Samples
// for a source disabled since Collect are dropped.
func (i *Interactor) Commit(ctx context.Context, input sessiondto.CollectOutput) (sessiondto.TickOutput, error) {
	for _, s := range input.Samples {
		src := domain.Source(s.Kind)
		if !i.svc.Enabled(src) {
			continue
		}
		i.svc.Observe(domain.Reading{Source: src, Label: s.Label, Confidence: s.Confidence, Sentiment: s.Sentiment, At: s.Timestamp})
	}
	rec, err := i.svc.Fuse()
	if err != nil {
		return sessiondto.TickOutput{}, err
	}
	if i.analytics != nil {
		summary, err := i.analytics.Compute(ctx, analyticsdto.ComputeInput{Records: toObservations(i.svc.Window(rec))})
		if err != nil {
			return sessiondto.TickOutput{}, fmt.Errorf("score record: %w", err)
		}
		rec.ProductivityScore = summary.ProductivityScore
	}
	i.svc.Append(rec)
	return sessiondto.TickOutput{Record: toRecord(rec), Substituted: input.Substituted}, nil
}

func (i *Interactor) Tick(ctx context.Context) (sessiondto.TickOutput, error) {
	collected, err := i.Collect(ctx)
	if err != nil {
		return sessiondto.TickOutput{}, err
	}
	return i.Commit(ctx, collected)
}

func (i *Interactor) Snapshot(_ context.Context) ([]sessiondto.Record, error) {
	return toRecords(i.svc.Snapshot()), nil
}

func (i *Interactor) Current(_ context.Context) (sessiondto.CurrentOutput, error) {
	state := i.svc.State()
	out := sessiondto.CurrentOutput{
		SessionID:     i.svc.ID(),
		StartedAt:     i.svc.StartedAt(),
		Emotion:       state.Emotion(),
		Context:       state.Context(),
		Sentiment:     state.Sentiment(),
		AudioEnabled:  i.svc.Enabled(domain.SourceAudio),
		ScreenEnabled: i.svc.Enabled(domain.SourceScreen),
		Records:       i.svc.Len(),
		Capacity:      i.svc.Cap(),
		TickInterval:  i.svc.Interval(),
		Threshold:     i.svc.Threshold(),
	}
	if state.Audio != nil {
		out.EmotionConfidence = state.Audio.Confidence
	}
	if state.Screen != nil {
		out.ContextConfidence = state.Screen.Confidence
	}
	return out, nil
}

func (i *Interactor) Report(ctx context.Context) (sessiondto.ReportOutput, error) {
	snapshot := i.svc.Snapshot()
	out := sessiondto.ReportOutput{Records: toRecords(snapshot)}
	if i.analytics == nil {
		return out, nil
	}
	b, err := i.analytics.Breakdown(ctx, analyticsdto.ComputeInput{Records: toObservations(snapshot), TickInterval: i.svc.Interval()})
	if err != nil {
		return sessiondto.ReportOutput{}, fmt.Errorf("analytics breakdown: %w", err)
	}
	out.Analytics = b
	return out, nil
}

func (i *Interactor) Toggle(_ context.Context, input sessiondto.ToggleInput) error {
	return i.svc.SetEnabled(domain.Source(input.Kind), input.On)
}

// Inject overrides the latest reading of a source, as the demo buttons do.
func (i *Interactor) Inject(_ context.Context, input sessiondto.InjectInput) error {
	src := domain.Source(input.Kind)
	if src != domain.SourceAudio && src != domain.SourceScreen {
		return fmt.Errorf("%w: unknown source %q", apperrors.ErrInvalidInput, input.Kind)
	}
	if input.Label == "" {
		return fmt.Errorf("%w: label is required", apperrors.ErrInvalidInput)
	}
	if input.Confidence < 0 || input.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be within [0,1]", apperrors.ErrInvalidInput)
	}
	i.svc.Observe(domain.Reading{Source: src, Label: input.Label, Confidence: input.Confidence, Sentiment: input.Sentiment, At: i.svc.Now()})
	return nil
}

func (i *Interactor) SetInterval(_ context.Context, interval time.Duration) error {
	return i.svc.SetInterval(interval)
}

func toRecord(r domain.Record) sessiondto.Record {
	return sessiondto.Record{
		Timestamp:         r.Timestamp,
		Emotion:           r.Emotion,
		Engagement:        string(r.Engagement),
		Context:           r.Context,
		Sentiment:         r.Sentiment,
		ProductivityScore: r.ProductivityScore,
		Confidence:        r.Confidence,
	}
}

func toRecords(records []domain.Record) []sessiondto.Record {
	out := make([]sessiondto.Record, len(records))
	for idx, r := range records {
		out[idx] = toRecord(r)
	}
	return out
}

func toObservations(records []domain.Record) []analyticsdto.Observation {
	out := make([]analyticsdto.Observation, len(records))
	for idx, r := range records {
		out[idx] = analyticsdto.Observation{
			Timestamp:  r.Timestamp,
			Emotion:    r.Emotion,
			Engaged:    r.Engagement == domain.Engaged,
			Context:    r.Context,
			Sentiment:  r.Sentiment,
			Confidence: r.Confidence,
		}
	}
	return out
}

package usecase

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"engagemon/internal/modules/sensing/domain"
	sensingdto "engagemon/internal/modules/sensing/dto"
	sensingin "engagemon/internal/modules/sensing/port/in"
	"engagemon/internal/modules/sensing/service"
	apperrors "engagemon/internal/platform/errors"
)

type Interactor struct {
	svc *service.SensingService
}

func NewInteractor(svc *service.SensingService) sensingin.Usecase {
	return &Interactor{svc: svc}
}

// SampleAll samples the requested kinds concurrently. Results keep the order
// of input.Kinds.
func (i *Interactor) SampleAll(ctx context.Context, input sensingdto.SampleAllInput) (sensingdto.SampleAllOutput, error) {
	kinds := make([]domain.Kind, 0, len(input.Kinds))
	seen := map[domain.Kind]struct{}{}
	for _, raw := range input.Kinds {
		kind := domain.Kind(raw)
		if err := kind.Validate(); err != nil {
			return sensingdto.SampleAllOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		if _, dup := seen[kind]; dup {
			continue
		}
		seen[kind] = struct{}{}
		kinds = append(kinds, kind)
	}

	samples := make([]sensingdto.SampleOutput, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for idx, kind := range kinds {
		g.Go(func() error {
			sample, mode, err := i.svc.Sample(gctx, kind)
			if err != nil {
				return err
			}
			samples[idx] = toOutput(sample, mode)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return sensingdto.SampleAllOutput{}, err
	}

	out := sensingdto.SampleAllOutput{Samples: samples}
	for _, s := range samples {
		if s.Mode == string(domain.ModeFallback) {
			out.Substituted = append(out.Substituted, s.Kind)
		}
	}
	return out, nil
}

func (i *Interactor) Status(_ context.Context) ([]sensingdto.SourceStatus, error) {
	out := make([]sensingdto.SourceStatus, 0, len(domain.Kinds))
	for _, kind := range domain.Kinds {
		out = append(out, sensingdto.SourceStatus{
			Kind:   string(kind),
			Mode:   string(i.svc.Mode(kind)),
			Reason: i.svc.Reason(kind),
		})
	}
	return out, nil
}

func (i *Interactor) Close() error {
	return i.svc.Close()
}

func toOutput(sample domain.Sample, mode domain.Mode) sensingdto.SampleOutput {
	return sensingdto.SampleOutput{
		Timestamp:  sample.Timestamp,
		Kind:       string(sample.Source),
		Label:      sample.Label,
		Confidence: sample.Confidence,
		Sentiment:  sample.Sentiment,
		Mode:       string(mode),
	}
}

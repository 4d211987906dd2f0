package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"engagemon/internal/modules/sensing/domain"
	sensingout "engagemon/internal/modules/sensing/port/out"
	apperrors "engagemon/internal/platform/errors"
)

// SensingService resolves each kind to its real source when one can be
// opened and substitutes the simulated source otherwise, per tick.
type SensingService struct {
	logger    hclog.Logger
	simulated map[domain.Kind]sensingout.Source
	factory   sensingout.Factory

	mu      sync.Mutex
	primary map[domain.Kind]sensingout.Source
	modes   map[domain.Kind]domain.Mode
	reasons map[domain.Kind]string
	warned  map[string]struct{}
}

// NewSensingService builds the service. A nil factory selects simulated
// sources for every kind.
func NewSensingService(logger hclog.Logger, simulated map[domain.Kind]sensingout.Source, factory sensingout.Factory) *SensingService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	modes := map[domain.Kind]domain.Mode{}
	for kind := range simulated {
		modes[kind] = domain.ModeSimulated
	}
	return &SensingService{
		logger:    logger,
		simulated: simulated,
		factory:   factory,
		primary:   map[domain.Kind]sensingout.Source{},
		modes:     modes,
		reasons:   map[domain.Kind]string{},
		warned:    map[string]struct{}{},
	}
}

// Open tries the real source of every kind. Unavailable sources are logged
// once and left on the simulated fallback; Open itself only fails on a
// cancelled context.
func (s *SensingService) Open(ctx context.Context) error {
	if s.factory == nil {
		s.logger.Info("using simulated sample sources")
		return nil
	}
	for _, kind := range domain.Kinds {
		if err := ctx.Err(); err != nil {
			return err
		}
		src, err := s.factory(ctx, kind)
		if err != nil {
			s.markFallback(kind, err)
			continue
		}
		s.mu.Lock()
		s.primary[kind] = src
		s.modes[kind] = domain.ModeReal
		delete(s.reasons, kind)
		s.mu.Unlock()
		s.logger.Info("real sample source ready", "kind", kind)
	}
	return nil
}

// Sample returns a sample for kind and the mode that produced it.
func (s *SensingService) Sample(ctx context.Context, kind domain.Kind) (domain.Sample, domain.Mode, error) {
	if err := kind.Validate(); err != nil {
		return domain.Sample{}, "", fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	s.mu.Lock()
	primary := s.primary[kind]
	s.mu.Unlock()

	if primary != nil {
		sample, err := primary.Sample(ctx)
		if err == nil {
			err = sample.Validate()
		}
		if err == nil {
			s.setMode(kind, domain.ModeReal, "")
			return sample, domain.ModeReal, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Sample{}, "", ctxErr
		}
		s.markFallback(kind, err)
	}

	sim, ok := s.simulated[kind]
	if !ok {
		return domain.Sample{}, "", fmt.Errorf("%w: no simulated %s source", apperrors.ErrSourceUnavailable, kind)
	}
	sample, err := sim.Sample(ctx)
	if err != nil {
		return domain.Sample{}, "", fmt.Errorf("simulated %s sample: %w", kind, err)
	}
	return sample, s.Mode(kind), nil
}

// Mode reports where kind's samples currently come from.
func (s *SensingService) Mode(kind domain.Kind) domain.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.modes[kind]; ok {
		return m
	}
	return domain.ModeSimulated
}

// Reason is the last failure that pushed kind onto the fallback.
func (s *SensingService) Reason(kind domain.Kind) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reasons[kind]
}

func (s *SensingService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for kind, src := range s.primary {
		if err := src.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s source: %w", kind, err))
		}
		delete(s.primary, kind)
	}
	return errors.Join(errs...)
}

func (s *SensingService) markFallback(kind domain.Kind, err error) {
	s.setMode(kind, domain.ModeFallback, err.Error())
	key := string(kind) + "/error"
	msg := "sampling failed, substituting simulated samples"
	if errors.Is(err, apperrors.ErrSourceUnavailable) {
		key = string(kind) + "/unavailable"
		msg = "sample source unavailable, using simulated samples"
	}
	s.mu.Lock()
	_, seen := s.warned[key]
	s.warned[key] = struct{}{}
	s.mu.Unlock()
	if seen {
		s.logger.Trace(msg, "kind", kind, "error", err)
		return
	}
	s.logger.Warn(msg, "kind", kind, "error", err)
}

func (s *SensingService) setMode(kind domain.Kind, mode domain.Mode, reason string) {
	s.mu.Lock()
	s.modes[kind] = mode
	if reason != "" {
		s.reasons[kind] = reason
	}
	s.mu.Unlock()
}

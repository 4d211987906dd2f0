package service

import (
	"fmt"
	"time"

	"engagemon/internal/modules/analytics/domain"
	apperrors "engagemon/internal/platform/errors"
)

type AnalyticsService struct {
	params domain.Params
}

func NewAnalyticsService(params domain.Params) (*AnalyticsService, error) {
	if err := params.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConfigInvalid, err)
	}
	if params.Window < 0 {
		return nil, fmt.Errorf("%w: score window must be non-negative", apperrors.ErrConfigInvalid)
	}
	return &AnalyticsService{params: params}, nil
}

func (s *AnalyticsService) Params() domain.Params {
	return s.params
}

func (s *AnalyticsService) Compute(snapshot []domain.Observation) domain.Summary {
	return domain.Compute(snapshot, s.params)
}

func (s *AnalyticsService) Breakdown(snapshot []domain.Observation, interval time.Duration) domain.Breakdown {
	return domain.NewBreakdown(snapshot, s.params, interval)
}

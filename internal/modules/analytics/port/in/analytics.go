package in

import (
	"context"

	"engagemon/internal/modules/analytics/dto"
)

type Usecase interface {
	Compute(ctx context.Context, input dto.ComputeInput) (dto.SummaryOutput, error)
	Breakdown(ctx context.Context, input dto.ComputeInput) (dto.BreakdownOutput, error)
}

package in

import (
	"context"
	"time"

	analyticsdto "engagemon/internal/modules/analytics/dto"
	analyticsin "engagemon/internal/modules/analytics/port/in"
)

type CLIHandler struct {
	usecase analyticsin.Usecase
}

func NewCLIHandler(usecase analyticsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Summary(ctx context.Context, records []analyticsdto.Observation) (analyticsdto.SummaryOutput, error) {
	return h.usecase.Compute(ctx, analyticsdto.ComputeInput{Records: records})
}

func (h CLIHandler) Breakdown(ctx context.Context, records []analyticsdto.Observation, interval time.Duration) (analyticsdto.BreakdownOutput, error) {
	return h.usecase.Breakdown(ctx, analyticsdto.ComputeInput{Records: records, TickInterval: interval})
}

package usecase

import (
	"context"

	"engagemon/internal/modules/analytics/domain"
	analyticsdto "engagemon/internal/modules/analytics/dto"
	analyticsin "engagemon/internal/modules/analytics/port/in"
	"engagemon/internal/modules/analytics/service"
)

type Interactor struct {
	svc *service.AnalyticsService
}

func NewInteractor(svc *service.AnalyticsService) analyticsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Compute(_ context.Context, input analyticsdto.ComputeInput) (analyticsdto.SummaryOutput, error) {
	return toSummary(i.svc.Compute(toDomain(input.Records))), nil
}

func (i *Interactor) Breakdown(_ context.Context, input analyticsdto.ComputeInput) (analyticsdto.BreakdownOutput, error) {
	b := i.svc.Breakdown(toDomain(input.Records), input.TickInterval)
	out := analyticsdto.BreakdownOutput{
		Summary:      toSummary(b.Summary),
		Contexts:     toCounts(b.Contexts),
		Emotions:     toCounts(b.Emotions),
		ContextCross: toCross(b.ContextCross),
		EmotionCross: toCross(b.EmotionCross),
		SessionTime:  b.SessionTime,
	}
	for _, h := range b.Hourly {
		out.Hourly = append(out.Hourly, analyticsdto.HourOutput{Hour: h.Hour, Records: h.Records, Rate: h.Rate})
	}
	for _, o := range b.Recent {
		out.Recent = append(out.Recent, analyticsdto.Observation(o))
	}
	return out, nil
}

func toDomain(records []analyticsdto.Observation) []domain.Observation {
	out := make([]domain.Observation, len(records))
	for idx, r := range records {
		out[idx] = domain.Observation(r)
	}
	return out
}

func toSummary(s domain.Summary) analyticsdto.SummaryOutput {
	return analyticsdto.SummaryOutput(s)
}

func toCounts(counts []domain.Count) []analyticsdto.CountOutput {
	var out []analyticsdto.CountOutput
	for _, c := range counts {
		out = append(out, analyticsdto.CountOutput(c))
	}
	return out
}

func toCross(rows []domain.CrossRow) []analyticsdto.CrossOutput {
	var out []analyticsdto.CrossOutput
	for _, r := range rows {
		out = append(out, analyticsdto.CrossOutput(r))
	}
	return out
}

package in

import (
	"context"
	"time"

	sessiondto "engagemon/internal/modules/session/dto"
	sessionin "engagemon/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Collect(ctx context.Context) (sessiondto.CollectOutput, error) {
	return h.usecase.Collect(ctx)
}

func (h CLIHandler) Commit(ctx context.Context, collected sessiondto.CollectOutput) (sessiondto.TickOutput, error) {
	return h.usecase.Commit(ctx, collected)
}

func (h CLIHandler) Tick(ctx context.Context) (sessiondto.TickOutput, error) {
	return h.usecase.Tick(ctx)
}

func (h CLIHandler) Snapshot(ctx context.Context) ([]sessiondto.Record, error) {
	return h.usecase.Snapshot(ctx)
}

func (h CLIHandler) Current(ctx context.Context) (sessiondto.CurrentOutput, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) Report(ctx context.Context) (sessiondto.ReportOutput, error) {
	return h.usecase.Report(ctx)
}

func (h CLIHandler) Toggle(ctx context.Context, kind string, on bool) error {
	return h.usecase.Toggle(ctx, sessiondto.ToggleInput{Kind: kind, On: on})
}

func (h CLIHandler) Inject(ctx context.Context, kind, label string, confidence float64) error {
	return h.usecase.Inject(ctx, sessiondto.InjectInput{Kind: kind, Label: label, Confidence: confidence})
}

func (h CLIHandler) SetInterval(ctx context.Context, seconds int) error {
	return h.usecase.SetInterval(ctx, time.Duration(seconds)*time.Second)
}

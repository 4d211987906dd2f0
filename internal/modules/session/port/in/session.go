package in

import (
	"context"
	"time"

	"engagemon/internal/modules/session/dto"
)

type Usecase interface {
	Collect(ctx context.Context) (dto.CollectOutput, error)
	Commit(ctx context.Context, input dto.CollectOutput) (dto.TickOutput, error)
	Tick(ctx context.Context) (dto.TickOutput, error)
	Snapshot(ctx context.Context) ([]dto.Record, error)
	Current(ctx context.Context) (dto.CurrentOutput, error)
	Report(ctx context.Context) (dto.ReportOutput, error)
	Toggle(ctx context.Context, input dto.ToggleInput) error
	Inject(ctx context.Context, input dto.InjectInput) error
	SetInterval(ctx context.Context, interval time.Duration) error
}

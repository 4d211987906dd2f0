package in

import (
	"context"

	"engagemon/internal/modules/sensing/dto"
)

type Usecase interface {
	SampleAll(ctx context.Context, input dto.SampleAllInput) (dto.SampleAllOutput, error)
	Status(ctx context.Context) ([]dto.SourceStatus, error)
	Close() error
}

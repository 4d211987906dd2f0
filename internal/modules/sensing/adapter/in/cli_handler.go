package in

import (
	"context"

	sensingdto "engagemon/internal/modules/sensing/dto"
	sensingin "engagemon/internal/modules/sensing/port/in"
)

type CLIHandler struct {
	usecase sensingin.Usecase
}

func NewCLIHandler(usecase sensingin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) SampleAll(ctx context.Context, kinds ...string) (sensingdto.SampleAllOutput, error) {
	return h.usecase.SampleAll(ctx, sensingdto.SampleAllInput{Kinds: kinds})
}

func (h CLIHandler) Status(ctx context.Context) ([]sensingdto.SourceStatus, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Close() error {
	return h.usecase.Close()
}

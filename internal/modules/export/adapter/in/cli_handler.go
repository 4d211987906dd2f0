package in

import (
	"context"

	exportdto "engagemon/internal/modules/export/dto"
	exportin "engagemon/internal/modules/export/port/in"
)

type CLIHandler struct {
	usecase exportin.Usecase
}

func NewCLIHandler(usecase exportin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Export(ctx context.Context) (exportdto.ExportOutput, error) {
	return h.usecase.Export(ctx)
}

func (h CLIHandler) FromCSV(ctx context.Context, data []byte) ([]exportdto.Row, error) {
	return h.usecase.FromCSV(ctx, data)
}

package in

import (
	"context"

	"engagemon/internal/modules/export/dto"
)

type Usecase interface {
	// Export writes the current session snapshot to a CSV file.
	Export(ctx context.Context) (dto.ExportOutput, error)
	ToCSV(ctx context.Context, rows []dto.Row) ([]byte, error)
	FromCSV(ctx context.Context, data []byte) ([]dto.Row, error)
}

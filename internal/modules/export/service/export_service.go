package service

import (
	"context"
	"errors"
	"fmt"

	hclog "github.com/hashicorp/go-hclog"

	"engagemon/internal/modules/export/domain"
	exportout "engagemon/internal/modules/export/port/out"
	"engagemon/internal/platform/clock"
	apperrors "engagemon/internal/platform/errors"
)

type ExportService struct {
	clock  clock.Clock
	writer exportout.Writer
	logger hclog.Logger
}

func NewExportService(clock clock.Clock, writer exportout.Writer, logger hclog.Logger) *ExportService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ExportService{clock: clock, writer: writer, logger: logger}
}

// Export encodes rows and writes them. Empty input writes nothing and
// returns ErrEmptyExport.
func (s *ExportService) Export(ctx context.Context, rows []domain.Row) (string, error) {
	data, err := domain.Encode(rows)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmptyExport) {
			s.logger.Info("export skipped, no records")
		}
		return "", err
	}
	path, err := s.writer.Write(ctx, domain.FileName(s.clock.Now()), data)
	if err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	s.logger.Info("session exported", "path", path, "rows", len(rows))
	return path, nil
}

func (s *ExportService) Encode(rows []domain.Row) ([]byte, error) {
	return domain.Encode(rows)
}

func (s *ExportService) Decode(data []byte) ([]domain.Row, error) {
	return domain.Decode(data)
}

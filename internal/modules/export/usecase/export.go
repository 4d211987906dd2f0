package usecase

import (
	"context"
	"fmt"

	"engagemon/internal/modules/export/domain"
	exportdto "engagemon/internal/modules/export/dto"
	exportin "engagemon/internal/modules/export/port/in"
	"engagemon/internal/modules/export/service"
	sessionin "engagemon/internal/modules/session/port/in"
)

type Interactor struct {
	svc     *service.ExportService
	session sessionin.Usecase
}

func NewInteractor(svc *service.ExportService, session sessionin.Usecase) exportin.Usecase {
	return &Interactor{svc: svc, session: session}
}

func (i *Interactor) Export(ctx context.Context) (exportdto.ExportOutput, error) {
	if i.session == nil {
		return exportdto.ExportOutput{}, fmt.Errorf("session usecase is not configured")
	}
	records, err := i.session.Snapshot(ctx)
	if err != nil {
		return exportdto.ExportOutput{}, err
	}
	rows := make([]domain.Row, len(records))
	for idx, r := range records {
		rows[idx] = domain.Row{
			Timestamp:         r.Timestamp,
			Emotion:           r.Emotion,
			Engagement:        r.Engagement,
			Context:           r.Context,
			Sentiment:         r.Sentiment,
			ProductivityScore: r.ProductivityScore,
		}
	}
	path, err := i.svc.Export(ctx, rows)
	if err != nil {
		return exportdto.ExportOutput{}, err
	}
	return exportdto.ExportOutput{Path: path, Rows: len(rows)}, nil
}

func (i *Interactor) ToCSV(_ context.Context, rows []exportdto.Row) ([]byte, error) {
	in := make([]domain.Row, len(rows))
	for idx, r := range rows {
		in[idx] = domain.Row(r)
	}
	return i.svc.Encode(in)
}

func (i *Interactor) FromCSV(_ context.Context, data []byte) ([]exportdto.Row, error) {
	rows, err := i.svc.Decode(data)
	if err != nil {
		return nil, err
	}
	out := make([]exportdto.Row, len(rows))
	for idx, r := range rows {
		out[idx] = exportdto.Row(r)
	}
	return out, nil
}

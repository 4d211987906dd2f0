package out

import (
	"context"

	"engagemon/internal/modules/sensing/domain"
)

// Source produces samples of a single kind. Implementations report
// apperrors.ErrSourceUnavailable when the underlying sensor cannot serve.
type Source interface {
	Kind() domain.Kind
	Sample(ctx context.Context) (domain.Sample, error)
	Close() error
}

// Factory opens the real source for a kind, checking its capabilities first.
type Factory func(ctx context.Context, kind domain.Kind) (Source, error)

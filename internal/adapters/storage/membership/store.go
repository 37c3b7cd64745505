package membership

import (
	"context"

	domain "clubhouse/internal/domain/membership"
)

// Store persists membership Applications. Applications are append-only.
type Store interface {
	Create(ctx context.Context, value domain.Application) error
	List(ctx context.Context, filter ListFilter) ([]domain.Application, error)
	Count(ctx context.Context) (int, error)
}

// ListFilter carries paging parameters. Results are ordered newest first.
type ListFilter struct {
	Limit  int
	Offset int
}

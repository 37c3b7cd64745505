package contact

import (
	"context"

	domain "clubhouse/internal/domain/contact"
)

// Store persists contact Message state.
// Status and notes have separate single-column writers so that saving one
// never overwrites a concurrent change to the other.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Message, error)
	Create(ctx context.Context, value domain.Message) error
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateNotes(ctx context.Context, id, notes string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Message, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter carries filtering parameters for List operations.
// Results are always ordered by created_at descending.
type ListFilter struct {
	Status string
	Limit  int
	Offset int
}

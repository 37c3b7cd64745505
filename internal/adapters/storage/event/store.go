package event

import (
	"context"
	"time"

	domain "clubhouse/internal/domain/event"
)

// Store persists Event state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Event, error)
	Save(ctx context.Context, value domain.Event) error
	UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Event, error)
	ListFestivals(ctx context.Context) ([]string, error)
}

// ListFilter carries filtering parameters for List operations.
// Results are always ordered by event_date ascending.
type ListFilter struct {
	Status   string
	Festival string
	From     time.Time // zero means no lower bound
	Limit    int
	Offset   int
}

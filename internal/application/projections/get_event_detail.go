package projections

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrEventNotFound is returned for unknown, unpublished and hidden events.
var ErrEventNotFound = errors.New("event not found")

// EventDetailDeps holds dependencies for EventDetail.
type EventDetailDeps struct {
	EventStore EventStore
	Venue      *time.Location
}

// QueryEventDetail returns one public event.
// POST: drafts, cancelled and hidden events yield ErrEventNotFound
func QueryEventDetail(ctx context.Context, id string, deps EventDetailDeps) (EventView, error) {
	e, err := deps.EventStore.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return EventView{}, ErrEventNotFound
	}
	if err != nil {
		return EventView{}, err
	}
	if !e.IsPublished() || e.IsHidden() {
		return EventView{}, ErrEventNotFound
	}
	return NewEventView(e, deps.Venue), nil
}

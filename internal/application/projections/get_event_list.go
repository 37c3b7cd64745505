package projections

import (
	"context"
	"slices"
	"strings"
	"time"

	"clubhouse/internal/adapters/storage/event"
	domainEvent "clubhouse/internal/domain/event"
)

// EventListQuery carries query parameters.
type EventListQuery struct {
	Festival     string
	UpcomingOnly bool // drop events that started before now
}

// EventListResult carries the query result.
type EventListResult struct {
	Events    []EventView
	Festival  string
	Festivals []string
}

// EventListDeps holds dependencies for EventList.
type EventListDeps struct {
	EventStore EventStore
	Venue      *time.Location
	Now        func() time.Time
}

// QueryEventList returns the published events shown on the public site.
// PRE: Venue is non-nil
// POST: Events are published, ordered by event date ascending
// INVARIANT: an event titled exactly domainEvent.HiddenTitle is never returned
func QueryEventList(ctx context.Context, query EventListQuery, deps EventListDeps) (EventListResult, error) {
	festival := strings.ToLower(strings.TrimSpace(query.Festival))
	filter := event.ListFilter{Status: domainEvent.StatusPublished, Festival: festival}
	if query.UpcomingOnly {
		filter.From = deps.Now().Add(-6 * time.Hour)
	}
	events, err := deps.EventStore.List(ctx, filter)
	if err != nil {
		return EventListResult{}, err
	}

	visible := make([]domainEvent.Event, 0, len(events))
	for _, e := range events {
		if e.IsHidden() || !e.IsPublished() {
			continue
		}
		visible = append(visible, e)
	}
	slices.SortStableFunc(visible, func(a, b domainEvent.Event) int {
		return a.EventDate.Compare(b.EventDate)
	})

	festivals, err := deps.EventStore.ListFestivals(ctx)
	if err != nil {
		return EventListResult{}, err
	}

	result := EventListResult{Festival: festival, Festivals: festivals, Events: make([]EventView, 0, len(visible))}
	for _, e := range visible {
		result.Events = append(result.Events, NewEventView(e, deps.Venue))
	}
	return result, nil
}

package projections

import (
	"context"
	"time"

	"clubhouse/internal/adapters/storage/event"
	domainEvent "clubhouse/internal/domain/event"
)

// EventForm is the state of the admin create/edit form.
type EventForm struct {
	ID          string
	Title       string
	Description string
	EventDate   string // datetime-local, venue zone
	Location    string
	Status      string
	ImageURL    string
	TicketPrice string
	TicketsURL  string
	Festival    string
}

// AdminEventsQuery carries query parameters.
type AdminEventsQuery struct {
	EditID string
}

// AdminEventsResult carries the query result.
type AdminEventsResult struct {
	Events   []EventView
	Form     EventForm
	Editing  bool
	Statuses []string
}

// AdminEventsDeps holds dependencies for AdminEvents.
type AdminEventsDeps struct {
	EventStore EventStore
	Venue      *time.Location
}

// QueryAdminEvents lists every event, hidden ones included, and prefills the
// form when EditID names an existing event.
// POST: an unknown EditID yields an empty create form rather than an error
func QueryAdminEvents(ctx context.Context, query AdminEventsQuery, deps AdminEventsDeps) (AdminEventsResult, error) {
	events, err := deps.EventStore.List(ctx, event.ListFilter{})
	if err != nil {
		return AdminEventsResult{}, err
	}
	result := AdminEventsResult{
		Events:   make([]EventView, 0, len(events)),
		Form:     EventForm{Status: domainEvent.StatusDraft},
		Statuses: domainEvent.ValidStatuses,
	}
	for _, e := range events {
		result.Events = append(result.Events, NewEventView(e, deps.Venue))
		if query.EditID != "" && e.ID == query.EditID {
			result.Form = FormFromEvent(e, deps.Venue)
			result.Editing = true
		}
	}
	return result, nil
}

// FormFromEvent converts a stored event back into form values in the venue zone.
func FormFromEvent(e domainEvent.Event, loc *time.Location) EventForm {
	price := ""
	if e.TicketPrice.Valid {
		price = e.TicketPrice.Decimal.String()
	}
	return EventForm{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		EventDate:   domainEvent.FormatVenueTime(e.EventDate, loc),
		Location:    e.Location,
		Status:      e.Status,
		ImageURL:    e.ImageURL,
		TicketPrice: price,
		TicketsURL:  e.TicketsURL,
		Festival:    e.Festival,
	}
}

package projections

import (
	"time"

	domainEvent "clubhouse/internal/domain/event"
)

// displayLayout renders event dates on cards and in the modal.
const displayLayout = "Mon 2 Jan 2006, 15:04"

// EventView is an event prepared for the public pages.
type EventView struct {
	domainEvent.Event
	When        string // venue wall-clock, e.g. "Sun 21 Jun 2026, 20:00"
	DateInput   string // datetime-local value in the venue zone
	AspectClass string
	Price       string // empty when the event has no price
}

// NewEventView formats e for display in loc.
func NewEventView(e domainEvent.Event, loc *time.Location) EventView {
	return EventView{
		Event:       e,
		When:        e.EventDate.In(loc).Format(displayLayout),
		DateInput:   domainEvent.FormatVenueTime(e.EventDate, loc),
		AspectClass: e.ImageAspect.CSSClass(),
		Price:       e.PriceLabel(),
	}
}

package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"clubhouse/internal/domain/audit"
	"clubhouse/internal/domain/event"
)

// EventStoreForOrchestrator defines the store interface needed by event orchestrators.
type EventStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (event.Event, error)
	Save(ctx context.Context, e event.Event) error
	UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// ImageStore saves and removes uploaded event images.
type ImageStore interface {
	SaveImage(src io.Reader) (string, error)
	Remove(publicPath string) error
}

// ImageProber classifies an image reference into an aspect bucket.
type ImageProber interface {
	Aspect(ctx context.Context, ref string) event.Aspect
}

// --- Save Event ---

// ErrImageNotOwned is returned when an event names an uploaded image it did not upload itself.
var ErrImageNotOwned = errors.New("uploaded images can only be attached by uploading them")

// SaveEventInput carries the admin event form. An empty ID creates a new event.
type SaveEventInput struct {
	ID          string
	Title       string
	Description string
	EventDate   string // datetime-local value, venue wall-clock
	Location    string
	Status      string
	ImageURL    string
	Image       io.Reader // optional upload; replaces ImageURL
	TicketPrice string
	TicketsURL  string
	Festival    string
	Actor       Actor
}

// SaveEventDeps holds dependencies for SaveEvent.
type SaveEventDeps struct {
	EventStore EventStoreForOrchestrator
	Images     ImageStore  // nil disables uploads
	Prober     ImageProber // nil stores the standard bucket
	Audit      AuditDeps
	Venue      *time.Location
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteSaveEvent creates or updates an event from the admin form.
// PRE: EventDate is a datetime-local value in the venue zone
// POST: Event persisted with EventDate in UTC and ImageAspect set from the image
// INVARIANT: an update keeps CreatedAt; an unchanged image keeps its stored aspect
// INVARIANT: an uploaded image belongs to exactly one event, so a replaced upload is removed
func ExecuteSaveEvent(ctx context.Context, input SaveEventInput, deps SaveEventDeps) (event.Event, error) {
	date, err := event.ParseVenueTime(input.EventDate, deps.Venue)
	if err != nil {
		return event.Event{}, err
	}
	price, err := event.ParsePrice(input.TicketPrice)
	if err != nil {
		return event.Event{}, err
	}

	now := deps.Now()
	var e event.Event
	creating := input.ID == ""
	if creating {
		e = event.Event{ID: deps.GenerateID(), CreatedAt: now, Status: event.StatusDraft}
	} else {
		e, err = deps.EventStore.GetByID(ctx, input.ID)
		if err != nil {
			return event.Event{}, fmt.Errorf("load event %s: %w", input.ID, err)
		}
	}
	previousImage := e.ImageURL

	e.Title = strings.TrimSpace(input.Title)
	e.Description = input.Description
	e.EventDate = date
	e.Location = strings.TrimSpace(input.Location)
	if input.Status != "" {
		e.Status = input.Status
	}
	e.ImageURL = strings.TrimSpace(input.ImageURL)
	e.TicketPrice = price
	e.TicketsURL = strings.TrimSpace(input.TicketsURL)
	e.Festival = strings.ToLower(strings.TrimSpace(input.Festival))
	e.UpdatedAt = now

	if err := e.Validate(); err != nil {
		return event.Event{}, err
	}
	if event.IsUploadPath(e.ImageURL) && e.ImageURL != previousImage {
		return event.Event{}, ErrImageNotOwned
	}

	uploaded := ""
	if input.Image != nil && deps.Images != nil {
		path, err := deps.Images.SaveImage(input.Image)
		if err != nil {
			return event.Event{}, err
		}
		e.ImageURL = path
		uploaded = path
	}

	switch {
	case e.ImageURL == "":
		e.ImageAspect = event.AspectStandard
	case e.ImageURL != previousImage || e.ImageAspect == "":
		e.ImageAspect = event.AspectStandard
		if deps.Prober != nil {
			e.ImageAspect = deps.Prober.Aspect(ctx, e.ImageURL)
		}
	}

	if err := deps.EventStore.Save(ctx, e); err != nil {
		if uploaded != "" {
			removeImage(deps.Images, e.ID, uploaded)
		}
		return event.Event{}, fmt.Errorf("save event: %w", err)
	}
	if event.IsUploadPath(previousImage) && previousImage != e.ImageURL && deps.Images != nil {
		removeImage(deps.Images, e.ID, previousImage)
	}

	action := audit.ActionUpdate
	if creating {
		action = audit.ActionCreate
	}
	slog.Info("event_admin", "event", string(action), "event_id", e.ID, "status", e.Status, "aspect", string(e.ImageAspect))
	RecordAudit(ctx, input.Actor, AuditEntry{
		Category: audit.CategoryEvent, Action: action,
		ResourceType: "event", ResourceID: e.ID, Description: e.Title,
	}, deps.Audit)
	return e, nil
}

// --- Change Event Status ---

// ChangeEventStatusInput carries input for the inline status selector.
type ChangeEventStatusInput struct {
	ID     string
	Status string
	Actor  Actor
}

// ChangeEventStatusDeps holds dependencies for ChangeEventStatus.
type ChangeEventStatusDeps struct {
	EventStore EventStoreForOrchestrator
	Audit      AuditDeps
	Now        func() time.Time
}

// ExecuteChangeEventStatus sets an event's status without touching other fields.
// Any status may follow any other.
// PRE: Status is one of event.ValidStatuses
// POST: only status and updated_at change
func ExecuteChangeEventStatus(ctx context.Context, input ChangeEventStatusInput, deps ChangeEventStatusDeps) error {
	if !event.IsValidStatus(input.Status) {
		return event.ErrInvalidStatus
	}
	if err := deps.EventStore.UpdateStatus(ctx, input.ID, input.Status, deps.Now()); err != nil {
		return fmt.Errorf("update event status: %w", err)
	}
	slog.Info("event_admin", "event", "status_change", "event_id", input.ID, "status", input.Status)
	RecordAudit(ctx, input.Actor, AuditEntry{
		Category: audit.CategoryEvent, Action: audit.ActionStatusChange,
		ResourceType: "event", ResourceID: input.ID, Description: "status set to " + input.Status,
	}, deps.Audit)
	return nil
}

// --- Delete Event ---

// DeleteEventInput carries input for the delete confirmation step.
type DeleteEventInput struct {
	ID        string
	Confirmed bool
	Actor     Actor
}

// DeleteEventDeps holds dependencies for DeleteEvent.
type DeleteEventDeps struct {
	EventStore EventStoreForOrchestrator
	Images     ImageStore
	Audit      AuditDeps
}

// ExecuteDeleteEvent removes an event once the admin has confirmed.
// POST: returns false and leaves the record unchanged when not confirmed
func ExecuteDeleteEvent(ctx context.Context, input DeleteEventInput, deps DeleteEventDeps) (bool, error) {
	if !input.Confirmed {
		return false, nil
	}
	e, err := deps.EventStore.GetByID(ctx, input.ID)
	if err != nil {
		return false, fmt.Errorf("load event %s: %w", input.ID, err)
	}
	if err := deps.EventStore.Delete(ctx, input.ID); err != nil {
		return false, fmt.Errorf("delete event: %w", err)
	}
	if deps.Images != nil && event.IsUploadPath(e.ImageURL) {
		removeImage(deps.Images, e.ID, e.ImageURL)
	}
	slog.Info("event_admin", "event", "delete", "event_id", e.ID)
	RecordAudit(ctx, input.Actor, AuditEntry{
		Category: audit.CategoryEvent, Action: audit.ActionDelete,
		ResourceType: "event", ResourceID: e.ID, Description: e.Title,
	}, deps.Audit)
	return true, nil
}

// removeImage deletes an upload no event refers to any more. A failure leaves an orphan file.
func removeImage(images ImageStore, eventID, ref string) {
	if err := images.Remove(ref); err != nil {
		slog.Warn("event_image_remove_failed", "event_id", eventID, "image_url", ref, "error", err)
	}
}

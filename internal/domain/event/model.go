package event

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Event statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusCancelled = "cancelled"
)

// HiddenTitle is never shown in public listings, whatever its status or festival.
const HiddenTitle = "Grendedag"

// Max length constants for admin-editable fields.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
	MaxLocationLength    = 200
	MaxURLLength         = 2048
	MaxFestivalLength    = 64
)

// ValidStatuses contains all valid event statuses.
var ValidStatuses = []string{StatusDraft, StatusPublished, StatusCancelled}

// Domain errors
var (
	ErrEmptyTitle       = errors.New("event title cannot be empty")
	ErrTitleTooLong     = errors.New("event title cannot exceed 200 characters")
	ErrMissingDate      = errors.New("event date is required")
	ErrInvalidStatus    = errors.New("event status must be one of: draft, published, cancelled")
	ErrDescriptionLong  = errors.New("event description cannot exceed 5000 characters")
	ErrLocationTooLong  = errors.New("event location cannot exceed 200 characters")
	ErrNegativePrice    = errors.New("ticket price cannot be negative")
	ErrInvalidPrice     = errors.New("ticket price must be a number")
	ErrInvalidImageURL  = errors.New("image URL must be an http(s) URL or an uploaded image path")
	ErrInvalidTicketURL = errors.New("tickets URL must be an http(s) URL")
	ErrFestivalTooLong  = errors.New("festival tag cannot exceed 64 characters")
)

// Event is a club concert or happening shown on the public site.
// Description supports Markdown. TicketPrice is null when the event has no price (free or TBA).
type Event struct {
	ID          string
	Title       string
	Description string
	EventDate   time.Time // stored and compared in UTC
	Location    string
	Status      string
	ImageURL    string
	ImageAspect Aspect
	TicketPrice decimal.NullDecimal
	TicketsURL  string
	Festival    string // empty when the event is not part of a festival
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks if the Event has valid data.
// PRE: Event struct is populated
// POST: Returns nil if valid, the first violated rule otherwise
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if len(e.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if e.EventDate.IsZero() {
		return ErrMissingDate
	}
	if !IsValidStatus(e.Status) {
		return ErrInvalidStatus
	}
	if len(e.Description) > MaxDescriptionLength {
		return ErrDescriptionLong
	}
	if len(e.Location) > MaxLocationLength {
		return ErrLocationTooLong
	}
	if e.TicketPrice.Valid && e.TicketPrice.Decimal.IsNegative() {
		return ErrNegativePrice
	}
	if e.ImageURL != "" && !IsUploadPath(e.ImageURL) && !isHTTPURL(e.ImageURL) {
		return ErrInvalidImageURL
	}
	if e.TicketsURL != "" && !isHTTPURL(e.TicketsURL) {
		return ErrInvalidTicketURL
	}
	if len(e.Festival) > MaxFestivalLength {
		return ErrFestivalTooLong
	}
	return nil
}

// SetStatus moves the event to any valid status. There is no enforced ordering:
// a cancelled event can go straight back to draft or published.
// PRE: status is one of ValidStatuses
// POST: Status and UpdatedAt are set
func (e *Event) SetStatus(status string, now time.Time) error {
	if !IsValidStatus(status) {
		return ErrInvalidStatus
	}
	e.Status = status
	e.UpdatedAt = now
	return nil
}

// IsPublished returns true if the event is visible on the public site.
// INVARIANT: Status field is not mutated
func (e *Event) IsPublished() bool {
	return e.Status == StatusPublished
}

// IsHidden reports whether the event must be left out of public listings.
func (e *Event) IsHidden() bool {
	return e.Title == HiddenTitle
}

// HasPrice returns true when a ticket price is set.
func (e *Event) HasPrice() bool {
	return e.TicketPrice.Valid
}

// PriceLabel formats the ticket price for display, e.g. "250" or "99.50".
func (e *Event) PriceLabel() string {
	if !e.TicketPrice.Valid {
		return ""
	}
	if e.TicketPrice.Decimal.IsInteger() {
		return e.TicketPrice.Decimal.StringFixed(0)
	}
	return e.TicketPrice.Decimal.StringFixed(2)
}

// IsValidStatus returns true if s is one of the event statuses.
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ParsePrice parses an admin-entered price. Empty input means "no price".
// Both "99.50" and "99,50" are accepted.
func ParsePrice(raw string) (decimal.NullDecimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
	if err != nil {
		return decimal.NullDecimal{}, ErrInvalidPrice
	}
	if d.IsNegative() {
		return decimal.NullDecimal{}, ErrNegativePrice
	}
	return decimal.NewNullDecimal(d), nil
}

// UploadPrefix is the path prefix of images uploaded through the event form.
const UploadPrefix = "/uploads/"

// IsUploadPath reports whether ref points at an uploaded image rather than a remote URL.
func IsUploadPath(ref string) bool {
	return strings.HasPrefix(ref, UploadPrefix)
}

func isHTTPURL(raw string) bool {
	if len(raw) > MaxURLLength {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

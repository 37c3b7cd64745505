package contact

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Message statuses
const (
	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Max length constants for visitor-supplied fields.
const (
	MaxNameLength    = 100
	MaxEmailLength   = 254
	MaxMessageLength = 5000
	MaxNotesLength   = 5000
)

// ValidStatuses contains all valid message statuses.
var ValidStatuses = []string{StatusNew, StatusInProgress, StatusCompleted}

// Domain errors
var (
	ErrEmptyName      = errors.New("name cannot be empty")
	ErrNameTooLong    = errors.New("name cannot exceed 100 characters")
	ErrInvalidEmail   = errors.New("email must contain '@'")
	ErrEmptyMessage   = errors.New("message cannot be empty")
	ErrMessageTooLong = errors.New("message cannot exceed 5000 characters")
	ErrNotesTooLong   = errors.New("admin notes cannot exceed 5000 characters")
	ErrInvalidStatus  = errors.New("message status must be one of: new, in_progress, completed")
)

// Message is a note left through the public contact form.
// AdminNotes is only ever shown in the admin panel.
type Message struct {
	ID         string
	Name       string
	Email      string
	Message    string
	AdminNotes string
	Status     string
	CreatedAt  time.Time
}

// Validate checks if the Message has valid data.
// PRE: Message struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Message) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if len(m.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(m.Email) > MaxEmailLength || !strings.Contains(m.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(m.Message) == "" {
		return ErrEmptyMessage
	}
	if len(m.Message) > MaxMessageLength {
		return ErrMessageTooLong
	}
	if len(m.AdminNotes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	if !IsValidStatus(m.Status) {
		return ErrInvalidStatus
	}
	if m.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}

// SetStatus moves the message to any status; transitions are not ordered.
// PRE: status is one of ValidStatuses
// POST: Status is set, AdminNotes untouched
func (m *Message) SetStatus(status string) error {
	if !IsValidStatus(status) {
		return ErrInvalidStatus
	}
	m.Status = status
	return nil
}

// SetNotes replaces the admin notes.
// POST: AdminNotes is set, Status untouched
func (m *Message) SetNotes(notes string) error {
	if len(notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	m.AdminNotes = notes
	return nil
}

// IsNew returns true if nobody has picked up the message yet.
// INVARIANT: Status field is not mutated
func (m *Message) IsNew() bool {
	return m.Status == StatusNew
}

// ReplySubject is the subject line prefilled for replies.
func ReplySubject(clubName string) string {
	if clubName == "" {
		return "Re: your message"
	}
	return "Re: " + clubName
}

// ReplyMailto builds the mailto: link that opens the admin's mail client
// with the sender as recipient and a prefilled subject.
// Spaces are encoded as %20, mail clients do not all decode '+'.
func (m *Message) ReplyMailto(clubName string) string {
	q := url.Values{}
	q.Set("subject", ReplySubject(clubName))
	query := strings.ReplaceAll(q.Encode(), "+", "%20")
	return "mailto:" + url.PathEscape(m.Email) + "?" + query
}

// IsValidStatus returns true if s is one of the message statuses.
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

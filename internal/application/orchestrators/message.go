package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"clubhouse/internal/adapters/email"
	"clubhouse/internal/domain/audit"
	"clubhouse/internal/domain/contact"
	"clubhouse/internal/metrics"
)

// MessageStoreForOrchestrator defines the store interface needed by contact message orchestrators.
type MessageStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (contact.Message, error)
	Create(ctx context.Context, m contact.Message) error
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateNotes(ctx context.Context, id, notes string) error
	Delete(ctx context.Context, id string) error
}

// ErrEmptyReply is returned when the admin submits a reply without text.
var ErrEmptyReply = errors.New("reply text cannot be empty")

// --- Submit Contact Message ---

// SubmitContactMessageInput carries the public contact form.
type SubmitContactMessageInput struct {
	Name    string
	Email   string
	Message string
}

// SubmitContactMessageDeps holds dependencies for SubmitContactMessage.
type SubmitContactMessageDeps struct {
	MessageStore MessageStoreForOrchestrator
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteSubmitContactMessage stores a message from a visitor.
// PRE: Name, Email and Message are non-empty; Email contains '@'
// POST: Message stored with status new and no admin notes
func ExecuteSubmitContactMessage(ctx context.Context, input SubmitContactMessageInput, deps SubmitContactMessageDeps) (contact.Message, error) {
	m := contact.Message{
		ID:        deps.GenerateID(),
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Message:   strings.TrimSpace(input.Message),
		Status:    contact.StatusNew,
		CreatedAt: deps.Now(),
	}
	if err := m.Validate(); err != nil {
		return contact.Message{}, err
	}
	if err := deps.MessageStore.Create(ctx, m); err != nil {
		return contact.Message{}, fmt.Errorf("create contact message: %w", err)
	}
	metrics.ContactMessages.Inc()
	slog.Info("contact_message_received", "message_id", m.ID)
	return m, nil
}

// --- Update Message Status ---

// UpdateMessageStatusInput carries the status selector.
type UpdateMessageStatusInput struct {
	ID     string
	Status string
	Actor  Actor
}

// MessageAdminDeps holds dependencies shared by the admin message orchestrators.
type MessageAdminDeps struct {
	MessageStore MessageStoreForOrchestrator
	Audit        AuditDeps
}

// ExecuteUpdateMessageStatus sets a message's status. Any status may follow any other.
// POST: only the status column is written; admin notes are untouched
func ExecuteUpdateMessageStatus(ctx context.Context, input UpdateMessageStatusInput, deps MessageAdminDeps) error {
	if !contact.IsValidStatus(input.Status) {
		return contact.ErrInvalidStatus
	}
	if err := deps.MessageStore.UpdateStatus(ctx, input.ID, input.Status); err != nil {
		return fmt.Errorf("update message status: %w", err)
	}
	RecordAudit(ctx, input.Actor, AuditEntry{
		Category: audit.CategoryMessage, Action: audit.ActionStatusChange,
		ResourceType: "contact_message", ResourceID: input.ID, Description: "status set to " + input.Status,
	}, deps.Audit)
	return nil
}

// --- Save Message Notes ---

// SaveMessageNotesInput carries the notes buffer.
type SaveMessageNotesInput struct {
	ID    string
	Notes string
	Actor Actor
}

// ExecuteSaveMessageNotes replaces a message's admin notes.
// POST: only the notes column is written; status is untouched
func ExecuteSaveMessageNotes(ctx context.Context, input SaveMessageNotesInput, deps MessageAdminDeps) error {
	notes := strings.TrimSpace(input.Notes)
	if len(notes) > contact.MaxNotesLength {
		return contact.ErrNotesTooLong
	}
	if err := deps.MessageStore.UpdateNotes(ctx, input.ID, notes); err != nil {
		return fmt.Errorf("update message notes: %w", err)
	}
	RecordAudit(ctx, input.Actor, AuditEntry{
		Category: audit.CategoryMessage, Action: audit.ActionUpdate,
		ResourceType: "contact_message", ResourceID: input.ID, Description: "notes saved",
	}, deps.Audit)
	return nil
}

// --- Delete Message ---

// DeleteMessageInput carries input for the delete confirmation step.
type DeleteMessageInput struct {
	ID        string
	Confirmed bool
	Actor     Actor
}

// ExecuteDeleteMessage removes a message once the admin has confirmed.
// POST: returns false and leaves the record unchanged when not confirmed
func ExecuteDeleteMessage(ctx context.Context, input DeleteMessageInput, deps MessageAdminDeps) (bool, error) {
	if !input.Confirmed {
		return false, nil
	}
	if err := deps.MessageStore.Delete(ctx, input.ID); err != nil {
		return false, fmt.Errorf("delete message: %w", err)
	}
	RecordAudit(ctx, input.Actor, AuditEntry{
		Category: audit.CategoryMessage, Action: audit.ActionDelete,
		ResourceType: "contact_message", ResourceID: input.ID,
	}, deps.Audit)
	return true, nil
}

// --- Reply To Message ---

// ReplyToMessageInput carries the in-panel reply form.
type ReplyToMessageInput struct {
	ID    string
	Body  string
	Actor Actor
}

// ReplyToMessageDeps holds dependencies for ReplyToMessage.
type ReplyToMessageDeps struct {
	MessageStore MessageStoreForOrchestrator
	Sender       email.Sender
	ClubName     string
	ReplyTo      string
	Audit        AuditDeps
}

// ExecuteReplyToMessage emails the visitor and moves a new message to in_progress.
// PRE: Body is non-empty
// POST: one email sent with Reply-To set to the club address
func ExecuteReplyToMessage(ctx context.Context, input ReplyToMessageInput, deps ReplyToMessageDeps) error {
	if strings.TrimSpace(input.Body) == "" {
		return ErrEmptyReply
	}
	m, err := deps.MessageStore.GetByID(ctx, input.ID)
	if err != nil {
		return fmt.Errorf("load message %s: %w", input.ID, err)
	}
	req, err := email.Reply(m.Email, m.Name, contact.ReplySubject(deps.ClubName), input.Body, m.Message, deps.ClubName, deps.ReplyTo)
	if err != nil {
		return fmt.Errorf("compose reply: %w", err)
	}
	_, err = deps.Sender.Send(ctx, req)
	metrics.CountEmail("reply", err)
	if err != nil {
		return fmt.Errorf("send reply: %w", err)
	}

	if m.IsNew() {
		if err := deps.MessageStore.UpdateStatus(ctx, m.ID, contact.StatusInProgress); err != nil {
			slog.Error("message_status_after_reply_failed", "message_id", m.ID, "error", err)
		}
	}
	slog.Info("contact_reply_sent", "message_id", m.ID)
	RecordAudit(ctx, input.Actor, AuditEntry{
		Category: audit.CategoryMessage, Action: audit.ActionReply,
		ResourceType: "contact_message", ResourceID: m.ID, Description: "reply sent to " + m.Email,
	}, deps.Audit)
	return nil
}

package contact_test

import (
	"strings"
	"testing"
	"time"

	"clubhouse/internal/domain/contact"
)

func validMessage() contact.Message {
	return contact.Message{
		ID:        "m1",
		Name:      "Kari Nordmann",
		Email:     "kari@example.no",
		Message:   "Har dere plass til et nytt band på neste jam?",
		Status:    contact.StatusNew,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// TestMessage_Validate tests validation of Message.
func TestMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *contact.Message)
		wantErr bool
	}{
		{"valid message", func(m *contact.Message) {}, false},
		{"empty name", func(m *contact.Message) { m.Name = "" }, true},
		{"email without at", func(m *contact.Message) { m.Email = "kari.example.no" }, true},
		{"blank message", func(m *contact.Message) { m.Message = "   " }, true},
		{"too long message", func(m *contact.Message) { m.Message = strings.Repeat("a", 5001) }, true},
		{"unknown status", func(m *contact.Message) { m.Status = "archived" }, true},
		{"zero created_at", func(m *contact.Message) { m.CreatedAt = time.Time{} }, true},
		{"notes allowed", func(m *contact.Message) { m.AdminNotes = "ringt tilbake" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMessage()
			tt.mutate(&m)
			err := m.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestMessage_StatusAndNotesIndependent verifies status and notes changes touch only their own field.
func TestMessage_StatusAndNotesIndependent(t *testing.T) {
	m := validMessage()
	m.AdminNotes = "first note"

	if err := m.SetStatus(contact.StatusCompleted); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if m.AdminNotes != "first note" {
		t.Errorf("SetStatus changed notes to %q", m.AdminNotes)
	}

	if err := m.SetNotes("second note"); err != nil {
		t.Fatalf("SetNotes: %v", err)
	}
	if m.Status != contact.StatusCompleted {
		t.Errorf("SetNotes changed status to %q", m.Status)
	}

	// completed straight back to new is allowed
	if err := m.SetStatus(contact.StatusNew); err != nil {
		t.Errorf("completed -> new: %v", err)
	}
	if err := m.SetStatus("spam"); err != contact.ErrInvalidStatus {
		t.Errorf("SetStatus(spam) = %v, want ErrInvalidStatus", err)
	}
}

// TestMessage_ReplyMailto tests the mailto link used by the reply action.
func TestMessage_ReplyMailto(t *testing.T) {
	m := validMessage()
	got := m.ReplyMailto("Musikklubben")
	want := "mailto:kari@example.no?subject=Re%3A%20Musikklubben"
	if got != want {
		t.Errorf("ReplyMailto() = %q, want %q", got, want)
	}

	if got := contact.ReplySubject(""); got != "Re: your message" {
		t.Errorf("ReplySubject(\"\") = %q", got)
	}
}

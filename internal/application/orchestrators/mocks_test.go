package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"clubhouse/internal/domain/account"
	"clubhouse/internal/domain/audit"
	"clubhouse/internal/domain/contact"
	"clubhouse/internal/domain/event"
	"clubhouse/internal/domain/membership"
)

var clock = time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

func testNow() time.Time { return clock }

// seqIDs returns a generator yielding id-1, id-2, ...
func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

type mockEventStore struct {
	events       map[string]event.Event
	saveErr      error
	statusWrites int
}

func newMockEventStore(events ...event.Event) *mockEventStore {
	m := &mockEventStore{events: make(map[string]event.Event)}
	for _, e := range events {
		m.events[e.ID] = e
	}
	return m
}

func (m *mockEventStore) GetByID(_ context.Context, id string) (event.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return event.Event{}, sql.ErrNoRows
	}
	return e, nil
}

func (m *mockEventStore) Save(_ context.Context, e event.Event) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.events[e.ID] = e
	return nil
}

func (m *mockEventStore) UpdateStatus(_ context.Context, id, status string, updatedAt time.Time) error {
	e, ok := m.events[id]
	if !ok {
		return sql.ErrNoRows
	}
	m.statusWrites++
	e.Status = status
	e.UpdatedAt = updatedAt
	m.events[id] = e
	return nil
}

func (m *mockEventStore) Delete(_ context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.events, id)
	return nil
}

type mockMessageStore struct {
	messages    map[string]contact.Message
	statusCalls int
	notesCalls  int
}

func newMockMessageStore(msgs ...contact.Message) *mockMessageStore {
	m := &mockMessageStore{messages: make(map[string]contact.Message)}
	for _, msg := range msgs {
		m.messages[msg.ID] = msg
	}
	return m
}

func (m *mockMessageStore) GetByID(_ context.Context, id string) (contact.Message, error) {
	msg, ok := m.messages[id]
	if !ok {
		return contact.Message{}, sql.ErrNoRows
	}
	return msg, nil
}

func (m *mockMessageStore) Create(_ context.Context, msg contact.Message) error {
	m.messages[msg.ID] = msg
	return nil
}

func (m *mockMessageStore) UpdateStatus(_ context.Context, id, status string) error {
	msg, ok := m.messages[id]
	if !ok {
		return sql.ErrNoRows
	}
	m.statusCalls++
	msg.Status = status
	m.messages[id] = msg
	return nil
}

func (m *mockMessageStore) UpdateNotes(_ context.Context, id, notes string) error {
	msg, ok := m.messages[id]
	if !ok {
		return sql.ErrNoRows
	}
	m.notesCalls++
	msg.AdminNotes = notes
	m.messages[id] = msg
	return nil
}

func (m *mockMessageStore) Delete(_ context.Context, id string) error {
	if _, ok := m.messages[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.messages, id)
	return nil
}

type mockMembershipStore struct {
	apps []membership.Application
	err  error
}

func (m *mockMembershipStore) Create(_ context.Context, a membership.Application) error {
	if m.err != nil {
		return m.err
	}
	m.apps = append(m.apps, a)
	return nil
}

type mockAccountStore struct {
	accounts  map[string]account.Account // keyed by email
	lookupErr error
}

func newMockAccountStore(accts ...account.Account) *mockAccountStore {
	m := &mockAccountStore{accounts: make(map[string]account.Account)}
	for _, a := range accts {
		m.accounts[a.Email] = a
	}
	return m
}

func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	if m.lookupErr != nil {
		return account.Account{}, m.lookupErr
	}
	a, ok := m.accounts[email]
	if !ok {
		return account.Account{}, fmt.Errorf("account not found: %w", sql.ErrNoRows)
	}
	return a, nil
}

func (m *mockAccountStore) GetByID(_ context.Context, id string) (account.Account, error) {
	for _, a := range m.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return account.Account{}, fmt.Errorf("account %s: %w", id, sql.ErrNoRows)
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.accounts[a.Email] = a
	return nil
}

type mockAuditStore struct {
	events []audit.Event
	err    error
}

func (m *mockAuditStore) Save(_ context.Context, e audit.Event) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func (m *mockAuditStore) actions() []audit.Action {
	out := make([]audit.Action, len(m.events))
	for i, e := range m.events {
		out[i] = e.Action
	}
	return out
}

func auditDeps(s *mockAuditStore) AuditDeps {
	return AuditDeps{Store: s, GenerateID: seqIDs(), Now: testNow}
}

type fakeProber struct {
	aspect event.Aspect
	calls  []string
}

func (p *fakeProber) Aspect(_ context.Context, ref string) event.Aspect {
	p.calls = append(p.calls, ref)
	return p.aspect
}

type fakeImages struct {
	saved   int
	removed []string
	err     error
}

func (f *fakeImages) SaveImage(src io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.ReadAll(src); err != nil {
		return "", err
	}
	f.saved++
	return fmt.Sprintf("/uploads/img-%d.png", f.saved), nil
}

func (f *fakeImages) Remove(publicPath string) error {
	f.removed = append(f.removed, publicPath)
	return nil
}

var errSendDown = errors.New("provider down")

package web

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"clubhouse/internal/adapters/email"
	"clubhouse/internal/adapters/http/middleware"
	auditStore "clubhouse/internal/adapters/storage/audit"
	contactStore "clubhouse/internal/adapters/storage/contact"
	eventStore "clubhouse/internal/adapters/storage/event"
	membershipStore "clubhouse/internal/adapters/storage/membership"
	"clubhouse/internal/config"
	accountDomain "clubhouse/internal/domain/account"
	auditDomain "clubhouse/internal/domain/audit"
	contactDomain "clubhouse/internal/domain/contact"
	eventDomain "clubhouse/internal/domain/event"
	membershipDomain "clubhouse/internal/domain/membership"
)

// --- Mock stores ---

type mockEventStore struct {
	mu     sync.Mutex
	events map[string]eventDomain.Event
	err    error
}

func (m *mockEventStore) GetByID(ctx context.Context, id string) (eventDomain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return eventDomain.Event{}, sql.ErrNoRows
}

func (m *mockEventStore) Save(ctx context.Context, e eventDomain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[e.ID] = e
	return nil
}

func (m *mockEventStore) UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return sql.ErrNoRows
	}
	e.Status = status
	e.UpdatedAt = updatedAt
	m.events[id] = e
	return nil
}

func (m *mockEventStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.events, id)
	return nil
}

func (m *mockEventStore) List(ctx context.Context, filter eventStore.ListFilter) ([]eventDomain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []eventDomain.Event
	for _, e := range m.events {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.Festival != "" && e.Festival != filter.Festival {
			continue
		}
		if !filter.From.IsZero() && e.EventDate.Before(filter.From) {
			continue
		}
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b eventDomain.Event) int { return a.EventDate.Compare(b.EventDate) })
	return out, nil
}

func (m *mockEventStore) ListFestivals(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []string
	for _, e := range m.events {
		if e.Festival != "" && e.IsPublished() && !slices.Contains(out, e.Festival) {
			out = append(out, e.Festival)
		}
	}
	slices.Sort(out)
	return out, nil
}

type mockMessageStore struct {
	mu       sync.Mutex
	messages map[string]contactDomain.Message
}

func (m *mockMessageStore) GetByID(ctx context.Context, id string) (contactDomain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg, ok := m.messages[id]; ok {
		return msg, nil
	}
	return contactDomain.Message{}, sql.ErrNoRows
}

func (m *mockMessageStore) Create(ctx context.Context, msg contactDomain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[msg.ID] = msg
	return nil
}

func (m *mockMessageStore) UpdateStatus(ctx context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[id]
	if !ok {
		return sql.ErrNoRows
	}
	msg.Status = status
	m.messages[id] = msg
	return nil
}

func (m *mockMessageStore) UpdateNotes(ctx context.Context, id, notes string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[id]
	if !ok {
		return sql.ErrNoRows
	}
	msg.AdminNotes = notes
	m.messages[id] = msg
	return nil
}

func (m *mockMessageStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.messages[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.messages, id)
	return nil
}

func (m *mockMessageStore) filtered(filter contactStore.ListFilter) []contactDomain.Message {
	var out []contactDomain.Message
	for _, msg := range m.messages {
		if filter.Status == "" || msg.Status == filter.Status {
			out = append(out, msg)
		}
	}
	slices.SortFunc(out, func(a, b contactDomain.Message) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (m *mockMessageStore) List(ctx context.Context, filter contactStore.ListFilter) ([]contactDomain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.filtered(filter)
	if filter.Limit > 0 {
		start := min(filter.Offset, len(out))
		out = out[start:min(start+filter.Limit, len(out))]
	}
	return out, nil
}

func (m *mockMessageStore) Count(ctx context.Context, filter contactStore.ListFilter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.filtered(filter)), nil
}

type mockMembershipStore struct {
	mu   sync.Mutex
	apps []membershipDomain.Application
	err  error
}

func (m *mockMembershipStore) Create(ctx context.Context, a membershipDomain.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.apps = append(m.apps, a)
	return nil
}

func (m *mockMembershipStore) List(ctx context.Context, filter membershipStore.ListFilter) ([]membershipDomain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := slices.Clone(m.apps)
	slices.Reverse(out)
	if filter.Limit > 0 {
		start := min(filter.Offset, len(out))
		out = out[start:min(start+filter.Limit, len(out))]
	}
	return out, nil
}

func (m *mockMembershipStore) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.apps), nil
}

type mockAccountStore struct {
	mu       sync.Mutex
	accounts map[string]accountDomain.Account // keyed by lower-case email
}

func (m *mockAccountStore) GetByID(ctx context.Context, id string) (accountDomain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return accountDomain.Account{}, sql.ErrNoRows
}

func (m *mockAccountStore) GetByEmail(ctx context.Context, email string) (accountDomain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[strings.ToLower(email)]; ok {
		return a, nil
	}
	return accountDomain.Account{}, sql.ErrNoRows
}

func (m *mockAccountStore) Save(ctx context.Context, a accountDomain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[strings.ToLower(a.Email)] = a
	return nil
}

func (m *mockAccountStore) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts), nil
}

type mockAuditStore struct {
	mu     sync.Mutex
	events []auditDomain.Event
}

func (m *mockAuditStore) Save(ctx context.Context, e auditDomain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *mockAuditStore) List(ctx context.Context, filter auditStore.Filter, limit int) ([]auditDomain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []auditDomain.Event
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		e := m.events[i]
		if filter.Category != nil && e.Category != *filter.Category {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *mockAuditStore) actions() []auditDomain.Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []auditDomain.Action
	for _, e := range m.events {
		out = append(out, e.Action)
	}
	return out
}

// --- Fixtures ---

var testNow = time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

func oslo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Oslo")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	return loc
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Env:         "development",
		ClubName:    "Musikklubben",
		TimeZone:    "Europe/Oslo",
		Location:    oslo(t),
		CheckoutURL: "https://checkout.example.org/",
		ReplyTo:     "styret@musikklubben.no",
		RateLimit:   "1000-S",
		SlowRequest: time.Second,
	}
}

type testEnv struct {
	events      *mockEventStore
	messages    *mockMessageStore
	memberships *mockMembershipStore
	accounts    *mockAccountStore
	audit       *mockAuditStore
	sender      *email.MemorySender
	stores      *Stores
}

// setupHandlers installs mock dependencies into the package globals.
func setupHandlers(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		events:      &mockEventStore{events: map[string]eventDomain.Event{}},
		messages:    &mockMessageStore{messages: map[string]contactDomain.Message{}},
		memberships: &mockMembershipStore{},
		accounts:    &mockAccountStore{accounts: map[string]accountDomain.Account{}},
		audit:       &mockAuditStore{},
		sender:      &email.MemorySender{},
	}
	env.stores = &Stores{
		AccountStore:    env.accounts,
		EventStore:      env.events,
		MessageStore:    env.messages,
		MembershipStore: env.memberships,
		AuditStore:      env.audit,
	}
	stores = env.stores
	cfg = testConfig(t)
	emailSender = env.sender
	images = nil
	prober = nil
	sessions = middleware.NewSessionStore()

	prevNow := timeNow
	timeNow = func() time.Time { return testNow }
	t.Cleanup(func() { timeNow = prevNow })
	return env
}

func (env *testEnv) addEvent(e eventDomain.Event) {
	if e.Status == "" {
		e.Status = eventDomain.StatusPublished
	}
	if e.ImageAspect == "" {
		e.ImageAspect = eventDomain.AspectStandard
	}
	env.events.events[e.ID] = e
}

func (env *testEnv) addMessage(m contactDomain.Message) {
	if m.Status == "" {
		m.Status = contactDomain.StatusNew
	}
	env.messages.messages[m.ID] = m
}

var adminSession = middleware.Session{
	AccountID: "admin-001",
	Email:     "styret@musikklubben.no",
	Role:      "admin",
	CreatedAt: testNow,
}

var memberSession = middleware.Session{
	AccountID: "member-001",
	Email:     "ola@example.no",
	Role:      "member",
	CreatedAt: testNow,
}

// authRequest returns a request with the given session injected into context.
func authRequest(method, target, body string, sess middleware.Session) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.ContextWithSession(req.Context(), sess))
}

// formRequest builds a urlencoded POST, optionally with a session.
func formRequest(target string, form url.Values, sess *middleware.Session) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sess != nil {
		req = req.WithContext(middleware.ContextWithSession(req.Context(), *sess))
	}
	return req
}

var errStoreDown = errors.New("database is locked")

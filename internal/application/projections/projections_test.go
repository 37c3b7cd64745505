package projections

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhouse/internal/adapters/storage/audit"
	"clubhouse/internal/adapters/storage/contact"
	"clubhouse/internal/adapters/storage/event"
	"clubhouse/internal/adapters/storage/membership"
	"clubhouse/internal/application/listutil"
	domainAudit "clubhouse/internal/domain/audit"
	domainContact "clubhouse/internal/domain/contact"
	domainEvent "clubhouse/internal/domain/event"
	domainMembership "clubhouse/internal/domain/membership"
)

var now = time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

func oslo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Oslo")
	require.NoError(t, err)
	return loc
}

// mockEventStore returns its events unfiltered and in insertion order, so the
// projection's own filtering and ordering are what the tests observe.
type mockEventStore struct {
	events     []domainEvent.Event
	festivals  []string
	lastFilter event.ListFilter
	err        error
}

func (m *mockEventStore) GetByID(_ context.Context, id string) (domainEvent.Event, error) {
	for _, e := range m.events {
		if e.ID == id {
			return e, nil
		}
	}
	return domainEvent.Event{}, sql.ErrNoRows
}

func (m *mockEventStore) List(_ context.Context, filter event.ListFilter) ([]domainEvent.Event, error) {
	m.lastFilter = filter
	return m.events, m.err
}

func (m *mockEventStore) ListFestivals(_ context.Context) ([]string, error) {
	return m.festivals, nil
}

func ev(id, title, status string, at time.Time) domainEvent.Event {
	return domainEvent.Event{ID: id, Title: title, Status: status, EventDate: at, ImageAspect: domainEvent.AspectWide}
}

func TestQueryEventList_FiltersAndSorts(t *testing.T) {
	store := &mockEventStore{
		events: []domainEvent.Event{
			ev("c", "Late", domainEvent.StatusPublished, now.Add(72*time.Hour)),
			ev("h", domainEvent.HiddenTitle, domainEvent.StatusPublished, now.Add(time.Hour)),
			ev("d", "Draft", domainEvent.StatusDraft, now.Add(2*time.Hour)),
			ev("a", "Early", domainEvent.StatusPublished, now.Add(24*time.Hour)),
		},
		festivals: []string{"musikkfest"},
	}
	res, err := QueryEventList(context.Background(), EventListQuery{Festival: " MusikkFest "},
		EventListDeps{EventStore: store, Venue: oslo(t), Now: func() time.Time { return now }})
	require.NoError(t, err)

	require.Len(t, res.Events, 2)
	assert.Equal(t, "a", res.Events[0].ID)
	assert.Equal(t, "c", res.Events[1].ID)
	assert.Equal(t, "musikkfest", res.Festival)
	assert.Equal(t, "musikkfest", store.lastFilter.Festival)
	assert.Equal(t, domainEvent.StatusPublished, store.lastFilter.Status)
	assert.True(t, store.lastFilter.From.IsZero())
	assert.Equal(t, []string{"musikkfest"}, res.Festivals)
	assert.Equal(t, "aspect-wide", res.Events[0].AspectClass)
	assert.Equal(t, "Sun 3 May 2026, 12:00", res.Events[0].When)
}

func TestQueryEventList_HiddenTitleIsExact(t *testing.T) {
	store := &mockEventStore{events: []domainEvent.Event{
		ev("1", "Grendedag", domainEvent.StatusPublished, now),
		ev("2", "Grendedag 2026", domainEvent.StatusPublished, now),
		ev("3", "grendedag", domainEvent.StatusPublished, now),
	}}
	res, err := QueryEventList(context.Background(), EventListQuery{},
		EventListDeps{EventStore: store, Venue: time.UTC, Now: func() time.Time { return now }})
	require.NoError(t, err)
	ids := []string{}
	for _, e := range res.Events {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"2", "3"}, ids)
}

func TestQueryEventList_UpcomingAndErrors(t *testing.T) {
	store := &mockEventStore{}
	res, err := QueryEventList(context.Background(), EventListQuery{UpcomingOnly: true},
		EventListDeps{EventStore: store, Venue: time.UTC, Now: func() time.Time { return now }})
	require.NoError(t, err)
	assert.Empty(t, res.Events)
	assert.NotNil(t, res.Events)
	assert.Equal(t, now.Add(-6*time.Hour), store.lastFilter.From)

	store.err = errors.New("boom")
	_, err = QueryEventList(context.Background(), EventListQuery{},
		EventListDeps{EventStore: store, Venue: time.UTC, Now: func() time.Time { return now }})
	assert.Error(t, err)
}

func TestQueryEventDetail(t *testing.T) {
	store := &mockEventStore{events: []domainEvent.Event{
		ev("pub", "Konsert", domainEvent.StatusPublished, now),
		ev("draft", "Snart", domainEvent.StatusDraft, now),
		ev("cancel", "Avlyst", domainEvent.StatusCancelled, now),
		ev("hidden", domainEvent.HiddenTitle, domainEvent.StatusPublished, now),
	}}
	deps := EventDetailDeps{EventStore: store, Venue: time.UTC}

	v, err := QueryEventDetail(context.Background(), "pub", deps)
	require.NoError(t, err)
	assert.Equal(t, "Konsert", v.Title)

	for _, id := range []string{"draft", "cancel", "hidden", "missing"} {
		_, err := QueryEventDetail(context.Background(), id, deps)
		assert.ErrorIs(t, err, ErrEventNotFound, id)
	}
}

func TestQueryAdminEvents_PrefillsInVenueZone(t *testing.T) {
	price, err := domainEvent.ParsePrice("199")
	require.NoError(t, err)
	e := ev("e1", domainEvent.HiddenTitle, domainEvent.StatusCancelled, time.Date(2026, 6, 21, 18, 0, 0, 0, time.UTC))
	e.TicketPrice = price
	store := &mockEventStore{events: []domainEvent.Event{e}}

	res, err := QueryAdminEvents(context.Background(), AdminEventsQuery{EditID: "e1"},
		AdminEventsDeps{EventStore: store, Venue: oslo(t)})
	require.NoError(t, err)
	require.Len(t, res.Events, 1, "admin list includes hidden events")
	assert.True(t, res.Editing)
	assert.Equal(t, "2026-06-21T20:00", res.Form.EventDate)
	assert.Equal(t, "199", res.Form.TicketPrice)
	assert.Equal(t, domainEvent.StatusCancelled, res.Form.Status)

	res, err = QueryAdminEvents(context.Background(), AdminEventsQuery{EditID: "nope"},
		AdminEventsDeps{EventStore: store, Venue: oslo(t)})
	require.NoError(t, err)
	assert.False(t, res.Editing)
	assert.Equal(t, domainEvent.StatusDraft, res.Form.Status)
}

type mockMessageStore struct {
	total      int
	msgs       []domainContact.Message
	lastFilter contact.ListFilter
}

func (m *mockMessageStore) List(_ context.Context, f contact.ListFilter) ([]domainContact.Message, error) {
	m.lastFilter = f
	return m.msgs, nil
}

func (m *mockMessageStore) Count(_ context.Context, _ contact.ListFilter) (int, error) {
	return m.total, nil
}

func TestQueryMessageList_Pages(t *testing.T) {
	store := &mockMessageStore{
		total: 60,
		msgs:  []domainContact.Message{{ID: "m1", Email: "kari@example.no", CreatedAt: now, Status: domainContact.StatusNew}},
	}
	res, err := QueryMessageList(context.Background(), MessageListQuery{
		Status:     domainContact.StatusNew,
		PageParams: listutil.PageParams{Page: 9, PerPage: 25},
	}, MessageListDeps{MessageStore: store, Venue: time.UTC, ClubName: "Musikklubben"})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Page.Page)
	assert.Equal(t, contact.ListFilter{Status: domainContact.StatusNew, Limit: 25, Offset: 50}, store.lastFilter)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, "2026-05-02 10:00", res.Messages[0].Received)
	assert.Equal(t, "mailto:kari@example.no?subject=Re%3A%20Musikklubben", res.Messages[0].MailtoURL)
}

type mockMembershipStore struct {
	apps       []domainMembership.Application
	lastFilter membership.ListFilter
}

func (m *mockMembershipStore) List(_ context.Context, f membership.ListFilter) ([]domainMembership.Application, error) {
	m.lastFilter = f
	return m.apps, nil
}

func (m *mockMembershipStore) Count(_ context.Context) (int, error) { return len(m.apps), nil }

func TestQueryMemberships(t *testing.T) {
	store := &mockMembershipStore{apps: []domainMembership.Application{{ID: "a1"}, {ID: "a2"}}}
	res, err := QueryMemberships(context.Background(), listutil.PageParams{Page: 1, PerPage: 25}, store)
	require.NoError(t, err)
	assert.Len(t, res.Applications, 2)
	assert.Equal(t, membership.ListFilter{Limit: 25}, store.lastFilter)
	assert.False(t, res.Page.ShowPagination())
}

type mockAuditStore struct {
	filter audit.Filter
	limit  int
}

func (m *mockAuditStore) List(_ context.Context, f audit.Filter, limit int) ([]domainAudit.Event, error) {
	m.filter, m.limit = f, limit
	return nil, nil
}

func TestQueryAuditLog(t *testing.T) {
	store := &mockAuditStore{}
	_, err := QueryAuditLog(context.Background(), "event", store)
	require.NoError(t, err)
	assert.Equal(t, AuditLogLimit, store.limit)
	require.NotNil(t, store.filter.Category)
	assert.Equal(t, domainAudit.CategoryEvent, *store.filter.Category)

	_, err = QueryAuditLog(context.Background(), "", store)
	require.NoError(t, err)
	assert.Nil(t, store.filter.Category)
}

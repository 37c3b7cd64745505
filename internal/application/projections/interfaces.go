package projections

import (
	"context"

	"clubhouse/internal/adapters/storage/audit"
	"clubhouse/internal/adapters/storage/contact"
	"clubhouse/internal/adapters/storage/event"
	"clubhouse/internal/adapters/storage/membership"
	domainAudit "clubhouse/internal/domain/audit"
	domainContact "clubhouse/internal/domain/contact"
	domainEvent "clubhouse/internal/domain/event"
	domainMembership "clubhouse/internal/domain/membership"
)

// EventStore interface for event queries.
type EventStore interface {
	GetByID(ctx context.Context, id string) (domainEvent.Event, error)
	List(ctx context.Context, filter event.ListFilter) ([]domainEvent.Event, error)
	ListFestivals(ctx context.Context) ([]string, error)
}

// MessageStore interface for contact message queries.
type MessageStore interface {
	List(ctx context.Context, filter contact.ListFilter) ([]domainContact.Message, error)
	Count(ctx context.Context, filter contact.ListFilter) (int, error)
}

// MembershipStore interface for membership application queries.
type MembershipStore interface {
	List(ctx context.Context, filter membership.ListFilter) ([]domainMembership.Application, error)
	Count(ctx context.Context) (int, error)
}

// AuditStore interface for audit log queries.
type AuditStore interface {
	List(ctx context.Context, filter audit.Filter, limit int) ([]domainAudit.Event, error)
}

package projections

import (
	"context"

	"clubhouse/internal/adapters/storage/audit"
	domainAudit "clubhouse/internal/domain/audit"
)

// AuditLogLimit is how many entries the admin audit page shows.
const AuditLogLimit = 200

// QueryAuditLog returns the latest audit entries, optionally for one category.
func QueryAuditLog(ctx context.Context, category string, store AuditStore) ([]domainAudit.Event, error) {
	var filter audit.Filter
	if category != "" {
		c := domainAudit.Category(category)
		filter.Category = &c
	}
	return store.List(ctx, filter, AuditLogLimit)
}

package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"clubhouse/internal/domain/audit"
)

// Actor identifies the admin performing a mutation.
type Actor struct {
	AccountID string
	Email     string
	IP        string
}

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	Save(ctx context.Context, e audit.Event) error
}

// AuditDeps holds what RecordAudit needs. A nil Store disables auditing.
type AuditDeps struct {
	Store      AuditRecorder
	GenerateID func() string
	Now        func() time.Time
}

// AuditEntry describes one admin action.
type AuditEntry struct {
	Category     audit.Category
	Action       audit.Action
	ResourceType string
	ResourceID   string
	Description  string
}

// RecordAudit writes one audit row for actor.
// A failed write is logged and never fails the action being audited.
func RecordAudit(ctx context.Context, actor Actor, entry AuditEntry, deps AuditDeps) {
	if deps.Store == nil {
		return
	}
	e := audit.NewEvent(deps.GenerateID(), deps.Now(), actor.AccountID, actor.Email, entry.Category, entry.Action).
		WithResource(entry.ResourceType, entry.ResourceID).
		WithDescription(entry.Description).
		WithIP(actor.IP)
	if err := deps.Store.Save(ctx, e); err != nil {
		slog.Error("audit_write_failed", "action", string(entry.Action), "resource_id", entry.ResourceID, "error", err)
	}
}

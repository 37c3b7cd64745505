package web

import (
	"fmt"
	"net/http"

	"clubhouse/internal/adapters/export"
	contactStore "clubhouse/internal/adapters/storage/contact"
	membershipStore "clubhouse/internal/adapters/storage/membership"
	"clubhouse/internal/application/listutil"
	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/application/projections"
	"clubhouse/internal/domain/audit"
)

// handleAdminMemberships lists membership applications (GET /admin/memberships)
// PRE: User must be authenticated as admin
func handleAdminMemberships(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	result, err := projections.QueryMemberships(r.Context(), listutil.ParsePageParams(r.URL.Query()), stores.MembershipStore)
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "admin_memberships.html", map[string]any{
		"Applications":   result.Applications,
		"Page":           result.Page,
		"Status":         "",
		"PerPageOptions": listutil.PerPageOptions,
	})
}

// handleAdminAudit renders the latest audit entries (GET /admin/audit)
// POST: ?category= narrows to one area; unknown categories show everything
func handleAdminAudit(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	categories := []string{
		string(audit.CategoryEvent), string(audit.CategoryMessage),
		string(audit.CategoryAccount), string(audit.CategoryExport),
	}
	category := listutil.ParseEnumFilter(r.URL.Query(), "category", categories)
	events, err := projections.QueryAuditLog(r.Context(), category, stores.AuditStore)
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "admin_audit.html", map[string]any{
		"Events":     events,
		"Category":   category,
		"Categories": categories,
		"Limit":      projections.AuditLogLimit,
	})
}

func writeWorkbook(w http.ResponseWriter, kind string, data []byte) {
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(kind, timeNow().In(cfg.Location))))
	w.Write(data)
}

// handleAdminMessagesExport downloads every contact message as .xlsx (GET /admin/messages/export)
func handleAdminMessagesExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	msgs, err := stores.MessageStore.List(r.Context(), contactStore.ListFilter{})
	if err != nil {
		internalError(w, err)
		return
	}
	data, err := export.Messages(msgs, cfg.Location)
	if err != nil {
		internalError(w, err)
		return
	}
	orchestrators.RecordAudit(r.Context(), actorFrom(r, sess), orchestrators.AuditEntry{
		Category: audit.CategoryExport, Action: audit.ActionExport,
		ResourceType: "contact_message", Description: fmt.Sprintf("%d messages", len(msgs)),
	}, auditDeps())
	writeWorkbook(w, "messages", data)
}

// handleAdminMembershipsExport downloads every application as .xlsx (GET /admin/memberships/export)
func handleAdminMembershipsExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	apps, err := stores.MembershipStore.List(r.Context(), membershipStore.ListFilter{})
	if err != nil {
		internalError(w, err)
		return
	}
	data, err := export.Memberships(apps, cfg.Location)
	if err != nil {
		internalError(w, err)
		return
	}
	orchestrators.RecordAudit(r.Context(), actorFrom(r, sess), orchestrators.AuditEntry{
		Category: audit.CategoryExport, Action: audit.ActionExport,
		ResourceType: "membership_application", Description: fmt.Sprintf("%d applications", len(apps)),
	}, auditDeps())
	writeWorkbook(w, "memberships", data)
}

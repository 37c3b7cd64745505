package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"clubhouse/internal/adapters/http/middleware"
	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/domain/audit"
)

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return "/admin/events"
	}
	return next
}

// handleLoginForm renders the admin login form (GET /login)
func handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok && sess.IsAdmin() {
		http.Redirect(w, r, "/admin/events", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "login.html", map[string]any{
		"Next": r.URL.Query().Get("next"),
	})
}

// handleLogin authenticates and starts a session (POST /login)
// POST: on success sets the session cookie and redirects to next or the event manager
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	next := r.FormValue("next")

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    strings.TrimSpace(r.FormValue("Email")),
		Password: r.FormValue("Password"),
		IP:       clientIP(r),
	}, orchestrators.LoginDeps{
		AccountStore: stores.AccountStore,
		Audit:        auditDeps(),
		Now:          timeNow,
	})
	if err != nil {
		if !errors.Is(err, orchestrators.ErrInvalidCredentials) && !errors.Is(err, orchestrators.ErrAccountLocked) {
			internalError(w, err)
			return
		}
		renderTemplateStatus(w, r, http.StatusUnauthorized, "login.html", map[string]any{
			"Error": err.Error(),
			"Email": r.FormValue("Email"),
			"Next":  next,
		})
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

// handleLogout ends the session (POST /logout)
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		orchestrators.RecordAudit(r.Context(), actorFrom(r, sess), orchestrators.AuditEntry{
			Category: audit.CategoryAccount, Action: audit.ActionLogout,
			ResourceType: "account", ResourceID: sess.AccountID,
		}, auditDeps())
		slog.Info("auth_event", "event", "logout", "email", sess.Email)
	}
	if token := middleware.SessionToken(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

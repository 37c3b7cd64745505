package web

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"clubhouse/internal/adapters/http/middleware"
	"clubhouse/internal/adapters/upload"
	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/application/projections"
	"clubhouse/internal/domain/account"
	"clubhouse/internal/domain/contact"
	"clubhouse/internal/domain/event"
	"clubhouse/internal/domain/membership"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json_encode_failed", "error", err)
	}
}

// writeJSONList writes "[]" rather than "null" for an empty slice.
func writeJSONList[T any](w http.ResponseWriter, items []T) {
	if len(items) == 0 {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	renderTemplateStatus(w, r, http.StatusOK, templateName, data)
}

// renderTemplateStatus renders templateName inside the layout.
// The pending flash is consumed here, so it appears on exactly one page.
func renderTemplateStatus(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) {
	sess, loggedIn := middleware.GetSessionFromContext(r.Context())
	flash, hasFlash := middleware.PopFlash(w, r)

	funcMap := template.FuncMap{
		"currentEmail":   func() string { return sess.Email },
		"isLoggedIn":     func() bool { return loggedIn },
		"isAdmin":        func() bool { return loggedIn && sess.IsAdmin() },
		"csrfField":      func() template.HTML { return csrf.TemplateField(r) },
		"csrfToken":      func() string { return csrf.Token(r) },
		"clubName":       func() string { return cfg.ClubName },
		"flash":          func() *middleware.Flash { return flashOrNil(flash, hasFlash) },
		"renderMarkdown": renderMarkdown,
		"ageGroupLabel":  membership.AgeGroupLabel,
		"ageGroups":      func() []string { return membership.AgeGroups },
		"add":            func(a, b int) int { return a + b },
		"sub":            func(a, b int) int { return a - b },
		"pageQuery": func(page, perPage int, status string) template.URL {
			q := url.Values{}
			q.Set("page", strconv.Itoa(page))
			q.Set("per_page", strconv.Itoa(perPage))
			if status != "" {
				q.Set("status", status)
			}
			return template.URL(q.Encode())
		},
		"statusLabel": func(s string) string { return strings.ReplaceAll(s, "_", " ") },
		"venueTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.In(cfg.Location).Format("2 Jan 2006 15:04")
		},
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS,
		"templates/layout.html", "templates/partials.html", "templates/"+templateName)
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func flashOrNil(f middleware.Flash, ok bool) *middleware.Flash {
	if !ok {
		return nil
	}
	return &f
}

// requireAdmin checks the session for admin role and returns the session.
// Returns false if the request should not proceed. Page requests without a
// session are sent to the login form; API requests get 401.
func requireAdmin(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		slog.Warn("auth_denied", "path", r.URL.Path, "reason", "no session")
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
			return middleware.Session{}, false
		}
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return middleware.Session{}, false
	}
	if !sess.IsAdmin() {
		slog.Warn("auth_denied", "path", r.URL.Path, "account_id", sess.AccountID, "role", sess.Role, "required", "admin")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return middleware.Session{}, false
	}
	return sess, true
}

func actorFrom(r *http.Request, sess middleware.Session) orchestrators.Actor {
	return orchestrators.Actor{AccountID: sess.AccountID, Email: sess.Email, IP: clientIP(r)}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func auditDeps() orchestrators.AuditDeps {
	return orchestrators.AuditDeps{Store: stores.AuditStore, GenerateID: generateID, Now: timeNow}
}

// userErrors are reported back to the submitter verbatim.
var userErrors = []error{
	event.ErrEmptyTitle, event.ErrTitleTooLong, event.ErrMissingDate, event.ErrInvalidEventDate,
	event.ErrInvalidStatus, event.ErrDescriptionLong, event.ErrLocationTooLong,
	event.ErrNegativePrice, event.ErrInvalidPrice, event.ErrInvalidImageURL,
	event.ErrInvalidTicketURL, event.ErrFestivalTooLong,
	contact.ErrEmptyName, contact.ErrNameTooLong, contact.ErrInvalidEmail, contact.ErrEmptyMessage,
	contact.ErrMessageTooLong, contact.ErrNotesTooLong, contact.ErrInvalidStatus,
	membership.ErrMissingFields, membership.ErrFieldTooLong, membership.ErrMotivationTooLong,
	upload.ErrTooLarge, upload.ErrUnsupportedType,
	orchestrators.ErrEmptyReply, orchestrators.ErrImageNotOwned,
	account.ErrEmptyEmail, account.ErrInvalidEmail, account.ErrEmptyPassword, account.ErrPasswordTooShort,
	orchestrators.ErrEmailAlreadyExists, orchestrators.ErrPasswordFieldsRequired,
	orchestrators.ErrCurrentPasswordWrong, orchestrators.ErrNewPasswordSame,
}

func isUserError(err error) bool {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, projections.ErrEventNotFound)
}

// writeAPIError maps an orchestrator error to a JSON API status.
func writeAPIError(w http.ResponseWriter, err error) {
	switch {
	case isUserError(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case isNotFound(err):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		internalError(w, err)
	}
}

// redirectWithError flashes err to the admin and goes back to target.
// Unexpected errors are logged and shown as a generic message.
func redirectWithError(w http.ResponseWriter, r *http.Request, target string, err error) {
	msg := "Something went wrong, nothing was changed."
	switch {
	case isUserError(err):
		msg = err.Error()
	case isNotFound(err):
		msg = "That item no longer exists."
	default:
		slog.Error("internal_error", "path", r.URL.Path, "error", err.Error())
	}
	middleware.SetFlash(w, middleware.FlashError, msg)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func redirectWithSuccess(w http.ResponseWriter, r *http.Request, target, msg string) {
	middleware.SetFlash(w, middleware.FlashSuccess, msg)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

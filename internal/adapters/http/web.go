package web

import (
	"context"
	"crypto/rand"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clubhouse/internal/adapters/email"
	"clubhouse/internal/adapters/http/middleware"
	accountStore "clubhouse/internal/adapters/storage/account"
	auditStore "clubhouse/internal/adapters/storage/audit"
	contactStore "clubhouse/internal/adapters/storage/contact"
	eventStore "clubhouse/internal/adapters/storage/event"
	membershipStore "clubhouse/internal/adapters/storage/membership"
	"clubhouse/internal/adapters/upload"
	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/config"
	"clubhouse/internal/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore    accountStore.Store
	EventStore      eventStore.Store
	MessageStore    contactStore.Store
	MembershipStore membershipStore.Store
	AuditStore      auditStore.Store
}

// Deps is everything the HTTP layer needs, installed once by NewMux.
type Deps struct {
	Config *config.Config
	Stores *Stores
	Sender email.Sender
	Images *upload.Store
	Prober orchestrators.ImageProber
	// Health reports whether the database is reachable. Nil means always healthy.
	Health func(ctx context.Context) error
	// Gatherer backs /metrics. Nil uses the default prometheus registry.
	Gatherer prometheus.Gatherer
}

// Global dependencies (set by NewMux)
var (
	stores      *Stores
	cfg         *config.Config
	sessions    *middleware.SessionStore
	emailSender email.Sender
	images      *upload.Store
	prober      orchestrators.ImageProber
)

// NewMux wires HTTP handlers for the app.
// PRE: d.Config has passed Validate; d.Stores is fully populated
func NewMux(d Deps) (http.Handler, error) {
	stores = d.Stores
	cfg = d.Config
	emailSender = d.Sender
	if emailSender == nil {
		emailSender = email.NewNoopSender()
	}
	images = d.Images
	prober = d.Prober
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = cfg.IsProduction()

	mux := http.NewServeMux()
	registerRoutes(mux)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	if images != nil {
		mux.Handle("GET /uploads/", http.StripPrefix(upload.PublicPrefix, http.FileServer(http.Dir(images.Dir))))
	}

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", healthHandler(d.Health))

	csrfKey, err := loadCSRFKey(cfg)
	if err != nil {
		return nil, err
	}
	rateLimit, err := middleware.RateLimit(cfg.RateLimit)
	if err != nil {
		return nil, err
	}

	// Timing must wrap the mux directly to see the matched route pattern.
	return middleware.Chain(mux,
		middleware.Timing(cfg.SlowRequest, metrics.ObserveRequest),
		rateLimit,
		middleware.Auth(sessions),
		middleware.CSRF(csrfKey, cfg.IsProduction(), nil),
		middleware.SecurityHeaders,
	), nil
}

// loadCSRFKey returns the configured CSRF secret. Outside production a random
// key is generated per start-up when none is configured.
func loadCSRFKey(c *config.Config) ([]byte, error) {
	if c.CSRFKey != "" {
		return c.CSRFKeyBytes()
	}
	if c.IsProduction() {
		return nil, errors.New("CLUB_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	slog.Warn("csrf_key_generated", "reason", "CLUB_CSRF_KEY unset; forms posted before a restart will be rejected")
	return key, nil
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				slog.Error("health_check_failed", "error", err)
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	}
}

func registerRoutes(mux *http.ServeMux) {
	// Public pages
	mux.HandleFunc("GET /{$}", handleHome)
	mux.HandleFunc("GET /events", handleEvents)
	mux.HandleFunc("GET /events/{id}", handleEventDetail)
	mux.HandleFunc("GET /festival/{tag}", handleFestival)
	mux.HandleFunc("GET /membership", handleMembershipForm)
	mux.HandleFunc("POST /membership", handleMembershipSubmit)
	mux.HandleFunc("GET /contact", handleContactForm)
	mux.HandleFunc("POST /contact", handleContactSubmit)

	// Public JSON
	mux.HandleFunc("GET /api/events", handleAPIEvents)
	mux.HandleFunc("GET /api/events/{id}", handleAPIEventDetail)
	mux.HandleFunc("POST /api/membership", handleAPIMembership)
	mux.HandleFunc("POST /api/contact", handleAPIContact)

	// Auth
	mux.HandleFunc("GET /login", handleLoginForm)
	mux.HandleFunc("POST /login", handleLogin)
	mux.HandleFunc("POST /logout", handleLogout)

	// Admin pages
	mux.HandleFunc("GET /admin", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin/events", http.StatusSeeOther)
	})
	mux.HandleFunc("GET /admin/events", handleAdminEvents)
	mux.HandleFunc("POST /admin/events", handleAdminEventSave)
	mux.HandleFunc("POST /admin/events/status", handleAdminEventStatus)
	mux.HandleFunc("GET /admin/events/delete", handleAdminEventDeleteConfirm)
	mux.HandleFunc("POST /admin/events/delete", handleAdminEventDelete)

	mux.HandleFunc("GET /admin/messages", handleAdminMessages)
	mux.HandleFunc("POST /admin/messages/status", handleAdminMessageStatus)
	mux.HandleFunc("POST /admin/messages/notes", handleAdminMessageNotes)
	mux.HandleFunc("POST /admin/messages/reply", handleAdminMessageReply)
	mux.HandleFunc("GET /admin/messages/delete", handleAdminMessageDeleteConfirm)
	mux.HandleFunc("POST /admin/messages/delete", handleAdminMessageDelete)
	mux.HandleFunc("GET /admin/messages/export", handleAdminMessagesExport)

	mux.HandleFunc("GET /admin/memberships", handleAdminMemberships)
	mux.HandleFunc("GET /admin/memberships/export", handleAdminMembershipsExport)
	mux.HandleFunc("GET /admin/audit", handleAdminAudit)
	mux.HandleFunc("GET /admin/account", handleAdminAccount)
	mux.HandleFunc("POST /admin/account/password", handleAdminChangePassword)
	mux.HandleFunc("POST /admin/accounts", handleAdminCreateAccount)

	// Admin JSON
	mux.HandleFunc("GET /api/admin/events", handleAPIAdminEvents)
	mux.HandleFunc("POST /api/admin/events", handleAPIAdminEventSave)
	mux.HandleFunc("POST /api/admin/events/status", handleAPIAdminEventStatus)
	mux.HandleFunc("DELETE /api/admin/events", handleAPIAdminEventDelete)

	mux.HandleFunc("GET /api/admin/messages", handleAPIAdminMessages)
	mux.HandleFunc("POST /api/admin/messages/status", handleAPIAdminMessageStatus)
	mux.HandleFunc("POST /api/admin/messages/notes", handleAPIAdminMessageNotes)
	mux.HandleFunc("DELETE /api/admin/messages", handleAPIAdminMessageDelete)
}

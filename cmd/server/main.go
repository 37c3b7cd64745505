package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"clubhouse/internal/adapters/email"
	web "clubhouse/internal/adapters/http"
	"clubhouse/internal/adapters/imageprobe"
	"clubhouse/internal/adapters/storage"
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

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	if err := storage.MigrateDB(db, cfg.DBPath); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	// Store queries are timed; slow ones are logged and all feed the query histogram.
	timedDB := storage.NewTimedDB(db, cfg.SlowQuery, metrics.ObserveQuery)
	stores := &web.Stores{
		AccountStore:    accountStore.NewSQLiteStore(timedDB),
		EventStore:      eventStore.NewSQLiteStore(timedDB),
		MessageStore:    contactStore.NewSQLiteStore(timedDB),
		MembershipStore: membershipStore.NewSQLiteStore(timedDB),
		AuditStore:      auditStore.NewSQLiteStore(timedDB),
	}

	seeded, err := orchestrators.ExecuteSeedAdmin(context.Background(), orchestrators.SeedAdminInput{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}, orchestrators.SeedAdminDeps{AccountStore: stores.AccountStore, GenerateID: uuid.NewString, Now: time.Now})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if n, err := stores.AccountStore.Count(context.Background()); err == nil && n == 0 && !seeded {
		slog.Warn("no_admin_account", "hint", "set CLUB_ADMIN_EMAIL and CLUB_ADMIN_PASSWORD")
	}

	var sender email.Sender
	if cfg.ResendKey != "" {
		sender = email.NewResendSender(cfg.ResendKey, cfg.MailFrom)
		slog.Info("email_sender_configured", "provider", "resend")
	} else {
		sender = email.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("email_disabled", "reason", "CLUB_RESEND_KEY is not set")
		}
	}

	uploads := upload.NewStore(cfg.UploadDir)
	handler, err := web.NewMux(web.Deps{
		Config: cfg,
		Stores: stores,
		Sender: sender,
		Images: uploads,
		Prober: imageprobe.New(uploads),
		Health: db.PingContext,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env, "schema", storage.LatestSchemaVersion())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// setupLogging installs the default slog handler: JSON in production, text otherwise.
func setupLogging(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

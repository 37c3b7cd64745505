package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings. Populated once at start-up.
type Config struct {
	Env      string
	Addr     string
	DBPath   string
	ClubName string

	TimeZone    string
	Location    *time.Location
	CheckoutURL string

	AdminEmail    string
	AdminPassword string
	CSRFKey       string

	ResendKey string
	MailFrom  string
	ReplyTo   string

	UploadDir string
	RateLimit string

	SlowQuery   time.Duration
	SlowRequest time.Duration
	LogLevel    slog.Level
}

// Defaults applied when a variable is unset.
const (
	DefaultAddr        = ":8080"
	DefaultDBPath      = "club.db"
	DefaultClubName    = "Musikklubben"
	DefaultTimeZone    = "Europe/Oslo"
	DefaultCheckoutURL = "https://www.checkin.no/"
	DefaultUploadDir   = "uploads"
	DefaultRateLimit   = "20-S"
	DefaultSlowQuery   = 100 * time.Millisecond
	DefaultSlowRequest = 500 * time.Millisecond
)

// Load reads an optional .env file and then the process environment.
// Values already present in the environment win over the .env file.
// POST: Location is resolved when TimeZone is valid; call Validate before use
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Env:           get("CLUB_ENV", "development"),
		Addr:          get("CLUB_ADDR", DefaultAddr),
		DBPath:        get("CLUB_DB_PATH", DefaultDBPath),
		ClubName:      get("CLUB_NAME", DefaultClubName),
		TimeZone:      get("CLUB_TIMEZONE", DefaultTimeZone),
		CheckoutURL:   get("CLUB_CHECKOUT_URL", DefaultCheckoutURL),
		AdminEmail:    get("CLUB_ADMIN_EMAIL", ""),
		AdminPassword: getenv("CLUB_ADMIN_PASSWORD"),
		CSRFKey:       get("CLUB_CSRF_KEY", ""),
		ResendKey:     get("CLUB_RESEND_KEY", ""),
		MailFrom:      get("CLUB_MAIL_FROM", ""),
		ReplyTo:       get("CLUB_REPLY_TO", ""),
		UploadDir:     get("CLUB_UPLOAD_DIR", DefaultUploadDir),
		RateLimit:     get("CLUB_RATE_LIMIT", DefaultRateLimit),
		SlowQuery:     DefaultSlowQuery,
		SlowRequest:   DefaultSlowRequest,
	}

	var err error
	if cfg.SlowQuery, err = millis(getenv("CLUB_SLOW_QUERY_MS"), DefaultSlowQuery); err != nil {
		return nil, fmt.Errorf("CLUB_SLOW_QUERY_MS: %w", err)
	}
	if cfg.SlowRequest, err = millis(getenv("CLUB_SLOW_REQUEST_MS"), DefaultSlowRequest); err != nil {
		return nil, fmt.Errorf("CLUB_SLOW_REQUEST_MS: %w", err)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(get("CLUB_LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("CLUB_LOG_LEVEL: %w", err)
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.ClubName + " <noreply@example.org>"
	}
	if loc, err := time.LoadLocation(cfg.TimeZone); err == nil {
		cfg.Location = loc
	}
	return cfg, nil
}

// IsProduction reports whether CLUB_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects settings the server cannot start with.
// PRE: cfg was produced by FromEnv or Load
// POST: Returns nil when the server can start
func (c *Config) Validate() error {
	if c.Location == nil {
		return fmt.Errorf("CLUB_TIMEZONE %q is not a known time zone", c.TimeZone)
	}
	if c.CSRFKey != "" {
		if _, err := c.CSRFKeyBytes(); err != nil {
			return err
		}
	} else if c.IsProduction() {
		return errors.New("CLUB_CSRF_KEY is required in production")
	}
	if !strings.HasPrefix(c.CheckoutURL, "https://") && !strings.HasPrefix(c.CheckoutURL, "http://") {
		return fmt.Errorf("CLUB_CHECKOUT_URL %q must be an http(s) URL", c.CheckoutURL)
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return errors.New("CLUB_ADMIN_EMAIL and CLUB_ADMIN_PASSWORD must be set together")
	}
	return nil
}

// CSRFKeyBytes decodes the 32-byte CSRF auth key.
func (c *Config) CSRFKeyBytes() ([]byte, error) {
	key, err := hex.DecodeString(c.CSRFKey)
	if err != nil || len(key) != 32 {
		return nil, errors.New("CLUB_CSRF_KEY must be 64 hex characters")
	}
	return key, nil
}

func millis(raw string, fallback time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms < 0 {
		return 0, fmt.Errorf("invalid millisecond value %q", raw)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"clubhouse/internal/domain/account"
	"clubhouse/internal/domain/audit"
)

// AccountStoreForCreate defines the store interface needed by CreateAccount.
type AccountStoreForCreate interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// CreateAccountInput carries input for the orchestrator.
type CreateAccountInput struct {
	Email    string
	Password string
	Actor    Actor // zero when seeding at start-up
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	AccountStore AccountStoreForCreate
	Audit        AuditDeps
	GenerateID   func() string
	Now          func() time.Time
}

var ErrEmailAlreadyExists = errors.New("an account with this email already exists")

// ExecuteCreateAccount adds an admin account.
// PRE: Valid email, password >= account.MinPassword chars
// POST: Account created with hashed password
// INVARIANT: Email must be unique (case-insensitive)
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (account.Account, error) {
	email := strings.TrimSpace(input.Email)
	_, err := deps.AccountStore.GetByEmail(ctx, email)
	if err == nil {
		return account.Account{}, ErrEmailAlreadyExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return account.Account{}, fmt.Errorf("look up account: %w", err)
	}

	acct := account.Account{
		ID:        deps.GenerateID(),
		Email:     email,
		Role:      account.RoleAdmin,
		CreatedAt: deps.Now(),
	}
	if err := acct.Validate(); err != nil {
		return account.Account{}, err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return account.Account{}, err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return account.Account{}, fmt.Errorf("save account: %w", err)
	}

	slog.Info("auth_event", "event", "account_created", "account_id", acct.ID, "email", acct.Email)
	RecordAudit(ctx, input.Actor, AuditEntry{
		Category: audit.CategoryAccount, Action: audit.ActionCreate,
		ResourceType: "account", ResourceID: acct.ID, Description: acct.Email,
	}, deps.Audit)
	return acct, nil
}

// --- Seed Admin ---

// SeedAdminInput carries the bootstrap admin credentials from configuration.
type SeedAdminInput struct {
	Email    string
	Password string
}

// SeedAdminDeps holds dependencies for SeedAdmin.
type SeedAdminDeps struct {
	AccountStore AccountStoreForCreate
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteSeedAdmin creates the configured admin account when no account has that email.
// POST: returns true when an account was created; an existing account is left untouched
func ExecuteSeedAdmin(ctx context.Context, input SeedAdminInput, deps SeedAdminDeps) (bool, error) {
	if strings.TrimSpace(input.Email) == "" {
		return false, nil
	}
	_, err := ExecuteCreateAccount(ctx, CreateAccountInput{Email: input.Email, Password: input.Password}, CreateAccountDeps{
		AccountStore: deps.AccountStore,
		GenerateID:   deps.GenerateID,
		Now:          deps.Now,
	})
	if errors.Is(err, ErrEmailAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

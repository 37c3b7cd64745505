package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"clubhouse/internal/domain/account"
	"clubhouse/internal/domain/audit"
)

// ChangePasswordInput carries input for the change-password orchestrator.
type ChangePasswordInput struct {
	Actor           Actor // the signed-in admin; only their own password changes
	CurrentPassword string
	NewPassword     string
}

// AccountStoreForChangePassword defines the store interface needed by ChangePassword.
type AccountStoreForChangePassword interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// ChangePasswordDeps holds dependencies for ChangePassword.
type ChangePasswordDeps struct {
	AccountStore AccountStoreForChangePassword
	Audit        AuditDeps
}

var (
	ErrPasswordFieldsRequired = errors.New("current and new password are required")
	ErrCurrentPasswordWrong   = errors.New("current password is incorrect")
	ErrNewPasswordSame        = errors.New("new password must be different from current password")
)

// ExecuteChangePassword validates the current password and updates to the new one.
// PRE: Actor.AccountID is the signed-in account
// POST: Password hash replaced; failed-login counter untouched
func ExecuteChangePassword(ctx context.Context, input ChangePasswordInput, deps ChangePasswordDeps) error {
	if input.CurrentPassword == "" || input.NewPassword == "" {
		return ErrPasswordFieldsRequired
	}

	acct, err := deps.AccountStore.GetByID(ctx, input.Actor.AccountID)
	if err != nil {
		return fmt.Errorf("load account %s: %w", input.Actor.AccountID, err)
	}
	if err := acct.CheckPassword(input.CurrentPassword); err != nil {
		return ErrCurrentPasswordWrong
	}
	if input.CurrentPassword == input.NewPassword {
		return ErrNewPasswordSame
	}
	if err := acct.SetPassword(input.NewPassword); err != nil {
		return err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return fmt.Errorf("save account: %w", err)
	}

	slog.Info("auth_event", "event", "password_changed", "account_id", acct.ID)
	RecordAudit(ctx, input.Actor, AuditEntry{
		Category: audit.CategoryAccount, Action: audit.ActionPassword,
		ResourceType: "account", ResourceID: acct.ID,
	}, deps.Audit)
	return nil
}

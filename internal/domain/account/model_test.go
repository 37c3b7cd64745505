package account_test

import (
	"testing"
	"time"

	"clubhouse/internal/domain/account"
)

var now = time.Date(2026, 5, 10, 20, 0, 0, 0, time.UTC)

// TestAccount_Validate tests validation of Account.
func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		account account.Account
		wantErr bool
	}{
		{"valid admin", account.Account{ID: "1", Email: "styret@musikklubben.no", Role: account.RoleAdmin}, false},
		{"empty email", account.Account{ID: "2", Role: account.RoleAdmin}, true},
		{"email without at", account.Account{ID: "3", Email: "styret", Role: account.RoleAdmin}, true},
		{"non-admin role", account.Account{ID: "4", Email: "a@b.no", Role: "member"}, true},
		{"empty role", account.Account{ID: "5", Email: "a@b.no"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestAccount_Password tests hashing and checking.
func TestAccount_Password(t *testing.T) {
	a := &account.Account{}
	if err := a.SetPassword("short"); err != account.ErrPasswordTooShort {
		t.Errorf("SetPassword(short) = %v, want ErrPasswordTooShort", err)
	}
	if err := a.SetPassword(""); err != account.ErrEmptyPassword {
		t.Errorf("SetPassword(\"\") = %v, want ErrEmptyPassword", err)
	}
	if err := a.CheckPassword("anything-at-all"); err != account.ErrWrongPassword {
		t.Errorf("CheckPassword without hash = %v, want ErrWrongPassword", err)
	}

	if err := a.SetPassword("korrekt-hest-batteri"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if a.PasswordHash == "korrekt-hest-batteri" {
		t.Fatal("password stored in plaintext")
	}
	if err := a.CheckPassword("korrekt-hest-batteri"); err != nil {
		t.Errorf("CheckPassword(correct) = %v", err)
	}
	if err := a.CheckPassword("feil-passord-123"); err != account.ErrWrongPassword {
		t.Errorf("CheckPassword(wrong) = %v, want ErrWrongPassword", err)
	}
}

// TestAccount_Lockout tests the failed-login lockout window.
func TestAccount_Lockout(t *testing.T) {
	a := &account.Account{}

	for i := 0; i < account.MaxFailedLogins-1; i++ {
		a.RecordFailedLogin(now)
		if a.IsLocked(now) {
			t.Fatalf("locked after %d failures", i+1)
		}
	}

	a.RecordFailedLogin(now)
	if !a.IsLocked(now) {
		t.Fatal("expected lock after max failures")
	}
	if !a.IsLocked(now.Add(account.LockoutDuration - time.Second)) {
		t.Error("lock should hold until the window ends")
	}
	if a.IsLocked(now.Add(account.LockoutDuration)) {
		t.Error("lock should expire at the end of the window")
	}

	a.ResetFailedLogins()
	if a.FailedLogins != 0 || a.IsLocked(now) {
		t.Errorf("after reset: failed=%d locked=%v", a.FailedLogins, a.IsLocked(now))
	}
}

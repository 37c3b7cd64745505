package web

import (
	"net/http"

	"clubhouse/internal/adapters/http/middleware"
	"clubhouse/internal/application/orchestrators"
)

const accountPath = "/admin/account"

// handleAdminAccount renders the password form and the add-admin form (GET /admin/account)
func handleAdminAccount(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	renderTemplate(w, r, "admin_account.html", map[string]any{
		"Email": sess.Email,
	})
}

// handleAdminChangePassword changes the signed-in admin's password (POST /admin/account/password)
// POST: other sessions of the same account stay valid until they expire
func handleAdminChangePassword(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	if r.FormValue("NewPassword") != r.FormValue("ConfirmPassword") {
		middleware.SetFlash(w, middleware.FlashError, "The new passwords do not match.")
		http.Redirect(w, r, accountPath, http.StatusSeeOther)
		return
	}
	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		Actor:           actorFrom(r, sess),
		CurrentPassword: r.FormValue("CurrentPassword"),
		NewPassword:     r.FormValue("NewPassword"),
	}, orchestrators.ChangePasswordDeps{AccountStore: stores.AccountStore, Audit: auditDeps()})
	if err != nil {
		redirectWithError(w, r, accountPath, err)
		return
	}
	redirectWithSuccess(w, r, accountPath, "Password changed.")
}

// handleAdminCreateAccount adds another admin (POST /admin/accounts)
func handleAdminCreateAccount(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	acct, err := orchestrators.ExecuteCreateAccount(r.Context(), orchestrators.CreateAccountInput{
		Email:    r.FormValue("Email"),
		Password: r.FormValue("Password"),
		Actor:    actorFrom(r, sess),
	}, orchestrators.CreateAccountDeps{
		AccountStore: stores.AccountStore,
		Audit:        auditDeps(),
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if err != nil {
		redirectWithError(w, r, accountPath, err)
		return
	}
	redirectWithSuccess(w, r, accountPath, "Admin account created for "+acct.Email+".")
}

package web

import (
	"errors"
	"net/http"

	"clubhouse/internal/adapters/http/middleware"
	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/domain/membership"
)

func membershipDeps() orchestrators.SubmitMembershipDeps {
	return orchestrators.SubmitMembershipDeps{
		MembershipStore: stores.MembershipStore,
		Sender:          emailSender,
		ClubName:        cfg.ClubName,
		CheckoutURL:     cfg.CheckoutURL,
		ReplyTo:         cfg.ReplyTo,
		GenerateID:      generateID,
		Now:             timeNow,
	}
}

func membershipInputFromForm(r *http.Request) orchestrators.SubmitMembershipInput {
	return orchestrators.SubmitMembershipInput{
		Name:       r.FormValue("Name"),
		Email:      r.FormValue("Email"),
		Phone:      r.FormValue("Phone"),
		Location:   r.FormValue("Location"),
		AgeGroup:   r.FormValue("AgeGroup"),
		Motivation: r.FormValue("Motivation"),
	}
}

// handleMembershipForm renders the empty sign-up form (GET /membership)
func handleMembershipForm(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "membership.html", map[string]any{
		"Form":    orchestrators.SubmitMembershipInput{},
		"Missing": map[string]bool{},
	})
}

// handleMembershipSubmit records an application and forwards to checkout (POST /membership)
// PRE: form fields Name, Email, Location, AgeGroup are required
// POST: invalid input re-renders the form with the user's values and nothing is stored;
// valid input always reaches the checkout page, even if the store write failed
func handleMembershipSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	input := membershipInputFromForm(r)
	result, err := orchestrators.ExecuteSubmitMembership(r.Context(), input, membershipDeps())
	if err != nil {
		if !isUserError(err) {
			internalError(w, err)
			return
		}
		missing := map[string]bool{}
		var ve *membership.ValidationError
		if errors.As(err, &ve) {
			for _, f := range ve.Missing {
				missing[f] = true
			}
		}
		renderTemplateStatus(w, r, http.StatusBadRequest, "membership.html", map[string]any{
			"Form":    input,
			"Missing": missing,
			"Error":   err.Error(),
		})
		return
	}
	renderTemplate(w, r, "membership_done.html", map[string]any{
		"Name":        result.Application.Name,
		"RedirectURL": result.RedirectURL,
	})
}

// handleAPIMembership is the JSON form of the sign-up (POST /api/membership)
func handleAPIMembership(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Phone      string `json:"phone"`
		Location   string `json:"location"`
		AgeGroup   string `json:"age_group"`
		Motivation string `json:"motivation"`
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	result, err := orchestrators.ExecuteSubmitMembership(r.Context(), orchestrators.SubmitMembershipInput{
		Name:       body.Name,
		Email:      body.Email,
		Phone:      body.Phone,
		Location:   body.Location,
		AgeGroup:   body.AgeGroup,
		Motivation: body.Motivation,
	}, membershipDeps())
	if err != nil {
		var ve *membership.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error(), "missing": ve.Missing})
			return
		}
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"redirect_url": result.RedirectURL})
}

func contactDeps() orchestrators.SubmitContactMessageDeps {
	return orchestrators.SubmitContactMessageDeps{
		MessageStore: stores.MessageStore,
		GenerateID:   generateID,
		Now:          timeNow,
	}
}

// handleContactForm renders the contact form (GET /contact)
func handleContactForm(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "contact.html", map[string]any{
		"Form": orchestrators.SubmitContactMessageInput{},
	})
}

// handleContactSubmit stores a visitor message (POST /contact)
func handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	input := orchestrators.SubmitContactMessageInput{
		Name:    r.FormValue("Name"),
		Email:   r.FormValue("Email"),
		Message: r.FormValue("Message"),
	}
	if _, err := orchestrators.ExecuteSubmitContactMessage(r.Context(), input, contactDeps()); err != nil {
		if !isUserError(err) {
			internalError(w, err)
			return
		}
		renderTemplateStatus(w, r, http.StatusBadRequest, "contact.html", map[string]any{
			"Form":  input,
			"Error": err.Error(),
		})
		return
	}
	middleware.SetFlash(w, middleware.FlashSuccess, "Thanks for your message! We will get back to you soon.")
	http.Redirect(w, r, "/contact", http.StatusSeeOther)
}

// handleAPIContact is the JSON form of the contact form (POST /api/contact)
func handleAPIContact(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	m, err := orchestrators.ExecuteSubmitContactMessage(r.Context(), orchestrators.SubmitContactMessageInput{
		Name:    body.Name,
		Email:   body.Email,
		Message: body.Message,
	}, contactDeps())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": m.ID, "status": m.Status})
}

package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"clubhouse/internal/adapters/email"
	"clubhouse/internal/domain/membership"
	"clubhouse/internal/metrics"
)

// MembershipStoreForOrchestrator defines the store interface needed by SubmitMembership.
type MembershipStoreForOrchestrator interface {
	Create(ctx context.Context, a membership.Application) error
}

// SubmitMembershipInput carries the membership form.
type SubmitMembershipInput struct {
	Name       string
	Email      string
	Phone      string
	Location   string
	AgeGroup   string
	Motivation string
}

// SubmitMembershipDeps holds dependencies for SubmitMembership.
type SubmitMembershipDeps struct {
	MembershipStore MembershipStoreForOrchestrator
	Sender          email.Sender // nil skips the confirmation email
	ClubName        string
	CheckoutURL     string
	ReplyTo         string
	GenerateID      func() string
	Now             func() time.Time
}

// SubmitMembershipResult tells the handler where to send the visitor.
type SubmitMembershipResult struct {
	Application membership.Application
	RedirectURL string
	Stored      bool
}

// ExecuteSubmitMembership records an application and returns the checkout redirect.
// PRE: none; missing required fields are reported as *membership.ValidationError
// POST: on valid input RedirectURL is always set, even when the store write fails
// INVARIANT: invalid input is never persisted
func ExecuteSubmitMembership(ctx context.Context, input SubmitMembershipInput, deps SubmitMembershipDeps) (SubmitMembershipResult, error) {
	app := membership.Application{
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		Location:   input.Location,
		AgeGroup:   input.AgeGroup,
		Motivation: input.Motivation,
	}
	app.Normalize()
	if err := app.Validate(); err != nil {
		metrics.MembershipApplications.WithLabelValues(metrics.MembershipInvalid).Inc()
		return SubmitMembershipResult{}, err
	}
	app.ID = deps.GenerateID()
	app.CreatedAt = deps.Now()

	result := SubmitMembershipResult{Application: app, RedirectURL: deps.CheckoutURL}
	if err := deps.MembershipStore.Create(ctx, app); err != nil {
		metrics.MembershipApplications.WithLabelValues(metrics.MembershipStoreFailed).Inc()
		slog.Error("membership_store_failed", "application_id", app.ID, "error", err)
		return result, nil
	}
	result.Stored = true
	metrics.MembershipApplications.WithLabelValues(metrics.MembershipStored).Inc()
	slog.Info("membership_submitted", "application_id", app.ID, "age_group", app.AgeGroup)

	if deps.Sender != nil {
		sendMembershipConfirmation(ctx, app, deps)
	}
	return result, nil
}

func sendMembershipConfirmation(ctx context.Context, app membership.Application, deps SubmitMembershipDeps) {
	req, err := email.MembershipConfirmation(app.Email, app.Name, deps.ClubName, deps.CheckoutURL, deps.ReplyTo)
	if err == nil {
		_, err = deps.Sender.Send(ctx, req)
	}
	metrics.CountEmail("membership_confirmation", err)
	if err != nil {
		slog.Warn("membership_confirmation_failed", "application_id", app.ID, "error", err)
	}
}

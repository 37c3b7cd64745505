package orchestrators

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"clubhouse/internal/adapters/email"
	"clubhouse/internal/domain/membership"
	"clubhouse/internal/metrics"
)

const checkout = "https://www.checkin.no/"

func membershipDeps(store *mockMembershipStore, sender email.Sender) SubmitMembershipDeps {
	return SubmitMembershipDeps{
		MembershipStore: store,
		Sender:          sender,
		ClubName:        "Musikklubben",
		CheckoutURL:     checkout,
		GenerateID:      seqIDs(),
		Now:             testNow,
	}
}

func validMembership() SubmitMembershipInput {
	return SubmitMembershipInput{Name: "Ola", Email: "ola@example.no", Location: "Bergen", AgeGroup: membership.AgeGroup26To40}
}

func resultCount(result string) float64 {
	return testutil.ToFloat64(metrics.MembershipApplications.WithLabelValues(result))
}

func TestExecuteSubmitMembership_Valid(t *testing.T) {
	store := &mockMembershipStore{}
	sender := &email.MemorySender{}
	before := resultCount(metrics.MembershipStored)

	res, err := ExecuteSubmitMembership(context.Background(), validMembership(), membershipDeps(store, sender))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RedirectURL != checkout || !res.Stored {
		t.Errorf("result = %+v", res)
	}
	if len(store.apps) != 1 || store.apps[0].ID != "id-1" || !store.apps[0].CreatedAt.Equal(clock) {
		t.Errorf("stored = %+v", store.apps)
	}
	if sender.Count() != 1 || sender.Sent[0].To[0] != "ola@example.no" {
		t.Errorf("confirmation emails = %+v", sender.Sent)
	}
	if got := resultCount(metrics.MembershipStored) - before; got != 1 {
		t.Errorf("stored counter delta = %v", got)
	}
}

func TestExecuteSubmitMembership_RequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*SubmitMembershipInput)
		field string
	}{
		{"name", func(in *SubmitMembershipInput) { in.Name = "  " }, membership.FieldName},
		{"email", func(in *SubmitMembershipInput) { in.Email = "" }, membership.FieldEmail},
		{"location", func(in *SubmitMembershipInput) { in.Location = "\t" }, membership.FieldLocation},
		{"age group", func(in *SubmitMembershipInput) { in.AgeGroup = "" }, membership.FieldAgeGroup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validMembership()
			tt.edit(&in)
			store := &mockMembershipStore{}
			res, err := ExecuteSubmitMembership(context.Background(), in, membershipDeps(store, nil))
			var verr *membership.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if len(verr.Missing) != 1 || verr.Missing[0] != tt.field {
				t.Errorf("Missing = %v, want [%s]", verr.Missing, tt.field)
			}
			if res.RedirectURL != "" || len(store.apps) != 0 {
				t.Errorf("invalid submit must not redirect or persist: %+v %d", res, len(store.apps))
			}
		})
	}
}

func TestExecuteSubmitMembership_OptionalFieldsDoNotMatter(t *testing.T) {
	in := validMembership()
	in.Phone = ""
	in.Motivation = ""
	store := &mockMembershipStore{}
	if _, err := ExecuteSubmitMembership(context.Background(), in, membershipDeps(store, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.apps) != 1 {
		t.Errorf("stored %d applications", len(store.apps))
	}
}

func TestExecuteSubmitMembership_RedirectsWhenStoreFails(t *testing.T) {
	store := &mockMembershipStore{err: errors.New("database is locked")}
	sender := &email.MemorySender{}
	before := resultCount(metrics.MembershipStoreFailed)

	res, err := ExecuteSubmitMembership(context.Background(), validMembership(), membershipDeps(store, sender))
	if err != nil {
		t.Fatalf("store failure should not surface: %v", err)
	}
	if res.RedirectURL != checkout || res.Stored {
		t.Errorf("result = %+v", res)
	}
	if sender.Count() != 0 {
		t.Error("no confirmation should be sent for an unsaved application")
	}
	if got := resultCount(metrics.MembershipStoreFailed) - before; got != 1 {
		t.Errorf("store_failed counter delta = %v", got)
	}
}

func TestExecuteSubmitMembership_EmailFailureIgnored(t *testing.T) {
	store := &mockMembershipStore{}
	res, err := ExecuteSubmitMembership(context.Background(), validMembership(),
		membershipDeps(store, &email.MemorySender{Err: errSendDown}))
	if err != nil || !res.Stored {
		t.Fatalf("err=%v stored=%v", err, res.Stored)
	}
}

package email

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestReply_EscapesAndSplits(t *testing.T) {
	req, err := Reply("kari@example.no", "Kari", "Re: Musikklubben",
		"Takk for meldingen!\n\nVi har plass på <fredag>.", "Kan bandet mitt spille?", "Musikklubben", "styret@musikklubben.no")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if len(req.To) != 1 || req.To[0] != "kari@example.no" {
		t.Errorf("To = %v", req.To)
	}
	if req.ReplyTo != "styret@musikklubben.no" {
		t.Errorf("ReplyTo = %q", req.ReplyTo)
	}
	if strings.Count(req.HTML, "<p>") < 4 {
		t.Errorf("expected one <p> per paragraph, got %s", req.HTML)
	}
	if strings.Contains(req.HTML, "<fredag>") || !strings.Contains(req.HTML, "&lt;fredag&gt;") {
		t.Errorf("admin text should be escaped: %s", req.HTML)
	}
	if !strings.Contains(req.Text, "> Kan bandet mitt spille?") {
		t.Errorf("Text should quote the original: %q", req.Text)
	}
}

func TestMembershipConfirmation(t *testing.T) {
	req, err := MembershipConfirmation("ola@example.no", "Ola", "Musikklubben", "https://checkout.example.org/", "")
	if err != nil {
		t.Fatalf("MembershipConfirmation: %v", err)
	}
	if req.Subject != "Welcome to Musikklubben" {
		t.Errorf("Subject = %q", req.Subject)
	}
	if !strings.Contains(req.HTML, `href="https://checkout.example.org/"`) {
		t.Errorf("HTML missing checkout link: %s", req.HTML)
	}
}

func TestMemorySender(t *testing.T) {
	s := &MemorySender{}
	if _, err := s.Send(context.Background(), SendRequest{To: []string{"a@b.no"}}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	s.Err = errors.New("down")
	if _, err := s.Send(context.Background(), SendRequest{}); err == nil {
		t.Error("expected configured error")
	}
	if s.Count() != 1 {
		t.Errorf("Count = %d, want 1", s.Count())
	}
}

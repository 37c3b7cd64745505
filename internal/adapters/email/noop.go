package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// NoopSender logs sends but does not deliver. Used when CLUB_RESEND_KEY is unset.
type NoopSender struct{}

// NewNoopSender creates a new NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send logs the email but does not deliver it.
func (s *NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	slog.Info("noop_email_send", "to_count", len(req.To), "subject", req.Subject)
	return SendResult{
		MessageID: fmt.Sprintf("noop-%d", time.Now().UnixNano()),
		SentAt:    time.Now(),
	}, nil
}

// MemorySender keeps every request in memory. Tests use it to inspect what
// would have been sent; Err, when set, is returned instead.
type MemorySender struct {
	mu   sync.Mutex
	Sent []SendRequest
	Err  error
}

// Send records req.
func (s *MemorySender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return SendResult{}, s.Err
	}
	s.Sent = append(s.Sent, req)
	return SendResult{MessageID: fmt.Sprintf("mem-%d", len(s.Sent)), SentAt: time.Now()}, nil
}

// Count returns the number of recorded sends.
func (s *MemorySender) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Sent)
}

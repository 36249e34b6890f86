package mocks

import (
	"context"
	"sync"

	"github.com/dhallem/taskgate-api/internal/service/mail"
)

// SentMessage records one message handed to MockMailSender.
type SentMessage struct {
	Kind  string // "password_reset" or "email_confirmation"
	Email string
	Link  string
}

// MockMailSender implements mail.Sender and records every message.
type MockMailSender struct {
	Err error

	mu   sync.Mutex
	sent []SentMessage
}

var _ mail.Sender = (*MockMailSender)(nil)

func (m *MockMailSender) SendPasswordReset(ctx context.Context, email, link string) error {
	return m.record("password_reset", email, link)
}

func (m *MockMailSender) SendEmailConfirmation(ctx context.Context, email, link string) error {
	return m.record("email_confirmation", email, link)
}

// Sent returns a copy of every recorded message.
func (m *MockMailSender) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

func (m *MockMailSender) record(kind, email, link string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentMessage{Kind: kind, Email: email, Link: link})
	return nil
}

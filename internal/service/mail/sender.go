// Package mail abstracts outbound email delivery. Actual delivery is an
// external concern; the default implementation only records that a message
// would have been sent, which is also what the tests hook into.
package mail

import (
	"context"
	"log/slog"
)

// Sender delivers transactional messages to users.
type Sender interface {
	// SendPasswordReset delivers a password reset link to the address.
	SendPasswordReset(ctx context.Context, email, link string) error

	// SendEmailConfirmation delivers an account confirmation link.
	SendEmailConfirmation(ctx context.Context, email, link string) error
}

// LogSender is a Sender that writes the message to the structured log
// instead of delivering it. Used in development and as the default until a
// real provider is wired in.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender. If logger is nil, the default logger
// is used.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger.With(slog.String("component", "mail"))}
}

var _ Sender = (*LogSender)(nil)

// SendPasswordReset implements Sender.
func (s *LogSender) SendPasswordReset(ctx context.Context, email, link string) error {
	s.logger.Info("password reset email",
		slog.String("to", email),
		slog.String("link", link))
	return nil
}

// SendEmailConfirmation implements Sender.
func (s *LogSender) SendEmailConfirmation(ctx context.Context, email, link string) error {
	s.logger.Info("email confirmation email",
		slog.String("to", email),
		slog.String("link", link))
	return nil
}

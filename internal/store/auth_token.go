package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/dhallem/taskgate-api/internal/domain"
)

// AuthTokenStore defines the interface for single-use auth token rows
// (password reset and email confirmation).
type AuthTokenStore interface {
	// Create saves a new token row.
	Create(ctx context.Context, token *domain.AuthToken) error

	// GetLatestActive returns the most recently issued unused token for the
	// given email and purpose. Expiry is NOT checked here; the caller must
	// re-validate it at consumption time. Returns ErrTokenNotFound when no
	// unused row exists.
	GetLatestActive(ctx context.Context, email string, purpose domain.TokenPurpose) (*domain.AuthToken, error)

	// MarkUsed flags a token row as consumed. Returns ErrTokenNotFound if
	// the row does not exist or was already consumed.
	MarkUsed(ctx context.Context, id uuid.UUID) error
}

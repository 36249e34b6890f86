package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AuthToken validation errors
var (
	ErrEmptyTokenID     = errors.New("token ID cannot be empty")
	ErrEmptyTokenUserID = errors.New("token user ID cannot be empty")
	ErrEmptyTokenEmail  = errors.New("token email cannot be empty")
	ErrEmptyTokenHash   = errors.New("token hash cannot be empty")
	ErrInvalidPurpose   = errors.New("invalid token purpose")
)

// TokenPurpose distinguishes the flows a stored auth token can serve.
type TokenPurpose string

const (
	// TokenPurposePasswordReset marks tokens issued by the forgot-password flow.
	TokenPurposePasswordReset TokenPurpose = "password_reset"

	// TokenPurposeEmailConfirm marks tokens issued at signup when email
	// confirmation is required.
	TokenPurposeEmailConfirm TokenPurpose = "email_confirm"
)

// Token lifetimes per purpose.
const (
	PasswordResetTokenTTL = time.Hour
	EmailConfirmTokenTTL  = 24 * time.Hour
)

// AuthToken is a single-use, time-bounded token row backing the password
// reset and email confirmation flows. Only the salted hash of the raw token
// is stored; the raw value travels out of band and is never persisted.
type AuthToken struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"user_id"`
	Email     string       `json:"email"`
	TokenHash string       `json:"-"`
	Purpose   TokenPurpose `json:"purpose"`
	ExpiresAt time.Time    `json:"expires_at"`
	Used      bool         `json:"used"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewAuthToken creates a token row for the given user and purpose. The
// caller supplies the already-hashed token value; the lifetime is derived
// from the purpose.
func NewAuthToken(userID uuid.UUID, email, tokenHash string, purpose TokenPurpose) (*AuthToken, error) {
	ttl := PasswordResetTokenTTL
	if purpose == TokenPurposeEmailConfirm {
		ttl = EmailConfirmTokenTTL
	}

	now := time.Now().UTC()
	token := &AuthToken{
		ID:        uuid.New(),
		UserID:    userID,
		Email:     email,
		TokenHash: tokenHash,
		Purpose:   purpose,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	if err := token.Validate(); err != nil {
		return nil, err
	}

	return token, nil
}

// Validate checks if the AuthToken has valid data.
func (t *AuthToken) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTokenID
	}
	if t.UserID == uuid.Nil {
		return ErrEmptyTokenUserID
	}
	if t.Email == "" {
		return ErrEmptyTokenEmail
	}
	if t.TokenHash == "" {
		return ErrEmptyTokenHash
	}
	if t.Purpose != TokenPurposePasswordReset && t.Purpose != TokenPurposeEmailConfirm {
		return ErrInvalidPurpose
	}
	return nil
}

// IsExpired reports whether the token's lifetime has elapsed at the given time.
func (t *AuthToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// IsConsumable reports whether the token can still be redeemed: it must be
// unused and unexpired. Both conditions are re-checked at consumption time,
// not only at issuance.
func (t *AuthToken) IsConsumable(now time.Time) bool {
	return !t.Used && !t.IsExpired(now)
}

// Package middleware contains the HTTP middleware chain: request tracing,
// bearer token authentication, per-client rate limiting, and metrics.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dhallem/taskgate-api/internal/api/shared"
	"github.com/dhallem/taskgate-api/internal/metrics"
	"github.com/dhallem/taskgate-api/internal/redact"
	"github.com/dhallem/taskgate-api/internal/service/auth"
)

// Messages returned by the authentication gate. Token validation failures
// are indistinguishable from a missing token on the wire; only unexpected
// internal failures surface as a 500.
const (
	msgAuthRequired = "Authentication required. Please sign in."
	msgAuthFailed   = "Authentication failed"
)

// Reason labels for rejected requests on the auth failure counter.
const (
	authFailureMissingToken  = "missing_token"
	authFailureTokenRejected = "token_rejected"
	authFailureInternal      = "internal_error"
)

// AuthMiddleware guards routes with bearer token authentication.
type AuthMiddleware struct {
	jwtService auth.JWTService
	recorder   metrics.Recorder
}

// NewAuthMiddleware creates an AuthMiddleware backed by the given token
// validator. The recorder counts rejected requests and may be nil.
func NewAuthMiddleware(jwtService auth.JWTService, recorder metrics.Recorder) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		recorder:   recorder,
	}
}

func (m *AuthMiddleware) recordFailure(reason string) {
	if m.recorder != nil {
		m.recorder.RecordAuthFailure(reason)
	}
}

// Authenticate validates the Authorization header and stores the
// authenticated user's ID in the request context. Requests without a valid
// bearer token are rejected with 401 before reaching the handler.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			m.recordFailure(authFailureMissingToken)
			shared.RespondWithError(w, r, http.StatusUnauthorized, msgAuthRequired)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			if isTokenRejection(err) {
				m.recordFailure(authFailureTokenRejected)
				shared.RespondWithError(w, r, http.StatusUnauthorized, msgAuthRequired)
				return
			}
			slog.Error("token validation failed unexpectedly",
				"error", redact.Error(err),
				"trace_id", shared.GetTraceID(r.Context()))
			m.recordFailure(authFailureInternal)
			shared.RespondWithError(w, r, http.StatusInternalServerError, msgAuthFailed)
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthenticateOptional resolves the user when a valid bearer token is
// present but never rejects the request. Handlers behind it see an
// anonymous context when the token is absent or invalid.
func (m *AuthMiddleware) AuthenticateOptional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from "Authorization: Bearer <token>". The
// token never reaches the validator when the header is missing, malformed,
// or carries only whitespace.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// isTokenRejection reports whether the validation error is an expected
// rejection of the presented token rather than an internal failure.
func isTokenRejection(err error) bool {
	return errors.Is(err, auth.ErrInvalidToken) ||
		errors.Is(err, auth.ErrExpiredToken) ||
		errors.Is(err, auth.ErrTokenNotYetValid) ||
		errors.Is(err, auth.ErrWrongTokenType)
}

// GetUserID extracts the authenticated user's ID from the request context.
// The second return value is false for unauthenticated requests.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	return userID, ok
}

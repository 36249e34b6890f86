package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhallem/taskgate-api/internal/api/shared"
	"github.com/dhallem/taskgate-api/internal/domain"
	"github.com/dhallem/taskgate-api/internal/mocks"
	"github.com/dhallem/taskgate-api/internal/service/auth"
	"github.com/dhallem/taskgate-api/internal/store"
)

// fakeHash gives tests a cheap, deterministic stand-in for bcrypt.
func fakeHash(plaintext string) string { return "hashed:" + plaintext }

func newFakeHasher() *mocks.MockPasswordHasher {
	return &mocks.MockPasswordHasher{
		HashFn: func(password string) (string, error) {
			return fakeHash(password), nil
		},
	}
}

func newFakeVerifier() *mocks.MockPasswordVerifier {
	return &mocks.MockPasswordVerifier{
		CompareFn: func(hashedPassword, password string) error {
			if hashedPassword != fakeHash(password) {
				return errors.New("mismatch")
			}
			return nil
		},
	}
}

type authHandlerDeps struct {
	userStore  *mocks.MockUserStore
	tokenStore *mocks.MockAuthTokenStore
	jwtService *mocks.MockJWTService
	mailSender *mocks.MockMailSender
}

func newAuthHandler(t *testing.T, cfg AuthHandlerConfig, deps *authHandlerDeps) *AuthHandler {
	t.Helper()
	if deps.userStore == nil {
		deps.userStore = &mocks.MockUserStore{}
	}
	if deps.tokenStore == nil {
		deps.tokenStore = &mocks.MockAuthTokenStore{}
	}
	if deps.jwtService == nil {
		deps.jwtService = &mocks.MockJWTService{Token: "access", RefreshToken: "refresh"}
	}
	if deps.mailSender == nil {
		deps.mailSender = &mocks.MockMailSender{}
	}
	if cfg.TokenLifetime == 0 {
		cfg.TokenLifetime = time.Hour
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	return NewAuthHandler(
		deps.userStore,
		deps.tokenStore,
		deps.jwtService,
		newFakeHasher(),
		newFakeVerifier(),
		deps.mailSender,
		cfg,
	)
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(buf))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, r)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSignupMissingFields(t *testing.T) {
	t.Parallel()

	h := newAuthHandler(t, AuthHandlerConfig{}, &authHandlerDeps{})

	for _, body := range []map[string]string{
		{},
		{"email": "a@b.com"},
		{"password": "secret123"},
	} {
		w := postJSON(t, h.Signup, "/auth/signup", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Email and password are required", decodeBody(t, w)["error"])
	}
}

func TestSignupImmediateSession(t *testing.T) {
	t.Parallel()

	var created *domain.User
	deps := &authHandlerDeps{
		userStore: &mocks.MockUserStore{
			CreateFn: func(ctx context.Context, user *domain.User) error {
				created = user
				return nil
			},
		},
	}
	h := newAuthHandler(t, AuthHandlerConfig{RequireEmailConfirmation: false}, deps)

	w := postJSON(t, h.Signup, "/auth/signup", map[string]string{
		"email":    "A@B.com",
		"password": "secret123",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "User created successfully", body["message"])
	assert.Equal(t, false, body["requiresEmailConfirmation"])
	assert.NotNil(t, body["session"])

	require.NotNil(t, created)
	assert.Equal(t, "a@b.com", created.Email, "email should be lowercased")
	assert.Equal(t, fakeHash("secret123"), created.HashedPassword)
	assert.Empty(t, created.Password, "plaintext must be cleared before storage")
	assert.True(t, created.EmailConfirmed)
}

func TestSignupWithConfirmationPending(t *testing.T) {
	t.Parallel()

	deps := &authHandlerDeps{mailSender: &mocks.MockMailSender{}}
	h := newAuthHandler(t, AuthHandlerConfig{RequireEmailConfirmation: true}, deps)

	w := postJSON(t, h.Signup, "/auth/signup", map[string]string{
		"email":    "a@b.com",
		"password": "secret123",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["requiresEmailConfirmation"])
	assert.Nil(t, body["session"])

	sent := deps.mailSender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "email_confirmation", sent[0].Kind)
	assert.Equal(t, "a@b.com", sent[0].Email)
}

func TestSignupDuplicateEmail(t *testing.T) {
	t.Parallel()

	deps := &authHandlerDeps{
		userStore: &mocks.MockUserStore{Err: store.ErrEmailExists},
	}
	h := newAuthHandler(t, AuthHandlerConfig{}, deps)

	w := postJSON(t, h.Signup, "/auth/signup", map[string]string{
		"email":    "a@b.com",
		"password": "secret123",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already registered", decodeBody(t, w)["error"])
}

func TestSigninSuccess(t *testing.T) {
	t.Parallel()

	user := &domain.User{
		ID:             uuid.New(),
		Email:          "a@b.com",
		HashedPassword: fakeHash("secret123"),
		EmailConfirmed: true,
	}
	h := newAuthHandler(t, AuthHandlerConfig{}, &authHandlerDeps{
		userStore: &mocks.MockUserStore{User: user},
	})

	w := postJSON(t, h.Signin, "/auth/signin", map[string]string{
		"email":    "a@b.com",
		"password": "secret123",
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Signed in successfully", body["message"])
	assert.NotNil(t, body["session"])
}

func TestSigninRejections(t *testing.T) {
	t.Parallel()

	user := &domain.User{
		ID:             uuid.New(),
		Email:          "a@b.com",
		HashedPassword: fakeHash("secret123"),
		EmailConfirmed: true,
	}

	cases := []struct {
		name       string
		userStore  *mocks.MockUserStore
		body       map[string]string
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing password",
			userStore:  &mocks.MockUserStore{User: user},
			body:       map[string]string{"email": "a@b.com"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Email and password are required",
		},
		{
			name:       "unknown email",
			userStore:  &mocks.MockUserStore{Err: store.ErrUserNotFound},
			body:       map[string]string{"email": "x@b.com", "password": "secret123"},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid login credentials",
		},
		{
			name:       "wrong password",
			userStore:  &mocks.MockUserStore{User: user},
			body:       map[string]string{"email": "a@b.com", "password": "wrongpass"},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid login credentials",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := newAuthHandler(t, AuthHandlerConfig{}, &authHandlerDeps{userStore: tc.userStore})
			w := postJSON(t, h.Signin, "/auth/signin", tc.body)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantError, decodeBody(t, w)["error"])
		})
	}
}

func TestSigninUnconfirmedEmail(t *testing.T) {
	t.Parallel()

	user := &domain.User{
		ID:             uuid.New(),
		Email:          "a@b.com",
		HashedPassword: fakeHash("secret123"),
		EmailConfirmed: false,
	}
	h := newAuthHandler(t, AuthHandlerConfig{RequireEmailConfirmation: true}, &authHandlerDeps{
		userStore: &mocks.MockUserStore{User: user},
	})

	w := postJSON(t, h.Signin, "/auth/signin", map[string]string{
		"email":    "a@b.com",
		"password": "secret123",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Email not confirmed", decodeBody(t, w)["error"])
}

func TestEmailLookupsNormalizeCase(t *testing.T) {
	t.Parallel()

	// Signup stores the lowercased address, so every lookup must lowercase
	// the caller's input the same way.
	user := &domain.User{
		ID:             uuid.New(),
		Email:          "alice@example.com",
		HashedPassword: fakeHash("secret123"),
		EmailConfirmed: true,
	}
	exactMatchStore := func() *mocks.MockUserStore {
		return &mocks.MockUserStore{
			GetByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
				if email != user.Email {
					return nil, store.ErrUserNotFound
				}
				return user, nil
			},
		}
	}

	t.Run("signin", func(t *testing.T) {
		t.Parallel()
		h := newAuthHandler(t, AuthHandlerConfig{}, &authHandlerDeps{userStore: exactMatchStore()})

		w := postJSON(t, h.Signin, "/auth/signin", map[string]string{
			"email":    "Alice@Example.com",
			"password": "secret123",
		})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Signed in successfully", decodeBody(t, w)["message"])
	})

	t.Run("forgot password", func(t *testing.T) {
		t.Parallel()
		deps := &authHandlerDeps{userStore: exactMatchStore(), mailSender: &mocks.MockMailSender{}}
		h := newAuthHandler(t, AuthHandlerConfig{}, deps)

		w := postJSON(t, h.ForgotPassword, "/auth/forgot-password",
			map[string]string{"email": " Alice@Example.com "})

		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, deps.mailSender.Sent(), 1,
			"mixed-case input must still reach the stored account")
	})

	t.Run("reset password", func(t *testing.T) {
		t.Parallel()
		row := &domain.AuthToken{
			ID:        uuid.New(),
			UserID:    user.ID,
			Email:     "alice@example.com",
			TokenHash: fakeHash("rawtoken"),
			Purpose:   domain.TokenPurposePasswordReset,
			ExpiresAt: time.Now().Add(time.Hour),
			CreatedAt: time.Now(),
		}
		deps := &authHandlerDeps{
			userStore: exactMatchStore(),
			tokenStore: &mocks.MockAuthTokenStore{
				GetLatestActiveFn: func(ctx context.Context, email string, purpose domain.TokenPurpose) (*domain.AuthToken, error) {
					if email != row.Email {
						return nil, store.ErrTokenNotFound
					}
					return row, nil
				},
			},
		}
		h := newAuthHandler(t, AuthHandlerConfig{}, deps)

		w := postJSON(t, h.ResetPassword, "/auth/reset-password", map[string]string{
			"email":        "Alice@Example.com",
			"token":        "rawtoken",
			"new_password": "newsecret123",
		})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Password updated successfully", decodeBody(t, w)["message"])
	})
}

func TestSignoutAcknowledges(t *testing.T) {
	t.Parallel()

	h := newAuthHandler(t, AuthHandlerConfig{}, &authHandlerDeps{})

	r := httptest.NewRequest(http.MethodPost, "/auth/signout", nil)
	ctx := context.WithValue(r.Context(), shared.UserIDContextKey, uuid.New())
	w := httptest.NewRecorder()
	h.Signout(w, r.WithContext(ctx))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Signed out successfully", decodeBody(t, w)["message"])
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()
		h := newAuthHandler(t, AuthHandlerConfig{}, &authHandlerDeps{})
		w := postJSON(t, h.Refresh, "/auth/refresh", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Refresh token is required", decodeBody(t, w)["error"])
	})

	t.Run("invalid token", func(t *testing.T) {
		t.Parallel()
		h := newAuthHandler(t, AuthHandlerConfig{}, &authHandlerDeps{
			jwtService: &mocks.MockJWTService{ValidateErr: errors.New("bad token")},
		})
		w := postJSON(t, h.Refresh, "/auth/refresh", map[string]string{"refresh_token": "junk"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid refresh token", decodeBody(t, w)["error"])
	})

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		h := newAuthHandler(t, AuthHandlerConfig{}, &authHandlerDeps{
			jwtService: &mocks.MockJWTService{
				Token:        "new-access",
				RefreshToken: "new-refresh",
				Claims:       &auth.Claims{UserID: userID},
			},
		})
		w := postJSON(t, h.Refresh, "/auth/refresh", map[string]string{"refresh_token": "valid"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotNil(t, decodeBody(t, w)["session"])
	})
}

func TestForgotPasswordAntiEnumeration(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: uuid.New(), Email: "a@b.com", HashedPassword: fakeHash("x")}

	existing := newAuthHandler(t, AuthHandlerConfig{}, &authHandlerDeps{
		userStore: &mocks.MockUserStore{User: user},
	})
	missing := newAuthHandler(t, AuthHandlerConfig{}, &authHandlerDeps{
		userStore: &mocks.MockUserStore{Err: store.ErrUserNotFound},
	})

	wExisting := postJSON(t, existing.ForgotPassword, "/auth/forgot-password",
		map[string]string{"email": "a@b.com"})
	wMissing := postJSON(t, missing.ForgotPassword, "/auth/forgot-password",
		map[string]string{"email": "nobody@b.com"})

	assert.Equal(t, http.StatusOK, wExisting.Code)
	assert.Equal(t, http.StatusOK, wMissing.Code)
	assert.JSONEq(t, wExisting.Body.String(), wMissing.Body.String(),
		"existing and unknown emails must be indistinguishable")
	assert.Equal(t,
		"If an account with that email exists, a password reset link has been sent.",
		decodeBody(t, wExisting)["message"])
}

func TestForgotPasswordIssuesToken(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: uuid.New(), Email: "a@b.com", HashedPassword: fakeHash("x")}
	var storedToken *domain.AuthToken
	deps := &authHandlerDeps{
		userStore: &mocks.MockUserStore{User: user},
		tokenStore: &mocks.MockAuthTokenStore{
			CreateFn: func(ctx context.Context, token *domain.AuthToken) error {
				storedToken = token
				return nil
			},
		},
		mailSender: &mocks.MockMailSender{},
	}
	h := newAuthHandler(t, AuthHandlerConfig{}, deps)

	w := postJSON(t, h.ForgotPassword, "/auth/forgot-password", map[string]string{"email": "a@b.com"})
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, storedToken)
	assert.Equal(t, domain.TokenPurposePasswordReset, storedToken.Purpose)
	assert.Equal(t, user.ID, storedToken.UserID)
	assert.False(t, storedToken.Used)
	assert.WithinDuration(t, time.Now().Add(domain.PasswordResetTokenTTL),
		storedToken.ExpiresAt, time.Minute)

	sent := deps.mailSender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "password_reset", sent[0].Kind)
	assert.NotContains(t, storedToken.TokenHash, sent[0].Link,
		"stored hash must not equal the raw token")
}

func TestResetPasswordFailuresAreUniform(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	validRow := func() *domain.AuthToken {
		return &domain.AuthToken{
			ID:        uuid.New(),
			UserID:    userID,
			Email:     "a@b.com",
			TokenHash: fakeHash("rawtoken"),
			Purpose:   domain.TokenPurposePasswordReset,
			ExpiresAt: time.Now().Add(time.Hour),
			CreatedAt: time.Now(),
		}
	}

	expired := validRow()
	expired.ExpiresAt = time.Now().Add(-time.Minute)

	used := validRow()
	used.Used = true

	cases := []struct {
		name       string
		tokenStore *mocks.MockAuthTokenStore
		token      string
	}{
		{
			name:       "no token row",
			tokenStore: &mocks.MockAuthTokenStore{Err: store.ErrTokenNotFound},
			token:      "rawtoken",
		},
		{
			name:       "expired token",
			tokenStore: &mocks.MockAuthTokenStore{Token: expired},
			token:      "rawtoken",
		},
		{
			name:       "already used token",
			tokenStore: &mocks.MockAuthTokenStore{Token: used},
			token:      "rawtoken",
		},
		{
			name:       "hash mismatch",
			tokenStore: &mocks.MockAuthTokenStore{Token: validRow()},
			token:      "wrongtoken",
		},
	}

	var bodies []string
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			h := newAuthHandler(t, AuthHandlerConfig{}, &authHandlerDeps{tokenStore: tc.tokenStore})

			w := postJSON(t, h.ResetPassword, "/auth/reset-password", map[string]string{
				"email":        "a@b.com",
				"token":        tc.token,
				"new_password": "newsecret123",
			})

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Invalid or expired reset token", decodeBody(t, w)["error"])
			bodies = append(bodies, w.Body.String())
		})
	}

	for i := 1; i < len(bodies); i++ {
		assert.JSONEq(t, bodies[0], bodies[i],
			"failure causes must be indistinguishable from the response alone")
	}
}

func TestResetPasswordSuccess(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	row := &domain.AuthToken{
		ID:        uuid.New(),
		UserID:    userID,
		Email:     "a@b.com",
		TokenHash: fakeHash("rawtoken"),
		Purpose:   domain.TokenPurposePasswordReset,
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}

	var updatedHash string
	var markedUsed uuid.UUID
	deps := &authHandlerDeps{
		userStore: &mocks.MockUserStore{
			UpdatePasswordFn: func(ctx context.Context, id uuid.UUID, hashedPassword string) error {
				require.Equal(t, userID, id)
				updatedHash = hashedPassword
				return nil
			},
		},
		tokenStore: &mocks.MockAuthTokenStore{
			Token: row,
			MarkUsedFn: func(ctx context.Context, id uuid.UUID) error {
				markedUsed = id
				return nil
			},
		},
	}
	h := newAuthHandler(t, AuthHandlerConfig{}, deps)

	w := postJSON(t, h.ResetPassword, "/auth/reset-password", map[string]string{
		"email":        "a@b.com",
		"token":        "rawtoken",
		"new_password": "newsecret123",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Password updated successfully", decodeBody(t, w)["message"])
	assert.Equal(t, fakeHash("newsecret123"), updatedHash)
	assert.Equal(t, row.ID, markedUsed)
}

func TestConfirmEmail(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	row := &domain.AuthToken{
		ID:        uuid.New(),
		UserID:    userID,
		Email:     "a@b.com",
		TokenHash: fakeHash("rawtoken"),
		Purpose:   domain.TokenPurposeEmailConfirm,
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}

	var confirmed uuid.UUID
	deps := &authHandlerDeps{
		userStore: &mocks.MockUserStore{
			ConfirmEmailFn: func(ctx context.Context, id uuid.UUID) error {
				confirmed = id
				return nil
			},
		},
		tokenStore: &mocks.MockAuthTokenStore{Token: row},
	}
	h := newAuthHandler(t, AuthHandlerConfig{RequireEmailConfirmation: true}, deps)

	w := postJSON(t, h.ConfirmEmail, "/auth/confirm", map[string]string{
		"email": "a@b.com",
		"token": "rawtoken",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, confirmed)
}

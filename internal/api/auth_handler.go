package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dhallem/taskgate-api/internal/domain"
	"github.com/dhallem/taskgate-api/internal/redact"
	"github.com/dhallem/taskgate-api/internal/service/auth"
	"github.com/dhallem/taskgate-api/internal/service/mail"
	"github.com/dhallem/taskgate-api/internal/store"
)

// User-facing messages for the account lifecycle endpoints. The reset and
// confirmation failures are deliberately uniform so callers cannot
// distinguish a missing row from an expired or mismatched token.
const (
	msgMissingCredentials    = "Email and password are required"
	msgMissingRefreshToken   = "Refresh token is required"
	msgInvalidCredentials    = "Invalid login credentials"
	msgEmailNotConfirmed     = "Email not confirmed"
	msgResetLinkSent         = "If an account with that email exists, a password reset link has been sent."
	msgInvalidResetToken     = "Invalid or expired reset token"
	msgInvalidConfirmToken   = "Invalid or expired confirmation token"
	msgSignupConfirmPending  = "Account created successfully. Please check your email to confirm your account before signing in."
	msgSignupComplete        = "User created successfully"
	msgSignedIn              = "Signed in successfully"
	msgSignedOut             = "Signed out successfully"
	msgPasswordUpdated       = "Password updated successfully"
	msgEmailConfirmed        = "Email confirmed successfully. You can now sign in."
	msgInternalServerError   = "Internal server error"
	msgEmailAlreadyInUse     = "Email already registered"
	msgInvalidRefreshToken   = "Invalid refresh token"
	msgMissingEmail          = "Email is required"
	msgMissingResetFields    = "Email, token, and new password are required"
	msgMissingConfirmFields  = "Email and token are required"
)

// resetTokenBytes is the entropy of a password reset or email confirmation
// token before hex encoding.
const resetTokenBytes = 32

// AuthHandlerConfig carries the settings the account endpoints need.
type AuthHandlerConfig struct {
	TokenLifetime            time.Duration
	RequireEmailConfirmation bool
	BaseURL                  string
}

// AuthHandler serves the account and session lifecycle endpoints.
type AuthHandler struct {
	userStore      store.UserStore
	authTokenStore store.AuthTokenStore
	jwtService     auth.JWTService
	hasher         auth.PasswordHasher
	verifier       auth.PasswordVerifier
	mailSender     mail.Sender
	cfg            AuthHandlerConfig
	validator      *validator.Validate
}

// NewAuthHandler creates an AuthHandler with the given collaborators.
func NewAuthHandler(
	userStore store.UserStore,
	authTokenStore store.AuthTokenStore,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	mailSender mail.Sender,
	cfg AuthHandlerConfig,
) *AuthHandler {
	return &AuthHandler{
		userStore:      userStore,
		authTokenStore: authTokenStore,
		jwtService:     jwtService,
		hasher:         hasher,
		verifier:       verifier,
		mailSender:     mailSender,
		cfg:            cfg,
		validator:      validator.New(),
	}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, msgMissingCredentials)
		return
	}
	if req.Email == "" || req.Password == "" {
		RespondWithError(w, r, http.StatusBadRequest, msgMissingCredentials)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := domain.NewUser(req.Email, req.Password)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	hashed, err := h.hasher.Hash(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", redact.Error(err))
		RespondWithError(w, r, http.StatusInternalServerError, msgInternalServerError)
		return
	}
	user.HashedPassword = hashed
	user.Password = ""
	user.EmailConfirmed = !h.cfg.RequireEmailConfirmation

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			RespondWithError(w, r, http.StatusBadRequest, msgEmailAlreadyInUse)
			return
		}
		slog.Error("failed to create user", "error", redact.Error(err))
		RespondWithError(w, r, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	if h.cfg.RequireEmailConfirmation {
		if err := h.issueToken(r, user, domain.TokenPurposeEmailConfirm); err != nil {
			// The account exists; the confirmation mail can be re-requested.
			slog.Error("failed to issue confirmation token",
				"error", redact.Error(err), "user_id", user.ID)
		}
		RespondWithJSON(w, r, http.StatusCreated, SignupResponse{
			Message:                   msgSignupConfirmPending,
			User:                      NewUserView(user),
			Session:                   nil,
			RequiresEmailConfirmation: true,
		})
		return
	}

	session, err := auth.NewSession(r.Context(), h.jwtService, user.ID, h.cfg.TokenLifetime)
	if err != nil {
		slog.Error("failed to issue session", "error", redact.Error(err), "user_id", user.ID)
		RespondWithError(w, r, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, SignupResponse{
		Message:                   msgSignupComplete,
		User:                      NewUserView(user),
		Session:                   session,
		RequiresEmailConfirmation: false,
	})
}

// Signin handles POST /auth/signin.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, msgMissingCredentials)
		return
	}
	if req.Email == "" || req.Password == "" {
		RespondWithError(w, r, http.StatusBadRequest, msgMissingCredentials)
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), domain.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			RespondWithError(w, r, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}
		slog.Error("failed to look up user", "error", redact.Error(err))
		RespondWithError(w, r, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	if err := h.verifier.Compare(user.HashedPassword, req.Password); err != nil {
		RespondWithError(w, r, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	if h.cfg.RequireEmailConfirmation && !user.EmailConfirmed {
		RespondWithError(w, r, http.StatusUnauthorized, msgEmailNotConfirmed)
		return
	}

	session, err := auth.NewSession(r.Context(), h.jwtService, user.ID, h.cfg.TokenLifetime)
	if err != nil {
		slog.Error("failed to issue session", "error", redact.Error(err), "user_id", user.ID)
		RespondWithError(w, r, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, SigninResponse{
		Message: msgSignedIn,
		User:    NewUserView(user),
		Session: session,
	})
}

// Signout handles POST /auth/signout. Tokens are stateless, so a signout
// behind the mandatory gate amounts to acknowledging that the presented
// token was valid. The client discards it.
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserIDFromContext(r); !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}
	RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: msgSignedOut})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			HandleAPIError(w, r, domain.ErrUnauthorized, "")
			return
		}
		slog.Error("failed to load user", "error", redact.Error(err), "user_id", userID)
		RespondWithError(w, r, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, UserResponse{User: NewUserView(user)})
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, msgMissingRefreshToken)
		return
	}
	if req.RefreshToken == "" {
		RespondWithError(w, r, http.StatusBadRequest, msgMissingRefreshToken)
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, msgInvalidRefreshToken)
		return
	}

	session, err := auth.NewSession(r.Context(), h.jwtService, claims.UserID, h.cfg.TokenLifetime)
	if err != nil {
		slog.Error("failed to issue session", "error", redact.Error(err), "user_id", claims.UserID)
		RespondWithError(w, r, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, SessionResponse{Session: session})
}

// ForgotPassword handles POST /auth/forgot-password. The response is the
// same whether or not the email maps to an account; failures after the
// lookup are logged and still answered with the generic message so the
// endpoint cannot be used to enumerate accounts.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, msgMissingEmail)
		return
	}
	if req.Email == "" {
		RespondWithError(w, r, http.StatusBadRequest, msgMissingEmail)
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), domain.NormalizeEmail(req.Email))
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			slog.Error("failed to look up user for password reset", "error", redact.Error(err))
		}
		RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: msgResetLinkSent})
		return
	}

	if err := h.issueToken(r, user, domain.TokenPurposePasswordReset); err != nil {
		slog.Error("failed to issue reset token", "error", redact.Error(err), "user_id", user.ID)
	}

	RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: msgResetLinkSent})
}

// ResetPassword handles POST /auth/reset-password. A missing token row, an
// expired or already-used token, and a hash mismatch all yield the same
// rejection.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, msgMissingResetFields)
		return
	}
	if req.Email == "" || req.Token == "" || req.NewPassword == "" {
		RespondWithError(w, r, http.StatusBadRequest, msgMissingResetFields)
		return
	}
	if len(req.NewPassword) < domain.MinPasswordLength {
		RespondWithError(w, r, http.StatusBadRequest, domain.ErrPasswordTooShort.Error())
		return
	}
	if len(req.NewPassword) > domain.MaxPasswordLength {
		RespondWithError(w, r, http.StatusBadRequest, domain.ErrPasswordTooLong.Error())
		return
	}

	token, ok := h.consumeToken(w, r, req.Email, req.Token,
		domain.TokenPurposePasswordReset, msgInvalidResetToken)
	if !ok {
		return
	}

	hashed, err := h.hasher.Hash(req.NewPassword)
	if err != nil {
		slog.Error("failed to hash password", "error", redact.Error(err))
		RespondWithError(w, r, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	if err := h.userStore.UpdatePassword(r.Context(), token.UserID, hashed); err != nil {
		slog.Error("failed to update password",
			"error", redact.Error(err), "user_id", token.UserID)
		RespondWithError(w, r, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	if err := h.authTokenStore.MarkUsed(r.Context(), token.ID); err != nil {
		// The password change already happened; log and continue.
		slog.Error("failed to mark reset token used",
			"error", redact.Error(err), "token_id", token.ID)
	}

	RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: msgPasswordUpdated})
}

// ConfirmEmail handles POST /auth/confirm.
func (h *AuthHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	var req ConfirmEmailRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, msgMissingConfirmFields)
		return
	}
	if req.Email == "" || req.Token == "" {
		RespondWithError(w, r, http.StatusBadRequest, msgMissingConfirmFields)
		return
	}

	token, ok := h.consumeToken(w, r, req.Email, req.Token,
		domain.TokenPurposeEmailConfirm, msgInvalidConfirmToken)
	if !ok {
		return
	}

	if err := h.userStore.ConfirmEmail(r.Context(), token.UserID); err != nil {
		slog.Error("failed to confirm email",
			"error", redact.Error(err), "user_id", token.UserID)
		RespondWithError(w, r, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	if err := h.authTokenStore.MarkUsed(r.Context(), token.ID); err != nil {
		slog.Error("failed to mark confirmation token used",
			"error", redact.Error(err), "token_id", token.ID)
	}

	RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: msgEmailConfirmed})
}

// issueToken generates a fresh single-use token for the user, stores its
// hash, and hands the raw value to the mail sender as a link.
func (h *AuthHandler) issueToken(r *http.Request, user *domain.User, purpose domain.TokenPurpose) error {
	raw, err := generateRawToken()
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}

	hash, err := h.hasher.Hash(raw)
	if err != nil {
		return fmt.Errorf("hash token: %w", err)
	}

	authToken, err := domain.NewAuthToken(user.ID, user.Email, hash, purpose)
	if err != nil {
		return fmt.Errorf("build token: %w", err)
	}
	if err := h.authTokenStore.Create(r.Context(), authToken); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	switch purpose {
	case domain.TokenPurposePasswordReset:
		link := fmt.Sprintf("%s/auth/reset-password?token=%s", h.cfg.BaseURL, raw)
		return h.mailSender.SendPasswordReset(r.Context(), user.Email, link)
	case domain.TokenPurposeEmailConfirm:
		link := fmt.Sprintf("%s/auth/confirm?token=%s", h.cfg.BaseURL, raw)
		return h.mailSender.SendEmailConfirmation(r.Context(), user.Email, link)
	default:
		return fmt.Errorf("unknown token purpose %q", purpose)
	}
}

// consumeToken loads the latest unused token for the email and purpose and
// checks expiry and the hash. Every failure branch writes the identical
// rejection and returns false.
func (h *AuthHandler) consumeToken(
	w http.ResponseWriter,
	r *http.Request,
	email, rawToken string,
	purpose domain.TokenPurpose,
	rejectMessage string,
) (*domain.AuthToken, bool) {
	token, err := h.authTokenStore.GetLatestActive(r.Context(), domain.NormalizeEmail(email), purpose)
	if err != nil {
		if !errors.Is(err, store.ErrTokenNotFound) {
			slog.Error("failed to load auth token", "error", redact.Error(err))
		}
		RespondWithError(w, r, http.StatusBadRequest, rejectMessage)
		return nil, false
	}

	if !token.IsConsumable(time.Now().UTC()) {
		RespondWithError(w, r, http.StatusBadRequest, rejectMessage)
		return nil, false
	}

	if err := h.verifier.Compare(token.TokenHash, rawToken); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, rejectMessage)
		return nil, false
	}

	return token, true
}

// generateRawToken returns a hex-encoded high-entropy token.
func generateRawToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dhallem/taskgate-api/internal/domain"
	"github.com/dhallem/taskgate-api/internal/platform/logger"
	"github.com/dhallem/taskgate-api/internal/store"
)

// PostgresAuthTokenStore implements the store.AuthTokenStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAuthTokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAuthTokenStore creates a new PostgreSQL implementation of the
// AuthTokenStore interface. If logger is nil, a default logger will be used.
func NewPostgresAuthTokenStore(db store.DBTX, logger *slog.Logger) *PostgresAuthTokenStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAuthTokenStore{
		db:     db,
		logger: logger.With(slog.String("component", "auth_token_store")),
	}
}

// Ensure PostgresAuthTokenStore implements store.AuthTokenStore interface
var _ store.AuthTokenStore = (*PostgresAuthTokenStore)(nil)

// Create implements store.AuthTokenStore.Create
func (s *PostgresAuthTokenStore) Create(ctx context.Context, token *domain.AuthToken) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := token.Validate(); err != nil {
		log.Warn("auth token validation failed during create",
			slog.String("error", err.Error()),
			slog.String("token_id", token.ID.String()))
		return err
	}

	query := `
		INSERT INTO auth_tokens (id, user_id, email, token_hash, purpose, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		token.ID,
		token.UserID,
		token.Email,
		token.TokenHash,
		token.Purpose,
		token.ExpiresAt,
		token.Used,
		token.CreatedAt,
	)

	if err != nil {
		log.Error("failed to create auth token",
			slog.String("error", err.Error()),
			slog.String("token_id", token.ID.String()))
		return mapError(err)
	}

	log.Info("auth token created",
		slog.String("token_id", token.ID.String()),
		slog.String("purpose", string(token.Purpose)))
	return nil
}

// GetLatestActive implements store.AuthTokenStore.GetLatestActive
// Expiry is deliberately not filtered here: the caller re-validates it at
// consumption time so that expired and mismatched tokens fail identically.
func (s *PostgresAuthTokenStore) GetLatestActive(
	ctx context.Context,
	email string,
	purpose domain.TokenPurpose,
) (*domain.AuthToken, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, email, token_hash, purpose, expires_at, used, created_at
		FROM auth_tokens
		WHERE email = $1 AND purpose = $2 AND used = FALSE
		ORDER BY created_at DESC
		LIMIT 1
	`

	var token domain.AuthToken
	var purposeStr string
	err := s.db.QueryRowContext(ctx, query, email, purpose).Scan(
		&token.ID,
		&token.UserID,
		&token.Email,
		&token.TokenHash,
		&purposeStr,
		&token.ExpiresAt,
		&token.Used,
		&token.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTokenNotFound
		}
		log.Error("failed to get auth token", slog.String("error", err.Error()))
		return nil, err
	}

	token.Purpose = domain.TokenPurpose(purposeStr)
	return &token, nil
}

// MarkUsed implements store.AuthTokenStore.MarkUsed
// The conditional update makes consumption single-shot even when two
// requests race on the same row; the loser sees store.ErrTokenNotFound.
func (s *PostgresAuthTokenStore) MarkUsed(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE auth_tokens
		SET used = TRUE
		WHERE id = $1 AND used = FALSE
	`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to mark auth token used",
			slog.String("error", err.Error()),
			slog.String("token_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return store.ErrTokenNotFound
	}

	log.Info("auth token consumed", slog.String("token_id", id.String()))
	return nil
}

package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/dhallem/taskgate-api/internal/domain"
)

// CategoryStore defines the interface for category persistence, scoped by
// the owning user in the same way as TaskStore.
type CategoryStore interface {
	// Create saves a new category. Returns ErrCategoryExists when the user
	// already owns a category with the same name.
	Create(ctx context.Context, category *domain.Category) error

	// ListByUser returns all categories owned by the user, ordered by name.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error)

	// GetByName retrieves the user's category with the given name.
	// Returns ErrCategoryNotFound if none exists.
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Category, error)

	// Delete removes an owned category. As with tasks, deleting a missing
	// row succeeds; only storage failures surface as errors.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

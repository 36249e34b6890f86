package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/dhallem/taskgate-api/internal/domain"
)

// TaskFilterField names a task column an equality filter may be applied to.
// Restricting filters to this closed set keeps caller-supplied path
// parameters out of SQL identifiers.
type TaskFilterField string

const (
	TaskFilterStatus   TaskFilterField = "status"
	TaskFilterPriority TaskFilterField = "priority"
	TaskFilterCategory TaskFilterField = "category"
)

// TaskStore defines the interface for task persistence. Every method that
// reads or mutates existing rows takes the owning user's ID and only
// touches rows owned by that user.
type TaskStore interface {
	// Create saves a new task to the store.
	Create(ctx context.Context, task *domain.Task) error

	// ListByUser returns all tasks owned by the user, newest-created first.
	// Returns an empty slice when the user owns no tasks.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// ListByUserFiltered returns the user's tasks matching an equality filter
	// on the given field, newest-created first.
	ListByUserFiltered(
		ctx context.Context,
		userID uuid.UUID,
		field TaskFilterField,
		value string,
	) ([]*domain.Task, error)

	// GetByID retrieves a task by ID, scoped to the owner. Returns
	// ErrTaskNotFound when no owned row matches, including when the row
	// exists but belongs to another user.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error)

	// Update applies a partial update to an owned task and refreshes its
	// updated-at timestamp. Returns the updated task, or ErrTaskNotFound
	// when no owned row matches.
	Update(ctx context.Context, userID, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// Delete removes an owned task. Deleting a row that does not exist (or
	// is owned by someone else) is not an error; only storage failures are.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

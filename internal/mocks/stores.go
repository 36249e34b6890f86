package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/dhallem/taskgate-api/internal/domain"
	"github.com/dhallem/taskgate-api/internal/store"
)

// MockUserStore implements store.UserStore for testing.
type MockUserStore struct {
	CreateFn         func(ctx context.Context, user *domain.User) error
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn     func(ctx context.Context, email string) (*domain.User, error)
	UpdatePasswordFn func(ctx context.Context, id uuid.UUID, hashedPassword string) error
	ConfirmEmailFn   func(ctx context.Context, id uuid.UUID) error

	User *domain.User
	Err  error
}

var _ store.UserStore = (*MockUserStore)(nil)

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return m.Err
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return m.User, m.Err
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return m.User, m.Err
}

func (m *MockUserStore) UpdatePassword(
	ctx context.Context,
	id uuid.UUID,
	hashedPassword string,
) error {
	if m.UpdatePasswordFn != nil {
		return m.UpdatePasswordFn(ctx, id, hashedPassword)
	}
	return m.Err
}

func (m *MockUserStore) ConfirmEmail(ctx context.Context, id uuid.UUID) error {
	if m.ConfirmEmailFn != nil {
		return m.ConfirmEmailFn(ctx, id)
	}
	return m.Err
}

// MockTaskStore implements store.TaskStore for testing.
type MockTaskStore struct {
	CreateFn             func(ctx context.Context, task *domain.Task) error
	ListByUserFn         func(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)
	ListByUserFilteredFn func(ctx context.Context, userID uuid.UUID, field store.TaskFilterField, value string) ([]*domain.Task, error)
	GetByIDFn            func(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error)
	UpdateFn             func(ctx context.Context, userID, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)
	DeleteFn             func(ctx context.Context, userID, id uuid.UUID) error

	Task  *domain.Task
	Tasks []*domain.Task
	Err   error
}

var _ store.TaskStore = (*MockTaskStore)(nil)

func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	return m.Err
}

func (m *MockTaskStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Task, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return m.Tasks, m.Err
}

func (m *MockTaskStore) ListByUserFiltered(
	ctx context.Context,
	userID uuid.UUID,
	field store.TaskFilterField,
	value string,
) ([]*domain.Task, error) {
	if m.ListByUserFilteredFn != nil {
		return m.ListByUserFilteredFn(ctx, userID, field, value)
	}
	return m.Tasks, m.Err
}

func (m *MockTaskStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, id)
	}
	return m.Task, m.Err
}

func (m *MockTaskStore) Update(
	ctx context.Context,
	userID, id uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, userID, id, patch)
	}
	return m.Task, m.Err
}

func (m *MockTaskStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	return m.Err
}

// MockCategoryStore implements store.CategoryStore for testing.
type MockCategoryStore struct {
	CreateFn     func(ctx context.Context, category *domain.Category) error
	ListByUserFn func(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error)
	GetByNameFn  func(ctx context.Context, userID uuid.UUID, name string) (*domain.Category, error)
	DeleteFn     func(ctx context.Context, userID, id uuid.UUID) error

	Category   *domain.Category
	Categories []*domain.Category
	Err        error
}

var _ store.CategoryStore = (*MockCategoryStore)(nil)

func (m *MockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, category)
	}
	return m.Err
}

func (m *MockCategoryStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Category, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return m.Categories, m.Err
}

func (m *MockCategoryStore) GetByName(
	ctx context.Context,
	userID uuid.UUID,
	name string,
) (*domain.Category, error) {
	if m.GetByNameFn != nil {
		return m.GetByNameFn(ctx, userID, name)
	}
	return m.Category, m.Err
}

func (m *MockCategoryStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	return m.Err
}

// MockAuthTokenStore implements store.AuthTokenStore for testing.
type MockAuthTokenStore struct {
	CreateFn          func(ctx context.Context, token *domain.AuthToken) error
	GetLatestActiveFn func(ctx context.Context, email string, purpose domain.TokenPurpose) (*domain.AuthToken, error)
	MarkUsedFn        func(ctx context.Context, id uuid.UUID) error

	Token *domain.AuthToken
	Err   error
}

var _ store.AuthTokenStore = (*MockAuthTokenStore)(nil)

func (m *MockAuthTokenStore) Create(ctx context.Context, token *domain.AuthToken) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, token)
	}
	return m.Err
}

func (m *MockAuthTokenStore) GetLatestActive(
	ctx context.Context,
	email string,
	purpose domain.TokenPurpose,
) (*domain.AuthToken, error) {
	if m.GetLatestActiveFn != nil {
		return m.GetLatestActiveFn(ctx, email, purpose)
	}
	return m.Token, m.Err
}

func (m *MockAuthTokenStore) MarkUsed(ctx context.Context, id uuid.UUID) error {
	if m.MarkUsedFn != nil {
		return m.MarkUsedFn(ctx, id)
	}
	return m.Err
}

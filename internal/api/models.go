package api

import (
	"encoding/json"
	"time"

	"github.com/dhallem/taskgate-api/internal/domain"
	"github.com/dhallem/taskgate-api/internal/service/auth"
)

// Request and response structures for the JSON surface. Field names on the
// wire match the original public API exactly.

// SignupRequest defines the payload for the signup endpoint.
type SignupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// SigninRequest defines the payload for the signin endpoint.
type SigninRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// RefreshRequest defines the payload for the session refresh endpoint.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ForgotPasswordRequest defines the payload for requesting a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest defines the payload for consuming a reset token.
type ResetPasswordRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Token       string `json:"token"        validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// ConfirmEmailRequest defines the payload for confirming an account's email.
type ConfirmEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required"`
}

// CreateTaskRequest defines the payload for creating a task. Everything but
// the title is optional and takes documented defaults.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Category    string     `json:"category"`
}

// OptionalTime distinguishes an absent JSON field from an explicit null, so
// a task update can clear the due date without a sentinel value.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

// UnmarshalJSON implements json.Unmarshaler. It runs for both concrete
// timestamps and explicit nulls; an absent field leaves Set false.
func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

var _ json.Unmarshaler = (*OptionalTime)(nil)

// UpdateTaskRequest defines the payload for a partial task update. Absent
// fields leave the stored value untouched.
type UpdateTaskRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Status      *string      `json:"status"`
	Priority    *string      `json:"priority"`
	DueDate     OptionalTime `json:"due_date"`
	Category    *string      `json:"category"`
}

// Patch converts the request into a domain patch.
func (r *UpdateTaskRequest) Patch() domain.TaskPatch {
	patch := domain.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		Category:    r.Category,
	}
	if r.DueDate.Set {
		patch.DueDate = &r.DueDate.Value
	}
	return patch
}

// CreateCategoryRequest defines the payload for creating a category.
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// UserView is the task-facing projection of an account. The password hash
// and internal fields never appear on the wire.
type UserView struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	EmailConfirmed bool      `json:"email_confirmed"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUserView projects a domain user onto the wire shape.
func NewUserView(u *domain.User) *UserView {
	if u == nil {
		return nil
	}
	return &UserView{
		ID:             u.ID.String(),
		Email:          u.Email,
		EmailConfirmed: u.EmailConfirmed,
		CreatedAt:      u.CreatedAt,
	}
}

// SignupResponse is the success body for signup. Session is null when email
// confirmation is still pending.
type SignupResponse struct {
	Message                   string        `json:"message"`
	User                      *UserView     `json:"user"`
	Session                   *auth.Session `json:"session"`
	RequiresEmailConfirmation bool          `json:"requiresEmailConfirmation"`
}

// SigninResponse is the success body for signin.
type SigninResponse struct {
	Message string        `json:"message"`
	User    *UserView     `json:"user"`
	Session *auth.Session `json:"session"`
}

// SessionResponse is the success body for the refresh endpoint.
type SessionResponse struct {
	Session *auth.Session `json:"session"`
}

// UserResponse is the success body for the identity echo endpoint.
type UserResponse struct {
	User *UserView `json:"user"`
}

// MessageResponse carries a bare confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// TasksResponse wraps a task list.
type TasksResponse struct {
	Tasks []*domain.Task `json:"tasks"`
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	Task *domain.Task `json:"task"`
}

// CategoriesResponse wraps a category list.
type CategoriesResponse struct {
	Categories []*domain.Category `json:"categories"`
}

// CategoryResponse wraps a single category.
type CategoryResponse struct {
	Category *domain.Category `json:"category"`
}

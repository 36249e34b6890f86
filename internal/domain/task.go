package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task validation errors
var (
	ErrEmptyTaskID     = errors.New("task ID cannot be empty")
	ErrEmptyTaskUserID = errors.New("task user ID cannot be empty")
	ErrEmptyTaskTitle  = errors.New("task title cannot be empty")
)

// Default values applied when a task is created without the optional fields.
const (
	DefaultTaskStatus   = "pending"
	DefaultTaskPriority = "medium"
)

// Task represents a single to-do item owned by a user. Status and priority
// are caller-supplied strings rather than closed enums; the defaults are
// "pending" and "medium". DueDate is optional.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Category    string     `json:"category"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates a task for the given owner, applying defaults for any
// optional field left empty. Returns an error if validation fails.
func NewTask(
	userID uuid.UUID,
	title, description, status, priority, category string,
	dueDate *time.Time,
) (*Task, error) {
	if status == "" {
		status = DefaultTaskStatus
	}
	if priority == "" {
		priority = DefaultTaskPriority
	}

	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: description,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTaskTitle
	}
	return nil
}

// TaskPatch describes a partial update to a task. Only non-nil fields are
// applied; DueDate uses a double pointer so "set to null" and "leave alone"
// remain distinguishable.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     **time.Time
	Category    *string
}

// Apply copies the set fields of the patch onto the task and refreshes the
// updated-at timestamp. Returns an error if the patched task is invalid.
func (p *TaskPatch) Apply(t *Task) error {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	t.UpdatedAt = time.Now().UTC()

	return t.Validate()
}

// IsEmpty reports whether the patch changes nothing.
func (p *TaskPatch) IsEmpty() bool {
	return p.Title == nil &&
		p.Description == nil &&
		p.Status == nil &&
		p.Priority == nil &&
		p.DueDate == nil &&
		p.Category == nil
}

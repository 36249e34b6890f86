package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category validation errors
var (
	ErrEmptyCategoryID     = errors.New("category ID cannot be empty")
	ErrEmptyCategoryUserID = errors.New("category user ID cannot be empty")
	ErrEmptyCategoryName   = errors.New("category name cannot be empty")
)

// Category is a user-defined label for grouping tasks. Names are unique
// per owner; two different users may each own a category with the same name.
type Category struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCategory creates a category for the given owner. The name is trimmed
// of surrounding whitespace. Returns an error if validation fails.
func NewCategory(userID uuid.UUID, name string) (*Category, error) {
	category := &Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	return category, nil
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCategoryID
	}
	if c.UserID == uuid.Nil {
		return ErrEmptyCategoryUserID
	}
	if c.Name == "" {
		return ErrEmptyCategoryName
	}
	return nil
}

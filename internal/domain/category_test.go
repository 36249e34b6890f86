package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewCategory(t *testing.T) {
	userID := uuid.New()

	category, err := NewCategory(userID, "  Work  ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if category.Name != "Work" {
		t.Errorf("Expected trimmed name Work, got %q", category.Name)
	}
	if category.UserID != userID {
		t.Errorf("Expected owner %s, got %s", userID, category.UserID)
	}
	if category.ID == uuid.Nil {
		t.Error("Expected non-nil UUID")
	}
}

func TestNewCategoryValidation(t *testing.T) {
	_, err := NewCategory(uuid.New(), "   ")
	if !errors.Is(err, ErrEmptyCategoryName) {
		t.Errorf("Expected error %v, got %v", ErrEmptyCategoryName, err)
	}

	_, err = NewCategory(uuid.Nil, "Work")
	if !errors.Is(err, ErrEmptyCategoryUserID) {
		t.Errorf("Expected error %v, got %v", ErrEmptyCategoryUserID, err)
	}
}

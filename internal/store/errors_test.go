package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundErrorsUnwrap(t *testing.T) {
	for _, err := range []error{ErrUserNotFound, ErrTaskNotFound, ErrCategoryNotFound, ErrTokenNotFound} {
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected %v to wrap ErrNotFound", err)
		}
		if !IsNotFoundError(err) {
			t.Errorf("Expected IsNotFoundError to be true for %v", err)
		}
	}

	if IsNotFoundError(ErrDuplicate) {
		t.Error("Expected IsNotFoundError to be false for ErrDuplicate")
	}
}

func TestDuplicateErrorsUnwrap(t *testing.T) {
	for _, err := range []error{ErrEmailExists, ErrCategoryExists} {
		if !errors.Is(err, ErrDuplicate) {
			t.Errorf("Expected %v to wrap ErrDuplicate", err)
		}
		if !IsDuplicateError(err) {
			t.Errorf("Expected IsDuplicateError to be true for %v", err)
		}
	}
}

func TestWrappedErrorsStillClassify(t *testing.T) {
	wrapped := fmt.Errorf("listing tasks: %w", ErrTaskNotFound)
	if !IsNotFoundError(wrapped) {
		t.Error("Expected wrapped task not found error to classify as not found")
	}
}

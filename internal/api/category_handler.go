package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dhallem/taskgate-api/internal/domain"
	"github.com/dhallem/taskgate-api/internal/redact"
	"github.com/dhallem/taskgate-api/internal/store"
)

const (
	msgMissingCategoryName = "Category name is required"
	msgCategoryExists      = "Category already exists"
	msgCategoryDeleted     = "Category deleted successfully"
)

// CategoryHandler serves the category endpoints, scoped to the caller like
// TaskHandler.
type CategoryHandler struct {
	categoryStore store.CategoryStore
}

// NewCategoryHandler creates a CategoryHandler backed by the given store.
func NewCategoryHandler(categoryStore store.CategoryStore) *CategoryHandler {
	return &CategoryHandler{categoryStore: categoryStore}
}

// List handles GET /categories, ordered by name.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	categories, err := h.categoryStore.ListByUser(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list categories", "error", redact.Error(err), "user_id", userID)
		RespondWithError(w, r, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, CategoriesResponse{Categories: categories})
}

// Create handles POST /categories. The pre-insert duplicate check is not
// atomic against a concurrent create; the unique index backs it up, and
// both paths answer with the same conflict.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req CreateCategoryRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, msgMissingCategoryName)
		return
	}
	if req.Name == "" {
		RespondWithError(w, r, http.StatusBadRequest, msgMissingCategoryName)
		return
	}

	category, err := domain.NewCategory(userID, req.Name)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	_, err = h.categoryStore.GetByName(r.Context(), userID, category.Name)
	if err == nil {
		RespondWithError(w, r, http.StatusConflict, msgCategoryExists)
		return
	}
	if !errors.Is(err, store.ErrCategoryNotFound) {
		slog.Error("failed to check category", "error", redact.Error(err), "user_id", userID)
		RespondWithError(w, r, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	if err := h.categoryStore.Create(r.Context(), category); err != nil {
		if errors.Is(err, store.ErrCategoryExists) {
			RespondWithError(w, r, http.StatusConflict, msgCategoryExists)
			return
		}
		slog.Error("failed to create category", "error", redact.Error(err), "user_id", userID)
		RespondWithError(w, r, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, CategoryResponse{Category: category})
}

// Delete handles DELETE /categories/{id}, idempotently.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, categoryID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	if err := h.categoryStore.Delete(r.Context(), userID, categoryID); err != nil {
		slog.Error("failed to delete category", "error", redact.Error(err), "user_id", userID)
		RespondWithError(w, r, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: msgCategoryDeleted})
}

package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dhallem/taskgate-api/internal/domain"
	"github.com/dhallem/taskgate-api/internal/redact"
	"github.com/dhallem/taskgate-api/internal/store"
)

const (
	msgMissingTitle = "Title is required"
	msgTaskNotFound = "Task not found"
	msgTaskDeleted  = "Task deleted successfully"
)

// TaskHandler serves the task CRUD endpoints. Every operation is scoped to
// the authenticated caller; rows owned by other users are indistinguishable
// from rows that do not exist.
type TaskHandler struct {
	taskStore store.TaskStore
}

// NewTaskHandler creates a TaskHandler backed by the given store.
func NewTaskHandler(taskStore store.TaskStore) *TaskHandler {
	return &TaskHandler{taskStore: taskStore}
}

// List handles GET /tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	tasks, err := h.taskStore.ListByUser(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list tasks", "error", redact.Error(err), "user_id", userID)
		RespondWithError(w, r, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, TasksResponse{Tasks: tasks})
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), userID, taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			RespondWithError(w, r, http.StatusNotFound, msgTaskNotFound)
			return
		}
		slog.Error("failed to get task", "error", redact.Error(err), "user_id", userID)
		RespondWithError(w, r, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, TaskResponse{Task: task})
}

// Create handles POST /tasks. Only the title is required; status, priority,
// and due date take their documented defaults.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req CreateTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Title == "" {
		RespondWithError(w, r, http.StatusBadRequest, msgMissingTitle)
		return
	}

	task, err := domain.NewTask(
		userID,
		req.Title,
		req.Description,
		req.Status,
		req.Priority,
		req.Category,
		req.DueDate,
	)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		slog.Error("failed to create task", "error", redact.Error(err), "user_id", userID)
		RespondWithError(w, r, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, TaskResponse{Task: task})
}

// Update handles PUT /tasks/{id}. Absent fields are untouched; an explicit
// null due_date clears it.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	task, err := h.taskStore.Update(r.Context(), userID, taskID, req.Patch())
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			RespondWithError(w, r, http.StatusNotFound, msgTaskNotFound)
			return
		}
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrEmptyTaskTitle) {
			RespondWithError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to update task", "error", redact.Error(err), "user_id", userID)
		RespondWithError(w, r, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, TaskResponse{Task: task})
}

// Delete handles DELETE /tasks/{id}. Deleting an id that matches nothing
// still reports success; only storage failures surface.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	if err := h.taskStore.Delete(r.Context(), userID, taskID); err != nil {
		slog.Error("failed to delete task", "error", redact.Error(err), "user_id", userID)
		RespondWithError(w, r, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: msgTaskDeleted})
}

// ListByStatus handles GET /tasks/status/{status}.
func (h *TaskHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	h.listFiltered(w, r, store.TaskFilterStatus, "status")
}

// ListByPriority handles GET /tasks/priority/{priority}.
func (h *TaskHandler) ListByPriority(w http.ResponseWriter, r *http.Request) {
	h.listFiltered(w, r, store.TaskFilterPriority, "priority")
}

// ListByCategory handles GET /tasks/category/{category}.
func (h *TaskHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	h.listFiltered(w, r, store.TaskFilterCategory, "category")
}

func (h *TaskHandler) listFiltered(
	w http.ResponseWriter,
	r *http.Request,
	field store.TaskFilterField,
	paramName string,
) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	value := chi.URLParam(r, paramName)
	tasks, err := h.taskStore.ListByUserFiltered(r.Context(), userID, field, value)
	if err != nil {
		slog.Error("failed to list filtered tasks",
			"error", redact.Error(err),
			"user_id", userID,
			"filter", string(field))
		RespondWithError(w, r, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, TasksResponse{Tasks: tasks})
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListTasks handles GET /api/tasks.
//
//	@Summary	List tasks, flat and grouped by status
//	@Tags		tasks
//	@Produce	json
//	@Success	200	{object}	TaskListResponse
//	@Security	BearerAuth
//	@Router		/tasks [get]
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.svc.ListTasks(r.Context())
	if err != nil {
		writeError(w, "list tasks", err)
		return
	}
	cols, err := h.svc.TasksByStatus(r.Context())
	if err != nil {
		writeError(w, "list tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, TaskListResponse{Tasks: tasks, Columns: cols})
}

// CreateTask handles POST /api/tasks.
//
//	@Summary	Create a task
//	@Tags		tasks
//	@Accept		json
//	@Produce	json
//	@Param		body	body		TaskRequest	true	"Task"
//	@Success	201		{object}	models.Task
//	@Failure	400		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/tasks [post]
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if !readJSON(w, r, &req) {
		return
	}
	t, err := h.svc.CreateTask(r.Context(), req)
	if err != nil {
		writeError(w, "create task", err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// MoveTask handles PATCH /api/tasks/{id}.
//
//	@Summary	Move a task to another column
//	@Tags		tasks
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Task id"
//	@Param		body	body		MoveTaskRequest	true	"Target status"
//	@Success	200		{object}	models.Task
//	@Failure	400		{object}	errResponse
//	@Failure	404		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/tasks/{id} [patch]
func (h *Handler) MoveTask(w http.ResponseWriter, r *http.Request) {
	var req MoveTaskRequest
	if !readJSON(w, r, &req) {
		return
	}
	t, err := h.svc.MoveTask(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, "move task", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// DeleteTask handles DELETE /api/tasks/{id}.
//
//	@Summary	Delete a task
//	@Tags		tasks
//	@Param		id	path	string	true	"Task id"
//	@Success	204
//	@Security	BearerAuth
//	@Router		/tasks/{id} [delete]
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/digimark/internal/service"
)

// ListUsers handles GET /api/users.
//
//	@Summary	List accounts
//	@Tags		users
//	@Produce	json
//	@Success	200	{object}	UserListResponse
//	@Security	BearerAuth
//	@Router		/users [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		writeError(w, "list users", err)
		return
	}
	writeJSON(w, http.StatusOK, UserListResponse{Users: users})
}

// CreateUser handles POST /api/users.
//
//	@Summary	Create an account
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CreateUserRequest	true	"Account"
//	@Success	201		{object}	models.User
//	@Failure	400		{object}	errResponse
//	@Failure	409		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/users [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !readJSON(w, r, &req) {
		return
	}
	u, err := h.svc.CreateUser(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		writeError(w, "create user", err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// UpdateUser handles PATCH /api/users/{id}.
//
//	@Summary	Change role and/or password
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"User id"
//	@Param		body	body		UpdateUserRequest	true	"Changes"
//	@Success	200		{object}	models.User
//	@Failure	400		{object}	errResponse
//	@Failure	404		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/users/{id} [patch]
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if !readJSON(w, r, &req) {
		return
	}
	u, err := h.svc.UpdateUser(r.Context(), chi.URLParam(r, "id"), service.UserUpdate{
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, "update user", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// DeleteUser handles DELETE /api/users/{id}.
//
//	@Summary	Delete an account; the built-in admin is protected
//	@Tags		users
//	@Param		id	path	string	true	"User id"
//	@Success	204
//	@Failure	403	{object}	errResponse
//	@Security	BearerAuth
//	@Router		/users/{id} [delete]
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

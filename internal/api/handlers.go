package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/starford/digimark/internal/access"
	"github.com/starford/digimark/internal/aggregate"
	"github.com/starford/digimark/internal/models"
	"github.com/starford/digimark/internal/schema"
	"github.com/starford/digimark/internal/service"
)

// Handler holds API route handlers.
type Handler struct {
	svc   *service.Service
	authn Authenticator
}

// NewHandler creates a new Handler.
func NewHandler(svc *service.Service, authn Authenticator) *Handler {
	return &Handler{svc: svc, authn: authn}
}

// Login handles POST /api/login.
//
//	@Summary		Log in with username and password
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	SessionResponse
//	@Failure		401		{object}	errResponse
//	@Router			/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !readJSON(w, r, &req) {
		return
	}
	u, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, "login", err)
		return
	}
	token, err := h.authn.Issue(u)
	if err != nil {
		writeError(w, "issue token", err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{
		User:         u.Public(),
		Capabilities: access.CapabilitiesFor(u.Role),
		Token:        token,
	})
}

// Logout handles POST /api/logout.
//
//	@Summary	Clear the current user
//	@Tags		session
//	@Success	204
//	@Router		/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context()); err != nil {
		writeError(w, "logout", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/me.
//
//	@Summary	Current user and capabilities
//	@Tags		session
//	@Produce	json
//	@Success	200	{object}	SessionResponse
//	@Failure	401	{object}	errResponse
//	@Security	BearerAuth
//	@Router		/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	s, _ := scopeFrom(r.Context())
	writeJSON(w, http.StatusOK, SessionResponse{User: s.user, Capabilities: s.caps})
}

// Schema handles GET /api/schema.
//
//	@Summary	Categories, channels and per-channel metric fields
//	@Tags		schema
//	@Produce	json
//	@Success	200	{object}	SchemaResponse
//	@Security	BearerAuth
//	@Router		/schema [get]
func (h *Handler) Schema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildSchema())
}

func buildSchema() SchemaResponse {
	resp := SchemaResponse{
		Fields:     make(map[models.Channel][]models.MetricField),
		Objectives: models.Objectives(),
	}
	for _, cat := range schema.Categories() {
		resp.Categories = append(resp.Categories, CategorySchema{Category: cat, Channels: schema.ChannelsFor(cat)})
	}
	for _, ch := range schema.Channels() {
		resp.Fields[ch] = schema.MetricFieldsFor(ch)
	}
	return resp
}

func filterFrom(r *http.Request) (aggregate.Filter, error) {
	q := r.URL.Query()
	return aggregate.ParseFilter(q.Get("category"), q.Get("channel"))
}

// Dashboard handles GET /api/dashboard.
//
//	@Summary	Totals, channel distribution and time series
//	@Tags		dashboard
//	@Produce	json
//	@Param		category	query		string	false	"Category or all"
//	@Param		channel		query		string	false	"Channel or all"
//	@Success	200			{object}	aggregate.Dashboard
//	@Failure	400			{object}	errResponse
//	@Security	BearerAuth
//	@Router		/dashboard [get]
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	f, err := filterFrom(r)
	if err != nil {
		writeError(w, "dashboard", err)
		return
	}
	d, err := h.svc.Dashboard(r.Context(), f)
	if err != nil {
		writeError(w, "dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Export handles GET /api/export.
//
//	@Summary	Download the filtered records as CSV
//	@Tags		dashboard
//	@Produce	text/csv
//	@Param		category	query	string	false	"Category or all"
//	@Param		channel		query	string	false	"Channel or all"
//	@Success	200
//	@Failure	400	{object}	errResponse
//	@Security	BearerAuth
//	@Router		/export [get]
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	f, err := filterFrom(r)
	if err != nil {
		writeError(w, "export", err)
		return
	}
	var buf bytes.Buffer
	if err := h.svc.Export(r.Context(), &buf, f); err != nil {
		writeError(w, "export", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.svc.ExportFilename()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

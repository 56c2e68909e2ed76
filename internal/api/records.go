package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListRecords handles GET /api/records.
//
//	@Summary	List records, newest first
//	@Tags		records
//	@Produce	json
//	@Param		search	query		string	false	"Case-insensitive channel or category match"
//	@Success	200		{object}	RecordListResponse
//	@Security	BearerAuth
//	@Router		/records [get]
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.ListRecords(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, "list records", err)
		return
	}
	writeJSON(w, http.StatusOK, RecordListResponse{Records: records, Total: len(records)})
}

// GetRecord handles GET /api/records/{id}.
//
//	@Summary	Get a single record
//	@Tags		records
//	@Produce	json
//	@Param		id	path		string	true	"Record id"
//	@Success	200	{object}	models.MarketingRecord
//	@Failure	404	{object}	errResponse
//	@Security	BearerAuth
//	@Router		/records/{id} [get]
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.GetRecord(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get record", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// CreateRecord handles POST /api/records.
//
//	@Summary	Create a record
//	@Tags		records
//	@Accept		json
//	@Produce	json
//	@Param		body	body		RecordRequest	true	"Record"
//	@Success	201		{object}	models.MarketingRecord
//	@Failure	400		{object}	errResponse
//	@Failure	403		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/records [post]
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req RecordRequest
	if !readJSON(w, r, &req) {
		return
	}
	req.ID = ""
	h.saveRecord(w, r, req, http.StatusCreated)
}

// UpdateRecord handles PUT /api/records/{id}.
//
//	@Summary	Replace a record
//	@Tags		records
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Record id"
//	@Param		body	body		RecordRequest	true	"Record"
//	@Success	200		{object}	models.MarketingRecord
//	@Failure	400		{object}	errResponse
//	@Failure	403		{object}	errResponse
//	@Failure	404		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/records/{id} [put]
func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.svc.GetRecord(r.Context(), id); err != nil {
		writeError(w, "update record", err)
		return
	}
	var req RecordRequest
	if !readJSON(w, r, &req) {
		return
	}
	req.ID = id
	h.saveRecord(w, r, req, http.StatusOK)
}

func (h *Handler) saveRecord(w http.ResponseWriter, r *http.Request, req RecordRequest, status int) {
	s, _ := scopeFrom(r.Context())
	rec, err := h.svc.SaveRecord(r.Context(), s.user, req)
	if err != nil {
		writeError(w, "save record", err)
		return
	}
	writeJSON(w, status, rec)
}

// DeleteRecord handles DELETE /api/records/{id}.
//
//	@Summary	Delete a record
//	@Tags		records
//	@Param		id	path	string	true	"Record id"
//	@Success	204
//	@Security	BearerAuth
//	@Router		/records/{id} [delete]
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteRecord(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete record", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hallboard/hallboard/internal/model"
	"github.com/hallboard/hallboard/internal/store"
)

// WBCHandler serves CRUD endpoints for World Build Contest entries. Same
// shape as HoFHandler minus the placement patch, which WBC entries don't
// have.
type WBCHandler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewWBCHandler creates a new WBCHandler.
func NewWBCHandler(st *store.Store, logger *slog.Logger) *WBCHandler {
	return &WBCHandler{store: st, logger: logger}
}

// List returns entries, optionally filtered by month and year.
// GET /api/wbc?month&year
func (h *WBCHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.WBCFilter{
		Month: r.URL.Query().Get("month"),
		Year:  r.URL.Query().Get("year"),
	}

	entries, err := h.store.ListWBC(r.Context(), filter)
	if err != nil {
		h.logger.Error("list wbc entries failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch WBC entries")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Create inserts a new entry and syncs the creator profile.
// POST /api/wbc
func (h *WBCHandler) Create(w http.ResponseWriter, r *http.Request) {
	var e model.WBCEntry
	if err := readJSON(r, &e); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.store.CreateWBC(r.Context(), &e)
	if err != nil {
		h.logger.Error("create wbc entry failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create WBC entry")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Replace overwrites all mutable fields of an entry.
// PUT /api/wbc/{id}
func (h *WBCHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "WBC entry not found")
		return
	}

	var e model.WBCEntry
	if err := readJSON(r, &e); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.store.ReplaceWBC(r.Context(), id, &e)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "WBC entry not found")
			return
		}
		h.logger.Error("update wbc entry failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update WBC entry")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete physically removes an entry.
// DELETE /api/wbc/{id}
func (h *WBCHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "WBC entry not found")
		return
	}

	if err := h.store.DeleteWBC(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "WBC entry not found")
			return
		}
		h.logger.Error("delete wbc entry failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete WBC entry")
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "WBC entry deleted", ID: id})
}

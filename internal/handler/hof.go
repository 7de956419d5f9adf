package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hallboard/hallboard/internal/model"
	"github.com/hallboard/hallboard/internal/store"
)

// HoFHandler serves CRUD endpoints for Hall of Fame entries.
type HoFHandler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewHoFHandler creates a new HoFHandler.
func NewHoFHandler(st *store.Store, logger *slog.Logger) *HoFHandler {
	return &HoFHandler{store: st, logger: logger}
}

// List returns entries, optionally filtered by month, year, and category.
// GET /api/hof?month&year&category
func (h *HoFHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.HoFFilter{
		Month:    r.URL.Query().Get("month"),
		Year:     r.URL.Query().Get("year"),
		Category: r.URL.Query().Get("category"),
	}

	entries, err := h.store.ListHoF(r.Context(), filter)
	if err != nil {
		h.logger.Error("list hof entries failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch HoF entries")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Create inserts a new entry and syncs the creator profile when the payload
// carries a discord handle. Responds with the persisted row, id included.
// POST /api/hof
func (h *HoFHandler) Create(w http.ResponseWriter, r *http.Request) {
	var e model.HoFEntry
	if err := readJSON(r, &e); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.store.CreateHoF(r.Context(), &e)
	if err != nil {
		h.logger.Error("create hof entry failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create HoF entry")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Replace overwrites all mutable fields of an entry, placement and profile
// sync included.
// PUT /api/hof/{id}
func (h *HoFHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "HoF entry not found")
		return
	}

	var e model.HoFEntry
	if err := readJSON(r, &e); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.store.ReplaceHoF(r.Context(), id, &e)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "HoF entry not found")
			return
		}
		h.logger.Error("update hof entry failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update HoF entry")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type patchPlacementRequest struct {
	Placement *int `json:"placement"`
}

// PatchPlacement updates only the placement field. A null placement clears
// it.
// PATCH /api/hof/{id}/placement
func (h *HoFHandler) PatchPlacement(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "HoF entry not found")
		return
	}

	var req patchPlacementRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.store.PatchHoFPlacement(r.Context(), id, req.Placement)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "HoF entry not found")
			return
		}
		h.logger.Error("update hof placement failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update placement")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete physically removes an entry.
// DELETE /api/hof/{id}
func (h *HoFHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "HoF entry not found")
		return
	}

	if err := h.store.DeleteHoF(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "HoF entry not found")
			return
		}
		h.logger.Error("delete hof entry failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete HoF entry")
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "HoF entry deleted", ID: id})
}

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hallboard/hallboard/internal/store"
)

// ProfileHandler serves creator profile lookups. Both the HoF and WBC route
// groups mount it against the same creators table.
type ProfileHandler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(st *store.Store, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{store: st, logger: logger}
}

// Get returns the saved display name, avatar, and x_handle for a discord
// handle, if any entry write has contributed them.
// GET /api/hof/profile?discord=... and GET /api/wbc/profile?discord=...
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	discord := r.URL.Query().Get("discord")
	if discord == "" {
		writeError(w, http.StatusBadRequest, "discord is required")
		return
	}

	profile, err := h.store.GetProfile(r.Context(), discord)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		h.logger.Error("get profile failed", "error", err, "discord", discord)
		writeError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

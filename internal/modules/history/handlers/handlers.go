// Package handlers provides HTTP handlers for the analysis history archive.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/quasar/internal/modules/history"
)

// Handler handles history HTTP requests.
type Handler struct {
	repo *history.Repository
	log  zerolog.Logger
}

// NewHandler creates a new history handler.
func NewHandler(repo *history.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "history").Logger(),
	}
}

// HandleList handles GET /api/history. The optional ?limit=N query caps the
// number of summaries returned.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	summaries, err := h.repo.List(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list analysis history")
		http.Error(w, "Failed to list history", http.StatusInternalServerError)
		return
	}
	if summaries == nil {
		summaries = []history.Summary{}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":  summaries,
		"count": len(summaries),
	})
}

// HandleGet handles GET /api/history/{id}, returning the full archived
// record.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.repo.Get(id)
	if errors.Is(err, history.ErrNotFound) {
		http.Error(w, "Analysis run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("Failed to load analysis record")
		http.Error(w, "Failed to load analysis record", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": rec})
}

// HandleDelete handles DELETE /api/history/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.repo.Delete(id)
	if errors.Is(err, history.ErrNotFound) {
		http.Error(w, "Analysis run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("Failed to delete analysis record")
		http.Error(w, "Failed to delete analysis record", http.StatusInternalServerError)
		return
	}

	h.log.Info().Str("id", id).Msg("Deleted archived analysis run")
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// writeJSON writes a JSON response.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

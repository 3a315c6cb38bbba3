package api

import (
	"net/http"

	"drone-survey-system/internal/application"
	"drone-survey-system/internal/domain"
	"github.com/go-chi/chi/v5"
)

// SnapshotHandler обробляє експорт і відновлення знімків колекції
type SnapshotHandler struct {
	snapshotService *application.SnapshotService
}

// NewSnapshotHandler створює новий SnapshotHandler
func NewSnapshotHandler(snapshotService *application.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{
		snapshotService: snapshotService,
	}
}

// RegisterRoutes реєструє маршрути для SnapshotHandler
func (h *SnapshotHandler) RegisterRoutes(r chi.Router) {
	r.Route("/snapshots", func(r chi.Router) {
		r.Get("/", h.ListSnapshots)
		r.Post("/", h.CreateSnapshot)
		r.Post("/restore", h.RestoreSnapshot)
	})
}

// ListSnapshots обробляє GET /snapshots
func (h *SnapshotHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	keys, err := h.snapshotService.ListSnapshots(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"keys": keys})
}

// CreateSnapshot обробляє POST /snapshots
func (h *SnapshotHandler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	key, err := h.snapshotService.CreateSnapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"key": key})
}

// RestoreSnapshot обробляє POST /snapshots/restore?key=
func (h *SnapshotHandler) RestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, &domain.ValidationError{Field: "key", Reason: "must be present"})
		return
	}

	count, err := h.snapshotService.RestoreSnapshot(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"key": key, "count": count})
}

package api

import (
	"net/http"

	"drone-survey-system/internal/application"
	"drone-survey-system/internal/domain"
	"drone-survey-system/pkg/analytics"
	"github.com/go-chi/chi/v5"
)

// MissionHandler обробляє HTTP-запити, пов'язані з місіями
type MissionHandler struct {
	missionService *application.MissionService
}

// NewMissionHandler створює новий MissionHandler
func NewMissionHandler(missionService *application.MissionService) *MissionHandler {
	return &MissionHandler{
		missionService: missionService,
	}
}

// RegisterRoutes реєструє маршрути для MissionHandler
func (h *MissionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/missions", func(r chi.Router) {
		r.Get("/", h.ListMissions)
		r.Post("/", h.CreateMission)
		r.Put("/", h.ReplaceMissions)
		r.Get("/{id}", h.GetMission)
		r.Patch("/{id}", h.UpdateMission)
		r.Post("/{id}/sensors/{sensor}/toggle", h.ToggleSensor)
	})
}

// ListMissions обробляє GET /missions?filter=
func (h *MissionHandler) ListMissions(w http.ResponseWriter, r *http.Request) {
	filter, err := analytics.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, err)
		return
	}

	missions := h.missionService.ListMissions(r.Context(), filter)
	writeJSON(w, http.StatusOK, present(missions))
}

// CreateMission обробляє POST /missions
func (h *MissionHandler) CreateMission(w http.ResponseWriter, r *http.Request) {
	var request application.CreateMissionInput
	if err := decodeJSON(w, r, &request); err != nil {
		writeError(w, err)
		return
	}

	mission, err := h.missionService.CreateMission(r.Context(), request)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mission.WithStatusColor())
}

// ReplaceMissions обробляє PUT /missions
func (h *MissionHandler) ReplaceMissions(w http.ResponseWriter, r *http.Request) {
	var missions []domain.Mission
	if err := decodeJSON(w, r, &missions); err != nil {
		writeError(w, err)
		return
	}

	if err := h.missionService.ReplaceAll(r.Context(), missions); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"count": len(missions)})
}

// GetMission обробляє GET /missions/{id}
func (h *MissionHandler) GetMission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	mission, err := h.missionService.GetMission(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mission.WithStatusColor())
}

// UpdateMission обробляє PATCH /missions/{id}
func (h *MissionHandler) UpdateMission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch domain.MissionPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, err)
		return
	}

	mission, err := h.missionService.UpdateMission(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mission.WithStatusColor())
}

// ToggleSensor обробляє POST /missions/{id}/sensors/{sensor}/toggle
func (h *MissionHandler) ToggleSensor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sensor := chi.URLParam(r, "sensor")

	mission, err := h.missionService.ToggleSensor(r.Context(), id, sensor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mission.WithStatusColor())
}

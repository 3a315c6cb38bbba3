package api

import (
	"net/http"

	"drone-survey-system/internal/application"
	"drone-survey-system/pkg/analytics"
	"github.com/go-chi/chi/v5"
)

// AnalyticsHandler обробляє запити похідних представлень
type AnalyticsHandler struct {
	analyticsService *application.AnalyticsService
}

// NewAnalyticsHandler створює новий AnalyticsHandler
func NewAnalyticsHandler(analyticsService *application.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// RegisterRoutes реєструє маршрути для AnalyticsHandler
func (h *AnalyticsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/analytics", h.GetAnalytics)
	r.Get("/dashboard", h.GetDashboard)
	r.Get("/missions.geojson", h.GetMissionsGeoJSON)
}

// GetAnalytics обробляє GET /analytics
func (h *AnalyticsHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.analyticsService.Summary())
}

// GetDashboard обробляє GET /dashboard
func (h *AnalyticsHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.analyticsService.Dashboard())
}

// GetMissionsGeoJSON обробляє GET /missions.geojson?filter=
func (h *AnalyticsHandler) GetMissionsGeoJSON(w http.ResponseWriter, r *http.Request) {
	filter, err := analytics.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, err)
		return
	}

	fc := h.analyticsService.GeoJSON(filter)
	data, err := fc.MarshalJSON()
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

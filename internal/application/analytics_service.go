package application

import (
	"time"

	"drone-survey-system/internal/ports"
	"drone-survey-system/pkg/analytics"
	geojson "github.com/paulmach/go.geojson"
)

// AnalyticsService обчислює похідні представлення з поточного знімка сховища
type AnalyticsService struct {
	store ports.MissionStore
	now   func() time.Time
}

// NewAnalyticsService створює новий екземпляр AnalyticsService
func NewAnalyticsService(store ports.MissionStore, now func() time.Time) *AnalyticsService {
	if now == nil {
		now = time.Now
	}
	return &AnalyticsService{
		store: store,
		now:   now,
	}
}

// Dashboard містить дані головної панелі
type Dashboard struct {
	KPIs        analytics.DashboardKPIs `json:"kpis"`
	GlobePoints []analytics.GlobePoint  `json:"globePoints"`
	GeneratedAt time.Time               `json:"generatedAt"`
}

// Summary повертає аналітику статусів, нальоту, регіонів та активності
func (s *AnalyticsService) Summary() analytics.Summary {
	return analytics.Summarize(s.store.List())
}

// Dashboard повертає KPI та точки глобуса
func (s *AnalyticsService) Dashboard() Dashboard {
	missions := s.store.List()
	return Dashboard{
		KPIs:        analytics.ComputeKPIs(missions),
		GlobePoints: analytics.GlobePoints(missions),
		GeneratedAt: s.now().UTC(),
	}
}

// GeoJSON повертає місії як колекцію GeoJSON, відфільтровану за тегом
func (s *AnalyticsService) GeoJSON(filter analytics.Filter) *geojson.FeatureCollection {
	return analytics.MissionsGeoJSON(analytics.ListView(s.store.List(), filter, s.now()))
}

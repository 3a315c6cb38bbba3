package analytics

import (
	"drone-survey-system/internal/domain"
	geojson "github.com/paulmach/go.geojson"
)

// Continent визначає грубий географічний регіон місії
type Continent string

const (
	NorthAmerica Continent = "North America"
	Europe       Continent = "Europe"
	Asia         Continent = "Asia"
	SouthAmerica Continent = "South America"
	Africa       Continent = "Africa"
	Australia    Continent = "Australia"
	Antarctica   Continent = "Antarctica"
	Unknown      Continent = "Unknown"
)

// ContinentOf відносить координату до регіону за прямокутною таблицею.
// Таблиця спрощена і не є справжнім географічним пошуком.
// Довгота рівно 180 поза полярними широтами дає Unknown.
func ContinentOf(lat, lng float64) Continent {
	if lng < -180 || lng > 180 {
		return Unknown
	}

	switch {
	case lat >= 60 && lat <= 90:
		return NorthAmerica
	case lat >= 0 && lat < 60:
		switch {
		case lng < -30:
			return NorthAmerica
		case lng >= -30 && lng < 60:
			return Europe
		case lng >= 60 && lng < 180:
			return Asia
		}
	case lat <= -60 && lat >= -90:
		return Antarctica
	case lat < 0 && lat > -60:
		switch {
		case lng < -30:
			return SouthAmerica
		case lng >= -30 && lng < 60:
			return Africa
		case lng >= 60 && lng < 180:
			return Australia
		}
	}

	return Unknown
}

// ContinentCount містить кількість місій у регіоні
type ContinentCount struct {
	Name  Continent `json:"name"`
	Value int       `json:"value"`
}

// ContinentDistribution групує місії за регіонами у порядку першої появи
func ContinentDistribution(missions []domain.Mission) []ContinentCount {
	out := make([]ContinentCount, 0)
	index := make(map[Continent]int)

	for _, m := range missions {
		c := ContinentOf(m.Latitude, m.Longitude)
		if i, ok := index[c]; ok {
			out[i].Value++
			continue
		}
		index[c] = len(out)
		out = append(out, ContinentCount{Name: c, Value: 1})
	}

	return out
}

// Параметри точок глобуса
const (
	GlobePointSize     = 0.5
	GlobePointAltitude = 0.1
)

// GlobePoint представляє місію на 3D-глобусі
type GlobePoint struct {
	ID          string               `json:"id"`
	Lat         float64              `json:"lat"`
	Lng         float64              `json:"lng"`
	Color       string               `json:"color"`
	Name        string               `json:"name"`
	Status      domain.MissionStatus `json:"status"`
	Drone       string               `json:"drone"`
	Description string               `json:"description,omitempty"`
	Size        float64              `json:"size"`
	Altitude    float64              `json:"altitude"`
}

// GlobePoints повертає по одній точці на місію
func GlobePoints(missions []domain.Mission) []GlobePoint {
	points := make([]GlobePoint, 0, len(missions))
	for _, m := range missions {
		points = append(points, GlobePoint{
			ID:          m.ID,
			Lat:         m.Latitude,
			Lng:         m.Longitude,
			Color:       domain.StatusColor(m.Status),
			Name:        m.Name,
			Status:      m.Status,
			Drone:       m.Drone,
			Description: m.Description,
			Size:        GlobePointSize,
			Altitude:    GlobePointAltitude,
		})
	}
	return points
}

// MissionsGeoJSON будує колекцію GeoJSON: точку для кожної місії
// та полігон для кожної непорожньої зони зйомки
func MissionsGeoJSON(missions []domain.Mission) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, m := range missions {
		point := geojson.NewPointFeature([]float64{m.Longitude, m.Latitude})
		setMissionProperties(point, m)
		point.SetProperty("kind", "mission")
		point.SetProperty("drone", m.Drone)
		point.SetProperty("continent", string(ContinentOf(m.Latitude, m.Longitude)))
		fc.AddFeature(point)

		if m.FlightConfig == nil || m.FlightConfig.SurveyArea == nil || len(m.FlightConfig.SurveyArea.Points) == 0 {
			continue
		}

		area := geojson.NewPolygonFeature([][][]float64{surveyRing(m.FlightConfig.SurveyArea.Points)})
		setMissionProperties(area, m)
		area.SetProperty("kind", "surveyArea")
		fc.AddFeature(area)
	}

	return fc
}

func setMissionProperties(f *geojson.Feature, m domain.Mission) {
	f.ID = m.ID
	f.SetProperty("id", m.ID)
	f.SetProperty("name", m.Name)
	f.SetProperty("status", string(m.Status))
	f.SetProperty("color", domain.StatusColor(m.Status))
}

// surveyRing замикає контур полігона, повторюючи першу вершину
func surveyRing(points []domain.LatLng) [][]float64 {
	ring := make([][]float64, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, []float64{p.Lng, p.Lat})
	}
	first, last := points[0], points[len(points)-1]
	if first != last {
		ring = append(ring, []float64{first.Lng, first.Lat})
	}
	return ring
}

package domain

import (
	"time"
)

// Enums для статусів та параметрів
type MissionStatus string
type Resolution string
type SurveyAreaType string

const (
	// Статуси місій
	MissionStatusPending    MissionStatus = "pending"
	MissionStatusInProgress MissionStatus = "in-progress"
	MissionStatusCompleted  MissionStatus = "completed"
	MissionStatusFailed     MissionStatus = "failed"

	// Роздільна здатність збору даних
	ResolutionLow    Resolution = "low"
	ResolutionMedium Resolution = "medium"
	ResolutionHigh   Resolution = "high"

	// Типи зони обстеження
	SurveyAreaPolygon SurveyAreaType = "polygon"
)

// Відомі сенсори. Словник відкритий, тут лише ті, що є в інтерфейсі.
const (
	SensorRGB           = "RGB"
	SensorNDVI          = "NDVI"
	SensorThermal       = "Thermal"
	SensorMultispectral = "Multispectral"
)

// LatLng представляє вершину полігону зони обстеження
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Waypoint представляє точку маршруту польоту
type Waypoint struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Altitude float64 `json:"altitude"`
}

// SurveyArea представляє замкнений полігон зони обстеження
type SurveyArea struct {
	Points []LatLng       `json:"points"`
	Type   SurveyAreaType `json:"type"`
}

// FlightPath представляє маршрут польоту
type FlightPath struct {
	Waypoints []Waypoint `json:"waypoints"`
	Altitude  float64    `json:"altitude"`
	Overlap   float64    `json:"overlap"`
}

// DataCollection представляє параметри збору даних
type DataCollection struct {
	Frequency  float64    `json:"frequency"`
	Resolution Resolution `json:"resolution"`
	Sensors    []string   `json:"sensors"`
}

// FlightConfig представляє конфігурацію польоту місії.
// DataCollection обов'язковий, SurveyArea та FlightPath можуть бути відсутні.
type FlightConfig struct {
	SurveyArea     *SurveyArea     `json:"surveyArea,omitempty"`
	FlightPath     *FlightPath     `json:"flightPath,omitempty"`
	DataCollection *DataCollection `json:"dataCollection"`
}

// Mission представляє місію обстеження дроном
type Mission struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Status       MissionStatus `json:"status"`
	StatusColor  string        `json:"statusColor,omitempty"`
	StartTime    time.Time     `json:"startTime"`
	EndTime      *time.Time    `json:"endTime,omitempty"`
	CreatedAt    *time.Time    `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time    `json:"updatedAt,omitempty"`
	Latitude     float64       `json:"latitude"`
	Longitude    float64       `json:"longitude"`
	Drone        string        `json:"drone"`
	FlightConfig *FlightConfig `json:"flightConfig,omitempty"`
}

// DefaultFlightConfig повертає конфігурацію, з якою створюється нова місія
func DefaultFlightConfig() *FlightConfig {
	return &FlightConfig{
		SurveyArea: &SurveyArea{
			Points: []LatLng{},
			Type:   SurveyAreaPolygon,
		},
		FlightPath: &FlightPath{
			Waypoints: []Waypoint{},
			Altitude:  50,
			Overlap:   70,
		},
		DataCollection: &DataCollection{
			Frequency:  1,
			Resolution: ResolutionHigh,
			Sensors:    []string{SensorRGB},
		},
	}
}

// Clone повертає глибоку копію місії
func (m Mission) Clone() Mission {
	out := m
	out.EndTime = cloneTime(m.EndTime)
	out.CreatedAt = cloneTime(m.CreatedAt)
	out.UpdatedAt = cloneTime(m.UpdatedAt)
	out.FlightConfig = m.FlightConfig.Clone()
	return out
}

// Clone повертає глибоку копію конфігурації польоту
func (c *FlightConfig) Clone() *FlightConfig {
	if c == nil {
		return nil
	}

	out := &FlightConfig{}
	if c.SurveyArea != nil {
		out.SurveyArea = &SurveyArea{
			Points: cloneSlice(c.SurveyArea.Points),
			Type:   c.SurveyArea.Type,
		}
	}
	if c.FlightPath != nil {
		out.FlightPath = &FlightPath{
			Waypoints: cloneSlice(c.FlightPath.Waypoints),
			Altitude:  c.FlightPath.Altitude,
			Overlap:   c.FlightPath.Overlap,
		}
	}
	if c.DataCollection != nil {
		out.DataCollection = &DataCollection{
			Frequency:  c.DataCollection.Frequency,
			Resolution: c.DataCollection.Resolution,
			Sensors:    cloneSlice(c.DataCollection.Sensors),
		}
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// cloneSlice зберігає різницю між nil та порожнім слайсом
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

package domain

import "time"

// MissionPatch описує часткове оновлення місії. nil означає "не змінювати".
type MissionPatch struct {
	Name         *string            `json:"name,omitempty"`
	Description  *string            `json:"description,omitempty"`
	Status       *MissionStatus     `json:"status,omitempty"`
	StartTime    *time.Time         `json:"startTime,omitempty"`
	EndTime      *time.Time         `json:"endTime,omitempty"`
	Latitude     *float64           `json:"latitude,omitempty"`
	Longitude    *float64           `json:"longitude,omitempty"`
	Drone        *string            `json:"drone,omitempty"`
	FlightConfig *FlightConfigPatch `json:"flightConfig,omitempty"`
}

// FlightConfigPatch описує часткове оновлення конфігурації польоту
type FlightConfigPatch struct {
	SurveyArea     *SurveyArea          `json:"surveyArea,omitempty"`
	FlightPath     *FlightPathPatch     `json:"flightPath,omitempty"`
	DataCollection *DataCollectionPatch `json:"dataCollection,omitempty"`
}

// FlightPathPatch описує часткове оновлення маршруту
type FlightPathPatch struct {
	Waypoints *[]Waypoint `json:"waypoints,omitempty"`
	Altitude  *float64    `json:"altitude,omitempty"`
	Overlap   *float64    `json:"overlap,omitempty"`
}

// DataCollectionPatch описує часткове оновлення параметрів збору даних
type DataCollectionPatch struct {
	Frequency  *float64    `json:"frequency,omitempty"`
	Resolution *Resolution `json:"resolution,omitempty"`
	Sensors    *[]string   `json:"sensors,omitempty"`
}

// IsEmpty повідомляє, що патч нічого не змінює
func (p MissionPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Status == nil && p.StartTime == nil &&
		p.EndTime == nil && p.Latitude == nil && p.Longitude == nil && p.Drone == nil &&
		p.FlightConfig == nil
}

// Apply повертає нову місію з накладеним патчем. Вихідна місія не змінюється.
//
// Верхній рівень зливається поверхнево, конфігурація польоту глибоко:
// mission -> flightConfig -> {flightPath|dataCollection}. Зона обстеження
// замінюється цілком, бо її точки мають сенс лише разом.
func (m Mission) Apply(p MissionPatch) Mission {
	out := m.Clone()

	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.StartTime != nil {
		out.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		out.EndTime = cloneTime(p.EndTime)
	}
	if p.Latitude != nil {
		out.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		out.Longitude = *p.Longitude
	}
	if p.Drone != nil {
		out.Drone = *p.Drone
	}
	if p.FlightConfig != nil {
		out.FlightConfig = out.FlightConfig.Merge(*p.FlightConfig)
	}

	return out
}

// Merge глибоко зливає патч у копію конфігурації
func (c *FlightConfig) Merge(p FlightConfigPatch) *FlightConfig {
	out := c.Clone()
	if out == nil {
		out = &FlightConfig{}
	}

	if p.SurveyArea != nil {
		area := *p.SurveyArea
		area.Points = cloneSlice(p.SurveyArea.Points)
		if area.Points == nil {
			area.Points = []LatLng{}
		}
		if area.Type == "" {
			area.Type = SurveyAreaPolygon
		}
		out.SurveyArea = &area
	}

	if fp := p.FlightPath; fp != nil {
		if out.FlightPath == nil {
			out.FlightPath = &FlightPath{Waypoints: []Waypoint{}}
		}
		if fp.Waypoints != nil {
			out.FlightPath.Waypoints = cloneSlice(*fp.Waypoints)
			if out.FlightPath.Waypoints == nil {
				out.FlightPath.Waypoints = []Waypoint{}
			}
		}
		if fp.Altitude != nil {
			out.FlightPath.Altitude = *fp.Altitude
		}
		if fp.Overlap != nil {
			out.FlightPath.Overlap = *fp.Overlap
		}
	}

	if dc := p.DataCollection; dc != nil {
		if out.DataCollection == nil {
			out.DataCollection = &DataCollection{Sensors: []string{}}
		}
		if dc.Frequency != nil {
			out.DataCollection.Frequency = *dc.Frequency
		}
		if dc.Resolution != nil {
			out.DataCollection.Resolution = *dc.Resolution
		}
		if dc.Sensors != nil {
			out.DataCollection.Sensors = cloneSlice(*dc.Sensors)
			if out.DataCollection.Sensors == nil {
				out.DataCollection.Sensors = []string{}
			}
		}
	}

	return out
}

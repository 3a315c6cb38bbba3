package domain

import (
	"fmt"
	"math"
	"strings"
)

// Межі параметрів польоту
const (
	MinFlightAltitude = 10.0
	MaxFlightAltitude = 120.0
	MinOverlap        = 0.0
	MaxOverlap        = 100.0
)

// ValidCoordinate перевіряє, що точка лежить у [-90,90]×[-180,180]
func ValidCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Validate перевіряє місію перед збереженням
func (m Mission) Validate() error {
	var errs ValidationErrors

	if strings.TrimSpace(m.ID) == "" {
		errs.add("id", "must not be empty")
	}
	if strings.TrimSpace(m.Name) == "" {
		errs.add("name", "must not be empty")
	}
	if !m.Status.IsValid() {
		errs.add("status", fmt.Sprintf("unknown status %q", m.Status))
	}
	if m.StartTime.IsZero() {
		errs.add("startTime", "is required")
	}
	if m.EndTime != nil && !m.StartTime.IsZero() && m.EndTime.Before(m.StartTime) {
		errs.add("endTime", "must not be before startTime")
	}
	if m.CreatedAt != nil && m.UpdatedAt != nil && m.UpdatedAt.Before(*m.CreatedAt) {
		errs.add("updatedAt", "must not be before createdAt")
	}
	if !ValidCoordinate(m.Latitude, m.Longitude) {
		errs.add("location", fmt.Sprintf("coordinate (%v, %v) out of range", m.Latitude, m.Longitude))
	}

	if m.FlightConfig != nil {
		m.FlightConfig.validate(&errs)
	}

	return errs.orNil()
}

func (c *FlightConfig) validate(errs *ValidationErrors) {
	if c.DataCollection == nil {
		errs.add("flightConfig.dataCollection", "is required")
	} else {
		dc := c.DataCollection
		if math.IsNaN(dc.Frequency) || dc.Frequency <= 0 {
			errs.add("flightConfig.dataCollection.frequency", "must be positive")
		}
		if !dc.Resolution.IsValid() {
			errs.add("flightConfig.dataCollection.resolution", fmt.Sprintf("unknown resolution %q", dc.Resolution))
		}
		if len(dc.Sensors) == 0 {
			errs.add("flightConfig.dataCollection.sensors", "at least one sensor is required")
		}
		seen := make(map[string]bool, len(dc.Sensors))
		for _, sensor := range dc.Sensors {
			if strings.TrimSpace(sensor) == "" {
				errs.add("flightConfig.dataCollection.sensors", "sensor name must not be empty")
				continue
			}
			if seen[sensor] {
				errs.add("flightConfig.dataCollection.sensors", fmt.Sprintf("duplicate sensor %q", sensor))
			}
			seen[sensor] = true
		}
	}

	if area := c.SurveyArea; area != nil {
		if area.Type != SurveyAreaPolygon {
			errs.add("flightConfig.surveyArea.type", fmt.Sprintf("unsupported type %q", area.Type))
		}
		for i, p := range area.Points {
			if !ValidCoordinate(p.Lat, p.Lng) {
				errs.add(fmt.Sprintf("flightConfig.surveyArea.points[%d]", i), "coordinate out of range")
			}
		}
	}

	if path := c.FlightPath; path != nil {
		if math.IsNaN(path.Altitude) || path.Altitude < MinFlightAltitude || path.Altitude > MaxFlightAltitude {
			errs.add("flightConfig.flightPath.altitude", fmt.Sprintf("must be within %v-%v m", MinFlightAltitude, MaxFlightAltitude))
		}
		if math.IsNaN(path.Overlap) || path.Overlap < MinOverlap || path.Overlap > MaxOverlap {
			errs.add("flightConfig.flightPath.overlap", fmt.Sprintf("must be within %v-%v %%", MinOverlap, MaxOverlap))
		}
		for i, wp := range path.Waypoints {
			if !ValidCoordinate(wp.Lat, wp.Lng) {
				errs.add(fmt.Sprintf("flightConfig.flightPath.waypoints[%d]", i), "coordinate out of range")
			}
			if math.IsNaN(wp.Altitude) || wp.Altitude < 0 {
				errs.add(fmt.Sprintf("flightConfig.flightPath.waypoints[%d].altitude", i), "must not be negative")
			}
		}
	}
}

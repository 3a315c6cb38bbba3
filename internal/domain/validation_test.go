package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *Mission)
		wantErr bool
	}{
		{
			name:    "valid mission",
			mutate:  func(m *Mission) {},
			wantErr: false,
		},
		{
			name:    "mission without flight config",
			mutate:  func(m *Mission) { m.FlightConfig = nil },
			wantErr: false,
		},
		{
			name: "empty waypoints and survey points",
			mutate: func(m *Mission) {
				m.FlightConfig.FlightPath.Waypoints = nil
				m.FlightConfig.SurveyArea.Points = nil
			},
			wantErr: false,
		},
		{
			name:    "missing id",
			mutate:  func(m *Mission) { m.ID = " " },
			wantErr: true,
		},
		{
			name:    "unknown status",
			mutate:  func(m *Mission) { m.Status = "scheduled" },
			wantErr: true,
		},
		{
			name:    "missing start time",
			mutate:  func(m *Mission) { m.StartTime = time.Time{} },
			wantErr: true,
		},
		{
			name:    "latitude out of range",
			mutate:  func(m *Mission) { m.Latitude = 91 },
			wantErr: true,
		},
		{
			name:    "longitude out of range",
			mutate:  func(m *Mission) { m.Longitude = -180.5 },
			wantErr: true,
		},
		{
			name:    "NaN coordinate",
			mutate:  func(m *Mission) { m.Latitude = math.NaN() },
			wantErr: true,
		},
		{
			name: "updatedAt before createdAt",
			mutate: func(m *Mission) {
				before := m.CreatedAt.Add(-time.Hour)
				m.UpdatedAt = &before
			},
			wantErr: true,
		},
		{
			name: "endTime before startTime",
			mutate: func(m *Mission) {
				end := m.StartTime.Add(-time.Minute)
				m.EndTime = &end
			},
			wantErr: true,
		},
		{
			name:    "flight config without data collection",
			mutate:  func(m *Mission) { m.FlightConfig.DataCollection = nil },
			wantErr: true,
		},
		{
			name:    "unknown resolution",
			mutate:  func(m *Mission) { m.FlightConfig.DataCollection.Resolution = "ultra" },
			wantErr: true,
		},
		{
			name:    "zero frequency",
			mutate:  func(m *Mission) { m.FlightConfig.DataCollection.Frequency = 0 },
			wantErr: true,
		},
		{
			name:    "duplicate sensor",
			mutate:  func(m *Mission) { m.FlightConfig.DataCollection.Sensors = []string{SensorRGB, SensorRGB} },
			wantErr: true,
		},
		{
			name:    "no sensors",
			mutate:  func(m *Mission) { m.FlightConfig.DataCollection.Sensors = nil },
			wantErr: true,
		},
		{
			name:    "open sensor vocabulary",
			mutate:  func(m *Mission) { m.FlightConfig.DataCollection.Sensors = []string{"LiDAR"} },
			wantErr: false,
		},
		{
			name:    "altitude too low",
			mutate:  func(m *Mission) { m.FlightConfig.FlightPath.Altitude = 5 },
			wantErr: true,
		},
		{
			name:    "altitude too high",
			mutate:  func(m *Mission) { m.FlightConfig.FlightPath.Altitude = 121 },
			wantErr: true,
		},
		{
			name:    "overlap above 100",
			mutate:  func(m *Mission) { m.FlightConfig.FlightPath.Overlap = 101 },
			wantErr: true,
		},
		{
			name:    "survey area of another type",
			mutate:  func(m *Mission) { m.FlightConfig.SurveyArea.Type = "circle" },
			wantErr: true,
		},
		{
			name:    "waypoint out of range",
			mutate:  func(m *Mission) { m.FlightConfig.FlightPath.Waypoints[0].Lat = 100 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testMission()
			tt.mutate(&m)

			err := m.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr && !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestValidateCollectsAllFields(t *testing.T) {
	m := testMission()
	m.ID = ""
	m.Latitude = 200

	err := m.Validate()

	var errs ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(errs) != 2 {
		t.Errorf("expected 2 validation errors, got %d: %v", len(errs), err)
	}
}

func TestDefaultFlightConfigIsValid(t *testing.T) {
	m := testMission()
	m.FlightConfig = DefaultFlightConfig()

	if err := m.Validate(); err != nil {
		t.Errorf("default flight config should be valid: %v", err)
	}
}

package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"drone-survey-system/internal/domain"
	"drone-survey-system/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

const remoteBody = `{
	"id": 42,
	"name": "Harbour Inspection",
	"status": "scheduled",
	"startTime": "2024-02-15T08:00:00Z",
	"latitude": 51.505,
	"longitude": -0.09,
	"drone": "DJI Matrice 300",
	"flightConfig": {
		"dataCollection": {"frequency": 2, "resolution": "medium", "sensors": ["RGB", "Thermal"]}
	}
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/missions/42", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(remoteBody))
	})
	mux.HandleFunc("/api/missions/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/api/missions/garbage", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": true}`))
	})
	mux.HandleFunc("/api/missions/7", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "8", "name": "Other", "status": "pending", "startTime": "2024-02-15T08:00:00Z"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchMissionConvertsRemoteShape(t *testing.T) {
	srv := newTestServer(t)
	m := metrics.NewNopMetrics()
	client := NewMissionClient(srv.URL, time.Second, m)

	mission, err := client.FetchMission(context.Background(), "42")
	if err != nil {
		t.Fatalf("FetchMission failed: %v", err)
	}

	if mission.ID != "42" {
		t.Errorf("expected numeric id to become \"42\", got %q", mission.ID)
	}
	if mission.Status != domain.MissionStatusPending {
		t.Errorf("expected scheduled to map to pending, got %q", mission.Status)
	}
	if mission.FlightConfig == nil || mission.FlightConfig.DataCollection.Resolution != domain.ResolutionMedium {
		t.Errorf("flight config was not decoded: %+v", mission.FlightConfig)
	}
	if err := mission.Validate(); err != nil {
		t.Errorf("decoded mission is invalid: %v", err)
	}

	if n := testutil.CollectAndCount(m.RemoteFetchDuration); n != 1 {
		t.Errorf("expected fetch duration to be observed, got %d series", n)
	}
}

func TestFetchMissionErrors(t *testing.T) {
	srv := newTestServer(t)
	client := NewMissionClient(srv.URL, time.Second, nil)

	tests := []struct {
		name     string
		id       string
		notFound bool
	}{
		{name: "missing", id: "404", notFound: true},
		{name: "server error", id: "broken"},
		{name: "bad id type", id: "garbage"},
		{name: "id mismatch", id: "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.FetchMission(context.Background(), tt.id)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errors.Is(err, domain.ErrNotFound); got != tt.notFound {
				t.Errorf("errors.Is(err, ErrNotFound) = %v, expected %v (err: %v)", got, tt.notFound, err)
			}
		})
	}
}

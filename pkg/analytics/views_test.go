package analytics

import (
	"errors"
	"testing"
	"time"

	"drone-survey-system/internal/domain"
)

var testNow = time.Date(2024, 2, 16, 12, 0, 0, 0, time.UTC)

func mission(id string, status domain.MissionStatus, start time.Time) domain.Mission {
	return domain.Mission{
		ID:        id,
		Name:      "Mission " + id,
		Status:    status,
		StartTime: start,
		Latitude:  45,
		Longitude: 10,
		Drone:     "drone-" + id,
	}
}

func ids(missions []domain.Mission) []string {
	out := make([]string, 0, len(missions))
	for _, m := range missions {
		out = append(out, m.ID)
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSortByRecency(t *testing.T) {
	t0 := testNow.Add(-48 * time.Hour)
	input := []domain.Mission{
		mission("a", domain.MissionStatusPending, t0),
		mission("b", domain.MissionStatusPending, t0.Add(time.Hour)),
		mission("c", domain.MissionStatusPending, t0),
		mission("d", domain.MissionStatusPending, t0.Add(-time.Hour)),
		mission("e", domain.MissionStatusPending, t0.Add(time.Hour)),
	}

	got := ids(SortByRecency(input))
	want := []string{"b", "e", "a", "c", "d"}
	if !equalIDs(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if input[0].ID != "a" || input[1].ID != "b" {
		t.Error("SortByRecency modified its input")
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		raw     string
		want    Filter
		wantErr bool
	}{
		{raw: "", want: FilterAll},
		{raw: "all", want: FilterAll},
		{raw: "Recent", want: FilterRecent},
		{raw: " in-progress ", want: FilterInProgress},
		{raw: "failed", want: FilterFailed},
		{raw: "scheduled", wantErr: true},
		{raw: "done", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseFilter(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.raw)
				}
				if !errors.Is(err, domain.ErrValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFilterRecentBoundary(t *testing.T) {
	input := []domain.Mission{
		mission("six-days", domain.MissionStatusCompleted, testNow.Add(-6*24*time.Hour)),
		mission("eight-days", domain.MissionStatusCompleted, testNow.Add(-8*24*time.Hour)),
		mission("exactly-seven", domain.MissionStatusCompleted, testNow.Add(-7*24*time.Hour)),
		mission("just-over-seven", domain.MissionStatusCompleted, testNow.Add(-7*24*time.Hour-time.Nanosecond)),
	}

	got := ids(FilterMissions(input, FilterRecent, testNow))
	want := []string{"six-days", "exactly-seven"}
	if !equalIDs(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestFilterByStatusPartitionsAll(t *testing.T) {
	start := testNow.Add(-time.Hour)
	input := []domain.Mission{
		mission("1", domain.MissionStatusCompleted, start),
		mission("2", domain.MissionStatusInProgress, start.Add(time.Minute)),
		mission("3", domain.MissionStatusPending, start.Add(2*time.Minute)),
		mission("4", domain.MissionStatusFailed, start.Add(3*time.Minute)),
		mission("5", domain.MissionStatus("archived"), start.Add(4*time.Minute)),
		mission("6", domain.MissionStatusCompleted, start.Add(5*time.Minute)),
	}

	all := ListView(input, FilterAll, testNow)
	if !equalIDs(ids(all), ids(SortByRecency(input))) {
		t.Fatalf("filter all must equal sorted input, got %v", ids(all))
	}

	seen := make(map[string]bool)
	for _, f := range []Filter{FilterPending, FilterInProgress, FilterCompleted, FilterFailed} {
		for _, m := range ListView(input, f, testNow) {
			if m.Status != domain.MissionStatus(f) {
				t.Errorf("filter %s returned mission %s with status %s", f, m.ID, m.Status)
			}
			seen[m.ID] = true
		}
	}
	for _, m := range input {
		if !m.Status.IsValid() {
			seen[m.ID] = true
		}
	}

	if len(seen) != len(all) {
		t.Errorf("status filters cover %d missions, expected %d", len(seen), len(all))
	}
}

func TestFilterEmptyInput(t *testing.T) {
	for _, f := range []Filter{FilterAll, FilterRecent, FilterCompleted} {
		got := ListView(nil, f, testNow)
		if got == nil || len(got) != 0 {
			t.Errorf("filter %s on empty input: expected empty non-nil slice, got %#v", f, got)
		}
	}
}

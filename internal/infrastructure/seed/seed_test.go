package seed

import (
	"testing"

	"drone-survey-system/internal/domain"
)

func TestMissionsAreValid(t *testing.T) {
	missions, err := Missions()
	if err != nil {
		t.Fatalf("Missions failed: %v", err)
	}

	if len(missions) != 20 {
		t.Fatalf("expected 20 seed missions, got %d", len(missions))
	}

	seen := make(map[string]bool)
	for _, m := range missions {
		if err := m.Validate(); err != nil {
			t.Errorf("seed mission %s is invalid: %v", m.ID, err)
		}
		if seen[m.ID] {
			t.Errorf("duplicate seed id %s", m.ID)
		}
		seen[m.ID] = true
	}
}

func TestMissionsReturnsFreshCopy(t *testing.T) {
	first, err := Missions()
	if err != nil {
		t.Fatalf("Missions failed: %v", err)
	}
	first[0].Name = "changed"
	first[0].Status = domain.MissionStatusFailed

	second, err := Missions()
	if err != nil {
		t.Fatalf("Missions failed: %v", err)
	}
	if second[0].Name == "changed" {
		t.Error("seed list is shared between calls")
	}
}

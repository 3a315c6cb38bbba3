// Package seed містить вбудований початковий список місій
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"drone-survey-system/internal/domain"
)

//go:embed missions.json
var missionsJSON []byte

// Missions повертає нову копію початкового списку місій
func Missions() ([]domain.Mission, error) {
	var missions []domain.Mission
	if err := json.Unmarshal(missionsJSON, &missions); err != nil {
		return nil, fmt.Errorf("failed to parse seed missions: %w", err)
	}
	return missions, nil
}

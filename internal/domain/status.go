package domain

import (
	"fmt"
	"strings"
)

// Кольори статусів для відображення на карті, глобусі та графіках
const (
	ColorCompleted  = "#10B981"
	ColorInProgress = "#3B82F6"
	ColorFailed     = "#EF4444"
	ColorPending    = "#F59E0B"
	ColorUnknown    = "#6B7280"
)

// legacyScheduled є статусом, який повертає мережевий сервіс створення місій
const legacyScheduled = "scheduled"

// AllStatuses повертає всі статуси у порядку життєвого циклу
func AllStatuses() []MissionStatus {
	return []MissionStatus{
		MissionStatusPending,
		MissionStatusInProgress,
		MissionStatusCompleted,
		MissionStatusFailed,
	}
}

// IsValid перевіряє, чи належить статус до закритого переліку
func (s MissionStatus) IsValid() bool {
	switch s {
	case MissionStatusPending, MissionStatusInProgress, MissionStatusCompleted, MissionStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal повідомляє, чи можна ще редагувати місію з цим статусом
func (s MissionStatus) IsTerminal() bool {
	return s == MissionStatusCompleted || s == MissionStatusFailed
}

// Label повертає підпис статусу для графіків
func (s MissionStatus) Label() string {
	switch s {
	case MissionStatusPending:
		return "Pending"
	case MissionStatusInProgress:
		return "In Progress"
	case MissionStatusCompleted:
		return "Completed"
	case MissionStatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// ParseMissionStatus розбирає статус без урахування регістру.
// "scheduled" від мережевого сервісу створення трактується як pending.
func ParseMissionStatus(raw string) (MissionStatus, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == legacyScheduled {
		return MissionStatusPending, nil
	}

	status := MissionStatus(value)
	if !status.IsValid() {
		return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", raw)}
	}
	return status, nil
}

// StatusColor повертає колір статусу. Колір завжди виводиться зі статусу.
func StatusColor(status MissionStatus) string {
	switch MissionStatus(strings.ToLower(string(status))) {
	case MissionStatusCompleted:
		return ColorCompleted
	case MissionStatusInProgress:
		return ColorInProgress
	case MissionStatusFailed:
		return ColorFailed
	case MissionStatusPending:
		return ColorPending
	default:
		return ColorUnknown
	}
}

// WithStatusColor повертає місію з кольором, виведеним зі статусу
func (m Mission) WithStatusColor() Mission {
	m.StatusColor = StatusColor(m.Status)
	return m
}

// transitions описує дозволені переходи між статусами
var transitions = map[MissionStatus][]MissionStatus{
	MissionStatusPending:    {MissionStatusInProgress, MissionStatusFailed},
	MissionStatusInProgress: {MissionStatusCompleted, MissionStatusFailed},
	MissionStatusCompleted:  {},
	MissionStatusFailed:     {},
}

// CanTransition перевіряє перехід між статусами. Перехід у той самий статус дозволено.
func CanTransition(from, to MissionStatus) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsValid перевіряє роздільну здатність
func (r Resolution) IsValid() bool {
	switch r {
	case ResolutionLow, ResolutionMedium, ResolutionHigh:
		return true
	default:
		return false
	}
}

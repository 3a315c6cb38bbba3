package ports

import (
	"drone-survey-system/internal/domain"
)

// Operation визначає тип зміни у сховищі місій
type Operation string

const (
	OperationAdd        Operation = "add"
	OperationUpdate     Operation = "update"
	OperationReplaceAll Operation = "replace_all"
)

// ChangeEvent описує зміну стану сховища.
// Missions містить повний знімок колекції після зміни.
type ChangeEvent struct {
	Version   uint64           `json:"version"`
	Operation Operation        `json:"operation"`
	MissionID string           `json:"missionId,omitempty"`
	Missions  []domain.Mission `json:"missions"`
}

// MissionStore визначає канонічне сховище місій на час сесії
type MissionStore interface {
	// List повертає всі місії у порядку додавання
	List() []domain.Mission
	// Get повертає місію за ID; false, якщо місії немає
	Get(id string) (domain.Mission, bool)
	Add(mission domain.Mission) error
	// Update глибоко зливає патч у місію та повертає результат
	Update(id string, patch domain.MissionPatch) (domain.Mission, error)
	// Modify атомарно будує патч з поточного стану місії та застосовує його
	Modify(id string, fn func(current domain.Mission) (domain.MissionPatch, error)) (domain.Mission, error)
	ReplaceAll(missions []domain.Mission) error
	// Subscribe реєструє спостерігача змін, повертає функцію відписки
	Subscribe(fn func(ChangeEvent)) func()
	Version() uint64
}

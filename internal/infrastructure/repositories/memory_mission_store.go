package repositories

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"drone-survey-system/internal/domain"
	"drone-survey-system/internal/ports"
)

// missionSnapshot є незмінним станом сховища. Записувач створює новий знімок
// і атомарно підміняє вказівник, читачі працюють без блокування.
type missionSnapshot struct {
	version  uint64
	missions []domain.Mission
	index    map[string]int
}

// MemoryMissionStore імплементує ports.MissionStore у пам'яті процесу
type MemoryMissionStore struct {
	writeMu sync.Mutex
	current atomic.Pointer[missionSnapshot]

	subsMu  sync.RWMutex
	subs    map[uint64]func(ports.ChangeEvent)
	nextSub uint64

	now func() time.Time
}

// StoreOption налаштовує MemoryMissionStore
type StoreOption func(*MemoryMissionStore)

// WithClock підміняє годинник, яким проставляється updatedAt
func WithClock(now func() time.Time) StoreOption {
	return func(s *MemoryMissionStore) {
		s.now = now
	}
}

// NewMemoryMissionStore створює порожнє сховище місій
func NewMemoryMissionStore(opts ...StoreOption) *MemoryMissionStore {
	s := &MemoryMissionStore{
		subs: make(map[uint64]func(ports.ChangeEvent)),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(&missionSnapshot{index: map[string]int{}})
	return s
}

// List повертає копії всіх місій у порядку додавання
func (s *MemoryMissionStore) List() []domain.Mission {
	return cloneMissions(s.current.Load().missions)
}

// Get повертає копію місії за ID
func (s *MemoryMissionStore) Get(id string) (domain.Mission, bool) {
	snap := s.current.Load()
	i, ok := snap.index[id]
	if !ok {
		return domain.Mission{}, false
	}
	return snap.missions[i].Clone(), true
}

// Version повертає номер поточного знімка
func (s *MemoryMissionStore) Version() uint64 {
	return s.current.Load().version
}

// Add додає нову місію в кінець колекції
func (s *MemoryMissionStore) Add(mission domain.Mission) error {
	if err := mission.Validate(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap := s.current.Load()
	if _, exists := snap.index[mission.ID]; exists {
		return fmt.Errorf("add mission %s: %w", mission.ID, domain.ErrDuplicateID)
	}

	missions := make([]domain.Mission, len(snap.missions), len(snap.missions)+1)
	copy(missions, snap.missions)
	missions = append(missions, stored(mission))

	index := make(map[string]int, len(missions))
	for k, v := range snap.index {
		index[k] = v
	}
	index[mission.ID] = len(missions) - 1

	s.commit(&missionSnapshot{version: snap.version + 1, missions: missions, index: index}, ports.OperationAdd, mission.ID)
	return nil
}

// Update зливає патч у місію. Результат валідується до фіксації,
// тож некоректний патч не змінює стан.
func (s *MemoryMissionStore) Update(id string, patch domain.MissionPatch) (domain.Mission, error) {
	return s.Modify(id, func(domain.Mission) (domain.MissionPatch, error) {
		return patch, nil
	})
}

// Modify будує патч з поточного стану місії та застосовує його атомарно.
// fn викликається під блокуванням записувача; помилка fn скасовує зміну.
func (s *MemoryMissionStore) Modify(id string, fn func(current domain.Mission) (domain.MissionPatch, error)) (domain.Mission, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap := s.current.Load()
	i, ok := snap.index[id]
	if !ok {
		return domain.Mission{}, fmt.Errorf("update mission %s: %w", id, domain.ErrNotFound)
	}

	patch, err := fn(snap.missions[i].Clone())
	if err != nil {
		return domain.Mission{}, err
	}

	updated := snap.missions[i].Apply(patch)
	now := s.now().UTC()
	if updated.CreatedAt != nil && now.Before(*updated.CreatedAt) {
		now = *updated.CreatedAt
	}
	updated.UpdatedAt = &now
	updated.StatusColor = ""

	if err := updated.Validate(); err != nil {
		return domain.Mission{}, err
	}

	missions := make([]domain.Mission, len(snap.missions))
	copy(missions, snap.missions)
	missions[i] = updated

	s.commit(&missionSnapshot{version: snap.version + 1, missions: missions, index: snap.index}, ports.OperationUpdate, id)
	return updated.Clone(), nil
}

// ReplaceAll повністю замінює колекцію місій
func (s *MemoryMissionStore) ReplaceAll(missions []domain.Mission) error {
	index := make(map[string]int, len(missions))
	for i, m := range missions {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("replace missions: mission at %d: %w", i, err)
		}
		if _, exists := index[m.ID]; exists {
			return fmt.Errorf("replace missions: %s: %w", m.ID, domain.ErrDuplicateID)
		}
		index[m.ID] = i
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap := s.current.Load()
	next := make([]domain.Mission, len(missions))
	for i, m := range missions {
		next[i] = stored(m)
	}
	s.commit(&missionSnapshot{version: snap.version + 1, missions: next, index: index}, ports.OperationReplaceAll, "")
	return nil
}

// Subscribe реєструє спостерігача. Спостерігачі викликаються синхронно,
// під блокуванням записувача, у порядку змін; вони не повинні писати у сховище.
func (s *MemoryMissionStore) Subscribe(fn func(ports.ChangeEvent)) func() {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
		})
	}
}

// stored готує копію місії до зберігання. Колір статусу похідний
// і обчислюється лише у представленнях.
func stored(m domain.Mission) domain.Mission {
	c := m.Clone()
	c.StatusColor = ""
	return c
}

// commit викликається під writeMu
func (s *MemoryMissionStore) commit(next *missionSnapshot, op ports.Operation, missionID string) {
	s.current.Store(next)

	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	if len(s.subs) == 0 {
		return
	}

	event := ports.ChangeEvent{
		Version:   next.version,
		Operation: op,
		MissionID: missionID,
		Missions:  cloneMissions(next.missions),
	}
	for _, fn := range s.subs {
		fn(event)
	}
}

func cloneMissions(in []domain.Mission) []domain.Mission {
	out := make([]domain.Mission, len(in))
	for i, m := range in {
		out[i] = m.Clone()
	}
	return out
}

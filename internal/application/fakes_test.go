package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"drone-survey-system/internal/domain"
	"drone-survey-system/internal/infrastructure/repositories"
	"drone-survey-system/pkg/logger"
	"drone-survey-system/pkg/metrics"
)

var fixedNow = time.Date(2024, 2, 16, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("mission-%d", n)
	}
}

func newTestService(opts ...MissionServiceOption) (*MissionService, *repositories.MemoryMissionStore, *metrics.Metrics) {
	store := repositories.NewMemoryMissionStore(repositories.WithClock(clock))
	m := metrics.NewNopMetrics()
	opts = append([]MissionServiceOption{WithServiceClock(clock), WithIDGenerator(sequentialIDs())}, opts...)
	return NewMissionService(store, logger.NewNop(), m, opts...), store, m
}

func sampleMission(id string, status domain.MissionStatus) domain.Mission {
	created := time.Date(2024, 2, 14, 9, 0, 0, 0, time.UTC)
	config := domain.DefaultFlightConfig()
	config.FlightPath.Waypoints = []domain.Waypoint{
		{Lat: 35.6762, Lng: 139.6503, Altitude: 50},
		{Lat: 35.6812, Lng: 139.6553, Altitude: 50},
	}
	return domain.Mission{
		ID:           id,
		Name:         "Mission " + id,
		Status:       status,
		StartTime:    time.Date(2024, 2, 14, 10, 0, 0, 0, time.UTC),
		CreatedAt:    &created,
		Latitude:     35.6762,
		Longitude:    139.6503,
		Drone:        "DJI Mavic 3",
		FlightConfig: config,
	}
}

// fakeFetcher імітує мережевий сервіс місій
type fakeFetcher struct {
	mu       sync.Mutex
	missions map[string]domain.Mission
	err      error
	calls    int
}

func (f *fakeFetcher) FetchMission(ctx context.Context, id string) (*domain.Mission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.missions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

// fakeRepository зберігає місії у пам'яті та рахує виклики
type fakeRepository struct {
	mu        sync.Mutex
	missions  []domain.Mission
	saves     int
	saveAlls  int
	schemaErr error
	saveErr   error
}

func (r *fakeRepository) InitializeSchema(ctx context.Context) error {
	return r.schemaErr
}

func (r *fakeRepository) Save(ctx context.Context, mission *domain.Mission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	for i := range r.missions {
		if r.missions[i].ID == mission.ID {
			r.missions[i] = mission.Clone()
			return nil
		}
	}
	r.missions = append(r.missions, mission.Clone())
	return nil
}

func (r *fakeRepository) SaveAll(ctx context.Context, missions []domain.Mission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveAlls++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.missions = make([]domain.Mission, 0, len(missions))
	for _, m := range missions {
		r.missions = append(r.missions, m.Clone())
	}
	return nil
}

func (r *fakeRepository) FindByID(ctx context.Context, id string) (*domain.Mission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.missions {
		if m.ID == id {
			c := m.Clone()
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepository) FindAll(ctx context.Context) ([]*domain.Mission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Mission, 0, len(r.missions))
	for _, m := range r.missions {
		c := m.Clone()
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeRepository) setSaveErr(err error) {
	r.mu.Lock()
	r.saveErr = err
	r.mu.Unlock()
}

func (r *fakeRepository) snapshot() []domain.Mission {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Mission, len(r.missions))
	copy(out, r.missions)
	return out
}

// fakeSnapshotStorage зберігає знімки у пам'яті
type fakeSnapshotStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	order   []string
}

func newFakeSnapshotStorage() *fakeSnapshotStorage {
	return &fakeSnapshotStorage{objects: make(map[string][]byte)}
}

func (s *fakeSnapshotStorage) SaveSnapshot(ctx context.Context, data io.Reader, size int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	if int64(len(raw)) != size {
		return "", fmt.Errorf("size mismatch: %d != %d", len(raw), size)
	}

	key := fmt.Sprintf("snapshots/%03d.json", len(s.order))
	s.objects[key] = raw
	s.order = append(s.order, key)
	return key, nil
}

func (s *fakeSnapshotStorage) GetSnapshot(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

func (s *fakeSnapshotStorage) ListSnapshots(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...), nil
}

func (s *fakeSnapshotStorage) put(key string, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = raw
	s.order = append(s.order, key)
}

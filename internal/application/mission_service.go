package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"drone-survey-system/internal/domain"
	"drone-survey-system/internal/ports"
	"drone-survey-system/pkg/analytics"
	"drone-survey-system/pkg/logger"
	"drone-survey-system/pkg/metrics"
	"github.com/google/uuid"
)

// Координати нової місії за замовчуванням
const (
	DefaultLatitude  = 51.505
	DefaultLongitude = -0.09
)

// MissionService відповідає за бізнес-логіку роботи з місіями
type MissionService struct {
	store   ports.MissionStore
	fetcher ports.MissionFetcher
	logger  logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string
}

// MissionServiceOption налаштовує MissionService
type MissionServiceOption func(*MissionService)

// WithFetcher вмикає запасне завантаження місій з мережевого сервісу
func WithFetcher(fetcher ports.MissionFetcher) MissionServiceOption {
	return func(s *MissionService) {
		s.fetcher = fetcher
	}
}

// WithServiceClock підміняє годинник сервісу
func WithServiceClock(now func() time.Time) MissionServiceOption {
	return func(s *MissionService) {
		s.now = now
	}
}

// WithIDGenerator підміняє генератор ідентифікаторів
func WithIDGenerator(newID func() string) MissionServiceOption {
	return func(s *MissionService) {
		s.newID = newID
	}
}

// NewMissionService створює новий екземпляр MissionService
func NewMissionService(store ports.MissionStore, log logger.Logger, m *metrics.Metrics, opts ...MissionServiceOption) *MissionService {
	s := &MissionService{
		store:   store,
		logger:  log,
		metrics: m,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateMissionInput містить поля нової місії
type CreateMissionInput struct {
	Name         string                    `json:"name"`
	Description  string                    `json:"description,omitempty"`
	Latitude     *float64                  `json:"latitude,omitempty"`
	Longitude    *float64                  `json:"longitude,omitempty"`
	StartTime    time.Time                 `json:"startTime"`
	EndTime      *time.Time                `json:"endTime,omitempty"`
	Drone        string                    `json:"drone"`
	FlightConfig *domain.FlightConfigPatch `json:"flightConfig,omitempty"`
}

// CreateMission створює місію зі статусом pending і конфігурацією за замовчуванням
func (s *MissionService) CreateMission(ctx context.Context, input CreateMissionInput) (domain.Mission, error) {
	lat, lng := DefaultLatitude, DefaultLongitude
	switch {
	case input.Latitude != nil && input.Longitude != nil:
		lat, lng = *input.Latitude, *input.Longitude
	case input.Latitude != nil || input.Longitude != nil:
		return domain.Mission{}, &domain.ValidationError{Field: "latitude", Reason: "latitude and longitude must be given together"}
	}

	config := domain.DefaultFlightConfig()
	if input.FlightConfig != nil {
		config = config.Merge(*input.FlightConfig)
	}

	now := s.now().UTC()
	mission := domain.Mission{
		ID:           s.newID(),
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		Status:       domain.MissionStatusPending,
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
		CreatedAt:    &now,
		UpdatedAt:    &now,
		Latitude:     lat,
		Longitude:    lng,
		Drone:        input.Drone,
		FlightConfig: config,
	}

	if err := s.store.Add(mission); err != nil {
		s.recordError("create", err)
		s.logger.Warn("Failed to create mission", "mission_id", mission.ID, "error", err)
		return domain.Mission{}, err
	}

	s.recordMutation(ports.OperationAdd)
	s.logger.Info("Mission created", "mission_id", mission.ID, "name", mission.Name)
	return mission, nil
}

// GetMission повертає місію зі сховища, а за її відсутності
// пробує мережевий сервіс і додає отриману місію до сховища
func (s *MissionService) GetMission(ctx context.Context, id string) (domain.Mission, error) {
	if mission, ok := s.store.Get(id); ok {
		return mission, nil
	}

	if s.fetcher == nil {
		return domain.Mission{}, fmt.Errorf("mission %s: %w", id, domain.ErrNotFound)
	}

	fetched, err := s.fetcher.FetchMission(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.recordError("remote_fetch", err)
			s.logger.Error("Failed to fetch remote mission", "mission_id", id, "error", err)
		}
		return domain.Mission{}, err
	}

	if err := s.store.Add(*fetched); err != nil {
		// Інший запит міг додати ту саму місію раніше
		if errors.Is(err, domain.ErrDuplicateID) {
			if mission, ok := s.store.Get(id); ok {
				return mission, nil
			}
		}
		s.recordError("remote_fetch", err)
		s.logger.Warn("Rejected remote mission", "mission_id", id, "error", err)
		return domain.Mission{}, err
	}

	s.recordMutation(ports.OperationAdd)
	s.logger.Info("Mission loaded from remote service", "mission_id", id)
	return fetched.Clone(), nil
}

// ListMissions повертає відсортовані за часом початку місії, що відповідають фільтру
func (s *MissionService) ListMissions(ctx context.Context, filter analytics.Filter) []domain.Mission {
	return analytics.ListView(s.store.List(), filter, s.now())
}

// UpdateMission застосовує патч з урахуванням правил редагування:
// завершені місії не редагуються, статус змінюється лише за дозволеними переходами
func (s *MissionService) UpdateMission(ctx context.Context, id string, patch domain.MissionPatch) (domain.Mission, error) {
	if patch.Status != nil {
		status, err := domain.ParseMissionStatus(string(*patch.Status))
		if err != nil {
			return domain.Mission{}, err
		}
		patch.Status = &status
	}

	updated, err := s.store.Modify(id, func(current domain.Mission) (domain.MissionPatch, error) {
		if err := checkEditable(current, patch); err != nil {
			return domain.MissionPatch{}, err
		}
		return patch, nil
	})
	if err != nil {
		s.recordError("update", err)
		s.logger.Warn("Failed to update mission", "mission_id", id, "error", err)
		return domain.Mission{}, err
	}

	s.recordMutation(ports.OperationUpdate)
	s.logger.Debug("Mission updated", "mission_id", id, "status", updated.Status)
	return updated, nil
}

// ToggleSensor додає сенсор до місії або прибирає його, якщо він уже є
func (s *MissionService) ToggleSensor(ctx context.Context, id, sensor string) (domain.Mission, error) {
	sensor = strings.TrimSpace(sensor)
	if sensor == "" {
		return domain.Mission{}, &domain.ValidationError{Field: "sensor", Reason: "must not be blank"}
	}

	updated, err := s.store.Modify(id, func(current domain.Mission) (domain.MissionPatch, error) {
		var sensors []string
		if current.FlightConfig != nil && current.FlightConfig.DataCollection != nil {
			sensors = current.FlightConfig.DataCollection.Sensors
		}

		toggled := make([]string, 0, len(sensors)+1)
		found := false
		for _, existing := range sensors {
			if existing == sensor {
				found = true
				continue
			}
			toggled = append(toggled, existing)
		}
		if !found {
			toggled = append(toggled, sensor)
		}

		patch := domain.MissionPatch{
			FlightConfig: &domain.FlightConfigPatch{
				DataCollection: &domain.DataCollectionPatch{Sensors: &toggled},
			},
		}
		if err := checkEditable(current, patch); err != nil {
			return domain.MissionPatch{}, err
		}
		return patch, nil
	})
	if err != nil {
		s.recordError("toggle_sensor", err)
		s.logger.Warn("Failed to toggle sensor", "mission_id", id, "sensor", sensor, "error", err)
		return domain.Mission{}, err
	}

	s.recordMutation(ports.OperationUpdate)
	return updated, nil
}

// ReplaceAll повністю замінює колекцію місій
func (s *MissionService) ReplaceAll(ctx context.Context, missions []domain.Mission) error {
	if err := s.store.ReplaceAll(missions); err != nil {
		s.recordError("replace_all", err)
		s.logger.Warn("Failed to replace missions", "count", len(missions), "error", err)
		return err
	}

	s.recordMutation(ports.OperationReplaceAll)
	s.logger.Info("Missions replaced", "count", len(missions))
	return nil
}

func checkEditable(current domain.Mission, patch domain.MissionPatch) error {
	if current.Status.IsTerminal() {
		return fmt.Errorf("mission %s is %s: %w", current.ID, current.Status, domain.ErrNotEditable)
	}
	if patch.Status != nil && !domain.CanTransition(current.Status, *patch.Status) {
		return fmt.Errorf("mission %s: %s -> %s: %w", current.ID, current.Status, *patch.Status, domain.ErrInvalidTransition)
	}
	return nil
}

func (s *MissionService) recordMutation(op ports.Operation) {
	if s.metrics == nil {
		return
	}
	s.metrics.StoreMutations.WithLabelValues(string(op)).Inc()
	s.metrics.Missions.Set(float64(len(s.store.List())))
}

func (s *MissionService) recordError(operation string, err error) {
	if s.metrics == nil || err == nil {
		return
	}
	s.metrics.ErrorsCount.WithLabelValues(operation).Inc()
}

// Package events транслює зміни сховища місій клієнтам через Server-Sent Events.
package events

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"drone-survey-system/internal/domain"
	"drone-survey-system/internal/ports"
	"drone-survey-system/pkg/analytics"
	"drone-survey-system/pkg/logger"
	"drone-survey-system/pkg/metrics"
	"github.com/tmaxmax/go-sse"
)

// StreamEvent є корисним навантаженням однієї SSE-події
type StreamEvent struct {
	Version   uint64                 `json:"version"`
	Operation ports.Operation        `json:"operation"`
	MissionID string                 `json:"missionId,omitempty"`
	Missions  []domain.Mission       `json:"missions"`
	Counts    analytics.StatusCounts `json:"counts"`
}

// MissionStream публікує останній стан сховища підписникам /events.
// Події зливаються: клієнт отримує найсвіжіший знімок, а не кожну проміжну зміну.
type MissionStream struct {
	server  *sse.Server
	store   ports.MissionStore
	logger  logger.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	latest  *ports.ChangeEvent
	signal  chan struct{}
	clients int

	unsubscribe  func()
	done         chan struct{}
	shutdownOnce sync.Once
}

// NewMissionStream створює новий MissionStream
func NewMissionStream(store ports.MissionStore, log logger.Logger, m *metrics.Metrics) *MissionStream {
	return &MissionStream{
		server:  sse.NewServer(),
		store:   store,
		logger:  log,
		metrics: m,
		signal:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Start підписується на сховище і запускає публікацію до скасування ctx
func (s *MissionStream) Start(ctx context.Context) {
	s.unsubscribe = s.store.Subscribe(s.enqueue)
	go s.run(ctx)
}

// Wait чекає завершення горутини публікації
func (s *MissionStream) Wait() {
	<-s.done
}

// Shutdown закриває всі відкриті потоки, щоб http.Server міг завершитися.
// Безпечний для повторного виклику; придатний для http.Server.RegisterOnShutdown.
func (s *MissionStream) Shutdown() {
	s.shutdownOnce.Do(func() {
		if err := s.server.Shutdown(); err != nil {
			s.logger.Warn("Error closing event stream", "error", err)
		}
	})
}

// ServeHTTP обслуговує підписку клієнта на події
func (s *MissionStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Потік живе довше за WriteTimeout сервера
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	s.trackClient(1)
	defer s.trackClient(-1)

	s.server.ServeHTTP(w, r)
}

func (s *MissionStream) trackClient(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clients += delta
	if s.metrics != nil {
		s.metrics.LiveClients.WithLabelValues("sse").Set(float64(s.clients))
	}
}

// enqueue викликається під блокуванням записувача сховища
func (s *MissionStream) enqueue(event ports.ChangeEvent) {
	s.mu.Lock()
	s.latest = &event
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *MissionStream) run(ctx context.Context) {
	defer close(s.done)
	defer s.unsubscribe()

	for {
		select {
		case <-ctx.Done():
			s.Shutdown()
			return
		case <-s.signal:
			s.mu.Lock()
			event := s.latest
			s.latest = nil
			s.mu.Unlock()

			if event != nil {
				s.publish(*event)
			}
		}
	}
}

func (s *MissionStream) publish(event ports.ChangeEvent) {
	data, err := json.Marshal(NewStreamEvent(event))
	if err != nil {
		s.logger.Error("Failed to encode stream event", "version", event.Version, "error", err)
		return
	}

	e := &sse.Message{}
	e.AppendData(data)
	if err := s.server.Publish(e); err != nil {
		s.logger.Warn("Failed to publish stream event", "version", event.Version, "error", err)
		return
	}

	s.logger.Debug("Stream event published", "version", event.Version, "operation", event.Operation)
}

// NewStreamEvent будує корисне навантаження події зі зміни сховища
func NewStreamEvent(event ports.ChangeEvent) StreamEvent {
	missions := make([]domain.Mission, len(event.Missions))
	for i, m := range event.Missions {
		missions[i] = m.WithStatusColor()
	}
	return StreamEvent{
		Version:   event.Version,
		Operation: event.Operation,
		MissionID: event.MissionID,
		Missions:  analytics.SortByRecency(missions),
		Counts:    analytics.CountByStatus(event.Missions),
	}
}

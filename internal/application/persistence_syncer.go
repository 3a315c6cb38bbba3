package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"drone-survey-system/internal/domain"
	"drone-survey-system/internal/ports"
	"drone-survey-system/pkg/logger"
	"drone-survey-system/pkg/metrics"
)

// flushTimeout обмежує останній запис при зупинці
const flushTimeout = 5 * time.Second

// PersistenceSyncer дзеркалює сховище місій у MissionRepository.
// Спостерігач сховища лише фіксує подію, запис виконує окрема горутина,
// тому база даних не блокує записувачів сховища.
type PersistenceSyncer struct {
	repo    ports.MissionRepository
	store   ports.MissionStore
	logger  logger.Logger
	metrics *metrics.Metrics

	mu        sync.Mutex
	latest    *ports.ChangeEvent
	coalesced bool
	signal    chan struct{}

	// dirty означає, що попередній запис не вдався і база відстає від сховища.
	// Використовується лише горутиною запису.
	dirty bool

	unsubscribe func()
	done        chan struct{}
}

// NewPersistenceSyncer створює новий екземпляр PersistenceSyncer
func NewPersistenceSyncer(repo ports.MissionRepository, store ports.MissionStore, log logger.Logger, m *metrics.Metrics) *PersistenceSyncer {
	return &PersistenceSyncer{
		repo:    repo,
		store:   store,
		logger:  log,
		metrics: m,
		signal:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Load ініціалізує схему та завантажує місії з бази у сховище.
// Якщо база порожня, у сховище і в базу записується seed.
func (p *PersistenceSyncer) Load(ctx context.Context, seed []domain.Mission) (int, error) {
	if err := p.repo.InitializeSchema(ctx); err != nil {
		return 0, err
	}

	stored, err := p.repo.FindAll(ctx)
	if err != nil {
		return 0, err
	}

	if len(stored) > 0 {
		missions := make([]domain.Mission, 0, len(stored))
		for _, m := range stored {
			missions = append(missions, *m)
		}
		if err := p.store.ReplaceAll(missions); err != nil {
			return 0, fmt.Errorf("failed to load stored missions: %w", err)
		}
		p.logger.Info("Missions loaded from database", "count", len(missions))
		return len(missions), nil
	}

	if len(seed) == 0 {
		return 0, nil
	}

	if err := p.store.ReplaceAll(seed); err != nil {
		return 0, fmt.Errorf("failed to seed missions: %w", err)
	}
	if err := p.repo.SaveAll(ctx, seed); err != nil {
		return 0, err
	}

	p.logger.Info("Database seeded", "count", len(seed))
	return len(seed), nil
}

// Start підписується на зміни сховища та запускає горутину запису.
// Після скасування ctx незаписані зміни зберігаються востаннє.
func (p *PersistenceSyncer) Start(ctx context.Context) {
	p.unsubscribe = p.store.Subscribe(p.enqueue)
	go p.run(ctx)
}

// Wait чекає завершення горутини запису
func (p *PersistenceSyncer) Wait() {
	<-p.done
}

// enqueue викликається сховищем під блокуванням записувача
func (p *PersistenceSyncer) enqueue(event ports.ChangeEvent) {
	p.mu.Lock()
	if p.latest != nil {
		p.coalesced = true
	}
	p.latest = &event
	p.mu.Unlock()

	select {
	case p.signal <- struct{}{}:
	default:
	}
}

func (p *PersistenceSyncer) run(ctx context.Context) {
	defer close(p.done)

	for {
		select {
		case <-ctx.Done():
			p.unsubscribe()
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
			p.flush(flushCtx)
			cancel()
			return
		case <-p.signal:
			p.flush(ctx)
		}
	}
}

func (p *PersistenceSyncer) flush(ctx context.Context) {
	p.mu.Lock()
	event, coalesced := p.latest, p.coalesced
	p.latest, p.coalesced = nil, false
	p.mu.Unlock()

	if event == nil {
		if !p.dirty {
			return
		}
		// Після невдалого запису без нових подій зберігається поточний стан
		event = &ports.ChangeEvent{
			Version:   p.store.Version(),
			Operation: ports.OperationReplaceAll,
			Missions:  p.store.List(),
		}
	}

	if err := p.persist(ctx, *event, coalesced || p.dirty); err != nil {
		p.dirty = true
		if p.metrics != nil {
			p.metrics.ErrorsCount.WithLabelValues("persist").Inc()
		}
		p.logger.Error("Failed to persist missions", "version", event.Version, "mission_id", event.MissionID, "error", err)
		return
	}
	p.dirty = false
}

// persist записує одну змінену місію або, якщо події злилися
// чи база відстає, весь знімок
func (p *PersistenceSyncer) persist(ctx context.Context, event ports.ChangeEvent, full bool) error {
	if full || event.Operation == ports.OperationReplaceAll {
		return p.repo.SaveAll(ctx, event.Missions)
	}

	for i := range event.Missions {
		if event.Missions[i].ID == event.MissionID {
			return p.repo.Save(ctx, &event.Missions[i])
		}
	}
	return p.repo.SaveAll(ctx, event.Missions)
}

package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"drone-survey-system/internal/domain"
	"github.com/lib/pq"
)

// PostgresMissionRepository імплементує MissionRepository для PostgreSQL
type PostgresMissionRepository struct {
	db *sql.DB
}

// NewPostgresMissionRepository створює новий екземпляр PostgresMissionRepository
func NewPostgresMissionRepository(db *sql.DB) *PostgresMissionRepository {
	return &PostgresMissionRepository{
		db: db,
	}
}

// InitializeSchema створює таблицю місій, якщо вона не існує
func (r *PostgresMissionRepository) InitializeSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS missions (
			id TEXT PRIMARY KEY,
			position BIGINT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ,
			created_at TIMESTAMPTZ,
			updated_at TIMESTAMPTZ,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			drone TEXT NOT NULL DEFAULT '',
			flight_config JSONB
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create missions table: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS missions_position_idx ON missions (position)`)
	if err != nil {
		return fmt.Errorf("failed to create position index: %w", err)
	}

	return nil
}

const upsertMissionQuery = `
	INSERT INTO missions (id, position, name, description, status, start_time, end_time, created_at, updated_at, latitude, longitude, drone, flight_config)
	VALUES ($1, COALESCE($2, (SELECT COALESCE(MAX(position) + 1, 0) FROM missions)), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (id) DO UPDATE SET
		position = COALESCE($2, missions.position),
		name = EXCLUDED.name,
		description = EXCLUDED.description,
		status = EXCLUDED.status,
		start_time = EXCLUDED.start_time,
		end_time = EXCLUDED.end_time,
		created_at = EXCLUDED.created_at,
		updated_at = EXCLUDED.updated_at,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		drone = EXCLUDED.drone,
		flight_config = EXCLUDED.flight_config
`

// Save додає або оновлює місію, зберігаючи її позицію
func (r *PostgresMissionRepository) Save(ctx context.Context, mission *domain.Mission) error {
	return r.upsert(ctx, r.db, mission, sql.NullInt64{})
}

// SaveAll замінює вміст таблиці колекцією місій в одній транзакції
func (r *PostgresMissionRepository) SaveAll(ctx context.Context, missions []domain.Mission) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ids := make([]string, 0, len(missions))
	for i := range missions {
		ids = append(ids, missions[i].ID)
		if err := r.upsert(ctx, tx, &missions[i], sql.NullInt64{Int64: int64(i), Valid: true}); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM missions WHERE NOT (id = ANY($1))`, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to delete stale missions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit missions: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *PostgresMissionRepository) upsert(ctx context.Context, db execer, mission *domain.Mission, position sql.NullInt64) error {
	// Пакування конфігурації польоту у JSON; без конфігурації колонка NULL
	var configJSON interface{}
	if mission.FlightConfig != nil {
		data, err := json.Marshal(mission.FlightConfig)
		if err != nil {
			return fmt.Errorf("failed to marshal flight config: %w", err)
		}
		configJSON = data
	}

	_, err := db.ExecContext(
		ctx,
		upsertMissionQuery,
		mission.ID,
		position,
		mission.Name,
		mission.Description,
		mission.Status,
		mission.StartTime,
		nullTime(mission.EndTime),
		nullTime(mission.CreatedAt),
		nullTime(mission.UpdatedAt),
		mission.Latitude,
		mission.Longitude,
		mission.Drone,
		configJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save mission %s: %w", mission.ID, err)
	}

	return nil
}

const selectMissionColumns = `
	SELECT id, name, description, status, start_time, end_time, created_at, updated_at, latitude, longitude, drone, flight_config
	FROM missions
`

// FindByID знаходить місію за ID
func (r *PostgresMissionRepository) FindByID(ctx context.Context, id string) (*domain.Mission, error) {
	row := r.db.QueryRowContext(ctx, selectMissionColumns+` WHERE id = $1`, id)

	mission, err := scanMission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find mission: %w", err)
	}

	return mission, nil
}

// FindAll повертає всі місії у порядку додавання
func (r *PostgresMissionRepository) FindAll(ctx context.Context) ([]*domain.Mission, error) {
	rows, err := r.db.QueryContext(ctx, selectMissionColumns+` ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query missions: %w", err)
	}
	defer rows.Close()

	var missions []*domain.Mission
	for rows.Next() {
		mission, err := scanMission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mission row: %w", err)
		}
		missions = append(missions, mission)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mission rows: %w", err)
	}

	return missions, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMission(row rowScanner) (*domain.Mission, error) {
	var mission domain.Mission
	var endTime, createdAt, updatedAt sql.NullTime
	var configJSON []byte

	err := row.Scan(
		&mission.ID,
		&mission.Name,
		&mission.Description,
		&mission.Status,
		&mission.StartTime,
		&endTime,
		&createdAt,
		&updatedAt,
		&mission.Latitude,
		&mission.Longitude,
		&mission.Drone,
		&configJSON,
	)
	if err != nil {
		return nil, err
	}

	mission.EndTime = timePtr(endTime)
	mission.CreatedAt = timePtr(createdAt)
	mission.UpdatedAt = timePtr(updatedAt)

	// Розпакування конфігурації польоту з JSON
	if len(configJSON) > 0 {
		var cfg domain.FlightConfig
		if err := json.Unmarshal(configJSON, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal flight config: %w", err)
		}
		mission.FlightConfig = &cfg
	}

	return &mission, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

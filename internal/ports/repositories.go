package ports

import (
	"context"

	"drone-survey-system/internal/domain"
)

// MissionRepository визначає методи для довготривалого зберігання місій
type MissionRepository interface {
	InitializeSchema(ctx context.Context) error
	Save(ctx context.Context, mission *domain.Mission) error
	SaveAll(ctx context.Context, missions []domain.Mission) error
	FindByID(ctx context.Context, id string) (*domain.Mission, error)
	FindAll(ctx context.Context) ([]*domain.Mission, error)
}

// MissionFetcher отримує окрему місію з мережевого сервісу.
// Повертає domain.ErrNotFound, якщо місії немає.
type MissionFetcher interface {
	FetchMission(ctx context.Context, id string) (*domain.Mission, error)
}

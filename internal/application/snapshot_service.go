package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"drone-survey-system/internal/domain"
	"drone-survey-system/internal/ports"
	"drone-survey-system/pkg/logger"
)

// maxSnapshotSize обмежує розмір знімка при відновленні
const maxSnapshotSize = 32 << 20

// SnapshotService експортує та відновлює колекцію місій через сховище знімків
type SnapshotService struct {
	storage  ports.SnapshotStorage
	missions *MissionService
	store    ports.MissionStore
	logger   logger.Logger
}

// NewSnapshotService створює новий екземпляр SnapshotService.
// Nil storage означає, що знімки вимкнено.
func NewSnapshotService(storage ports.SnapshotStorage, store ports.MissionStore, missions *MissionService, log logger.Logger) *SnapshotService {
	return &SnapshotService{
		storage:  storage,
		missions: missions,
		store:    store,
		logger:   log,
	}
}

// Enabled повідомляє, чи налаштоване сховище знімків
func (s *SnapshotService) Enabled() bool {
	return s.storage != nil
}

// CreateSnapshot зберігає поточну колекцію місій і повертає ключ знімка
func (s *SnapshotService) CreateSnapshot(ctx context.Context) (string, error) {
	if !s.Enabled() {
		return "", ports.ErrStorageDisabled
	}

	missions := s.store.List()
	data, err := json.Marshal(missions)
	if err != nil {
		return "", fmt.Errorf("failed to marshal missions: %w", err)
	}

	key, err := s.storage.SaveSnapshot(ctx, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		s.logger.Error("Failed to save snapshot", "error", err)
		return "", err
	}

	s.logger.Info("Snapshot saved", "key", key, "missions", len(missions))
	return key, nil
}

// ListSnapshots повертає ключі збережених знімків
func (s *SnapshotService) ListSnapshots(ctx context.Context) ([]string, error) {
	if !s.Enabled() {
		return nil, ports.ErrStorageDisabled
	}
	return s.storage.ListSnapshots(ctx)
}

// RestoreSnapshot замінює колекцію місій вмістом знімка.
// Некоректний знімок не змінює стан сховища.
func (s *SnapshotService) RestoreSnapshot(ctx context.Context, key string) (int, error) {
	if !s.Enabled() {
		return 0, ports.ErrStorageDisabled
	}

	rc, err := s.storage.GetSnapshot(ctx, key)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxSnapshotSize))
	if err != nil {
		return 0, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}

	var missions []domain.Mission
	if err := json.Unmarshal(data, &missions); err != nil {
		return 0, &domain.ValidationError{Field: "snapshot", Reason: fmt.Sprintf("malformed snapshot %s: %v", key, err)}
	}

	if err := s.missions.ReplaceAll(ctx, missions); err != nil {
		return 0, err
	}

	s.logger.Info("Snapshot restored", "key", key, "missions", len(missions))
	return len(missions), nil
}

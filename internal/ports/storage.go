package ports

import (
	"context"
	"errors"
	"io"
)

// ErrStorageDisabled повертається, коли сховище знімків не налаштоване
var ErrStorageDisabled = errors.New("snapshot storage is not configured")

// SnapshotStorage визначає інтерфейс для зберігання знімків колекції місій
type SnapshotStorage interface {
	// Збереження знімка, повертає ключ об'єкта
	SaveSnapshot(ctx context.Context, data io.Reader, size int64) (string, error)
	GetSnapshot(ctx context.Context, key string) (io.ReadCloser, error)
	ListSnapshots(ctx context.Context) ([]string, error)
}

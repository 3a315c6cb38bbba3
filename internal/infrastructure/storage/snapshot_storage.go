package storage

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"drone-survey-system/internal/domain"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// snapshotPrefix визначає префікс ключів знімків у бакеті
const snapshotPrefix = "snapshots/"

// MinioSnapshotStorage зберігає знімки колекції місій у MinIO
type MinioSnapshotStorage struct {
	minioClient *minio.Client
	bucketName  string
	now         func() time.Time
}

// NewMinioSnapshotStorage створює новий екземпляр MinioSnapshotStorage
func NewMinioSnapshotStorage(ctx context.Context, minioEndpoint, minioAccessKey, minioSecretKey, minioBucket string, useSSL bool) (*MinioSnapshotStorage, error) {
	// Ініціалізація MinIO клієнта
	minioClient, err := minio.New(minioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(minioAccessKey, minioSecretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	// Перевірка наявності бакета і створення його, якщо не існує
	exists, err := minioClient.BucketExists(ctx, minioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		err = minioClient.MakeBucket(ctx, minioBucket, minio.MakeBucketOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinioSnapshotStorage{
		minioClient: minioClient,
		bucketName:  minioBucket,
		now:         time.Now,
	}, nil
}

// SnapshotKey формує ключ знімка для моменту часу
func SnapshotKey(t time.Time) string {
	return snapshotPrefix + t.UTC().Format("20060102-150405.000") + ".json"
}

// IsSnapshotKey перевіряє, чи вказує ключ на знімок
func IsSnapshotKey(key string) bool {
	return strings.HasPrefix(key, snapshotPrefix) && strings.HasSuffix(key, ".json") && !strings.Contains(key, "..")
}

// SaveSnapshot зберігає JSON-знімок місій у MinIO
func (s *MinioSnapshotStorage) SaveSnapshot(ctx context.Context, data io.Reader, size int64) (string, error) {
	now := s.now()
	objectKey := SnapshotKey(now)

	_, err := s.minioClient.PutObject(ctx, s.bucketName, objectKey, data, size, minio.PutObjectOptions{
		ContentType: "application/json",
		UserMetadata: map[string]string{
			"created-time": now.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to save snapshot: %w", err)
	}

	return objectKey, nil
}

// GetSnapshot отримує знімок з MinIO
func (s *MinioSnapshotStorage) GetSnapshot(ctx context.Context, key string) (io.ReadCloser, error) {
	if !IsSnapshotKey(key) {
		return nil, &domain.ValidationError{Field: "key", Reason: fmt.Sprintf("invalid snapshot key %q", key)}
	}

	obj, err := s.minioClient.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	// GetObject не звертається до сервера, відсутність ключа видно лише після Stat
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("snapshot %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to stat snapshot: %w", err)
	}

	return obj, nil
}

// ListSnapshots повертає ключі знімків від найновішого
func (s *MinioSnapshotStorage) ListSnapshots(ctx context.Context) ([]string, error) {
	objectCh := s.minioClient.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    snapshotPrefix,
		Recursive: true,
	})

	keys := make([]string, 0)
	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("error listing objects: %w", object.Err)
		}
		if IsSnapshotKey(object.Key) {
			keys = append(keys, object.Key)
		}
	}

	// Формат часу у ключі впорядковується лексикографічно
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys, nil
}

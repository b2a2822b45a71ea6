package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocalStore keeps uploads on the local filesystem under a base directory.
// Keys have the shape uploads/<uuid>/<filename> so a bucket-backed store can
// use the same layout.
type LocalStore struct {
	baseDir string
	bucket  string
	logger  *zap.Logger
}

func NewLocalStore(baseDir, bucket string, logger *zap.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStore{
		baseDir: baseDir,
		bucket:  bucket,
		logger:  logger,
	}, nil
}

func (s *LocalStore) Put(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	key := fmt.Sprintf("uploads/%s/%s", uuid.New(), filepath.Base(filename))
	path := filepath.Join(s.baseDir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	s.logger.Debug("Stored upload",
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.Int("size", len(data)),
	)
	return key, nil
}

func (s *LocalStore) URIFor(key string) string {
	return fmt.Sprintf("cos://%s/%s", s.bucket, key)
}

func (s *LocalStore) Download(ctx context.Context, key string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.baseDir, filepath.FromSlash(key)))
}

// Package storage persists the board document as a handful of JSON values
// under fixed keys. The backend is a plain key/value Store: a directory of
// files, redis or a postgres table.
package storage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Tiliavir/exam-board/internal/config"
)

// Keys under which the document is stored.
const (
	KeyCenterName    = "examCenterName"
	KeyLogoURL       = "examLogoUrl"
	KeySchedule      = "examSchedule"
	KeyActiveSession = "examActiveSession"
)

var (
	// ErrNotFound is returned by Get when nothing is stored under a key.
	ErrNotFound = errors.New("key not found")
	// ErrCorrupt is returned by Get when a stored value is not valid JSON.
	ErrCorrupt = errors.New("corrupt value")
)

// Store is a minimal key/value store for JSON-encoded values.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open connects the backend selected by cfg.Backend. dataDir is only used by
// the file backend.
func Open(ctx context.Context, cfg config.StorageConfig, dataDir string, logger *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case "", config.BackendFile:
		logger.Debug("using file storage", zap.String("dir", dataDir))
		return NewFileStore(dataDir), nil
	case config.BackendRedis:
		s, err := NewRedisStore(ctx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to redis storage", zap.String("prefix", cfg.RedisPrefix))
		return s, nil
	case config.BackendPostgres:
		s, err := NewPostgresStore(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to postgres storage")
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

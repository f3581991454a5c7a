package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/fifteen-days/internal/config"
	"github.com/jwebster45206/fifteen-days/pkg/storage"
)

// Open returns the session store selected by cfg.StorageBackend. The
// Redis backend waits for the server to come up before returning.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		rs, err := NewRedisStorage(cfg.RedisURL, cfg.SessionTTL, logger)
		if err != nil {
			return nil, err
		}
		if err := rs.WaitForConnection(ctx, 10, 2*time.Second); err != nil {
			rs.Close()
			return nil, err
		}
		return rs, nil
	case config.BackendSQLite:
		return NewSQLiteStorage(cfg.SQLitePath, logger)
	case config.BackendMemory:
		return storage.NewMockStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

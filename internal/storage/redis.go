package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/fifteen-days/pkg/state"
	"github.com/jwebster45206/fifteen-days/pkg/storage"
)

const (
	sessionPrefix = "session:"
	journalPrefix = "journal:"
)

// RedisStorage keeps sessions as JSON strings and journals as lists.
// Both keys share the session TTL, refreshed on every write.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// Ensure RedisStorage implements Storage interface
var _ storage.Storage = (*RedisStorage)(nil)

// NewRedisStorage connects to a redis:// URL. A zero ttl keeps keys forever.
func NewRedisStorage(redisURL string, ttl time.Duration, logger *slog.Logger) (*RedisStorage, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &RedisStorage{
		client: redis.NewClient(opt),
		logger: logger,
		ttl:    ttl,
	}, nil
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func (r *RedisStorage) SaveSession(ctx context.Context, sess *state.Session) error {
	if sess == nil {
		return errors.New("session cannot be nil")
	}
	sess.UpdatedAt = time.Now()

	data, err := json.Marshal(sess)
	if err != nil {
		r.logger.Error("Failed to marshal session", "uuid", sess.ID, "error", err)
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionPrefix+sess.ID.String(), data, r.ttl)
	if r.ttl > 0 {
		pipe.Expire(ctx, journalPrefix+sess.ID.String(), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to save session", "uuid", sess.ID, "error", err)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadSession(ctx context.Context, id uuid.UUID) (*state.Session, error) {
	data, err := r.client.Get(ctx, sessionPrefix+id.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Session not found", "uuid", id)
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load session", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess state.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		r.logger.Error("Failed to unmarshal session", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

func (r *RedisStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, sessionPrefix+id.String(), journalPrefix+id.String()).Err(); err != nil {
		r.logger.Error("Failed to delete session", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *RedisStorage) AppendJournal(ctx context.Context, id uuid.UUID, entries ...state.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	values := make([]any, 0, len(entries))
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal journal entry: %w", err)
		}
		values = append(values, data)
	}

	key := journalPrefix + id.String()
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to append journal", "uuid", id, "error", err)
		return fmt.Errorf("failed to append journal: %w", err)
	}
	return nil
}

func (r *RedisStorage) Journal(ctx context.Context, id uuid.UUID) ([]state.JournalEntry, error) {
	raw, err := r.client.LRange(ctx, journalPrefix+id.String(), 0, -1).Result()
	if err != nil {
		r.logger.Error("Failed to read journal", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	entries := make([]state.JournalEntry, 0, len(raw))
	for _, s := range raw {
		var e state.JournalEntry
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			r.logger.Warn("Skipping corrupt journal entry", "uuid", id, "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

package credential

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStore - durable credential slot backed by Redis. The stored key
// survives server restarts.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore - wrap an existing Redis connection
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Read(ctx context.Context) (string, error) {
	value, err := s.rdb.Get(ctx, SlotKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read credential slot: %w", err)
	}
	if strings.TrimSpace(value) == "" {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *RedisStore) Write(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		// an empty write clears the slot
		if err := s.rdb.Del(ctx, SlotKey).Err(); err != nil {
			return fmt.Errorf("failed to clear credential slot: %w", err)
		}
		log.Println("🔑 [Credential] Slot cleared")
		return nil
	}

	if err := s.rdb.Set(ctx, SlotKey, key, 0).Err(); err != nil {
		return fmt.Errorf("failed to write credential slot: %w", err)
	}
	log.Println("🔑 [Credential] Slot updated")
	return nil
}

// Seed - store the environment-provided key only if the slot is empty, so a
// user-supplied credential is never overwritten on restart.
func Seed(ctx context.Context, store Store, envKey string) {
	envKey = strings.TrimSpace(envKey)
	if envKey == "" {
		return
	}

	if _, err := store.Read(ctx); err == nil {
		return
	}

	if err := store.Write(ctx, envKey); err != nil {
		log.Printf("⚠️  [Credential] Failed to seed slot from environment: %v", err)
		return
	}
	log.Println("🔑 [Credential] Slot seeded from environment")
}

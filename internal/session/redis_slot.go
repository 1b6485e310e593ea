package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey matches the key the web client used for its stored user.
const DefaultRedisKey = "user"

// RedisSlot keeps the identity under a single Redis key without expiry.
type RedisSlot struct {
	client *redis.Client
	key    string
}

func NewRedisSlot(ctx context.Context, addr, password string, db int, key string) (*RedisSlot, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisSlot{client: client, key: key}, nil
}

func (s *RedisSlot) Close() error {
	return s.client.Close()
}

func (s *RedisSlot) Load(ctx context.Context) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get session: %w", err)
	}
	if len(data) == 0 {
		return nil, false, nil
	}
	return data, true, nil
}

func (s *RedisSlot) Save(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	return nil
}

func (s *RedisSlot) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"contactbook/internal/contact/models"
	"contactbook/pkg/platform/sentinel"
)

// RedisStore keeps the JSON snapshot under a single key.
type RedisStore struct {
	client redis.Cmdable
	key    string
}

func NewRedis(client redis.Cmdable, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Load(ctx context.Context) (models.Snapshot, error) {
	if s.client == nil {
		return models.Snapshot{}, sentinel.ErrUnavailable
	}
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.EmptySnapshot(), nil
	}
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("get %s: %w", s.key, err)
	}
	snap, err := decodeSnapshot(data)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("load %s: %w", s.key, err)
	}
	return snap, nil
}

func (s *RedisStore) Save(ctx context.Context, snapshot models.Snapshot) error {
	if s.client == nil {
		return sentinel.ErrUnavailable
	}
	data, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", s.key, err)
	}
	return nil
}

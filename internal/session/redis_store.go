package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisStore persists session payloads as JSON values with redis-side TTL
// eviction.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Payload, error) {
	val, err := s.client.Get(ctx, keyPrefix+id).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	var payload Payload
	if err := json.Unmarshal([]byte(val), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (s *RedisStore) Set(ctx context.Context, id string, payload *Payload, ttl time.Duration) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+id, b, ttl).Err()
}

func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	return s.client.Del(ctx, keyPrefix+id).Err()
}

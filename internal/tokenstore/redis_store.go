package tokenstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/scanova-console/internal/models"
)

// RedisStore keeps each token under its own key so halves can be absent
// independently.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

// NewRedisStore builds a store over an existing client.
func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(name string) string {
	return s.prefix + name
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, pair models.TokenPair) error {
	pipe := s.client.TxPipeline()
	for name, value := range map[string]string{
		AccessTokenKey:  pair.AccessToken,
		RefreshTokenKey: pair.RefreshToken,
	} {
		if value == "" {
			pipe.Del(ctx, s.key(name))
			continue
		}
		pipe.Set(ctx, s.key(name), value, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis store tokens: %w", err)
	}
	return nil
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context) (models.TokenPair, error) {
	values, err := s.client.MGet(ctx, s.key(AccessTokenKey), s.key(RefreshTokenKey)).Result()
	if err != nil {
		if err == redis.Nil {
			return models.TokenPair{}, nil
		}
		return models.TokenPair{}, fmt.Errorf("redis load tokens: %w", err)
	}
	pair := models.TokenPair{}
	if len(values) == 2 {
		pair.AccessToken, _ = values[0].(string)
		pair.RefreshToken, _ = values[1].(string)
	}
	return pair, nil
}

// Clear implements Store.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key(AccessTokenKey), s.key(RefreshTokenKey)).Err(); err != nil {
		return fmt.Errorf("redis clear tokens: %w", err)
	}
	return nil
}

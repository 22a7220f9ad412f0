package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avoronova/footstats-gateway/internal/models"
)

// Поля Redis Hash одной сессии.
const (
	fieldAccess  = "at"
	fieldRefresh = "rt"
	fieldUser    = "user"
)

// RedisStore — хранилище сессий в Redis: один Hash на сессию.
// Пара токенов записывается одной командой HSET, поэтому инвариант
// атомарности пары выполняется и при нескольких экземплярах шлюза.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "fs:sess:". ttl<=0 — ключи без истечения.
func NewRedisStore(redisURL, prefix string, ttl time.Duration) (*RedisStore, error) {
	const op = "store.NewRedisStore"

	if prefix == "" {
		prefix = "fs:sess:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}, nil
}

func (s *RedisStore) key(sid string) string { return s.prefix + sid }

func (s *RedisStore) touch(ctx context.Context, key string) {
	if s.ttl > 0 {
		_ = s.rdb.Expire(ctx, key, s.ttl).Err()
	}
}

func (s *RedisStore) SetTokens(ctx context.Context, sid string, pair models.TokenPair) error {
	const op = "store.redis.SetTokens"

	key := s.key(sid)

	if err := s.rdb.HSet(ctx, key, fieldAccess, pair.AccessToken, fieldRefresh, pair.RefreshToken).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.touch(ctx, key)

	return nil
}

func (s *RedisStore) Tokens(ctx context.Context, sid string) (models.TokenPair, error) {
	const op = "store.redis.Tokens"

	vals, err := s.rdb.HMGet(ctx, s.key(sid), fieldAccess, fieldRefresh).Result()
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	var pair models.TokenPair
	if v, ok := vals[0].(string); ok {
		pair.AccessToken = v
	}
	if v, ok := vals[1].(string); ok {
		pair.RefreshToken = v
	}

	return pair, nil
}

func (s *RedisStore) SetCachedUser(ctx context.Context, sid string, profile models.UserProfile) error {
	const op = "store.redis.SetCachedUser"

	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	key := s.key(sid)

	if err := s.rdb.HSet(ctx, key, fieldUser, raw).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.touch(ctx, key)

	return nil
}

func (s *RedisStore) CachedUser(ctx context.Context, sid string) (*models.UserProfile, error) {
	const op = "store.redis.CachedUser"

	raw, err := s.rdb.HGet(ctx, s.key(sid), fieldUser).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &profile, nil
}

func (s *RedisStore) Clear(ctx context.Context, sid string) error {
	const op = "store.redis.Clear"

	if err := s.rdb.Del(ctx, s.key(sid)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

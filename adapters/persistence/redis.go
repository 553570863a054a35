package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	"github.com/khoahotran/portfolio-pilot/internal/config"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

const sessionKeyPrefix = "pilot:session:"

func NewRedisClient(ctx context.Context, cfg config.Config, log logger.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("can not connect Redis: %w", err)
	}

	log.Info("Connect Redis successfully.")
	return rdb, nil
}

type redisSessionStore struct {
	rdb *redis.Client
}

func NewRedisSessionStore(rdb *redis.Client) service.SessionStore {
	return &redisSessionStore{rdb: rdb}
}

func (s *redisSessionStore) Load(ctx context.Context, deviceID string) (string, error) {
	token, err := s.rdb.Get(ctx, sessionKeyPrefix+deviceID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", apperror.NewInternal("failed to load session", err)
	}
	return token, nil
}

func (s *redisSessionStore) Save(ctx context.Context, deviceID, token string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, sessionKeyPrefix+deviceID, token, ttl).Err(); err != nil {
		return apperror.NewInternal("failed to save session", err)
	}
	return nil
}

func (s *redisSessionStore) Clear(ctx context.Context, deviceID string) error {
	if err := s.rdb.Del(ctx, sessionKeyPrefix+deviceID).Err(); err != nil {
		return apperror.NewInternal("failed to clear session", err)
	}
	return nil
}

// memorySessionStore is used when Redis is not configured. Sessions do not survive a restart.
type memorySessionStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func NewMemorySessionStore() service.SessionStore {
	return &memorySessionStore{tokens: make(map[string]string)}
}

func (s *memorySessionStore) Load(_ context.Context, deviceID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[deviceID], nil
}

func (s *memorySessionStore) Save(_ context.Context, deviceID, token string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[deviceID] = token
	return nil
}

func (s *memorySessionStore) Clear(_ context.Context, deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, deviceID)
	return nil
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/industrialpartner/storefront-backend/pkg/config"
	redisclient "github.com/industrialpartner/storefront-backend/pkg/redis"
	redislib "github.com/redis/go-redis/v9"
)

type sessionBackend interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// RedisStore persists session state as JSON blobs with a sliding TTL.
type RedisStore struct {
	backend sessionBackend
	keyer   sessionKeyer
	ttl     time.Duration
}

// NewRedisStore builds the production session store.
func NewRedisStore(client *redisclient.Client, cfg config.SessionConfig) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &RedisStore{
		backend: client,
		keyer:   client,
		ttl:     cfg.TTL,
	}, nil
}

// Get loads session state, returning empty state for unknown sessions.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (Data, error) {
	if strings.TrimSpace(sessionID) == "" {
		return NewData(), fmt.Errorf("session id is required")
	}
	raw, err := s.backend.Get(ctx, s.keyer.SessionKey(sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return NewData(), nil
		}
		return NewData(), fmt.Errorf("loading session: %w", err)
	}

	var data Data
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		// A corrupt blob is unrecoverable; start the session over.
		return NewData(), nil
	}
	if data.Cart == nil {
		data.Cart = map[string]Line{}
	}
	return data, nil
}

// Put writes session state back, refreshing the TTL.
func (s *RedisStore) Put(ctx context.Context, sessionID string, data Data) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	if data.Cart == nil {
		data.Cart = map[string]Line{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return s.backend.Set(ctx, s.keyer.SessionKey(sessionID), string(payload), s.ttl)
}

// Delete drops the session state entirely.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return s.backend.Del(ctx, s.keyer.SessionKey(sessionID))
}

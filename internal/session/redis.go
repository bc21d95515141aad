package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "moexbot:session:"

// RedisStore keeps sessions in Redis with a TTL, so abandoned
// conversations expire on their own instead of accumulating.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store. A zero ttl means sessions
// never expire.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(chatID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, chatID)
}

// Get returns the chat's session, or nil when none is active.
func (r *RedisStore) Get(ctx context.Context, chatID int64) (*Session, error) {
	data, err := r.client.Get(ctx, key(chatID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("session get: %w", err)
	}

	var s Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	if s.Scratch == nil {
		s.Scratch = make(map[string]string)
	}
	return &s, nil
}

// Put stores the session, replacing any previous one and resetting the TTL.
func (r *RedisStore) Put(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := r.client.Set(ctx, key(s.ChatID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("session put: %w", err)
	}
	return nil
}

// Clear removes the chat's session. Clearing an absent session is a no-op.
func (r *RedisStore) Clear(ctx context.Context, chatID int64) error {
	if err := r.client.Del(ctx, key(chatID)).Err(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

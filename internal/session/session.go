// Package session stores per-session state that does not belong to a user, such as the last group
// served in one-move mode.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Store remembers the last group served to a session. An empty session id stores nothing.
type Store interface {
	LastGroup(ctx context.Context, sessionID string) (string, bool, error)
	SetLastGroup(ctx context.Context, sessionID, groupID string) error
}

const keyPrefix = "openings:session:"

func lastGroupKey(sessionID string) string {
	return keyPrefix + sessionID + ":last_group"
}

// RedisStore keeps the slot in Redis with a sliding TTL.
type RedisStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisStore creates a store. A zero ttl keeps keys forever.
func NewRedisStore(rdb *goredis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) LastGroup(ctx context.Context, sessionID string) (string, bool, error) {
	if sessionID == "" {
		return "", false, nil
	}
	v, err := s.rdb.Get(ctx, lastGroupKey(sessionID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("rdb.Get(%s) > %w", sessionID, err)
	}
	return v, true, nil
}

func (s *RedisStore) SetLastGroup(ctx context.Context, sessionID, groupID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.rdb.Set(ctx, lastGroupKey(sessionID), groupID, s.ttl).Err(); err != nil {
		return fmt.Errorf("rdb.Set(%s) > %w", sessionID, err)
	}
	return nil
}

// MemoryStore keeps the slot in process memory. Entries never expire.
type MemoryStore struct {
	mu     sync.Mutex
	groups map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{groups: make(map[string]string)}
}

func (s *MemoryStore) LastGroup(_ context.Context, sessionID string) (string, bool, error) {
	if sessionID == "" {
		return "", false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.groups[sessionID]
	return v, ok, nil
}

func (s *MemoryStore) SetLastGroup(_ context.Context, sessionID, groupID string) error {
	if sessionID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[sessionID] = groupID
	return nil
}

var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aydsapp/trivia-server/internal/trivia"
)

const defaultTTL = 2 * time.Hour

// Store keeps per-session trivia progress in Redis. State is ephemeral: once
// the key expires the user has to start a new trivia. Keys are scoped by the
// opaque session ID so progress never leaks across sessions.
type Store struct {
	redis  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewStore creates a Redis-backed session store.
func NewStore(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{
		redis:  client,
		ttl:    ttl,
		logger: logger.With().Str("component", "session").Logger(),
	}
}

func progressKey(sessionID string) string {
	return fmt.Sprintf("session:progress:%s", sessionID)
}

// Get loads the session's progress. The second return is false when the
// session has no active trivia (missing or expired key).
func (s *Store) Get(ctx context.Context, sessionID string) (trivia.Progress, bool, error) {
	data, err := s.redis.Get(ctx, progressKey(sessionID)).Bytes()
	if err == redis.Nil {
		return trivia.Progress{}, false, nil
	}
	if err != nil {
		return trivia.Progress{}, false, fmt.Errorf("get progress: %w", err)
	}

	var p trivia.Progress
	if err := json.Unmarshal(data, &p); err != nil {
		return trivia.Progress{}, false, fmt.Errorf("unmarshal progress: %w", err)
	}
	return p, true, nil
}

// Put stores the session's progress, replacing whatever was bound before and
// refreshing the expiry.
func (s *Store) Put(ctx context.Context, sessionID string, p trivia.Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	return s.redis.Set(ctx, progressKey(sessionID), data, s.ttl).Err()
}

// Clear drops the session's progress.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	return s.redis.Del(ctx, progressKey(sessionID)).Err()
}

// LockStart serializes trivia creation for one session so concurrent start
// requests cannot race on the bound progress. Returns an unlock function.
func (s *Store) LockStart(ctx context.Context, sessionID string) (func() error, error) {
	key := fmt.Sprintf("session:startlock:%s", sessionID)
	lockValue := uuid.New().String()

	acquired, err := s.redis.SetNX(ctx, key, lockValue, 10*time.Second).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire start lock: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("trivia start already in progress")
	}

	unlock := func() error {
		// Lua script ensures we only delete our own lock
		script := `
			if redis.call("get", KEYS[1]) == ARGV[1] then
				return redis.call("del", KEYS[1])
			else
				return 0
			end
		`
		return s.redis.Eval(ctx, script, []string{key}, lockValue).Err()
	}

	return unlock, nil
}

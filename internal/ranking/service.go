package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aydsapp/trivia-server/internal/db/repository"
)

const (
	defaultTopN     = 10
	defaultCacheTTL = time.Minute
)

// rankingStore is the slice of the ranking repository the service needs.
type rankingStore interface {
	Insert(ctx context.Context, userID uuid.UUID, difficultyID int32, score int) error
	Top(ctx context.Context, difficultyID int32, limit int) ([]repository.RankingEntry, error)
}

// ServiceOptions configures ranking behavior.
type ServiceOptions struct {
	TopN     int
	CacheTTL time.Duration
}

// Service serves the per-difficulty top lists from Postgres with a short
// Redis cache in front, and records completed trivia scores.
type Service struct {
	store    rankingStore
	redis    *redis.Client
	topN     int
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewService constructs a ranking service. redis may be nil, which disables
// the cache.
func NewService(store rankingStore, redisClient *redis.Client, opts ServiceOptions, logger zerolog.Logger) *Service {
	topN := opts.TopN
	if topN <= 0 {
		topN = defaultTopN
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Service{
		store:    store,
		redis:    redisClient,
		topN:     topN,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "ranking").Logger(),
	}
}

func cacheKey(difficultyID int32) string {
	return fmt.Sprintf("ranking:top:%d", difficultyID)
}

// RecordScore stores a completed trivia's score and invalidates the cached
// top list for that difficulty.
func (s *Service) RecordScore(ctx context.Context, userID uuid.UUID, difficultyID int32, score int) error {
	if err := s.store.Insert(ctx, userID, difficultyID, score); err != nil {
		return err
	}
	if s.redis != nil {
		if err := s.redis.Del(ctx, cacheKey(difficultyID)).Err(); err != nil {
			s.logger.Warn().Err(err).Int32("difficulty_id", difficultyID).Msg("ranking cache invalidation failed")
		}
	}
	return nil
}

// Top returns the best scores for a difficulty, cache first.
func (s *Service) Top(ctx context.Context, difficultyID int32) ([]repository.RankingEntry, error) {
	if s.redis != nil {
		if data, err := s.redis.Get(ctx, cacheKey(difficultyID)).Bytes(); err == nil {
			var cached []repository.RankingEntry
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	entries, err := s.store.Top(ctx, difficultyID, s.topN)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(entries); err == nil {
			if err := s.redis.Set(ctx, cacheKey(difficultyID), data, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("ranking cache write failed")
			}
		}
	}
	return entries, nil
}

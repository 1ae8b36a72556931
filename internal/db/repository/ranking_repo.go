package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RankingEntry is one scored play-through joined with its owner.
type RankingEntry struct {
	Username  string    `json:"username"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// RankingRepository stores per-difficulty scores and serves the top lists.
type RankingRepository struct {
	db querier
}

func NewRankingRepository(db querier) *RankingRepository {
	return &RankingRepository{db: db}
}

// Insert records a completed trivia's score for a difficulty.
func (r *RankingRepository) Insert(ctx context.Context, userID uuid.UUID, difficultyID int32, score int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO rankings (ranking_id, user_id, difficulty_id, score, created_at)
		 VALUES ($1, $2, $3, $4, now())`,
		uuid.New(), userID, difficultyID, score)
	if err != nil {
		return fmt.Errorf("insert ranking: %w", err)
	}
	return nil
}

// Top returns the highest scores for a difficulty, best first.
func (r *RankingRepository) Top(ctx context.Context, difficultyID int32, limit int) ([]RankingEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.username, rk.score, rk.created_at
		   FROM rankings rk
		   JOIN users u ON u.user_id = rk.user_id
		  WHERE rk.difficulty_id = $1
		  ORDER BY rk.score DESC, rk.created_at ASC
		  LIMIT $2`,
		difficultyID, limit)
	if err != nil {
		return nil, fmt.Errorf("top rankings: %w", err)
	}
	defer rows.Close()

	var entries []RankingEntry
	for rows.Next() {
		var e RankingEntry
		if err := rows.Scan(&e.Username, &e.Score, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aydsapp/trivia-server/internal/trivia"
)

// DifficultyRepository reads the immutable difficulty reference data.
type DifficultyRepository struct {
	db querier
}

func NewDifficultyRepository(db querier) *DifficultyRepository {
	return &DifficultyRepository{db: db}
}

// FindByLevel resolves a difficulty tier by its level name.
func (r *DifficultyRepository) FindByLevel(ctx context.Context, level string) (trivia.Difficulty, error) {
	var d trivia.Difficulty
	row := r.db.QueryRow(ctx,
		`SELECT difficulty_id, level FROM difficulties WHERE level = $1`, level)
	if err := row.Scan(&d.ID, &d.Level); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return trivia.Difficulty{}, trivia.ErrDifficultyNotFound
		}
		return trivia.Difficulty{}, fmt.Errorf("find difficulty: %w", err)
	}
	return d, nil
}

// List returns all difficulty tiers ordered by id.
func (r *DifficultyRepository) List(ctx context.Context) ([]trivia.Difficulty, error) {
	rows, err := r.db.Query(ctx, `SELECT difficulty_id, level FROM difficulties ORDER BY difficulty_id`)
	if err != nil {
		return nil, fmt.Errorf("list difficulties: %w", err)
	}
	defer rows.Close()

	var out []trivia.Difficulty
	for rows.Next() {
		var d trivia.Difficulty
		if err := rows.Scan(&d.ID, &d.Level); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aydsapp/trivia-server/internal/trivia"
)

// TriviaRepository persists trivias and their fixed question order.
type TriviaRepository struct {
	pool *pgxpool.Pool
}

func NewTriviaRepository(pool *pgxpool.Pool) *TriviaRepository {
	return &TriviaRepository{pool: pool}
}

// Save inserts the trivia row plus one trivia_questions row per position, in
// a single transaction so no partial trivia is ever visible.
func (r *TriviaRepository) Save(ctx context.Context, t *trivia.Trivia) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO trivias (trivia_id, user_id, difficulty_id, created_at)
		 VALUES ($1, $2, $3, $4)`,
		t.ID, t.UserID, t.Difficulty.ID, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert trivia: %w", err)
	}

	batch := &pgx.Batch{}
	for position, q := range t.Questions {
		batch.Queue(
			`INSERT INTO trivia_questions (trivia_id, question_id, position)
			 VALUES ($1, $2, $3)`,
			t.ID, q.ID, position)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert trivia questions: %w", err)
	}

	return tx.Commit(ctx)
}

// Load fetches a trivia with its question sequence in stored order, answers
// included.
func (r *TriviaRepository) Load(ctx context.Context, id uuid.UUID) (*trivia.Trivia, error) {
	t := &trivia.Trivia{ID: id}
	var (
		userID      *uuid.UUID
		completedAt pgtype.Timestamptz
	)
	row := r.pool.QueryRow(ctx,
		`SELECT t.user_id, t.score, t.created_at, t.completed_at, d.difficulty_id, d.level
		   FROM trivias t
		   JOIN difficulties d ON d.difficulty_id = t.difficulty_id
		  WHERE t.trivia_id = $1`, id)
	if err := row.Scan(&userID, &t.Score, &t.CreatedAt, &completedAt, &t.Difficulty.ID, &t.Difficulty.Level); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, trivia.ErrTriviaNotFound
		}
		return nil, fmt.Errorf("load trivia: %w", err)
	}
	t.UserID = userID
	if completedAt.Valid {
		completed := completedAt.Time
		t.CompletedAt = &completed
	}

	rows, err := r.pool.Query(ctx,
		`SELECT q.question_id, q.qtype, q.prompt, q.help
		   FROM trivia_questions tq
		   JOIN questions q ON q.question_id = tq.question_id
		  WHERE tq.trivia_id = $1
		  ORDER BY tq.position`, id)
	if err != nil {
		return nil, fmt.Errorf("load trivia questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var q trivia.Question
		var help pgtype.Text
		if err := rows.Scan(&q.ID, &q.Type, &q.Prompt, &help); err != nil {
			return nil, err
		}
		q.Help = help.String
		t.Questions = append(t.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := attachAnswers(ctx, r.pool, t.Questions); err != nil {
		return nil, err
	}
	return t, nil
}

// MarkCompleted stamps the completion time and final score.
func (r *TriviaRepository) MarkCompleted(ctx context.Context, id uuid.UUID, score int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE trivias SET completed_at = now(), score = $2 WHERE trivia_id = $1`,
		id, score)
	if err != nil {
		return fmt.Errorf("mark trivia completed: %w", err)
	}
	return nil
}

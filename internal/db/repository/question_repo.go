package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/aydsapp/trivia-server/internal/trivia"
)

// QuestionRepository samples the read-only question bank.
type QuestionRepository struct {
	db querier
}

func NewQuestionRepository(db querier) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// Sample returns up to count distinct questions matching (qType, difficulty),
// chosen uniformly at random with no repeats within the call. When fewer than
// count questions exist the short set is returned without error.
func (r *QuestionRepository) Sample(ctx context.Context, count int, qType string, difficultyID int32) ([]trivia.Question, error) {
	if count <= 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT question_id, qtype, prompt, help
		   FROM questions
		  WHERE difficulty_id = $1 AND qtype = $2
		  ORDER BY random()
		  LIMIT $3`,
		difficultyID, qType, count)
	if err != nil {
		return nil, fmt.Errorf("sample questions: %w", err)
	}
	defer rows.Close()

	var questions []trivia.Question
	for rows.Next() {
		var q trivia.Question
		var help pgtype.Text
		if err := rows.Scan(&q.ID, &q.Type, &q.Prompt, &help); err != nil {
			return nil, err
		}
		q.Help = help.String
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := attachAnswers(ctx, r.db, questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// attachAnswers loads the answer sets for the given questions in one query.
// Shared with the trivia repository.
func attachAnswers(ctx context.Context, db querier, questions []trivia.Question) error {
	if len(questions) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(questions))
	byID := make(map[uuid.UUID]*trivia.Question, len(questions))
	for i := range questions {
		ids[i] = questions[i].ID
		byID[questions[i].ID] = &questions[i]
	}

	rows, err := db.Query(ctx,
		`SELECT answer_id, question_id, text, correct, accepted_answers
		   FROM answers
		  WHERE question_id = ANY($1)
		  ORDER BY answer_id`,
		ids)
	if err != nil {
		return fmt.Errorf("load answers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			a          trivia.Answer
			questionID uuid.UUID
			accepted   []byte
		)
		if err := rows.Scan(&a.ID, &questionID, &a.Text, &a.Correct, &accepted); err != nil {
			return err
		}
		if len(accepted) > 0 {
			if err := json.Unmarshal(accepted, &a.Accepted); err != nil {
				return fmt.Errorf("decode accepted answers for %s: %w", a.ID, err)
			}
		}
		if q, ok := byID[questionID]; ok {
			q.Answers = append(q.Answers, a)
		}
	}
	return rows.Err()
}

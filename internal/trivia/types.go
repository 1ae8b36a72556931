package trivia

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// QuestionsPerTrivia is the fixed size of a full question set. A trivia may
// hold fewer questions only when the bank runs short for a type.
const QuestionsPerTrivia = 10

// Difficulty levels shipped as reference data.
const (
	LevelBeginner  = "beginner"
	LevelDifficult = "difficult"
)

// Question types.
const (
	TypeChoice       = "choice"
	TypeTrueFalse    = "true_false"
	TypeAutocomplete = "autocomplete"
)

// Points awarded per correct answer, by tier.
const (
	PointsBeginner  = 10
	PointsDifficult = 20
)

var (
	ErrDifficultyNotFound = errors.New("difficulty not found")
	ErrTriviaNotFound     = errors.New("trivia not found")
	ErrNoActiveTrivia     = errors.New("no active trivia in session")
	ErrOutOfOrder         = errors.New("previous question not answered")
	ErrTriviaComplete     = errors.New("trivia complete")
)

// Difficulty is an immutable tier controlling question mix and time limits.
type Difficulty struct {
	ID    int32
	Level string
}

// Answer belongs to one question. Choice and true/false questions carry one
// answer flagged correct; autocomplete questions instead carry a list of
// accepted literals and no correct flag.
type Answer struct {
	ID       uuid.UUID `json:"id"`
	Text     string    `json:"text"`
	Correct  bool      `json:"-"`
	Accepted []string  `json:"-"`
}

// Question is read-only bank data.
type Question struct {
	ID      uuid.UUID `json:"id"`
	Type    string    `json:"type"`
	Prompt  string    `json:"prompt"`
	Help    string    `json:"-"`
	Answers []Answer  `json:"answers"`
}

// Trivia is one play-through: an optional owner, a difficulty, and a fixed
// ordered question sequence chosen at creation time.
type Trivia struct {
	ID          uuid.UUID
	UserID      *uuid.UUID
	Difficulty  Difficulty
	Questions   []Question
	Score       int
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// PointsPerCorrect returns the score weight for this trivia's tier.
func (t *Trivia) PointsPerCorrect() int {
	if t.Difficulty.Level == LevelBeginner {
		return PointsBeginner
	}
	return PointsDifficult
}

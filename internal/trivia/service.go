package trivia

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// sampler pulls up to count distinct random questions of one type and
// difficulty from the bank. Short sets are returned as-is, never an error.
type sampler interface {
	Sample(ctx context.Context, count int, qType string, difficultyID int32) ([]Question, error)
}

type difficultyFinder interface {
	FindByLevel(ctx context.Context, level string) (Difficulty, error)
}

type triviaStore interface {
	Save(ctx context.Context, t *Trivia) error
	Load(ctx context.Context, id uuid.UUID) (*Trivia, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, score int) error
}

type scoreRecorder interface {
	RecordScore(ctx context.Context, userID uuid.UUID, difficultyID int32, score int) error
}

// Service orchestrates trivia creation, question delivery and answer grading.
type Service struct {
	difficulties difficultyFinder
	bank         sampler
	store        triviaStore
	rankings     scoreRecorder
	limits       Limits
	logger       zerolog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// ServiceOptions configures the trivia service.
type ServiceOptions struct {
	Limits Limits
	// Rand overrides the shuffle/mix source, mainly for tests.
	Rand *rand.Rand
}

// NewService constructs the trivia engine. rankings may be nil when score
// recording is disabled.
func NewService(difficulties difficultyFinder, bank sampler, store triviaStore, rankings scoreRecorder, opts ServiceOptions, logger zerolog.Logger) *Service {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Limits.Beginner <= 0 {
		opts.Limits.Beginner = 20 * time.Second
	}
	if opts.Limits.Default <= 0 {
		opts.Limits.Default = 10 * time.Second
	}
	return &Service{
		difficulties: difficulties,
		bank:         bank,
		store:        store,
		rankings:     rankings,
		limits:       opts.Limits,
		logger:       logger.With().Str("component", "trivia").Logger(),
		rng:          rng,
	}
}

// Limits exposes the configured per-tier time limits.
func (s *Service) Limits() Limits {
	return s.limits
}

// Start builds a new trivia for userID (nil for anonymous play) at the given
// difficulty level: plan the type mix, sample each group from the bank,
// shuffle the concatenation and persist the resulting fixed order. The
// returned Progress is the empty tracking state the session layer must bind.
func (s *Service) Start(ctx context.Context, userID *uuid.UUID, level string) (*Trivia, Progress, error) {
	difficulty, err := s.difficulties.FindByLevel(ctx, level)
	if err != nil {
		return nil, Progress{}, fmt.Errorf("resolve difficulty %q: %w", level, err)
	}

	s.rngMu.Lock()
	mix, err := PlanMix(difficulty.Level, s.rng)
	s.rngMu.Unlock()
	if err != nil {
		return nil, Progress{}, err
	}

	questions, err := s.drawQuestions(ctx, mix, difficulty)
	if err != nil {
		return nil, Progress{}, err
	}

	s.rngMu.Lock()
	s.rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
	s.rngMu.Unlock()

	t := &Trivia{
		ID:         uuid.New(),
		UserID:     userID,
		Difficulty: difficulty,
		Questions:  questions,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.Save(ctx, t); err != nil {
		return nil, Progress{}, fmt.Errorf("persist trivia: %w", err)
	}

	startedTotal.WithLabelValues(difficulty.Level).Inc()
	s.logger.Info().
		Str("trivia_id", t.ID.String()).
		Str("level", difficulty.Level).
		Int("questions", len(questions)).
		Msg("trivia started")

	return t, NewProgress(t.ID), nil
}

func (s *Service) drawQuestions(ctx context.Context, mix Mix, difficulty Difficulty) ([]Question, error) {
	questions := make([]Question, 0, mix.Total())
	groups := []struct {
		qType string
		count int
	}{
		{TypeChoice, mix.Choice},
		{TypeTrueFalse, mix.TrueFalse},
		{TypeAutocomplete, mix.Autocomplete},
	}
	for _, g := range groups {
		batch, err := s.bank.Sample(ctx, g.count, g.qType, difficulty.ID)
		if err != nil {
			return nil, fmt.Errorf("sample %s questions: %w", g.qType, err)
		}
		// The bank may run short for a type; the trivia then simply holds
		// fewer questions.
		questions = append(questions, batch...)
	}
	return questions, nil
}

// Trivia loads the trivia bound to the session's progress. A progress with no
// trivia, or one whose trivia has expired from the store, yields
// ErrNoActiveTrivia.
func (s *Service) Trivia(ctx context.Context, p Progress) (*Trivia, error) {
	if !p.Active() {
		return nil, ErrNoActiveTrivia
	}
	t, err := s.store.Load(ctx, p.TriviaID)
	if err != nil {
		if errors.Is(err, ErrTriviaNotFound) {
			return nil, ErrNoActiveTrivia
		}
		return nil, fmt.Errorf("load trivia: %w", err)
	}
	return t, nil
}

// Question resolves the question view at index for the session's progress.
func (s *Service) Question(ctx context.Context, p Progress, index int) (QuestionView, error) {
	t, err := s.Trivia(ctx, p)
	if err != nil {
		return QuestionView{}, err
	}

	view, err := QuestionAt(t, p, index, s.limits)
	if errors.Is(err, ErrOutOfOrder) {
		outOfOrderTotal.Inc()
	}
	return view, err
}

// AnswerSubmission carries one graded answer attempt.
type AnswerSubmission struct {
	Index    int
	AnswerID uuid.UUID
	Text     string
}

// SubmitResult reports the grading outcome and whether the trivia finished.
type SubmitResult struct {
	Correct   bool
	Completed bool
	Score     int
}

// SubmitAnswer grades the answer for the question at sub.Index, marks the
// index answered (idempotently) and finalizes the trivia once every index is
// recorded. The updated Progress must replace the session's previous value.
func (s *Service) SubmitAnswer(ctx context.Context, p Progress, sub AnswerSubmission) (Progress, SubmitResult, error) {
	t, err := s.Trivia(ctx, p)
	if err != nil {
		return p, SubmitResult{}, err
	}

	if sub.Index < 0 || sub.Index >= len(t.Questions) {
		return p, SubmitResult{}, ErrTriviaComplete
	}
	if !p.CanAccess(sub.Index) {
		outOfOrderTotal.Inc()
		return p, SubmitResult{}, ErrOutOfOrder
	}
	if p.HasAnswered(sub.Index) {
		// Replayed submission: keep the first grading.
		return p, SubmitResult{Score: p.Score, Completed: p.AnsweredCount() == len(t.Questions)}, nil
	}

	correct := grade(t.Questions[sub.Index], sub)
	next := p.MarkAnswered(sub.Index)
	if correct {
		next = next.AddScore(t.PointsPerCorrect())
	}

	result := SubmitResult{Correct: correct, Score: next.Score}
	if next.AnsweredCount() == len(t.Questions) {
		result.Completed = true
		if err := s.finalize(ctx, t, next); err != nil {
			s.logger.Error().Err(err).Str("trivia_id", t.ID.String()).Msg("finalize trivia failed")
		}
	}
	return next, result, nil
}

func (s *Service) finalize(ctx context.Context, t *Trivia, p Progress) error {
	if err := s.store.MarkCompleted(ctx, t.ID, p.Score); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	completedTotal.WithLabelValues(t.Difficulty.Level).Inc()

	if s.rankings != nil && t.UserID != nil {
		if err := s.rankings.RecordScore(ctx, *t.UserID, t.Difficulty.ID, p.Score); err != nil {
			return fmt.Errorf("record score: %w", err)
		}
	}
	return nil
}

// grade checks a submission against the question's answer set. Choice and
// true/false match the flagged correct answer by ID; autocomplete matches the
// submitted text case-insensitively against the accepted literals.
func grade(q Question, sub AnswerSubmission) bool {
	if q.Type == TypeAutocomplete {
		text := strings.TrimSpace(strings.ToLower(sub.Text))
		if text == "" {
			return false
		}
		for _, a := range q.Answers {
			for _, accepted := range a.Accepted {
				if strings.ToLower(strings.TrimSpace(accepted)) == text {
					return true
				}
			}
		}
		return false
	}
	for _, a := range q.Answers {
		if a.ID == sub.AnswerID {
			return a.Correct
		}
	}
	return false
}

package trivia

import (
	"context"
	"io"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBank struct {
	// available caps how many questions exist per type; -1 means unlimited.
	available map[string]int
	requested map[string]int
}

func (b *stubBank) Sample(_ context.Context, count int, qType string, _ int32) ([]Question, error) {
	if b.requested == nil {
		b.requested = make(map[string]int)
	}
	b.requested[qType] = count
	if limit, ok := b.available[qType]; ok && limit >= 0 && count > limit {
		count = limit
	}
	questions := make([]Question, 0, count)
	for i := 0; i < count; i++ {
		q := Question{ID: uuid.New(), Type: qType, Prompt: "p", Help: "h"}
		if qType == TypeAutocomplete {
			q.Answers = []Answer{{ID: uuid.New(), Accepted: []string{"Answer"}}}
		} else {
			q.Answers = []Answer{
				{ID: uuid.New(), Text: "yes", Correct: true},
				{ID: uuid.New(), Text: "no"},
			}
		}
		questions = append(questions, q)
	}
	return questions, nil
}

type stubDifficulties struct {
	levels map[string]Difficulty
}

func (d *stubDifficulties) FindByLevel(_ context.Context, level string) (Difficulty, error) {
	if found, ok := d.levels[level]; ok {
		return found, nil
	}
	return Difficulty{}, ErrDifficultyNotFound
}

type stubStore struct {
	saved     map[uuid.UUID]*Trivia
	completed map[uuid.UUID]int
}

func (s *stubStore) Save(_ context.Context, t *Trivia) error {
	if s.saved == nil {
		s.saved = make(map[uuid.UUID]*Trivia)
	}
	s.saved[t.ID] = t
	return nil
}

func (s *stubStore) Load(_ context.Context, id uuid.UUID) (*Trivia, error) {
	t, ok := s.saved[id]
	if !ok {
		return nil, ErrTriviaNotFound
	}
	return t, nil
}

func (s *stubStore) MarkCompleted(_ context.Context, id uuid.UUID, score int) error {
	if s.completed == nil {
		s.completed = make(map[uuid.UUID]int)
	}
	s.completed[id] = score
	return nil
}

type stubRecorder struct {
	userID       uuid.UUID
	difficultyID int32
	score        int
	calls        int
}

func (r *stubRecorder) RecordScore(_ context.Context, userID uuid.UUID, difficultyID int32, score int) error {
	r.userID = userID
	r.difficultyID = difficultyID
	r.score = score
	r.calls++
	return nil
}

func newTestService(bank *stubBank, store *stubStore, recorder *stubRecorder) *Service {
	difficulties := &stubDifficulties{levels: map[string]Difficulty{
		LevelBeginner:  {ID: 1, Level: LevelBeginner},
		LevelDifficult: {ID: 2, Level: LevelDifficult},
	}}
	var rankings scoreRecorder
	if recorder != nil {
		rankings = recorder
	}
	return NewService(difficulties, bank, store, rankings, ServiceOptions{
		Limits: testLimits,
		Rand:   rand.New(rand.NewSource(1)),
	}, zerolog.New(io.Discard))
}

func TestStartBuildsFullTrivia(t *testing.T) {
	bank := &stubBank{}
	store := &stubStore{}
	svc := newTestService(bank, store, nil)

	trivia, progress, err := svc.Start(context.Background(), nil, LevelBeginner)
	require.NoError(t, err)

	assert.Len(t, trivia.Questions, QuestionsPerTrivia)
	assert.Equal(t, LevelBeginner, trivia.Difficulty.Level)
	assert.Nil(t, trivia.UserID)
	assert.Equal(t, trivia.ID, progress.TriviaID)
	assert.Zero(t, progress.AnsweredCount())

	seen := make(map[uuid.UUID]bool, len(trivia.Questions))
	for _, q := range trivia.Questions {
		assert.False(t, seen[q.ID], "question %s appears twice", q.ID)
		seen[q.ID] = true
	}

	assert.Contains(t, store.saved, trivia.ID, "trivia must be persisted")
	assert.Equal(t, QuestionsPerTrivia,
		bank.requested[TypeChoice]+bank.requested[TypeTrueFalse]+bank.requested[TypeAutocomplete])
}

func TestStartUnknownLevel(t *testing.T) {
	svc := newTestService(&stubBank{}, &stubStore{}, nil)

	_, _, err := svc.Start(context.Background(), nil, "impossible")
	assert.ErrorIs(t, err, ErrDifficultyNotFound)
}

func TestStartToleratesShortBank(t *testing.T) {
	bank := &stubBank{available: map[string]int{TypeAutocomplete: 1}}
	store := &stubStore{}
	svc := newTestService(bank, store, nil)

	trivia, _, err := svc.Start(context.Background(), nil, LevelDifficult)
	require.NoError(t, err)
	assert.Less(t, len(trivia.Questions), QuestionsPerTrivia)
	assert.NotEmpty(t, trivia.Questions)
}

func TestTriviaLoadsBoundTrivia(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(&stubBank{}, store, nil)

	built, progress, err := svc.Start(context.Background(), nil, LevelBeginner)
	require.NoError(t, err)

	loaded, err := svc.Trivia(context.Background(), progress)
	require.NoError(t, err)
	assert.Equal(t, built.ID, loaded.ID)

	_, err = svc.Trivia(context.Background(), Progress{})
	assert.ErrorIs(t, err, ErrNoActiveTrivia)

	_, err = svc.Trivia(context.Background(), NewProgress(uuid.New()))
	assert.ErrorIs(t, err, ErrNoActiveTrivia)
}

func TestQuestionRequiresActiveTrivia(t *testing.T) {
	svc := newTestService(&stubBank{}, &stubStore{}, nil)

	_, err := svc.Question(context.Background(), Progress{}, 0)
	assert.ErrorIs(t, err, ErrNoActiveTrivia)

	// A progress pointing at a trivia the store no longer holds behaves the
	// same as no session at all.
	_, err = svc.Question(context.Background(), NewProgress(uuid.New()), 0)
	assert.ErrorIs(t, err, ErrNoActiveTrivia)
}

func TestQuestionWalk(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(&stubBank{}, store, nil)

	trivia, progress, err := svc.Start(context.Background(), nil, LevelBeginner)
	require.NoError(t, err)

	view, err := svc.Question(context.Background(), progress, 0)
	require.NoError(t, err)
	assert.Equal(t, trivia.Questions[0].ID, view.Question.ID)
	assert.Equal(t, testLimits.Beginner, view.TimeLimit)

	_, err = svc.Question(context.Background(), progress, 1)
	assert.ErrorIs(t, err, ErrOutOfOrder)

	progress = progress.MarkAnswered(0)
	view, err = svc.Question(context.Background(), progress, 1)
	require.NoError(t, err)
	assert.Equal(t, trivia.Questions[1].ID, view.Question.ID)
}

func TestSubmitAnswerGradesChoice(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(&stubBank{}, store, nil)

	trivia, progress, err := svc.Start(context.Background(), nil, LevelBeginner)
	require.NoError(t, err)

	q := trivia.Questions[0]
	var correctID, wrongID uuid.UUID
	for _, a := range q.Answers {
		if a.Correct {
			correctID = a.ID
		} else {
			wrongID = a.ID
		}
	}

	if q.Type == TypeAutocomplete {
		next, result, err := svc.SubmitAnswer(context.Background(), progress, AnswerSubmission{Index: 0, Text: "  ANSWER "})
		require.NoError(t, err)
		assert.True(t, result.Correct)
		assert.Equal(t, PointsBeginner, next.Score)
		return
	}

	next, result, err := svc.SubmitAnswer(context.Background(), progress, AnswerSubmission{Index: 0, AnswerID: wrongID})
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Zero(t, next.Score)
	assert.True(t, next.HasAnswered(0))

	// Wrong then right: the first grading sticks.
	again, result, err := svc.SubmitAnswer(context.Background(), next, AnswerSubmission{Index: 0, AnswerID: correctID})
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Zero(t, again.Score)
}

func TestSubmitAnswerGradesAutocomplete(t *testing.T) {
	q := Question{
		ID:   uuid.New(),
		Type: TypeAutocomplete,
		Answers: []Answer{
			{ID: uuid.New(), Accepted: []string{"Paris", "paris, france"}},
		},
	}

	assert.True(t, grade(q, AnswerSubmission{Text: "paris"}))
	assert.True(t, grade(q, AnswerSubmission{Text: "  PARIS  "}))
	assert.True(t, grade(q, AnswerSubmission{Text: "Paris, France"}))
	assert.False(t, grade(q, AnswerSubmission{Text: "london"}))
	assert.False(t, grade(q, AnswerSubmission{Text: "   "}))
}

func TestSubmitAnswerOrdering(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(&stubBank{}, store, nil)

	_, progress, err := svc.Start(context.Background(), nil, LevelBeginner)
	require.NoError(t, err)

	_, _, err = svc.SubmitAnswer(context.Background(), progress, AnswerSubmission{Index: 3})
	assert.ErrorIs(t, err, ErrOutOfOrder)

	_, _, err = svc.SubmitAnswer(context.Background(), progress, AnswerSubmission{Index: QuestionsPerTrivia})
	assert.ErrorIs(t, err, ErrTriviaComplete)
}

func TestSubmitAnswerCompletionRecordsScore(t *testing.T) {
	store := &stubStore{}
	recorder := &stubRecorder{}
	svc := newTestService(&stubBank{}, store, recorder)

	userID := uuid.New()
	trivia, progress, err := svc.Start(context.Background(), &userID, LevelDifficult)
	require.NoError(t, err)

	var result SubmitResult
	for i, q := range trivia.Questions {
		sub := AnswerSubmission{Index: i}
		if q.Type == TypeAutocomplete {
			sub.Text = "answer"
		} else {
			for _, a := range q.Answers {
				if a.Correct {
					sub.AnswerID = a.ID
				}
			}
		}
		progress, result, err = svc.SubmitAnswer(context.Background(), progress, sub)
		require.NoError(t, err)
		assert.True(t, result.Correct, "question %d", i)
		assert.Equal(t, result.Completed, i == len(trivia.Questions)-1)
	}

	wantScore := len(trivia.Questions) * PointsDifficult
	assert.Equal(t, wantScore, result.Score)
	assert.Equal(t, wantScore, store.completed[trivia.ID])
	assert.Equal(t, 1, recorder.calls)
	assert.Equal(t, userID, recorder.userID)
	assert.Equal(t, trivia.Difficulty.ID, recorder.difficultyID)
	assert.Equal(t, wantScore, recorder.score)
}

func TestSubmitAnswerAnonymousSkipsRanking(t *testing.T) {
	store := &stubStore{}
	recorder := &stubRecorder{}
	svc := newTestService(&stubBank{}, store, recorder)

	trivia, progress, err := svc.Start(context.Background(), nil, LevelBeginner)
	require.NoError(t, err)

	for i, q := range trivia.Questions {
		sub := AnswerSubmission{Index: i}
		if q.Type == TypeAutocomplete {
			sub.Text = "answer"
		} else {
			sub.AnswerID = q.Answers[0].ID
		}
		progress, _, err = svc.SubmitAnswer(context.Background(), progress, sub)
		require.NoError(t, err)
	}

	assert.Contains(t, store.completed, trivia.ID)
	assert.Zero(t, recorder.calls)
}

func TestSubmitAnswerReplayIsNoop(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(&stubBank{}, store, nil)

	trivia, progress, err := svc.Start(context.Background(), nil, LevelBeginner)
	require.NoError(t, err)

	q := trivia.Questions[0]
	sub := AnswerSubmission{Index: 0}
	if q.Type == TypeAutocomplete {
		sub.Text = "answer"
	} else {
		for _, a := range q.Answers {
			if a.Correct {
				sub.AnswerID = a.ID
			}
		}
	}

	first, result, err := svc.SubmitAnswer(context.Background(), progress, sub)
	require.NoError(t, err)
	require.True(t, result.Correct)

	replayed, result, err := svc.SubmitAnswer(context.Background(), first, sub)
	require.NoError(t, err)
	assert.Equal(t, first, replayed)
	assert.Equal(t, first.Score, result.Score)
	assert.False(t, result.Completed)
}

package trivia

import (
	"time"
)

// Limits holds the per-tier answer time limits. Beginner gets one constant,
// every other tier shares another.
type Limits struct {
	Beginner time.Duration
	Default  time.Duration
}

// TimeLimitFor resolves the answer window for a difficulty level.
func (l Limits) TimeLimitFor(level string) time.Duration {
	if level == LevelBeginner {
		return l.Beginner
	}
	return l.Default
}

// QuestionView is what delivery hands to the web layer for one question.
type QuestionView struct {
	Question  Question
	Index     int
	TimeLimit time.Duration
	Help      string
}

// QuestionAt resolves the question at index for a trivia and its session
// progress, enforcing strictly sequential access.
//
// Index i>0 is only reachable once i-1 is recorded as answered; violations
// return ErrOutOfOrder. Requests at or past the end of the question sequence
// return ErrTriviaComplete, the normal terminal signal. Completion is judged
// against the actual sequence length, never against a time-limit constant.
func QuestionAt(t *Trivia, p Progress, index int, limits Limits) (QuestionView, error) {
	if t == nil || !p.Active() || p.TriviaID != t.ID {
		return QuestionView{}, ErrNoActiveTrivia
	}
	if index < 0 || !p.CanAccess(index) {
		return QuestionView{}, ErrOutOfOrder
	}
	if index >= len(t.Questions) {
		return QuestionView{}, ErrTriviaComplete
	}

	q := t.Questions[index]
	view := QuestionView{
		Question:  q,
		Index:     index,
		TimeLimit: limits.TimeLimitFor(t.Difficulty.Level),
	}
	if t.Difficulty.Level == LevelBeginner {
		view.Help = q.Help
	}
	return view, nil
}

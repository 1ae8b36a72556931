package trivia

import (
	"github.com/google/uuid"
)

// Progress is the session-scoped record of which question indices have been
// answered for one trivia. It is a value: mutations return a new Progress so
// the state machine can be exercised without ambient storage.
type Progress struct {
	TriviaID uuid.UUID `json:"trivia_id"`
	Answered []int     `json:"answered"`
	Score    int       `json:"score"`
}

// NewProgress seeds empty tracking for a freshly built trivia.
func NewProgress(triviaID uuid.UUID) Progress {
	return Progress{TriviaID: triviaID}
}

// Active reports whether a trivia is bound to this progress.
func (p Progress) Active() bool {
	return p.TriviaID != uuid.Nil
}

// HasAnswered reports whether index i is recorded.
func (p Progress) HasAnswered(i int) bool {
	for _, a := range p.Answered {
		if a == i {
			return true
		}
	}
	return false
}

// CanAccess gates question i on question i-1 being answered. Index 0 requires
// nothing.
func (p Progress) CanAccess(i int) bool {
	if i == 0 {
		return true
	}
	return i > 0 && p.HasAnswered(i-1)
}

// MarkAnswered records index i. Re-marking an already answered index is a
// no-op, not an error. Negative indices are ignored.
func (p Progress) MarkAnswered(i int) Progress {
	if i < 0 || p.HasAnswered(i) {
		return p
	}
	next := p
	next.Answered = append(append([]int(nil), p.Answered...), i)
	return next
}

// AddScore accrues points into a new Progress value.
func (p Progress) AddScore(points int) Progress {
	next := p
	next.Score += points
	return next
}

// AnsweredCount returns how many distinct indices are recorded.
func (p Progress) AnsweredCount() int {
	return len(p.Answered)
}

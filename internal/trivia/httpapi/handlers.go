package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aydsapp/trivia-server/internal/auth"
	"github.com/aydsapp/trivia-server/internal/session"
	"github.com/aydsapp/trivia-server/internal/trivia"
	httperrors "github.com/aydsapp/trivia-server/pkg/http/errors"
)

// engine is the slice of the trivia service the handlers drive.
type engine interface {
	Start(ctx context.Context, userID *uuid.UUID, level string) (*trivia.Trivia, trivia.Progress, error)
	Question(ctx context.Context, p trivia.Progress, index int) (trivia.QuestionView, error)
	SubmitAnswer(ctx context.Context, p trivia.Progress, sub trivia.AnswerSubmission) (trivia.Progress, trivia.SubmitResult, error)
	Trivia(ctx context.Context, p trivia.Progress) (*trivia.Trivia, error)
}

// progressStore is the slice of the session store the handlers need.
type progressStore interface {
	Get(ctx context.Context, sessionID string) (trivia.Progress, bool, error)
	Put(ctx context.Context, sessionID string, p trivia.Progress) error
	LockStart(ctx context.Context, sessionID string) (func() error, error)
}

type difficultyLister interface {
	List(ctx context.Context) ([]trivia.Difficulty, error)
}

// Handlers provides the REST endpoints for playing a trivia.
type Handlers struct {
	svc          engine
	sessions     progressStore
	difficulties difficultyLister
	cookie       session.Cookie
	logger       zerolog.Logger
}

// NewHandlers creates trivia HTTP handlers.
func NewHandlers(svc engine, sessions progressStore, difficulties difficultyLister, cookie session.Cookie, logger zerolog.Logger) *Handlers {
	return &Handlers{
		svc:          svc,
		sessions:     sessions,
		difficulties: difficulties,
		cookie:       cookie,
		logger:       logger.With().Str("component", "trivia_http").Logger(),
	}
}

type startRequest struct {
	Difficulty string `json:"difficulty"`
}

// HandleStart handles POST /v1/trivia. It builds a new trivia for the
// session's user and difficulty and binds fresh progress to the session,
// replacing any previous trivia.
func (h *Handlers) HandleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.Difficulty == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "difficulty is required", "difficulty")
		return
	}

	sessionID := h.cookie.Ensure(w, r)

	unlock, err := h.sessions.LockStart(r.Context(), sessionID)
	if err != nil {
		httperrors.RespondConflict(w, httperrors.ErrCodeTriviaStartFailed, "A trivia is already being started")
		return
	}
	defer func() {
		if err := unlock(); err != nil {
			h.logger.Warn().Err(err).Msg("release start lock failed")
		}
	}()

	t, progress, err := h.svc.Start(r.Context(), userIDFromContext(r.Context()), req.Difficulty)
	if err != nil {
		if errors.Is(err, trivia.ErrDifficultyNotFound) {
			httperrors.RespondNotFound(w, httperrors.ErrCodeUnknownDifficulty, "Unknown difficulty level")
			return
		}
		h.logger.Error().Err(err).Str("level", req.Difficulty).Msg("trivia start failed")
		httperrors.RespondInternalError(w, "Could not start trivia")
		return
	}

	// No partial trivia may stay bound to the session: bind progress only
	// after the trivia persisted.
	if err := h.sessions.Put(r.Context(), sessionID, progress); err != nil {
		h.logger.Error().Err(err).Msg("bind session progress failed")
		httperrors.RespondInternalError(w, "Could not start trivia")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"trivia_id":      t.ID.String(),
		"difficulty":     t.Difficulty.Level,
		"question_count": len(t.Questions),
		"first_question": "/v1/trivia/questions/0",
	})
}

// HandleDifficulties handles GET /v1/difficulties with the playable tiers.
func (h *Handlers) HandleDifficulties(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	tiers, err := h.difficulties.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list difficulties failed")
		httperrors.RespondInternalError(w, "Could not list difficulties")
		return
	}

	levels := make([]string, 0, len(tiers))
	for _, d := range tiers {
		levels = append(levels, d.Level)
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"difficulties": levels,
	})
}

// HandleQuestion handles GET /v1/trivia/questions/{index}, enforcing the
// sequential-access invariant and signalling completion.
func (h *Handlers) HandleQuestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/v1/trivia/questions/")
	index, err := strconv.Atoi(strings.TrimSuffix(raw, "/"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid question index")
		return
	}

	progress, ok := h.sessionProgress(w, r)
	if !ok {
		return
	}

	view, err := h.svc.Question(r.Context(), progress, index)
	if err != nil {
		h.respondTriviaError(w, progress, err)
		return
	}

	answers := make([]map[string]interface{}, 0, len(view.Question.Answers))
	for _, a := range view.Question.Answers {
		answers = append(answers, map[string]interface{}{
			"id":   a.ID.String(),
			"text": a.Text,
		})
	}

	resp := map[string]interface{}{
		"index":              view.Index,
		"type":               view.Question.Type,
		"prompt":             view.Question.Prompt,
		"answers":            answers,
		"time_limit_seconds": int(view.TimeLimit.Seconds()),
	}
	if view.Help != "" {
		resp["help"] = view.Help
	}
	h.respondJSON(w, http.StatusOK, resp)
}

type answerRequest struct {
	Index    int    `json:"index"`
	AnswerID string `json:"answer_id,omitempty"`
	Text     string `json:"text,omitempty"`
}

// HandleAnswer handles POST /v1/trivia/answers: grades the submission, marks
// the index answered and persists the updated session state.
func (h *Handlers) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	progress, ok := h.sessionProgress(w, r)
	if !ok {
		return
	}

	sub := trivia.AnswerSubmission{Index: req.Index, Text: req.Text}
	if req.AnswerID != "" {
		answerID, err := uuid.Parse(req.AnswerID)
		if err != nil {
			httperrors.RespondValidationError(w, httperrors.ErrCodeInvalidRequest, "answer_id must be a UUID", "answer_id")
			return
		}
		sub.AnswerID = answerID
	}

	updated, result, err := h.svc.SubmitAnswer(r.Context(), progress, sub)
	if err != nil {
		h.respondTriviaError(w, progress, err)
		return
	}

	sessionID, _ := h.cookie.SessionID(r)
	if err := h.sessions.Put(r.Context(), sessionID, updated); err != nil {
		h.logger.Error().Err(err).Msg("persist session progress failed")
		httperrors.RespondInternalError(w, "Could not record answer")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"correct":   result.Correct,
		"completed": result.Completed,
		"score":     result.Score,
	})
}

// HandleResults handles GET /v1/trivia/results with the session's final (or
// running) score.
func (h *Handlers) HandleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	progress, ok := h.sessionProgress(w, r)
	if !ok {
		return
	}

	t, err := h.svc.Trivia(r.Context(), progress)
	if err != nil {
		h.respondTriviaError(w, progress, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"trivia_id":  t.ID.String(),
		"difficulty": t.Difficulty.Level,
		"score":      progress.Score,
		"answered":   progress.AnsweredCount(),
		"total":      len(t.Questions),
		"completed":  progress.AnsweredCount() == len(t.Questions),
	})
}

func (h *Handlers) sessionProgress(w http.ResponseWriter, r *http.Request) (trivia.Progress, bool) {
	sessionID, ok := h.cookie.SessionID(r)
	if !ok {
		httperrors.RespondNotFound(w, httperrors.ErrCodeNoActiveTrivia, "Start a new trivia first")
		return trivia.Progress{}, false
	}
	progress, found, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		h.logger.Error().Err(err).Msg("load session progress failed")
		httperrors.RespondInternalError(w, "Could not load session")
		return trivia.Progress{}, false
	}
	if !found || !progress.Active() {
		httperrors.RespondNotFound(w, httperrors.ErrCodeNoActiveTrivia, "Start a new trivia first")
		return trivia.Progress{}, false
	}
	return progress, true
}

func (h *Handlers) respondTriviaError(w http.ResponseWriter, progress trivia.Progress, err error) {
	switch {
	case errors.Is(err, trivia.ErrNoActiveTrivia), errors.Is(err, trivia.ErrTriviaNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeNoActiveTrivia, "Start a new trivia first")
	case errors.Is(err, trivia.ErrOutOfOrder):
		httperrors.RespondForbidden(w, httperrors.ErrCodeUnansweredQuestion, "The previous question has not been answered")
	case errors.Is(err, trivia.ErrTriviaComplete):
		// Not an error: the set is exhausted, the client moves to results.
		h.respondJSON(w, http.StatusOK, map[string]interface{}{
			"completed": true,
			"score":     progress.Score,
			"results":   "/v1/trivia/results",
		})
	default:
		h.logger.Error().Err(err).Msg("trivia request failed")
		httperrors.RespondInternalError(w, "Trivia request failed")
	}
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("encode response failed")
	}
}

func userIDFromContext(ctx context.Context) *uuid.UUID {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return nil
	}
	id := claims.UserID
	return &id
}

package ranking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aydsapp/trivia-server/internal/trivia"
	httperrors "github.com/aydsapp/trivia-server/pkg/http/errors"
)

type difficultyFinder interface {
	FindByLevel(ctx context.Context, level string) (trivia.Difficulty, error)
}

// HTTPHandler exposes the per-difficulty top lists.
type HTTPHandler struct {
	svc          *Service
	difficulties difficultyFinder
	logger       zerolog.Logger
}

// NewHTTPHandler constructs a ranking HTTP handler.
func NewHTTPHandler(svc *Service, difficulties difficultyFinder, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:          svc,
		difficulties: difficulties,
		logger:       logger.With().Str("component", "ranking_http").Logger(),
	}
}

// HandleGet responds with the top list for a difficulty level.
// Route: GET /v1/rankings/{level}
func (h *HTTPHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	level := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/rankings/"), "/")
	if level == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Difficulty level is required")
		return
	}

	difficulty, err := h.difficulties.FindByLevel(r.Context(), level)
	if err != nil {
		if errors.Is(err, trivia.ErrDifficultyNotFound) {
			httperrors.RespondNotFound(w, httperrors.ErrCodeUnknownDifficulty, "Unknown difficulty level")
			return
		}
		h.logger.Error().Err(err).Str("level", level).Msg("difficulty lookup failed")
		httperrors.RespondInternalError(w, "Ranking request failed")
		return
	}

	entries, err := h.svc.Top(r.Context(), difficulty.ID)
	if err != nil {
		h.logger.Error().Err(err).Str("level", level).Msg("ranking fetch failed")
		httperrors.RespondError(w, http.StatusServiceUnavailable, httperrors.ErrCodeRankingFetchFailed, "Ranking fetch failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"difficulty":  level,
		"top":         entries,
		"retrievedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

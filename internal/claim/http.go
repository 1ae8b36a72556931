package claim

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aydsapp/trivia-server/internal/auth"
	httperrors "github.com/aydsapp/trivia-server/pkg/http/errors"
)

// HTTPHandler exposes claim submission.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandler constructs a claim HTTP handler.
func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "claim_http").Logger(),
	}
}

type submitRequest struct {
	Description string `json:"description"`
}

// HandleSubmit handles POST /v1/claims. Requires an authenticated user.
func (h *HTTPHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "Method not allowed")
		return
	}

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	stored, err := h.svc.Submit(r.Context(), claims.UserID, req.Description)
	if err != nil {
		if errors.Is(err, ErrEmptyClaim) {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeClaimRejected, "Claim description is empty or not allowed")
			return
		}
		h.logger.Error().Err(err).Msg("claim submission failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeClaimSendFailed, "Could not submit claim")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"claim_id":   stored.ID.String(),
		"created_at": stored.CreatedAt,
	})
}

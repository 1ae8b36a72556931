package claim

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/aydsapp/trivia-server/internal/db/repository"
)

// ErrEmptyClaim is returned when sanitization strips the whole description,
// which usually means the input was markup only.
var ErrEmptyClaim = errors.New("claim description empty after sanitization")

type claimStore interface {
	Insert(ctx context.Context, userID uuid.UUID, description string) (repository.Claim, error)
}

type userFinder interface {
	GetByID(ctx context.Context, userID uuid.UUID) (repository.User, error)
}

// Notifier forwards an accepted claim to the app managers.
type Notifier interface {
	NotifyClaim(ctx context.Context, username, userEmail, description string) error
}

// Service sanitizes, stores and forwards user claims.
type Service struct {
	claims    claimStore
	users     userFinder
	notifier  Notifier
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewService constructs the claim service. notifier may be nil when email is
// not configured; claims are then stored but not forwarded.
func NewService(claims claimStore, users userFinder, notifier Notifier, logger zerolog.Logger) *Service {
	return &Service{
		claims:    claims,
		users:     users,
		notifier:  notifier,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "claim").Logger(),
	}
}

// Submit sanitizes the description and stores it for the user. Inputs that
// sanitize down to nothing are rejected as malicious.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, description string) (repository.Claim, error) {
	cleaned := strings.TrimSpace(s.sanitizer.Sanitize(description))
	if cleaned == "" {
		return repository.Claim{}, ErrEmptyClaim
	}

	stored, err := s.claims.Insert(ctx, userID, cleaned)
	if err != nil {
		return repository.Claim{}, fmt.Errorf("store claim: %w", err)
	}

	if s.notifier != nil {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("claim notification skipped: user lookup failed")
			return stored, nil
		}
		if err := s.notifier.NotifyClaim(ctx, user.Username, user.Email, cleaned); err != nil {
			// The claim is stored either way; notification is best effort.
			s.logger.Warn().Err(err).Str("claim_id", stored.ID.String()).Msg("claim notification failed")
		}
	}

	s.logger.Info().Str("claim_id", stored.ID.String()).Str("user_id", userID.String()).Msg("claim submitted")
	return stored, nil
}

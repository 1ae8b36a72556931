package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Claim is a stored user complaint.
type Claim struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Description string
	CreatedAt   time.Time
}

// ClaimRepository persists user claims.
type ClaimRepository struct {
	db querier
}

func NewClaimRepository(db querier) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// Insert stores a sanitized claim for a user.
func (r *ClaimRepository) Insert(ctx context.Context, userID uuid.UUID, description string) (Claim, error) {
	c := Claim{
		ID:          uuid.New(),
		UserID:      userID,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO claims (claim_id, user_id, description, created_at)
		 VALUES ($1, $2, $3, $4)`,
		c.ID, c.UserID, c.Description, c.CreatedAt)
	if err != nil {
		return Claim{}, fmt.Errorf("insert claim: %w", err)
	}
	return c, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already taken")
)

// User is the account row as stored.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// CreateUserParams carries a new registration.
type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
}

// UserRepository exposes typed DB operations required by auth flows.
type UserRepository struct {
	db querier
}

func NewUserRepository(db querier) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a registered account, mapping unique violations onto the
// taken-name errors the registration flow reports.
func (r *UserRepository) Create(ctx context.Context, params CreateUserParams) (User, error) {
	u := User{
		ID:           uuid.New(),
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (user_id, username, email, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err, "users_username_key"):
			return User{}, ErrUsernameTaken
		case isUniqueViolation(err, "users_email_key"):
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// GetByUsername fetches a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (User, error) {
	return r.get(ctx, `WHERE username = $1`, username)
}

// GetByEmail fetches a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

// GetByID fetches a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (User, error) {
	return r.get(ctx, `WHERE user_id = $1`, userID)
}

func (r *UserRepository) get(ctx context.Context, where string, arg any) (User, error) {
	var (
		u         User
		lastLogin pgtype.Timestamptz
	)
	row := r.db.QueryRow(ctx,
		`SELECT user_id, username, email, password_hash, created_at, last_login_at FROM users `+where, arg)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &lastLogin); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("get user: %w", err)
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return u, nil
}

// UpdateLogin records the last login timestamp.
func (r *UserRepository) UpdateLogin(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET last_login_at = now() WHERE user_id = $1`, userID)
	return err
}

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aydsapp/trivia-server/internal/auth/jwt"
	"github.com/aydsapp/trivia-server/internal/db/repository"
)

var (
	ErrEmptyInputs        = errors.New("username, email and password must not be empty")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// userStore is the slice of the user repository auth needs.
type userStore interface {
	Create(ctx context.Context, params repository.CreateUserParams) (repository.User, error)
	GetByUsername(ctx context.Context, username string) (repository.User, error)
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (repository.User, error)
	UpdateLogin(ctx context.Context, userID uuid.UUID) error
}

// Service handles registration, login and token issuance.
type Service struct {
	users    userStore
	tokenMgr *jwt.Manager
	logger   zerolog.Logger
}

// ServiceOptions configures the auth service.
type ServiceOptions struct {
	TokenConfig jwt.TokenConfig
}

// NewService creates an authentication service.
func NewService(users userStore, opts ServiceOptions, logger zerolog.Logger) *Service {
	return &Service{
		users:    users,
		tokenMgr: jwt.NewManager(opts.TokenConfig),
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// Register creates a new account. Taken usernames and emails surface as the
// repository's sentinel errors so the web layer can name the field.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, *TokenPair, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, nil, ErrEmptyInputs
	}
	if req.Password != req.ConfirmPassword {
		return nil, nil, ErrPasswordMismatch
	}

	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	dbUser, err := s.users.Create(ctx, repository.CreateUserParams{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		return nil, nil, err
	}

	user := &User{ID: dbUser.ID, Username: dbUser.Username, Email: dbUser.Email}
	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("user registered")
	return user, tokens, nil
}

// Login authenticates a user with username/password.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*User, *TokenPair, error) {
	if req.Username == "" || req.Password == "" {
		return nil, nil, ErrEmptyInputs
	}

	dbUser, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := VerifyPassword(dbUser.PasswordHash, req.Password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	_ = s.users.UpdateLogin(ctx, dbUser.ID)

	user := &User{ID: dbUser.ID, Username: dbUser.Username, Email: dbUser.Email}
	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return user, tokens, nil
}

// LoginWithOAuth signs in (or registers) a user from a verified OAuth
// identity. Accounts are matched by email; first-time visitors get an
// account derived from their provider profile, with an unusable password.
func (s *Service) LoginWithOAuth(ctx context.Context, info *OAuthUserInfo) (*User, *TokenPair, error) {
	if info == nil || info.Email == "" {
		return nil, nil, fmt.Errorf("oauth profile missing email")
	}

	dbUser, err := s.users.GetByEmail(ctx, info.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		dbUser, err = s.users.Create(ctx, repository.CreateUserParams{
			Username:     oauthUsername(info),
			Email:        info.Email,
			PasswordHash: "!oauth", // never matches a bcrypt hash
		})
	}
	if err != nil {
		return nil, nil, fmt.Errorf("oauth login: %w", err)
	}

	_ = s.users.UpdateLogin(ctx, dbUser.ID)

	user := &User{ID: dbUser.ID, Username: dbUser.Username, Email: dbUser.Email}
	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Str("provider", OAuthProviderGoogle).Msg("oauth login")
	return user, tokens, nil
}

// GetUser fetches the account behind a validated token.
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*User, error) {
	dbUser, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &User{ID: dbUser.ID, Username: dbUser.Username, Email: dbUser.Email}, nil
}

// ValidateToken verifies an access token and returns its claims.
func (s *Service) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return s.tokenMgr.ValidateAccessToken(tokenString)
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenMgr.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	dbUser, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.generateTokenPair(&User{ID: dbUser.ID, Username: dbUser.Username, Email: dbUser.Email})
}

func (s *Service) generateTokenPair(user *User) (*TokenPair, error) {
	access, err := s.tokenMgr.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokenMgr.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.tokenMgr.AccessTTL().Seconds()),
	}, nil
}

func oauthUsername(info *OAuthUserInfo) string {
	if info.Name != "" {
		return info.Name
	}
	return info.Email
}

package auth

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aydsapp/trivia-server/internal/auth/jwt"
	"github.com/aydsapp/trivia-server/internal/db/repository"
)

type fakeUserStore struct {
	byUsername map[string]repository.User
	byEmail    map[string]repository.User
	byID       map[uuid.UUID]repository.User
	loginCalls int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byUsername: make(map[string]repository.User),
		byEmail:    make(map[string]repository.User),
		byID:       make(map[uuid.UUID]repository.User),
	}
}

func (f *fakeUserStore) Create(_ context.Context, params repository.CreateUserParams) (repository.User, error) {
	if _, ok := f.byUsername[params.Username]; ok {
		return repository.User{}, repository.ErrUsernameTaken
	}
	if _, ok := f.byEmail[params.Email]; ok {
		return repository.User{}, repository.ErrEmailTaken
	}
	u := repository.User{
		ID:           uuid.New(),
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
	}
	f.byUsername[u.Username] = u
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (repository.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return repository.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (repository.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return repository.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, userID uuid.UUID) (repository.User, error) {
	u, ok := f.byID[userID]
	if !ok {
		return repository.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) UpdateLogin(_ context.Context, _ uuid.UUID) error {
	f.loginCalls++
	return nil
}

func newTestAuthService(store *fakeUserStore) *Service {
	return NewService(store, ServiceOptions{
		TokenConfig: jwt.TokenConfig{
			AccessSecret:  []byte("test-access-secret"),
			RefreshSecret: []byte("test-refresh-secret"),
		},
	}, zerolog.New(io.Discard))
}

func validRegister() RegisterRequest {
	return RegisterRequest{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestAuthService(store)

	user, tokens, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, int64(3600), tokens.ExpiresIn)

	// Stored hash must verify, not be the raw password.
	stored := store.byUsername["alice"]
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.NoError(t, VerifyPassword(stored.PasswordHash, "password123"))

	loggedIn, tokens, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.Equal(t, 1, store.loginCalls)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestAuthService(newFakeUserStore())

	req := validRegister()
	req.Username = ""
	_, _, err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmptyInputs)

	req = validRegister()
	req.ConfirmPassword = "different"
	_, _, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	req = validRegister()
	req.Password = "short"
	req.ConfirmPassword = "short"
	_, _, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterDuplicates(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestAuthService(store)

	_, _, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	dup := validRegister()
	dup.Email = "other@example.com"
	_, _, err = svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, repository.ErrUsernameTaken)

	dup = validRegister()
	dup.Username = "bob"
	_, _, err = svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, repository.ErrEmailTaken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestAuthService(store)

	_, _, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), LoginRequest{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRoundtrip(t *testing.T) {
	svc := newTestAuthService(newFakeUserStore())

	user, tokens, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	// Access and refresh tokens are signed with different secrets.
	_, err = svc.ValidateToken(tokens.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	_, err = svc.ValidateToken("garbage")
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestAuthService(store)

	user, tokens, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	fresh, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	claims, err := svc.ValidateToken(fresh.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = svc.Refresh(context.Background(), tokens.AccessToken)
	assert.Error(t, err)
}

func TestLoginWithOAuth(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestAuthService(store)

	info := &OAuthUserInfo{Email: "carol@example.com", Name: "carol"}
	user, tokens, err := svc.LoginWithOAuth(context.Background(), info)
	require.NoError(t, err)
	assert.Equal(t, "carol", user.Username)
	assert.NotEmpty(t, tokens.AccessToken)

	// Password login must never work for an OAuth-created account.
	_, _, err = svc.Login(context.Background(), LoginRequest{Username: "carol", Password: "!oauth"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Second visit matches the existing account by email.
	again, _, err := svc.LoginWithOAuth(context.Background(), info)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	_, _, err = svc.LoginWithOAuth(context.Background(), &OAuthUserInfo{})
	assert.Error(t, err)
}

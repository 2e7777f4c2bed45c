package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voltpoint/internal/models"
	"voltpoint/internal/password"
	"voltpoint/internal/repository"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now().UTC()
	f.users[user.Email] = *user
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &user, nil
}

func newAuthService() (*AuthService, *TokenService) {
	tokens := NewTokenService("test-secret", time.Hour)
	return NewAuthService(newFakeUserRepo(), password.NewBcryptHasher(4), tokens, zap.NewNop()), tokens
}

func TestSignupIssuesValidToken(t *testing.T) {
	svc, tokens := newAuthService()

	token, user, err := svc.Signup(context.Background(), "Ada", "Ada@Example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", user.Email)
	require.NotZero(t, user.ID)

	claims, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()

	_, _, err := svc.Signup(context.Background(), "Ada", "ada@example.com", "hunter22")
	require.NoError(t, err)

	_, _, err = svc.Signup(context.Background(), "Imposter", "ada@example.com", "other")
	require.ErrorIs(t, err, ErrEmailInUse)
}

func TestSignupAggregatesMissingFields(t *testing.T) {
	svc, _ := newAuthService()

	_, _, err := svc.Signup(context.Background(), "", "", "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "Please add a name, Please add an email, Please add a password", verr.Error())
}

func TestLogin(t *testing.T) {
	svc, tokens := newAuthService()

	_, user, err := svc.Signup(context.Background(), "Ada", "ada@example.com", "hunter22")
	require.NoError(t, err)

	token, loggedIn, err := svc.Login(context.Background(), "ada@example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)

	claims, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthService()

	_, _, err := svc.Signup(context.Background(), "Ada", "ada@example.com", "hunter22")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "ada@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "hunter22")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	ours := NewTokenService("secret-a", time.Hour)
	theirs := NewTokenService("secret-b", time.Hour)

	token, err := theirs.GenerateToken(7)
	require.NoError(t, err)

	_, err = ours.ValidateToken(token)
	require.Error(t, err)
}

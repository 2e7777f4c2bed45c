package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"voltpoint/internal/models"
	"voltpoint/internal/password"
	"voltpoint/internal/repository"
)

var (
	// ErrEmailInUse is returned when attempting to register a duplicate email.
	ErrEmailInUse = errors.New("auth: email already registered")
	// ErrInvalidCredentials represents login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// UserRepository defines the storage contract used by the service.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService contains registration/login logic.
type AuthService struct {
	repo      UserRepository
	hasher    password.Hasher
	tokenizer *TokenService
	logger    *zap.Logger
}

// NewAuthService builds AuthService.
func NewAuthService(repo UserRepository, hasher password.Hasher, tokenizer *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokenizer: tokenizer,
		logger:    logger,
	}
}

// Signup registers a new user and issues a token for it.
func (s *AuthService) Signup(ctx context.Context, name, email, plainPassword string) (string, *models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	var v validation
	if name == "" {
		v.add("Please add a name")
	}
	if email == "" {
		v.add("Please add an email")
	}
	if plainPassword == "" {
		v.add("Please add a password")
	}
	if err := v.err(); err != nil {
		return "", nil, err
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return "", nil, ErrEmailInUse
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return "", nil, err
	}

	hash, err := s.hasher.Hash(plainPassword)
	if err != nil {
		return "", nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := s.tokenizer.GenerateToken(user.ID)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("user signed up", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	return token, user, nil
}

// Login authenticates a user and produces a JWT.
func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || plainPassword == "" {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, plainPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokenizer.GenerateToken(user.ID)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

package services

import (
	"context"
	"errors"
	"fmt"

	"slidecast-backend/internal/models"
	"slidecast-backend/internal/security"
)

// ErrIncorrectPassword is a validation failure so the signin handler can answer 400.
var ErrIncorrectPassword = fmt.Errorf("%w: incorrect password", models.ErrValidation)

type UserStore interface {
	CreateUser(ctx context.Context, email, username, passwordHash string) (*models.User, error)
	FindUserByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Compare(ctx context.Context, hash, password string) error
}

type TokenMinter interface {
	Issue(userID string) (string, error)
}

type AccountService struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenMinter
}

func NewAccountService(users UserStore, hasher PasswordHasher, tokens TokenMinter) *AccountService {
	return &AccountService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Signup creates a user after checking that neither email nor username is taken.
// The unique constraints in the store still catch concurrent signups.
func (s *AccountService) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	existing, err := s.users.FindUserByEmailOrUsername(ctx, req.Email, req.Username)
	switch {
	case err == nil && existing != nil:
		return nil, fmt.Errorf("%w: email or username already exists", models.ErrConflict)
	case err != nil && !errors.Is(err, models.ErrNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.users.CreateUser(ctx, req.Email, req.Username, hash)
}

// Signin returns a bearer token for the user with the given email.
func (s *AccountService) Signin(ctx context.Context, email, password string) (token string, user *models.User, err error) {
	user, err = s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if err := s.hasher.Compare(ctx, user.PasswordHash, password); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			return "", nil, ErrIncorrectPassword
		}
		return "", nil, fmt.Errorf("failed to verify password: %w", err)
	}

	token, err = s.tokens.Issue(user.ID.String())
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, user, nil
}

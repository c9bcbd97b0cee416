// Package service provides the account and checkout-history business logic,
// delegating persistence to repository interfaces and hashing to a Hasher.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/atinyakov/dirac/internal/models"
	"github.com/atinyakov/dirac/internal/repository"
)

// Hasher produces and checks one-way salted digests.
type Hasher interface {
	// Hash returns a salted digest of secret.
	Hash(secret string) (string, error)
	// Verify reports whether secret matches digest.
	Verify(secret, digest string) (bool, error)
}

// UserRepository defines the persistence operations on users.
type UserRepository interface {
	// FindUserByEmail returns repository.ErrNotFound when no user has email.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	// FindUserByID returns repository.ErrNotFound when no user has id.
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	// CreateUser returns repository.ErrConstraintViolation when email is taken.
	CreateUser(ctx context.Context, name, email, passwordHash string) (*models.User, error)
}

// AccountService implements sign-up and sign-in.
type AccountService struct {
	users  UserRepository
	hasher Hasher
}

// NewAccountService constructs an AccountService.
func NewAccountService(users UserRepository, hasher Hasher) *AccountService {
	return &AccountService{users: users, hasher: hasher}
}

// SignUp registers a new user. It fails with ErrDuplicateEmail when the
// email is already registered, including when a concurrent sign-up wins
// the race and the store rejects the insert.
func (s *AccountService) SignUp(ctx context.Context, name, email, password string) error {
	_, err := s.users.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrDuplicateEmail
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if _, err := s.users.CreateUser(ctx, name, email, hash); err != nil {
		if errors.Is(err, repository.ErrConstraintViolation) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// SignIn checks the credentials and returns the user's id.
// An unknown email yields ErrInvalidEmail, a wrong password ErrInvalidPassword.
func (s *AccountService) SignIn(ctx context.Context, email, password string) (int64, error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrInvalidEmail
		}
		return 0, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return 0, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return 0, ErrInvalidPassword
	}
	return user.ID, nil
}

package services

import (
	"context"
	"errors"
	"strings"

	"github.com/gestiong/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidUser is returned when a username or secret is missing.
var ErrInvalidUser = errors.New("username and password are required")

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	UpdateSecret(ctx context.Context, id int, secretHash string) error
	ListWithEmail(ctx context.Context) ([]types.User, error)
}

// UserService encapsulates credential use-cases. Secrets are hashed on the
// way in and never leave this package in plaintext.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (types.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// Create registers a new account with a bcrypt hash of the secret.
func (s *UserService) Create(ctx context.Context, username, secret, email string) (types.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || secret == "" {
		return types.User{}, ErrInvalidUser
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}

	return s.repo.Create(ctx, types.User{
		Username:   username,
		Email:      strings.TrimSpace(email),
		SecretHash: string(hashed),
	})
}

// RotateSecret replaces a user's secret with a hash of the new one.
func (s *UserService) RotateSecret(ctx context.Context, id int, secret string) error {
	if secret == "" {
		return ErrInvalidUser
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdateSecret(ctx, id, string(hashed))
}

// ListWithEmail returns users reachable by the reminder job.
func (s *UserService) ListWithEmail(ctx context.Context) ([]types.User, error) {
	return s.repo.ListWithEmail(ctx)
}

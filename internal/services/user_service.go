package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/proyecthub/proyecthub-api/internal/models"
	"github.com/proyecthub/proyecthub-api/internal/repository"
)

type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// List returns every user without credentials
func (s *UserService) List(ctx context.Context) ([]models.UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}
	return responses, nil
}

// Create registers an administrator. Usernames are email addresses.
// Only the admin CLI calls this.
func (s *UserService) Create(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || !strings.Contains(username, "@") {
		return nil, validationError("username must be an email address")
	}
	if strings.TrimSpace(password) == "" {
		return nil, validationError("password is required")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Username: username, PasswordHash: hash}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: user %s already exists", ErrConflict, username)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

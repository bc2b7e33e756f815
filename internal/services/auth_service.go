package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/proyecthub/proyecthub-api/internal/config"
	"github.com/proyecthub/proyecthub-api/internal/models"
	"github.com/proyecthub/proyecthub-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
	now      func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
		now:      time.Now,
	}
}

// LoginResult represents the result of a login attempt
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login authenticates a user and returns a bearer token
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt}, nil
}

// generateJWT creates a signed token for a user. The claim names are the
// ones middleware.Claims reads back.
func (s *AuthService) generateJWT(user *models.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour)

	claims := jwt.MapClaims{
		"sub":      user.Username,
		"jti":      uuid.New().String(),
		"userId":   user.ID,
		"username": user.Username,
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"exp":      expiresAt.Unix(),
	}
	if s.cfg.JWTIssuer != "" {
		claims["iss"] = s.cfg.JWTIssuer
	}
	if s.cfg.JWTAudience != "" {
		claims["aud"] = s.cfg.JWTAudience
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// VerifyPassword compares a password with a hash
func VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

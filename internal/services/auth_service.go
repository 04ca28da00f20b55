package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ArowuTest/valera-classroom/internal/models"
	"github.com/ArowuTest/valera-classroom/internal/repositories"
	"github.com/ArowuTest/valera-classroom/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// AuthService logs admins in and manages their accounts
type AuthService struct {
	adminRepo repositories.AdminUserRepository
	tokens    *jwt.TokenService
}

// NewAuthService creates a new AuthService
func NewAuthService(adminRepo repositories.AdminUserRepository, tokens *jwt.TokenService) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		tokens:    tokens,
	}
}

// Login checks the password and issues a token
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.adminRepo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		slog.Warn("Failed login attempt", "username", user.Username)
		return nil, ErrInvalidCredentials
	}

	token, expires, err := s.tokens.Generate(user.ID, user.Username, user.Role())
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, ExpiresAt: expires, User: *user}, nil
}

// CreateUser stores a new account with a bcrypt hash of password
func (s *AuthService) CreateUser(ctx context.Context, username, password string, isAdmin bool) (*models.AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, invalid("username and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.AdminUser{Username: username, PasswordHash: string(hash), IsAdmin: isAdmin}
	if err := s.adminRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	slog.Info("User created", "username", username, "admin", isAdmin)
	return user, nil
}

// EnsureAdmin creates the configured admin account if it is missing.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	_, err := s.adminRepo.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	_, err = s.CreateUser(ctx, username, password, true)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil
	}
	return err
}

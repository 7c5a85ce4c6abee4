// Package user implements account registration and credential
// authentication for the booking API.
package user

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"sahatak/config"
	userRepo "sahatak/database/repository/user"
	"sahatak/models"
	"sahatak/utils"
)

// UserService defines account operations.
type UserService interface {
	Register(req models.RegisterRequest) (*models.AuthResponse, error)
	Authenticate(req models.LoginRequest) (*models.AuthResponse, error)
	GetByID(id string) (*models.User, error)
	SetFCMToken(id, token string) error
}

// DefaultUserService implements UserService.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}

func tokenTTL() time.Duration {
	hours := config.AppConfig.TokenTTLHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

// Register creates an account and returns a signed token for it.
func (s *DefaultUserService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	if req.UserType != models.UserPatient && req.UserType != models.UserDoctor {
		return nil, fmt.Errorf("unsupported user type %q", req.UserType)
	}

	existing, err := s.Repo.GetByEmail(req.Email)
	if err != nil {
		utils.GetLogger().Error("Register: email lookup failed", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}
	if existing != nil {
		return nil, fmt.Errorf("an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		UserType:     req.UserType,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Repo.Create(&user); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	token, err := utils.GenerateToken(user.ID, user.Email, string(user.UserType), tokenTTL())
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

// Authenticate verifies credentials and returns a signed token.
func (s *DefaultUserService) Authenticate(req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.Repo.GetByEmail(req.Email)
	if err != nil {
		utils.GetLogger().Error("Authenticate: email lookup failed", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if user == nil || !user.IsActive {
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	token, err := utils.GenerateToken(user.ID, user.Email, string(user.UserType), tokenTTL())
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &models.AuthResponse{Token: token, User: *user}, nil
}

// GetByID fetches one account.
func (s *DefaultUserService) GetByID(id string) (*models.User, error) {
	return s.Repo.GetByID(id)
}

// SetFCMToken stores the device push token pushes are delivered to.
func (s *DefaultUserService) SetFCMToken(id, token string) error {
	if err := s.Repo.SetFCMToken(id, token); err != nil {
		return fmt.Errorf("failed to store push token: %w", err)
	}
	return nil
}

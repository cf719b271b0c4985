package services

import (
	"fmt"
	"strings"

	"todosync/internal/models"
	"todosync/internal/repositories"
)

type UserService interface {
	// Register creates the user and returns it together with the TOTP
	// enrollment QR (data URL). The confirmation value is never persisted.
	Register(email, password, passwordConfirm string) (*models.User, string, error)
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

type userService struct {
	repo    repositories.UserRepository
	authSvc AuthService
	totpSvc TOTPService
}

func NewUserService(repo repositories.UserRepository, authSvc AuthService, totpSvc TOTPService) UserService {
	return &userService{repo: repo, authSvc: authSvc, totpSvc: totpSvc}
}

// NormalizeEmail lowercases and trims an address; all lookups go through it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Register(email, password, passwordConfirm string) (*models.User, string, error) {
	if password != passwordConfirm {
		return nil, "", ErrPasswordMismatch
	}
	email = NormalizeEmail(email)

	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := s.authSvc.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	secret, qrCode, err := s.totpSvc.Enroll(email)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		TOTPSecret:   secret,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, "", err
	}
	return user, qrCode, nil
}

func (s *userService) GetByID(id int) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *userService) GetByEmail(email string) (*models.User, error) {
	return s.repo.GetByEmail(NormalizeEmail(email))
}

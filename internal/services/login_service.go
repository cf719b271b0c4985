package services

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"todosync/internal/models"
	"todosync/internal/repositories"
	"todosync/internal/utils"
)

const (
	otpTTL        = 2 * time.Minute
	attemptTTL    = 10 * time.Minute
	attemptIDSize = 32
)

// LoginService owns the pending-login record that bridges the three login
// steps. The opaque attempt token issued by Begin is required at VerifyOTP
// and Resolve, so every check is scoped to the identity that already passed
// the password step.
type LoginService interface {
	// Begin creates a fresh attempt for the user (dropping older ones),
	// emails a 6-digit code and returns the attempt token.
	Begin(user *models.User) (string, error)
	// VerifyOTP consumes the attempt's OTP. Single use: a second call with
	// the same code fails on the stage check.
	VerifyOTP(token, code string) (*models.User, error)
	// Resolve returns the user of an attempt that passed the OTP step.
	Resolve(token string) (*models.User, error)
	// Complete deletes the attempt once the TOTP step succeeded.
	Complete(token string) error
}

type loginService struct {
	attempts repositories.LoginAttemptRepository
	users    repositories.UserRepository
	emails   EmailService
}

func NewLoginService(attempts repositories.LoginAttemptRepository, users repositories.UserRepository, emails EmailService) LoginService {
	return &loginService{attempts: attempts, users: users, emails: emails}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *loginService) Begin(user *models.User) (string, error) {
	code, err := generateOTP()
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt generate: %w", err)
	}

	token, err := utils.NewOpaqueToken(attemptIDSize)
	if err != nil {
		return "", err
	}

	// одна попытка на пользователя: старые сносим
	if err := s.attempts.DeleteByUserID(user.ID); err != nil {
		return "", err
	}

	now := time.Now()
	attempt := &models.LoginAttempt{
		Token:      token,
		UserID:     user.ID,
		OTPHash:    string(codeHash),
		OTPExpires: now.Add(otpTTL),
		Stage:      models.StagePasswordVerified,
		ExpiresAt:  now.Add(attemptTTL),
	}
	if err := s.attempts.Create(attempt); err != nil {
		return "", err
	}

	if err := s.emails.SendOTPEmail(user.Email, code); err != nil {
		// откат: недоставленный, но валидный код не должен остаться
		if delErr := s.attempts.Delete(token); delErr != nil {
			log.Printf("[login][begin] rollback failed for userID=%d: %v", user.ID, delErr)
		}
		return "", fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	log.Printf("[login][begin] otp dispatched userID=%d otp_exp=%s", user.ID, attempt.OTPExpires.Format(time.RFC3339))
	return token, nil
}

func (s *loginService) VerifyOTP(token, code string) (*models.User, error) {
	attempt, err := s.attempts.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if attempt == nil || time.Now().After(attempt.ExpiresAt) {
		return nil, ErrLoginExpired
	}
	if attempt.Stage != models.StagePasswordVerified {
		return nil, ErrWrongStage
	}
	if time.Now().After(attempt.OTPExpires) {
		// просроченный код не чистим — его перезапишет следующий логин
		return nil, ErrOTPExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(attempt.OTPHash), []byte(code)) != nil {
		return nil, ErrOTPInvalid
	}

	attempt.OTPHash = ""
	attempt.OTPExpires = time.Time{}
	attempt.Stage = models.StageOTPVerified
	if err := s.attempts.Update(attempt); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(attempt.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrLoginExpired
	}
	log.Printf("[login][verify-otp] OK userID=%d", user.ID)
	return user, nil
}

func (s *loginService) Resolve(token string) (*models.User, error) {
	attempt, err := s.attempts.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if attempt == nil || time.Now().After(attempt.ExpiresAt) {
		return nil, ErrLoginExpired
	}
	if attempt.Stage != models.StageOTPVerified {
		return nil, ErrWrongStage
	}
	user, err := s.users.GetByID(attempt.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrLoginExpired
	}
	return user, nil
}

func (s *loginService) Complete(token string) error {
	return s.attempts.Delete(token)
}

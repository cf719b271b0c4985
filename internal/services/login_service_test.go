package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todosync/internal/mocks"
	"todosync/internal/models"
	"todosync/internal/services"
)

func newLoginFixture(t *testing.T) (services.LoginService, *mocks.MockLoginAttemptRepository, *mocks.MockUserRepository, *mocks.MockEmailService, *models.User) {
	t.Helper()

	attempts := mocks.NewMockLoginAttemptRepository()
	users := mocks.NewMockUserRepository()
	emails := mocks.NewMockEmailService()

	user := &models.User{Email: "alice@x.com", PasswordHash: "$2a$10$x", TOTPSecret: "SECRET"}
	require.NoError(t, users.Create(user))

	return services.NewLoginService(attempts, users, emails), attempts, users, emails, user
}

func TestBeginDispatchesSixDigitCode(t *testing.T) {
	svc, attempts, _, emails, user := newLoginFixture(t)

	token, err := svc.Begin(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.Len(t, emails.Sent, 1)
	assert.Equal(t, "alice@x.com", emails.Sent[0].Email)
	assert.Len(t, emails.Sent[0].Code, 6)

	attempt, err := attempts.GetByToken(token)
	require.NoError(t, err)
	require.NotNil(t, attempt)
	assert.Equal(t, models.StagePasswordVerified, attempt.Stage)
	assert.NotEqual(t, emails.Sent[0].Code, attempt.OTPHash) // только хэш
	assert.WithinDuration(t, time.Now().Add(2*time.Minute), attempt.OTPExpires, 5*time.Second)
}

func TestBeginRollsBackOnDeliveryFailure(t *testing.T) {
	svc, attempts, _, emails, user := newLoginFixture(t)
	emails.SendFunc = func(email, code string) error {
		return errors.New("smtp down")
	}

	_, err := svc.Begin(user)
	assert.ErrorIs(t, err, services.ErrDelivery)

	// недоставленный код не должен остаться валидным
	assert.Equal(t, 0, attempts.Count())
}

func TestBeginReplacesPreviousAttempt(t *testing.T) {
	svc, attempts, _, emails, user := newLoginFixture(t)

	first, err := svc.Begin(user)
	require.NoError(t, err)
	firstCode := emails.LastCode()

	second, err := svc.Begin(user)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	assert.Equal(t, 1, attempts.Count())

	// старый токен больше не работает
	_, err = svc.VerifyOTP(first, firstCode)
	assert.ErrorIs(t, err, services.ErrLoginExpired)
}

func TestVerifyOTPHappyPathIsSingleUse(t *testing.T) {
	svc, _, _, emails, user := newLoginFixture(t)

	token, err := svc.Begin(user)
	require.NoError(t, err)
	code := emails.LastCode()

	got, err := svc.VerifyOTP(token, code)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	// повторное использование того же кода отклоняется
	_, err = svc.VerifyOTP(token, code)
	assert.ErrorIs(t, err, services.ErrWrongStage)
}

func TestVerifyOTPRejectsWrongCode(t *testing.T) {
	svc, _, _, emails, user := newLoginFixture(t)

	token, err := svc.Begin(user)
	require.NoError(t, err)

	wrong := "000000"
	if emails.LastCode() == wrong {
		wrong = "000001"
	}
	_, err = svc.VerifyOTP(token, wrong)
	assert.ErrorIs(t, err, services.ErrOTPInvalid)
}

func TestVerifyOTPRejectsExpiredCode(t *testing.T) {
	svc, attempts, _, emails, user := newLoginFixture(t)

	token, err := svc.Begin(user)
	require.NoError(t, err)
	code := emails.LastCode()

	attempt, err := attempts.GetByToken(token)
	require.NoError(t, err)
	attempt.OTPExpires = time.Now().Add(-time.Second)
	require.NoError(t, attempts.Update(attempt))

	_, err = svc.VerifyOTP(token, code)
	assert.ErrorIs(t, err, services.ErrOTPExpired)
}

func TestVerifyOTPRejectsUnknownToken(t *testing.T) {
	svc, _, _, _, _ := newLoginFixture(t)

	_, err := svc.VerifyOTP("deadbeef", "123456")
	assert.ErrorIs(t, err, services.ErrLoginExpired)
}

func TestResolveRequiresOTPStep(t *testing.T) {
	svc, _, _, emails, user := newLoginFixture(t)

	token, err := svc.Begin(user)
	require.NoError(t, err)

	// до verify-otp резолвить нельзя
	_, err = svc.Resolve(token)
	assert.ErrorIs(t, err, services.ErrWrongStage)

	_, err = svc.VerifyOTP(token, emails.LastCode())
	require.NoError(t, err)

	got, err := svc.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestCompleteConsumesAttempt(t *testing.T) {
	svc, attempts, _, emails, user := newLoginFixture(t)

	token, err := svc.Begin(user)
	require.NoError(t, err)
	_, err = svc.VerifyOTP(token, emails.LastCode())
	require.NoError(t, err)

	require.NoError(t, svc.Complete(token))
	assert.Equal(t, 0, attempts.Count())

	_, err = svc.Resolve(token)
	assert.ErrorIs(t, err, services.ErrLoginExpired)
}

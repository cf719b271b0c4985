package repositories

import (
	"database/sql"

	"todosync/internal/models"
)

type LoginAttemptRepository interface {
	Create(a *models.LoginAttempt) error
	GetByToken(token string) (*models.LoginAttempt, error)
	Update(a *models.LoginAttempt) error
	Delete(token string) error
	DeleteByUserID(userID int) error
}

type loginAttemptRepository struct {
	DB *sql.DB
}

func NewLoginAttemptRepository(db *sql.DB) LoginAttemptRepository {
	return &loginAttemptRepository{DB: db}
}

func (r *loginAttemptRepository) Create(a *models.LoginAttempt) error {
	const q = `
		INSERT INTO login_attempts (token, user_id, otp_hash, otp_expires, stage, expires_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW())
		RETURNING created_at
	`
	return r.DB.QueryRow(q,
		a.Token, a.UserID, a.OTPHash, a.OTPExpires, a.Stage, a.ExpiresAt,
	).Scan(&a.CreatedAt)
}

func (r *loginAttemptRepository) GetByToken(token string) (*models.LoginAttempt, error) {
	const q = `
		SELECT token, user_id, otp_hash, otp_expires, stage, expires_at, created_at
		FROM login_attempts
		WHERE token = $1
	`
	a := &models.LoginAttempt{}
	err := r.DB.QueryRow(q, token).Scan(
		&a.Token, &a.UserID, &a.OTPHash, &a.OTPExpires, &a.Stage, &a.ExpiresAt, &a.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

func (r *loginAttemptRepository) Update(a *models.LoginAttempt) error {
	const q = `
		UPDATE login_attempts
		SET otp_hash=$1, otp_expires=$2, stage=$3
		WHERE token=$4
	`
	_, err := r.DB.Exec(q, a.OTPHash, a.OTPExpires, a.Stage, a.Token)
	return err
}

func (r *loginAttemptRepository) Delete(token string) error {
	_, err := r.DB.Exec(`DELETE FROM login_attempts WHERE token=$1`, token)
	return err
}

// DeleteByUserID removes any pending attempts for the user. Called at login
// so only the newest attempt is ever valid.
func (r *loginAttemptRepository) DeleteByUserID(userID int) error {
	_, err := r.DB.Exec(`DELETE FROM login_attempts WHERE user_id=$1`, userID)
	return err
}

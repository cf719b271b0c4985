package repositories

import (
	"database/sql"

	"todosync/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id int) error

	// google link helpers
	GetByGoogleID(googleID string) (*models.User, error)
	UpdateGoogleLink(userID int, googleID, accessToken, refreshToken string) error
	UpdateGoogleTokens(userID int, accessToken, refreshToken string) error
	ClearGoogleTokens(userID int) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	id, email, password_hash, totp_secret,
	google_id, access_token, refresh_token, created_at
`

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (email, password_hash, totp_secret, created_at)
		VALUES ($1,$2,$3,NOW())
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q,
		user.Email,
		user.PasswordHash,
		user.TOTPSecret,
	).Scan(&user.ID, &user.CreatedAt)
}

func (r *userRepository) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var (
		gid sql.NullString
		at  sql.NullString
		rt  sql.NullString
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.TOTPSecret,
		&gid, &at, &rt, &u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if gid.Valid {
		s := gid.String
		u.GoogleID = &s
	}
	if at.Valid {
		s := at.String
		u.AccessToken = &s
	}
	if rt.Valid {
		s := rt.String
		u.RefreshToken = &s
	}
	return u, nil
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	return r.scanUser(r.DB.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	return r.scanUser(r.DB.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *userRepository) GetByGoogleID(googleID string) (*models.User, error) {
	return r.scanUser(r.DB.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE google_id = $1`, googleID))
}

func (r *userRepository) Update(user *models.User) error {
	const q = `
		UPDATE users
		SET email=$1, password_hash=$2, totp_secret=$3
		WHERE id=$4
	`
	_, err := r.DB.Exec(q, user.Email, user.PasswordHash, user.TOTPSecret, user.ID)
	return err
}

func (r *userRepository) Delete(id int) error {
	_, err := r.DB.Exec(`DELETE FROM users WHERE id=$1`, id)
	return err
}

// ===== google link helpers =====

func (r *userRepository) UpdateGoogleLink(userID int, googleID, accessToken, refreshToken string) error {
	const q = `
		UPDATE users
		SET google_id=$1, access_token=$2, refresh_token=$3
		WHERE id=$4
	`
	_, err := r.DB.Exec(q, googleID, accessToken, refreshToken, userID)
	return err
}

func (r *userRepository) UpdateGoogleTokens(userID int, accessToken, refreshToken string) error {
	const q = `
		UPDATE users
		SET access_token=$1, refresh_token=$2
		WHERE id=$3
	`
	_, err := r.DB.Exec(q, accessToken, refreshToken, userID)
	return err
}

func (r *userRepository) ClearGoogleTokens(userID int) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET access_token=NULL, refresh_token=NULL
		WHERE id=$1
	`, userID)
	return err
}

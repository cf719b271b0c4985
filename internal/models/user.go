package models

import "time"

type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // не отдаём наружу
	TOTPSecret   string `json:"-"` // base32, создаётся один раз при регистрации

	// Привязка Google-аккаунта (OAuth)
	GoogleID     *string `json:"-"`
	AccessToken  *string `json:"-"`
	RefreshToken *string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// HasCalendarAccess reports whether a Google credential is stored for the
// user, i.e. calendar sync is possible.
func (u *User) HasCalendarAccess() bool {
	return u.AccessToken != nil && *u.AccessToken != ""
}

type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

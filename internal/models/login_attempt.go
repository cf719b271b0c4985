package models

import "time"

// LoginAttemptStage tracks how far a pending login has progressed.
type LoginAttemptStage string

const (
	StagePasswordVerified LoginAttemptStage = "password" // OTP pending
	StageOTPVerified      LoginAttemptStage = "otp"      // TOTP pending
)

// LoginAttempt is the short-lived record bridging the three login steps.
// It is keyed by an opaque random token handed back at step 1, so OTP and
// TOTP verification are always scoped to the identity that passed the
// password check. One slot per user: a new login deletes older attempts.
type LoginAttempt struct {
	Token      string
	UserID     int
	OTPHash    string // bcrypt of the 6-digit code; cleared on use
	OTPExpires time.Time
	Stage      LoginAttemptStage
	ExpiresAt  time.Time // overall attempt lifetime
	CreatedAt  time.Time
}

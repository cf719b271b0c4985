package services

import "errors"

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordMismatch   = errors.New("passwords don't match")
)

// Login attempt / OTP errors
var (
	ErrOTPInvalid   = errors.New("invalid OTP")
	ErrOTPExpired   = errors.New("OTP has expired")
	ErrLoginExpired = errors.New("login attempt expired, please log in again")
	ErrWrongStage   = errors.New("login step out of order")
	ErrInvalidTOTP  = errors.New("invalid 2FA token")
	ErrDelivery     = errors.New("there was an error sending the otp, try again later")
)

// Token errors
var (
	ErrTokenInvalid = errors.New("invalid or expired token")
)

// Identity linking errors
var (
	ErrNoLinkableAccount = errors.New("no account found, please sign up first")
)

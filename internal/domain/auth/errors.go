package auth

import "errors"

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAccountInactive       = errors.New("account is not active")
	ErrEmployeeNotWorking    = errors.New("employee is no longer working")
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrTokenExpired          = errors.New("token has expired")
	ErrRefreshTokenRevoked   = errors.New("refresh token has been revoked")
	ErrOTPNotRequested       = errors.New("no passcode has been requested")
	ErrInvalidOTP            = errors.New("invalid passcode")
	ErrOTPExpired            = errors.New("passcode has expired")
	ErrOTPNotVerified        = errors.New("passcode has not been verified")
	ErrOTPAttemptsExceeded   = errors.New("too many wrong passcodes, request a new one")
	ErrEmailDelivery         = errors.New("failed to send passcode email")
	ErrOAuthDisabled         = errors.New("google sign-in is not configured")
	ErrGoogleEmailNotLinked  = errors.New("no employee is registered with this google account")
	ErrOAuthStateMismatch    = errors.New("oauth state is missing or does not match")
	ErrGoogleAccessDenied    = errors.New("google sign-in was cancelled")
	ErrGoogleEmailUnverified = errors.New("google account email is not verified")
)

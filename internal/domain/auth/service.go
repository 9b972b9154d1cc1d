package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (LoginResponse, error)
	LoginWithGoogle(ctx context.Context, email string, session SessionTrackingRequest) (LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, req RefreshTokenRequest, session SessionTrackingRequest) (TokenResponse, error)

	// ForgotPassword rotates the passcode and emails it.
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) error
	// ResetPassword consumes a verified passcode.
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error

	// SweepExpiredOTPs clears passcodes past their expiry.
	SweepExpiredOTPs(ctx context.Context) (int64, error)
	PurgeRefreshTokens(ctx context.Context) (int64, error)
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/auth"
	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/email"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/jwt"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/otp"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/password"
)

// MaxOTPAttempts is the number of wrong codes after which a passcode is discarded.
const MaxOTPAttempts = 5

type AuthServiceImpl struct {
	employee.EmployeeRepository
	auth.RefreshTokenRepository
	jwt.Service
	otp   *otp.Generator
	email email.EmailService
	now   func() time.Time
}

func NewAuthService(
	employeeRepository employee.EmployeeRepository,
	refreshTokenRepository auth.RefreshTokenRepository,
	jwtService jwt.Service,
	otpGenerator *otp.Generator,
	emailService email.EmailService,
) auth.AuthService {
	return &AuthServiceImpl{
		EmployeeRepository:     employeeRepository,
		RefreshTokenRepository: refreshTokenRepository,
		Service:                jwtService,
		otp:                    otpGenerator,
		email:                  emailService,
		now:                    time.Now,
	}
}

// issueTokens creates an access/refresh pair and stores the refresh token.
func (a *AuthServiceImpl) issueTokens(ctx context.Context, e employee.Employee, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var tokens auth.TokenResponse
	var err error

	tokens.AccessToken, tokens.AccessTokenExpiresIn, err = a.GenerateAccessToken(e.ID, e.Email, e.EmployeeID, e.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	tokens.RefreshToken, tokens.RefreshTokenExpiresIn, err = a.GenerateRefreshToken(e.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	expiresAt := time.Unix(tokens.RefreshTokenExpiresIn, 0)
	if err := a.CreateRefreshToken(ctx, e.ID, tokens.RefreshToken, expiresAt, session); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to save refresh token: %w", err)
	}
	return tokens, nil
}

// checkCanSignIn rejects inactive and departed employees.
func checkCanSignIn(e employee.Employee) error {
	if e.AccountStatus != employee.AccountStatusActive {
		return auth.ErrAccountInactive
	}
	if !e.IsWorking {
		return auth.ErrEmployeeNotWorking
	}
	return nil
}

// lookup resolves an identifier that is either an email address or an employee code.
func (a *AuthServiceImpl) lookup(ctx context.Context, identifier string) (employee.Employee, error) {
	if strings.Contains(identifier, "@") {
		return a.GetByEmail(ctx, identifier)
	}
	return a.GetByEmployeeID(ctx, identifier)
}

func (a *AuthServiceImpl) signIn(ctx context.Context, e employee.Employee, session auth.SessionTrackingRequest) (auth.LoginResponse, error) {
	tokens, err := a.issueTokens(ctx, e, session)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	now := a.now().UTC()
	if err := a.UpdateLastLogin(ctx, e.ID, now); err != nil {
		slog.Warn("failed to record last login", "employee_id", e.EmployeeID, "error", err)
	} else {
		e.LastLoginAt = &now
	}

	return auth.LoginResponse{
		TokenResponse: tokens,
		Employee:      employee.NewEmployeeResponse(e),
	}, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.LoginResponse, error) {
	e, err := a.lookup(ctx, req.LoginIdentifier())
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if err := checkCanSignIn(e); err != nil {
		return auth.LoginResponse{}, err
	}

	if err := password.Compare(e.Credentials.PasswordHash, req.Password); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to compare password: %w", err)
	}

	return a.signIn(ctx, e, session)
}

// LoginWithGoogle implements auth.AuthService. Only existing employees may
// sign in; Google accounts never create records.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, googleEmail string, session auth.SessionTrackingRequest) (auth.LoginResponse, error) {
	e, err := a.GetByEmail(ctx, googleEmail)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.LoginResponse{}, auth.ErrGoogleEmailNotLinked
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if err := checkCanSignIn(e); err != nil {
		return auth.LoginResponse{}, err
	}

	return a.signIn(ctx, e, session)
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := a.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// RefreshToken implements auth.AuthService. The presented token is revoked
// and replaced.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	employeeID, err := a.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}

	revoked, err := a.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if revoked {
		return auth.TokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	e, err := a.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidToken
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if err := checkCanSignIn(e); err != nil {
		return auth.TokenResponse{}, err
	}

	if err := a.RevokeRefreshToken(ctx, req.RefreshToken); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return a.issueTokens(ctx, e, session)
}

// ForgotPassword implements auth.AuthService.
func (a *AuthServiceImpl) ForgotPassword(ctx context.Context, req auth.ForgotPasswordRequest) error {
	e, err := a.GetByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if e.AccountStatus != employee.AccountStatusActive {
		return auth.ErrAccountInactive
	}

	passcode, err := a.otp.Issue(e.Email)
	if err != nil {
		return err
	}
	if err := a.SetOTP(ctx, e.ID, passcode.Secret, passcode.IssuedAt, passcode.ExpiresAt); err != nil {
		return fmt.Errorf("failed to store passcode: %w", err)
	}

	if err := a.email.SendPasswordResetOTP(ctx, e.Email, e.EmployeeName, passcode.Code, a.otp.TTL()); err != nil {
		slog.Error("failed to send password reset email", "employee_id", e.EmployeeID, "error", err)
		if clearErr := a.ClearOTP(ctx, e.ID); clearErr != nil {
			slog.Error("failed to clear undelivered passcode", "employee_id", e.EmployeeID, "error", clearErr)
		}
		return auth.ErrEmailDelivery
	}

	slog.Info("password reset passcode sent", "employee_id", e.EmployeeID, "expires_at", passcode.ExpiresAt)
	return nil
}

// checkPasscode validates code against the stored passcode. The passcode is
// cleared once expired or after MaxOTPAttempts wrong codes.
func (a *AuthServiceImpl) checkPasscode(ctx context.Context, e employee.Employee, code string) error {
	c := e.Credentials
	if !c.HasActiveOTP() {
		return auth.ErrOTPNotRequested
	}

	err := a.otp.Verify(code, *c.OTPSecret, *c.OTPIssuedAt, *c.OTPExpiresAt)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, otp.ErrExpired):
		if clearErr := a.ClearOTP(ctx, e.ID); clearErr != nil {
			slog.Error("failed to clear expired passcode", "employee_id", e.EmployeeID, "error", clearErr)
		}
		return auth.ErrOTPExpired
	case errors.Is(err, otp.ErrMismatch):
		attempts, recErr := a.RecordOTPFailure(ctx, e.ID)
		if recErr != nil {
			return fmt.Errorf("failed to record passcode failure: %w", recErr)
		}
		if attempts < MaxOTPAttempts {
			return auth.ErrInvalidOTP
		}
		if clearErr := a.ClearOTP(ctx, e.ID); clearErr != nil {
			return fmt.Errorf("failed to clear passcode: %w", clearErr)
		}
		slog.Warn("passcode discarded after repeated failures", "employee_id", e.EmployeeID, "attempts", attempts)
		return auth.ErrOTPAttemptsExceeded
	default:
		return err
	}
}

// VerifyOTP implements auth.AuthService.
func (a *AuthServiceImpl) VerifyOTP(ctx context.Context, req auth.VerifyOTPRequest) error {
	var e employee.Employee
	var err error
	if req.Email != "" {
		e, err = a.GetByEmail(ctx, req.Email)
	} else {
		e, err = a.GetByEmployeeID(ctx, req.EmployeeID)
	}
	if err != nil {
		return err
	}

	if err := a.checkPasscode(ctx, e, req.OTP); err != nil {
		return err
	}
	return a.MarkOTPVerified(ctx, e.ID)
}

// ResetPassword implements auth.AuthService.
func (a *AuthServiceImpl) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error {
	e, err := a.GetByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if e.AccountStatus != employee.AccountStatusActive {
		return auth.ErrAccountInactive
	}

	if !e.Credentials.HasActiveOTP() {
		return auth.ErrOTPNotRequested
	}
	if !e.Credentials.IsOTPVerified {
		return auth.ErrOTPNotVerified
	}
	if err := a.checkPasscode(ctx, e, req.OTP); err != nil {
		return err
	}

	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// consume the passcode first so it cannot be replayed
	if err := a.ClearOTP(ctx, e.ID); err != nil {
		return fmt.Errorf("failed to clear passcode: %w", err)
	}
	if err := a.UpdatePassword(ctx, e.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := a.RevokeAllForEmployee(ctx, e.ID); err != nil {
		slog.Warn("failed to revoke sessions after password reset", "employee_id", e.EmployeeID, "error", err)
	}

	slog.Info("password reset", "employee_id", e.EmployeeID)
	return nil
}

// SweepExpiredOTPs implements auth.AuthService.
func (a *AuthServiceImpl) SweepExpiredOTPs(ctx context.Context) (int64, error) {
	return a.ClearExpiredOTPs(ctx, a.now())
}

// PurgeRefreshTokens implements auth.AuthService.
func (a *AuthServiceImpl) PurgeRefreshTokens(ctx context.Context) (int64, error) {
	return a.DeleteExpired(ctx, a.now())
}

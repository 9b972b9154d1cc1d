package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/auth"
	"github.com/ddhealthcare/hrms-backend-go/internal/handler/http/response"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/jwt"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/oauth"
)

const oauthStateTTL = 10 * time.Minute

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	LoginWithGoogle(w http.ResponseWriter, r *http.Request)
	OAuthCallbackGoogle(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
	ForgotPassword(w http.ResponseWriter, r *http.Request)
	VerifyOTP(w http.ResponseWriter, r *http.Request)
	ResetPassword(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService    jwt.Service
	authService   auth.AuthService
	googleService oauth.GoogleService
	secureCookies bool
}

func sessionFromRequest(r *http.Request) auth.SessionTrackingRequest {
	return auth.SessionTrackingRequest{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest
	if !decodeJSON(w, r, &loginReq) {
		return
	}

	if err := loginReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	loginResp, err := a.authService.Login(r.Context(), loginReq, sessionFromRequest(r))
	if err != nil {
		slog.Warn("login failed", "identifier", loginReq.LoginIdentifier(), "error", err)
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(loginResp.RefreshToken, loginResp.RefreshTokenExpiresIn))
	slog.Info("employee logged in", "employee_id", loginResp.Employee.EmployeeID)
	response.SuccessWithMessage(w, "Login successful", loginResp)
}

// ForgotPassword implements AuthHandler.
func (a *AuthHandlerImpl) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var forgotPasswordReq auth.ForgotPasswordRequest
	if !decodeJSON(w, r, &forgotPasswordReq) {
		return
	}

	if err := forgotPasswordReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := a.authService.ForgotPassword(r.Context(), forgotPasswordReq); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "A passcode has been sent to your email", nil)
}

// VerifyOTP implements AuthHandler.
func (a *AuthHandlerImpl) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var verifyReq auth.VerifyOTPRequest
	if !decodeJSON(w, r, &verifyReq) {
		return
	}

	if err := verifyReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := a.authService.VerifyOTP(r.Context(), verifyReq); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Passcode verified", nil)
}

// ResetPassword implements AuthHandler.
func (a *AuthHandlerImpl) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var resetPasswordReq auth.ResetPasswordRequest
	if !decodeJSON(w, r, &resetPasswordReq) {
		return
	}

	if err := resetPasswordReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := a.authService.ResetPassword(r.Context(), resetPasswordReq); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Password has been reset successfully", nil)
}

// Logout implements AuthHandler. It always succeeds from the client's point of view.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(jwt.RefreshTokenCookieName); err == nil && cookie.Value != "" {
		if err := a.authService.Logout(r.Context(), cookie.Value); err != nil {
			slog.Error("failed to revoke refresh token on logout", "error", err)
		}
	}

	http.SetCookie(w, a.jwtService.ClearRefreshTokenCookie())
	response.SuccessWithMessage(w, "Logged out successfully", nil)
}

// RefreshToken implements AuthHandler.
func (a *AuthHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var refreshTokenReq auth.RefreshTokenRequest

	// cookie first, JSON body as a fallback for non-browser clients
	if cookie, err := r.Cookie(jwt.RefreshTokenCookieName); err == nil && cookie.Value != "" {
		refreshTokenReq.RefreshToken = cookie.Value
	} else if r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodySize)).Decode(&refreshTokenReq); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	if err := refreshTokenReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	tokenResp, err := a.authService.RefreshToken(r.Context(), refreshTokenReq, sessionFromRequest(r))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrRefreshTokenRevoked) {
			http.SetCookie(w, a.jwtService.ClearRefreshTokenCookie())
		}
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(tokenResp.RefreshToken, tokenResp.RefreshTokenExpiresIn))
	response.SuccessWithMessage(w, "Token refreshed successfully", tokenResp)
}

// LoginWithGoogle implements AuthHandler.
func (a *AuthHandlerImpl) LoginWithGoogle(w http.ResponseWriter, r *http.Request) {
	if a.googleService == nil {
		response.HandleError(w, auth.ErrOAuthDisabled)
		return
	}

	state, err := a.googleService.GenerateState()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauth.StateCookieName,
		Value:    state,
		Path:     "/api",
		MaxAge:   int(oauthStateTTL.Seconds()),
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, a.googleService.RedirectURL(state), http.StatusTemporaryRedirect)
}

// OAuthCallbackGoogle implements AuthHandler.
func (a *AuthHandlerImpl) OAuthCallbackGoogle(w http.ResponseWriter, r *http.Request) {
	if a.googleService == nil {
		response.HandleError(w, auth.ErrOAuthDisabled)
		return
	}

	var stateCookie string
	if cookie, err := r.Cookie(oauth.StateCookieName); err == nil {
		stateCookie = cookie.Value
	}
	http.SetCookie(w, &http.Cookie{
		Name:     oauth.StateCookieName,
		Value:    "",
		Path:     "/api",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	query := r.URL.Query()
	if query.Get("error") != "" {
		response.HandleError(w, auth.ErrGoogleAccessDenied)
		return
	}
	if !oauth.StateMatches(stateCookie, query.Get("state")) {
		response.HandleError(w, auth.ErrOAuthStateMismatch)
		return
	}

	code := query.Get("code")
	if code == "" {
		response.BadRequest(w, "Missing authorization code", nil)
		return
	}

	token, err := a.googleService.Exchange(r.Context(), code)
	if err != nil {
		slog.Error("google code exchange failed", "error", err)
		response.Unauthorized(w, "Google sign-in failed")
		return
	}

	profile, err := a.googleService.Profile(r.Context(), token)
	if err != nil {
		if errors.Is(err, oauth.ErrEmailNotVerified) {
			response.HandleError(w, auth.ErrGoogleEmailUnverified)
			return
		}
		slog.Error("google profile lookup failed", "error", err)
		response.Unauthorized(w, "Google sign-in failed")
		return
	}

	loginResp, err := a.authService.LoginWithGoogle(r.Context(), profile.Email, sessionFromRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(loginResp.RefreshToken, loginResp.RefreshTokenExpiresIn))
	slog.Info("employee logged in via google", "employee_id", loginResp.Employee.EmployeeID)
	response.SuccessWithMessage(w, "Login successful", loginResp)
}

// NewAuthHandler builds the handler. googleService may be nil when Google
// sign-in is not configured.
func NewAuthHandler(jwtService jwt.Service, authService auth.AuthService, googleService oauth.GoogleService, secureCookies bool) AuthHandler {
	return &AuthHandlerImpl{
		jwtService:    jwtService,
		authService:   authService,
		googleService: googleService,
		secureCookies: secureCookies,
	}
}

package jwt

import (
	"net/http"
	"testing"
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour, 24*time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken("emp-1", "asha@example.com", "DD001", employee.RoleHRAdmin)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	claims, err := parsed.AsMap(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "emp-1", claims["user_id"])
	assert.Equal(t, "DD001", claims["employee_id"])
	assert.Equal(t, "HR-Admin", claims["role"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestParseRefreshToken(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour, 24*time.Hour)

	refresh, _, err := svc.GenerateRefreshToken("emp-1")
	require.NoError(t, err)

	id, err := svc.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", id)

	access, _, err := svc.GenerateAccessToken("emp-1", "asha@example.com", "DD001", employee.RoleEmployee)
	require.NoError(t, err)
	_, err = svc.ParseRefreshToken(access)
	assert.Error(t, err, "access tokens must not be accepted as refresh tokens")

	other := NewJWTService("another-secret", time.Hour, 24*time.Hour)
	_, err = other.ParseRefreshToken(refresh)
	assert.Error(t, err)
}

func TestRefreshTokenCookie(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour, 24*time.Hour, WithCookie("/api/auth", true))

	cookie := svc.RefreshTokenCookie("tok", time.Now().Add(time.Hour).Unix())
	assert.Equal(t, RefreshTokenCookieName, cookie.Name)
	assert.Equal(t, "/api/auth", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)

	cleared := svc.ClearRefreshTokenCookie()
	assert.Empty(t, cleared.Value)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestClaimsFromContext(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour, 24*time.Hour)

	_, err := ClaimsFromContext(t.Context())
	assert.ErrorIs(t, err, ErrMissingClaims)

	token, _, err := svc.GenerateAccessToken("emp-1", "asha@example.com", "DD001", employee.RoleManager)
	require.NoError(t, err)

	ctx, err := ContextWithToken(t.Context(), svc.JWTAuth(), token)
	require.NoError(t, err)

	claims, err := ClaimsFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, Claims{UserID: "emp-1", Email: "asha@example.com", EmployeeID: "DD001", Role: employee.RoleManager}, claims)
}

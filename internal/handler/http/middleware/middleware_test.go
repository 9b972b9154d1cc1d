package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(svc jwt.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(svc.JWTAuth()))
	r.Use(AuthRequired)
	r.Get("/open", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	r.With(RequirePermission(employee.PermissionEmployeeManage)).
		Get("/manage", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	return r
}

func call(h http.Handler, path, token string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestAuthRequiredAndPermissions(t *testing.T) {
	svc := jwt.NewJWTService("test-secret-key-for-jwt", time.Hour, 24*time.Hour)
	h := newProtectedRouter(svc)

	staff, _, err := svc.GenerateAccessToken("id-1", "a@ddhealthcare.in", "DD001", employee.RoleEmployee)
	require.NoError(t, err)
	hr, _, err := svc.GenerateAccessToken("id-2", "b@ddhealthcare.in", "DD002", employee.RoleHRAdmin)
	require.NoError(t, err)
	refresh, _, err := svc.GenerateRefreshToken("id-1")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, call(h, "/open", ""))
	assert.Equal(t, http.StatusUnauthorized, call(h, "/open", "not-a-token"))
	assert.Equal(t, http.StatusUnauthorized, call(h, "/open", refresh))
	assert.Equal(t, http.StatusNoContent, call(h, "/open", staff))

	assert.Equal(t, http.StatusForbidden, call(h, "/manage", staff))
	assert.Equal(t, http.StatusNoContent, call(h, "/manage", hr))
}

func TestRateLimitByIP(t *testing.T) {
	h := RateLimitByIP(2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, send())
	assert.Equal(t, http.StatusNoContent, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

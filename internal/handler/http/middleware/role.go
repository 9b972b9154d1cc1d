package middleware

import (
	"fmt"
	"net/http"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	"github.com/ddhealthcare/hrms-backend-go/internal/handler/http/response"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/jwt"
)

// RequirePermission checks the role in the access token against the permission table.
func RequirePermission(permission employee.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := jwt.ClaimsFromContext(r.Context())
			if err != nil {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			if !employee.HasPermission(claims.Role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but role is '%s'", permission, claims.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

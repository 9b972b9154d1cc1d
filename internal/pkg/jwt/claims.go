package jwt

import (
	"context"
	"errors"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	"github.com/go-chi/jwtauth/v5"
)

var ErrMissingClaims = errors.New("access token claims missing from context")

// Claims is the identity carried by an access token.
type Claims struct {
	UserID     string
	Email      string
	EmployeeID string
	Role       employee.Role
}

// ClaimsFromContext reads the claims jwtauth.Verifier stored on ctx.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return Claims{}, ErrMissingClaims
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return Claims{}, ErrMissingClaims
	}
	email, _ := claims["email"].(string)
	employeeID, _ := claims["employee_id"].(string)
	role, _ := claims["role"].(string)

	return Claims{
		UserID:     userID,
		Email:      email,
		EmployeeID: employeeID,
		Role:       employee.Role(role),
	}, nil
}

// ContextWithToken verifies a token and stores it on ctx the way
// jwtauth.Verifier does. Used by jobs and tests that call services directly.
func ContextWithToken(ctx context.Context, ja *jwtauth.JWTAuth, tokenString string) (context.Context, error) {
	token, err := jwtauth.VerifyToken(ja, tokenString)
	if err != nil {
		return ctx, err
	}
	return jwtauth.NewContext(ctx, token, nil), nil
}

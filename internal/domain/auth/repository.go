package auth

import (
	"context"
	"time"
)

// RefreshTokenRepository persists hashed refresh tokens.
type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, employeeID string, token string, expiresAt time.Time, session SessionTrackingRequest) error
	// IsRefreshTokenRevoked is true for unknown, revoked or expired tokens.
	IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error)
	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeAllForEmployee(ctx context.Context, employeeID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

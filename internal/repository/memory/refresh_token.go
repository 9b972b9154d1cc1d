package memory

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"sync"
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/auth"
)

type refreshToken struct {
	employeeID string
	expiresAt  time.Time
	revokedAt  *time.Time
	session    auth.SessionTrackingRequest
}

type refreshTokenRepositoryImpl struct {
	mu     sync.Mutex
	tokens map[string]refreshToken
	now    func() time.Time
}

func NewRefreshTokenRepository() auth.RefreshTokenRepository {
	return &refreshTokenRepositoryImpl{
		tokens: make(map[string]refreshToken),
		now:    time.Now,
	}
}

func hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.StdEncoding.EncodeToString(hash[:])
}

func (r *refreshTokenRepositoryImpl) CreateRefreshToken(ctx context.Context, employeeID string, token string, expiresAt time.Time, session auth.SessionTrackingRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[hashToken(token)] = refreshToken{employeeID: employeeID, expiresAt: expiresAt, session: session}
	return nil
}

func (r *refreshTokenRepositoryImpl) IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[hashToken(token)]
	if !ok {
		return true, nil
	}
	return t.revokedAt != nil || !t.expiresAt.After(r.now()), nil
}

func (r *refreshTokenRepositoryImpl) RevokeRefreshToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := hashToken(token)
	if t, ok := r.tokens[h]; ok && t.revokedAt == nil {
		now := r.now()
		t.revokedAt = &now
		r.tokens[h] = t
	}
	return nil
}

func (r *refreshTokenRepositoryImpl) RevokeAllForEmployee(ctx context.Context, employeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for h, t := range r.tokens {
		if t.employeeID == employeeID && t.revokedAt == nil {
			t.revokedAt = &now
			r.tokens[h] = t
		}
	}
	return nil
}

func (r *refreshTokenRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for h, t := range r.tokens {
		if t.revokedAt != nil || !t.expiresAt.After(now) {
			delete(r.tokens, h)
			n++
		}
	}
	return n, nil
}

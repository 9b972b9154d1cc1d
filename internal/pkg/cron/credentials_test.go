package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthService struct {
	auth.AuthService
	swept, purged int64
	err           error
}

func (f *fakeAuthService) SweepExpiredOTPs(ctx context.Context) (int64, error) {
	return f.swept, f.err
}

func (f *fakeAuthService) PurgeRefreshTokens(ctx context.Context) (int64, error) {
	return f.purged, f.err
}

func TestCredentialJobs(t *testing.T) {
	svc := &fakeAuthService{swept: 2, purged: 5}
	s := NewScheduler(context.Background())
	NewCredentialJobs(svc, 5*time.Minute).RegisterJobs(s)

	s.RunOnce(context.Background())

	status := s.Status()
	require.Len(t, status, 2)
	assert.Equal(t, "sweep_expired_otps", status[0].Name)
	assert.Equal(t, "5m0s", status[0].Interval)
	assert.Equal(t, "purge_refresh_tokens", status[1].Name)
	assert.Equal(t, "1h0m0s", status[1].Interval)
	for _, st := range status {
		assert.EqualValues(t, 1, st.Runs)
		assert.Zero(t, st.Failures)
	}

	svc.err = errors.New("database unavailable")
	s.RunOnce(context.Background())
	assert.EqualValues(t, 1, s.Status()[0].Failures)
}

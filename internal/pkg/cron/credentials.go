package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/auth"
)

const refreshTokenPurgeInterval = time.Hour

// CredentialJobs keeps passcodes and refresh tokens from piling up.
type CredentialJobs struct {
	authService   auth.AuthService
	otpSweepEvery time.Duration
}

func NewCredentialJobs(authService auth.AuthService, otpSweepEvery time.Duration) *CredentialJobs {
	return &CredentialJobs{
		authService:   authService,
		otpSweepEvery: otpSweepEvery,
	}
}

func (j *CredentialJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name:     "sweep_expired_otps",
		Interval: j.otpSweepEvery,
		Fn:       j.SweepExpiredOTPs,
	})

	scheduler.AddJob(Job{
		Name:     "purge_refresh_tokens",
		Interval: refreshTokenPurgeInterval,
		Timeout:  time.Minute,
		Fn:       j.PurgeRefreshTokens,
	})
}

// SweepExpiredOTPs clears passcodes whose expiry has passed.
func (j *CredentialJobs) SweepExpiredOTPs(ctx context.Context) error {
	n, err := j.authService.SweepExpiredOTPs(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("expired passcodes cleared", "count", n)
	}
	return nil
}

// PurgeRefreshTokens deletes expired and revoked refresh tokens.
func (j *CredentialJobs) PurgeRefreshTokens(ctx context.Context) error {
	n, err := j.authService.PurgeRefreshTokens(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("refresh tokens purged", "count", n)
	}
	return nil
}

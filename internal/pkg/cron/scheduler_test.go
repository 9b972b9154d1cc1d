package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsJobsUntilStopped(t *testing.T) {
	var runs atomic.Int64
	s := NewScheduler(context.Background())
	s.AddJob(Job{
		Name:     "tick",
		Interval: 10 * time.Millisecond,
		Fn: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	s.Start()
	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	stopped := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
}

func TestScheduler_RecordsStatus(t *testing.T) {
	s := NewScheduler(context.Background())
	s.AddJob(Job{Name: "ok", Interval: time.Hour, Fn: func(ctx context.Context) error { return nil }})
	s.AddJob(Job{Name: "broken", Interval: time.Hour, Fn: func(ctx context.Context) error { return errors.New("boom") }})

	s.RunOnce(context.Background())
	s.RunOnce(context.Background())

	status := s.Status()
	require.Len(t, status, 2)
	assert.Equal(t, "ok", status[0].Name)
	assert.EqualValues(t, 2, status[0].Runs)
	assert.Zero(t, status[0].Failures)
	assert.NotNil(t, status[0].LastRunAt)

	assert.EqualValues(t, 2, status[1].Failures)
	assert.Equal(t, "boom", status[1].LastError)
}

func TestScheduler_JobTimeout(t *testing.T) {
	s := NewScheduler(context.Background())
	s.AddJob(Job{
		Name:     "slow",
		Interval: time.Hour,
		Timeout:  10 * time.Millisecond,
		Fn: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	})

	s.RunOnce(context.Background())
	assert.Equal(t, context.DeadlineExceeded.Error(), s.Status()[0].LastError)
}

func TestScheduler_SkipInitialRun(t *testing.T) {
	var runs atomic.Int64
	s := NewScheduler(context.Background())
	s.AddJob(Job{
		Name:           "later",
		Interval:       time.Hour,
		SkipInitialRun: true,
		Fn: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()
	assert.Zero(t, runs.Load())
}

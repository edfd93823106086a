package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/scorecard/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	failures int32
	calls    atomic.Int32
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(context.Context) error {
	if j.calls.Add(1) <= j.failures {
		return errors.New("boom")
	}
	return nil
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(logger.Nop())

	require.NoError(t, s.AddJob(&fakeJob{name: "b", schedule: "0 30 16 * * 1-5"}))
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@hourly"}))

	err := s.AddJob(&fakeJob{name: "a", schedule: "@hourly"})
	assert.EqualError(t, err, "job a already exists")

	err = s.AddJob(&fakeJob{name: "bad", schedule: "not a cron"})
	assert.ErrorContains(t, err, "failed to schedule job bad")

	assert.Equal(t, []string{"a", "b"}, s.GetAllJobs())
}

func TestScheduler_RunJobRetries(t *testing.T) {
	s := New(logger.Nop(), WithRetry(1, time.Millisecond))

	flaky := &fakeJob{name: "flaky", schedule: "@daily", failures: 1}
	broken := &fakeJob{name: "broken", schedule: "@daily", failures: 10}
	require.NoError(t, s.AddJob(flaky))
	require.NoError(t, s.AddJob(broken))

	res, err := s.RunJob(context.Background(), "flaky")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, res.Error)
	assert.Equal(t, int32(2), flaky.calls.Load())

	res, err = s.RunJob(context.Background(), "broken")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "boom", res.Error)
	assert.Equal(t, int32(2), broken.calls.Load())

	_, err = s.RunJob(context.Background(), "missing")
	assert.EqualError(t, err, "job missing not found")
}

func TestScheduler_RunJobStopsOnCancel(t *testing.T) {
	s := New(logger.Nop(), WithRetry(5, time.Hour))
	job := &fakeJob{name: "slow", schedule: "@daily", failures: 10}
	require.NoError(t, s.AddJob(job))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.RunJob(ctx, "slow")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, context.Canceled.Error())
	assert.Equal(t, int32(1), job.calls.Load())
}

func TestScheduler_Stats(t *testing.T) {
	s := New(logger.Nop(), WithRetry(0, 0))
	ok := &fakeJob{name: "ok", schedule: "@daily"}
	bad := &fakeJob{name: "bad", schedule: "@daily", failures: 1}
	require.NoError(t, s.AddJob(ok))
	require.NoError(t, s.AddJob(bad))

	_, _ = s.RunJob(context.Background(), "ok")
	_, _ = s.RunJob(context.Background(), "bad")
	_, _ = s.RunJob(context.Background(), "bad")

	stats := s.GetJobStats()
	require.Len(t, stats, 2)

	assert.Equal(t, 1, stats["ok"].TotalRuns)
	assert.Equal(t, 1.0, stats["ok"].SuccessRate)
	assert.NotNil(t, stats["ok"].LastSuccess)
	assert.Nil(t, stats["ok"].LastFailure)

	assert.Equal(t, 2, stats["bad"].TotalRuns)
	assert.Equal(t, 1, stats["bad"].FailureCount)
	assert.Equal(t, 0.5, stats["bad"].SuccessRate)
	assert.NotNil(t, stats["bad"].LastSuccess)

	history, err := s.GetJobHistory("bad")
	require.NoError(t, err)
	require.Len(t, history.Results, 2)
	assert.False(t, history.Results[0].Success)
	assert.True(t, history.Results[1].Success)
}

func TestScheduler_RemoveJob(t *testing.T) {
	s := New(logger.Nop(), WithRetry(0, 0))
	require.NoError(t, s.AddJob(&fakeJob{name: "x", schedule: "@daily"}))
	_, _ = s.RunJob(context.Background(), "x")

	require.NoError(t, s.RemoveJob("x"))
	assert.Empty(t, s.GetAllJobs())
	assert.EqualError(t, s.RemoveJob("x"), "job x not found")

	history, err := s.GetJobHistory("x")
	require.NoError(t, err)
	assert.Len(t, history.Results, 1)
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(logger.Nop(), WithRetry(0, 0))
	job := &fakeJob{name: "tick", schedule: "* * * * * *"}
	require.NoError(t, s.AddJob(job))

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return job.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	s.Stop()

	stats := s.GetJobStats()
	assert.GreaterOrEqual(t, stats["tick"].TotalRuns, 1)
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	assert.Equal(t, 0.0, h.GetSuccessRate())
	assert.Empty(t, h.GetLatestResults(3))

	for i := 0; i < historyLimit+5; i++ {
		h.AddResult(JobResult{JobName: "j", Success: i%2 == 0})
	}

	assert.Len(t, h.Results, historyLimit)
	assert.Len(t, h.GetLatestResults(3), 3)
	assert.Len(t, h.GetFailedResults(), historyLimit/2)
	assert.InDelta(t, 0.5, h.GetSuccessRate(), 1e-9)
}

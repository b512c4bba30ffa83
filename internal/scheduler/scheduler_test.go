package scheduler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/compass/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	failures int // fail this many runs before succeeding
	runs     int
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(ctx context.Context) error {
	j.runs++
	if j.runs <= j.failures {
		return errors.New("transient failure")
	}
	return nil
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(logger.NewNop())

	job := &fakeJob{name: "demo", schedule: "0 0 * * * *"}
	require.NoError(t, s.AddJob(job))

	err := s.AddJob(&fakeJob{name: "demo", schedule: "0 0 * * * *"})
	assert.Error(t, err, "duplicate names are rejected")

	err = s.AddJob(&fakeJob{name: "broken", schedule: "not-a-cron-spec"})
	assert.Error(t, err)
}

func TestScheduler_RunJob(t *testing.T) {
	s := New(logger.NewNop())
	s.retryDelay = time.Millisecond

	job := &fakeJob{name: "demo", schedule: "0 0 * * * *"}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("demo"))
	assert.Equal(t, 1, job.runs)

	history, err := s.History("demo")
	require.NoError(t, err)
	require.Len(t, history.Results, 1)
	assert.True(t, history.Results[0].Success)
	assert.Equal(t, 1.0, history.SuccessRate())

	assert.Error(t, s.RunJob("missing"))
}

func TestScheduler_RunJobRetries(t *testing.T) {
	s := New(logger.NewNop())
	s.retryDelay = time.Millisecond

	job := &fakeJob{name: "flaky", schedule: "0 0 * * * *", failures: 2}
	require.NoError(t, s.AddJob(job))
	require.NoError(t, s.RunJob("flaky"))

	assert.Equal(t, 3, job.runs, "two failures, then success")

	history, err := s.History("flaky")
	require.NoError(t, err)
	require.Len(t, history.Results, 1)
	assert.True(t, history.Results[0].Success, "retries absorbed the failures")
}

func TestScheduler_RunJobExhaustsRetries(t *testing.T) {
	s := New(logger.NewNop())
	s.retryDelay = time.Millisecond
	s.maxRetries = 1

	job := &fakeJob{name: "doomed", schedule: "0 0 * * * *", failures: 10}
	require.NoError(t, s.AddJob(job))
	require.NoError(t, s.RunJob("doomed"))

	assert.Equal(t, 2, job.runs, "initial attempt plus one retry")

	history, err := s.History("doomed")
	require.NoError(t, err)
	require.Len(t, history.Results, 1)
	assert.False(t, history.Results[0].Success)
	assert.Equal(t, "transient failure", history.Results[0].Error)
	assert.Equal(t, 0.0, history.SuccessRate())
}

func TestScheduler_RetryLogOnlyBeforeRetry(t *testing.T) {
	var buf bytes.Buffer
	s := New(logger.New(logger.Options{Level: "warn", Output: &buf}))
	s.retryDelay = time.Millisecond
	s.maxRetries = 1

	job := &fakeJob{name: "doomed", schedule: "0 0 * * * *", failures: 10}
	require.NoError(t, s.AddJob(job))
	require.NoError(t, s.RunJob("doomed"))

	logs := buf.String()
	assert.Equal(t, 1, strings.Count(logs, "Job execution failed, retrying"),
		"the final attempt has no retry to announce")
	assert.Equal(t, 1, strings.Count(logs, "Job failed after all retries"))
}

func TestJobHistory_Trim(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < historyLimit+10; i++ {
		h.AddResult(JobResult{JobName: "demo", Success: true})
	}
	assert.Len(t, h.Results, historyLimit)
}

func TestScheduler_History_Unknown(t *testing.T) {
	s := New(logger.NewNop())
	_, err := s.History("nope")
	assert.Error(t, err)
}

package scheduler

import (
	"context"
	"time"
)

// Job is a scheduled unit of work.
type Job interface {
	Name() string
	Schedule() string // cron spec with seconds
	Run(ctx context.Context) error
}

// JobResult records one execution.
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// JobHistory keeps the most recent results for one job.
type JobHistory struct {
	Results []JobResult `json:"results"`
}

// historyLimit caps retained results per job.
const historyLimit = 50

// AddResult appends a result, trimming the oldest beyond the limit.
func (h *JobHistory) AddResult(r JobResult) {
	h.Results = append(h.Results, r)
	if len(h.Results) > historyLimit {
		h.Results = h.Results[len(h.Results)-historyLimit:]
	}
}

// SuccessRate returns the fraction of successful runs.
func (h *JobHistory) SuccessRate() float64 {
	if len(h.Results) == 0 {
		return 0
	}
	ok := 0
	for _, r := range h.Results {
		if r.Success {
			ok++
		}
	}
	return float64(ok) / float64(len(h.Results))
}

// Package jobs contains the periodic maintenance jobs run by the worker
// process.
package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yoursocial/yoursocial/pkg/logging"
)

// Job is a named unit of periodic work
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// scheduled pairs a job with its interval
type scheduled struct {
	job      Job
	interval time.Duration
}

// Runner drives each registered job on its own ticker until the context
// is cancelled. Job failures are logged; the schedule continues.
type Runner struct {
	jobs   []scheduled
	logger *zap.Logger
}

// NewRunner creates an empty runner
func NewRunner() *Runner {
	return &Runner{
		logger: logging.GetLogger().With(zap.String("component", "jobs")),
	}
}

// Register adds a job to the schedule
func (r *Runner) Register(job Job, interval time.Duration) {
	r.jobs = append(r.jobs, scheduled{job: job, interval: interval})
}

// Run executes every job once immediately, then on its interval, until
// the context is cancelled
func (r *Runner) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, s := range r.jobs {
		wg.Add(1)
		go func(s scheduled) {
			defer wg.Done()
			r.loop(ctx, s)
		}(s)
	}
	wg.Wait()
	return ctx.Err()
}

func (r *Runner) loop(ctx context.Context, s scheduled) {
	logger := r.logger.With(zap.String("job", s.job.Name()))
	logger.Info("Job scheduled", zap.Duration("interval", s.interval))

	r.runOnce(ctx, s.job, logger)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Job stopped")
			return
		case <-ticker.C:
			r.runOnce(ctx, s.job, logger)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context, job Job, logger *zap.Logger) {
	start := time.Now()
	if err := job.Run(ctx); err != nil {
		logger.Error("Job failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return
	}
	logger.Debug("Job completed", zap.Duration("elapsed", time.Since(start)))
}

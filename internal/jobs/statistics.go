package jobs

import (
	"context"

	"go.uber.org/zap"

	"github.com/yoursocial/yoursocial/internal/db"
	"github.com/yoursocial/yoursocial/pkg/logging"
)

// StatisticsReconcile rebuilds every user's denormalized counters from
// the source tables. The incremental updates on each mutation are
// best-effort; this job is the authority and fixes any drift.
type StatisticsReconcile struct {
	repo   *db.Repository
	logger *zap.Logger
}

// NewStatisticsReconcile creates the statistics reconcile job
func NewStatisticsReconcile(repo *db.Repository) *StatisticsReconcile {
	return &StatisticsReconcile{
		repo:   repo,
		logger: logging.GetLogger().With(zap.String("component", "statistics-reconcile")),
	}
}

// Name implements Job
func (s *StatisticsReconcile) Name() string { return "statistics_reconcile" }

// Run recomputes counters user by user; a failing user is logged and
// skipped so the batch completes
func (s *StatisticsReconcile) Run(ctx context.Context) error {
	ids, err := s.repo.ListUserIDs(ctx)
	if err != nil {
		return err
	}
	failed := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.repo.RecomputeUserCounters(ctx, id); err != nil {
			s.logger.Warn("Failed to reconcile user counters", zap.Int64("user_id", id), zap.Error(err))
			failed++
		}
	}
	s.logger.Info("Reconciled user counters", zap.Int("users", len(ids)), zap.Int("failed", failed))
	return nil
}

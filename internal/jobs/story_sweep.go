package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yoursocial/yoursocial/internal/db"
	"github.com/yoursocial/yoursocial/pkg/logging"
)

// StorySweep garbage-collects expired stories. Visibility never depends
// on it; reads filter on expires_at.
type StorySweep struct {
	repo   *db.Repository
	logger *zap.Logger
}

// NewStorySweep creates the story sweep job
func NewStorySweep(repo *db.Repository) *StorySweep {
	return &StorySweep{
		repo:   repo,
		logger: logging.GetLogger().With(zap.String("component", "story-sweep")),
	}
}

// Name implements Job
func (s *StorySweep) Name() string { return "story_sweep" }

// Run deletes stories past their TTL along with their view records
func (s *StorySweep) Run(ctx context.Context) error {
	removed, err := s.repo.DeleteExpiredStories(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if removed > 0 {
		s.logger.Info("Swept expired stories", zap.Int64("removed", removed))
	}
	return nil
}

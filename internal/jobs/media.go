package jobs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/yoursocial/yoursocial/internal/media"
	"github.com/yoursocial/yoursocial/pkg/logging"
)

// MediaProcessing scans the media root for uploaded images without a
// thumbnail and generates them. The scan is idempotent; images already
// processed are skipped.
type MediaProcessing struct {
	store  *media.Store
	logger *zap.Logger
}

// NewMediaProcessing creates the media processing job
func NewMediaProcessing(store *media.Store) *MediaProcessing {
	return &MediaProcessing{
		store:  store,
		logger: logging.GetLogger().With(zap.String("component", "media-processing")),
	}
}

// Name implements Job
func (m *MediaProcessing) Name() string { return "media_processing" }

// Run walks the media root and thumbnails pending images; a failing file
// is logged and skipped
func (m *MediaProcessing) Run(ctx context.Context) error {
	processed := 0
	err := filepath.WalkDir(m.store.RootDir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !media.IsImagePath(path) || media.IsThumbnail(path) {
			return nil
		}
		if _, err := os.Stat(media.ThumbnailPath(path)); err == nil {
			return nil
		}
		if err := media.GenerateThumbnail(path, m.store.ThumbnailMax()); err != nil {
			m.logger.Warn("Failed to generate thumbnail", zap.String("path", path), zap.Error(err))
			return nil
		}
		processed++
		return nil
	})
	if err != nil {
		return err
	}
	if processed > 0 {
		m.logger.Info("Generated thumbnails", zap.Int("processed", processed))
	}
	return nil
}

package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yoursocial/yoursocial/internal/models"
)

// Story view status constants
const (
	ViewRecorded      = "viewed"
	ViewAlreadyViewed = "already viewed"
)

// CreateStory inserts a story, stamping expires_at from the fixed TTL when
// the caller has not set it
func (r *Repository) CreateStory(ctx context.Context, story *models.Story) error {
	if story.ExpiresAt.IsZero() {
		story.ExpiresAt = time.Now().UTC().Add(models.StoryTTL)
	}
	return r.db.WithContext(ctx).Create(story).Error
}

// GetStoryByID fetches a story with its author preloaded. Returns
// (nil, nil) when the story does not exist.
func (r *Repository) GetStoryByID(ctx context.Context, id int64) (*models.Story, error) {
	var story models.Story
	err := r.db.WithContext(ctx).Preload("Author").First(&story, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &story, nil
}

// ActiveStories lists unexpired stories from the given authors, newest
// first. Expiry is evaluated live against now; sweeping is not required
// for correctness.
func (r *Repository) ActiveStories(ctx context.Context, authorIDs []int64, now time.Time) ([]*models.Story, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var stories []*models.Story
	err := r.db.WithContext(ctx).Preload("Author").
		Where("author_id IN ? AND expires_at > ?", authorIDs, now).
		Order("created_at desc").
		Find(&stories).Error
	return stories, err
}

// RecordStoryView records that the viewer has seen the story; repeat views
// keep the original row. Returns ViewRecorded or ViewAlreadyViewed.
func (r *Repository) RecordStoryView(ctx context.Context, storyID, viewerID int64, now time.Time) (string, error) {
	view := models.StoryView{StoryID: storyID, ViewerID: viewerID, ViewedAt: now}
	err := r.db.WithContext(ctx).Create(&view).Error
	if isDuplicate(err) {
		return ViewAlreadyViewed, nil
	}
	if err != nil {
		return "", err
	}
	return ViewRecorded, nil
}

// StoryViews lists a story's views with viewers preloaded, newest first
func (r *Repository) StoryViews(ctx context.Context, storyID int64) ([]*models.StoryView, error) {
	var views []*models.StoryView
	err := r.db.WithContext(ctx).Preload("Viewer").
		Where("story_id = ?", storyID).
		Order("viewed_at desc").
		Find(&views).Error
	return views, err
}

// ViewedStoryIDs reports which of the given stories the viewer has seen
func (r *Repository) ViewedStoryIDs(ctx context.Context, viewerID int64, storyIDs []int64) (map[int64]bool, error) {
	seen := make(map[int64]bool, len(storyIDs))
	if len(storyIDs) == 0 {
		return seen, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).Model(&models.StoryView{}).
		Where("viewer_id = ? AND story_id IN ?", viewerID, storyIDs).
		Pluck("story_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		seen[id] = true
	}
	return seen, nil
}

// ExpiredStoriesByAuthor lists an author's expired stories, newest first.
// Expired stories remain readable to their author until swept.
func (r *Repository) ExpiredStoriesByAuthor(ctx context.Context, authorID int64, now time.Time, page, limit int) ([]*models.Story, error) {
	offset, lim := pageRange(page, limit)
	var stories []*models.Story
	err := r.db.WithContext(ctx).
		Where("author_id = ? AND expires_at <= ?", authorID, now).
		Order("created_at desc").
		Offset(offset).Limit(lim).
		Find(&stories).Error
	return stories, err
}

// ActiveStoriesWithHashtags returns unexpired stories carrying at least
// one hashtag, newest first
func (r *Repository) ActiveStoriesWithHashtags(ctx context.Context, now time.Time) ([]*models.Story, error) {
	var stories []*models.Story
	err := r.db.WithContext(ctx).Preload("Author").
		Where("expires_at > ?", now).
		Where("hashtags IS NOT NULL").
		Order("created_at desc").
		Find(&stories).Error
	return stories, err
}

// StoryStatistics aggregates story activity for an author
type StoryStatistics struct {
	ActiveStories  int64 `json:"active_stories"`
	ExpiredStories int64 `json:"expired_stories"`
	TotalViews     int64 `json:"total_views"`
	ViewsLast24h   int64 `json:"views_last_24h"`
}

// GetStoryStatistics computes story statistics for an author at the given
// instant
func (r *Repository) GetStoryStatistics(ctx context.Context, authorID int64, now time.Time) (*StoryStatistics, error) {
	stats := &StoryStatistics{}
	tx := r.db.WithContext(ctx)
	if err := tx.Model(&models.Story{}).
		Where("author_id = ? AND expires_at > ?", authorID, now).
		Count(&stats.ActiveStories).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Story{}).
		Where("author_id = ? AND expires_at <= ?", authorID, now).
		Count(&stats.ExpiredStories).Error; err != nil {
		return nil, err
	}
	authorStories := tx.Model(&models.Story{}).Select("id").Where("author_id = ?", authorID)
	if err := tx.Model(&models.StoryView{}).
		Where("story_id IN (?)", authorStories).
		Count(&stats.TotalViews).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.StoryView{}).
		Where("story_id IN (?) AND viewed_at >= ?", authorStories, now.Add(-24*time.Hour)).
		Count(&stats.ViewsLast24h).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// CountStoriesSince counts an author's stories created at or after the
// cutoff
func (r *Repository) CountStoriesSince(ctx context.Context, authorID int64, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Story{}).
		Where("author_id = ? AND created_at >= ?", authorID, since).
		Count(&count).Error
	return count, err
}

// DeleteExpiredStories removes stories past their TTL together with their
// view records. Returns the number of stories removed.
func (r *Repository) DeleteExpiredStories(ctx context.Context, now time.Time) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expired := tx.Model(&models.Story{}).Select("id").Where("expires_at <= ?", now)
		if err := tx.Where("story_id IN (?)", expired).Delete(&models.StoryView{}).Error; err != nil {
			return err
		}
		res := tx.Where("expires_at <= ?", now).Delete(&models.Story{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		return nil
	})
	return removed, err
}

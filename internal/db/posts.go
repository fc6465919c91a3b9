package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yoursocial/yoursocial/internal/models"
)

// CreatePost inserts a post and rebuilds the author's post counter
func (r *Repository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return recomputeUserCounters(tx, post.AuthorID)
	})
}

// GetPostByID fetches a post with its author preloaded. Returns (nil, nil)
// when the post does not exist.
func (r *Repository) GetPostByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost persists modified post fields
func (r *Repository) UpdatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// DeletePost removes a post together with its comments and likes, then
// rebuilds the author's post counter
func (r *Repository) DeletePost(ctx context.Context, post *models.Post) error {
	return r.Transaction(ctx, func(tx *gorm.DB) error {
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("post_id = ?", post.ID)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Post{}, post.ID).Error; err != nil {
			return err
		}
		return recomputeUserCounters(tx, post.AuthorID)
	})
}

// FeedPosts lists posts visible in the viewer's feed, newest first: the
// viewer's own, everything from the given authors, and public posts from
// anyone else
func (r *Repository) FeedPosts(ctx context.Context, viewerID int64, authorIDs []int64, page, limit int) ([]*models.Post, error) {
	offset, lim := pageRange(page, limit)
	ids := append([]int64{viewerID}, authorIDs...)
	var posts []*models.Post
	err := r.db.WithContext(ctx).Preload("Author").
		Where("author_id IN ? OR is_private = ?", ids, false).
		Order("created_at desc").
		Offset(offset).Limit(lim).
		Find(&posts).Error
	return posts, err
}

// PostsByAuthor lists an author's posts, newest first. Private posts are
// included only when includePrivate is set.
func (r *Repository) PostsByAuthor(ctx context.Context, authorID int64, includePrivate bool, page, limit int) ([]*models.Post, error) {
	offset, lim := pageRange(page, limit)
	q := r.db.WithContext(ctx).Preload("Author").Where("author_id = ?", authorID)
	if !includePrivate {
		q = q.Where("is_private = ?", false)
	}
	var posts []*models.Post
	err := q.Order("created_at desc").Offset(offset).Limit(lim).Find(&posts).Error
	return posts, err
}

// PublicPostsWithHashtags returns all public posts carrying at least one
// hashtag, newest first. Tag filtering and aggregation happen in the
// caller; no hashtag index is maintained.
func (r *Repository) PublicPostsWithHashtags(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).Preload("Author").
		Where("is_private = ?", false).
		Where("hashtags IS NOT NULL").
		Order("created_at desc").
		Find(&posts).Error
	return posts, err
}

// TrendingPosts returns public posts created since the cutoff ordered by
// engagement (likes plus comments), ties broken newest first
func (r *Repository) TrendingPosts(ctx context.Context, since time.Time, limit int) ([]*models.Post, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	var posts []*models.Post
	err := r.db.WithContext(ctx).Preload("Author").
		Where("is_private = ? AND created_at >= ?", false, since).
		Order("likes_count + comments_count desc, created_at desc").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// CountPostsSince counts an author's posts created at or after the cutoff
func (r *Repository) CountPostsSince(ctx context.Context, authorID int64, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("author_id = ? AND created_at >= ?", authorID, since).
		Count(&count).Error
	return count, err
}

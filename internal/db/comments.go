package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yoursocial/yoursocial/internal/models"
)

// CreateComment inserts a comment and rebuilds the post's comment counter.
// A reply must reference a parent comment on the same post.
func (r *Repository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if comment.ParentID.Valid {
			var parent models.Comment
			err := tx.First(&parent, comment.ParentID.Int64).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParentMismatch
			}
			if err != nil {
				return err
			}
			if parent.PostID != comment.PostID {
				return ErrParentMismatch
			}
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return recomputeCommentCount(tx, comment.PostID)
	})
}

// GetCommentByID fetches a comment with its author preloaded. Returns
// (nil, nil) when the comment does not exist.
func (r *Repository) GetCommentByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateComment persists modified comment fields
func (r *Repository) UpdateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

// DeleteComment removes a comment, its replies and all their likes, then
// rebuilds the post's comment counter
func (r *Repository) DeleteComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ? OR comment_id IN (?)",
			comment.ID,
			tx.Model(&models.Comment{}).Select("id").Where("parent_id = ?", comment.ID),
		).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("parent_id = ?", comment.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Comment{}, comment.ID).Error; err != nil {
			return err
		}
		return recomputeCommentCount(tx, comment.PostID)
	})
}

// TopLevelComments lists a post's top-level comments with their replies,
// oldest first
func (r *Repository) TopLevelComments(ctx context.Context, postID int64, page, limit int) ([]*models.Comment, error) {
	offset, lim := pageRange(page, limit)
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Replies", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at asc") }).
		Preload("Replies.Author").
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at asc").
		Offset(offset).Limit(lim).
		Find(&comments).Error
	return comments, err
}

// recomputeCommentCount rebuilds a post's denormalized comment counter
// from the comments table; replies count toward the total
func recomputeCommentCount(tx *gorm.DB, postID int64) error {
	var count int64
	if err := tx.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return err
	}
	return tx.Model(&models.Post{}).Where("id = ?", postID).
		Update("comments_count", count).Error
}

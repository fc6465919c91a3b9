package db

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/yoursocial/yoursocial/internal/models"
)

// TogglePostLike likes the post if the user has not liked it, otherwise
// removes the like. The post's like counter is rebuilt in the same
// transaction. Returns ActionLiked or ActionUnliked.
func (r *Repository) TogglePostLike(ctx context.Context, userID, postID int64) (string, error) {
	var action string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		action, err = toggleLike(tx,
			models.Like{UserID: userID, PostID: sql.NullInt64{Int64: postID, Valid: true}},
			"user_id = ? AND post_id = ?", userID, postID)
		if err != nil {
			return err
		}
		return recomputePostLikeCount(tx, postID)
	})
	if err != nil {
		return "", err
	}
	return action, nil
}

// ToggleCommentLike likes the comment if the user has not liked it,
// otherwise removes the like. Returns ActionLiked or ActionUnliked.
func (r *Repository) ToggleCommentLike(ctx context.Context, userID, commentID int64) (string, error) {
	var action string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		action, err = toggleLike(tx,
			models.Like{UserID: userID, CommentID: sql.NullInt64{Int64: commentID, Valid: true}},
			"user_id = ? AND comment_id = ?", userID, commentID)
		if err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.Like{}).Where("comment_id = ?", commentID).Count(&count).Error; err != nil {
			return err
		}
		return tx.Model(&models.Comment{}).Where("id = ?", commentID).
			Update("likes_count", count).Error
	})
	if err != nil {
		return "", err
	}
	return action, nil
}

func toggleLike(tx *gorm.DB, like models.Like, cond string, args ...interface{}) (string, error) {
	var existing models.Like
	err := tx.Where(cond, args...).First(&existing).Error
	switch {
	case err == nil:
		if err := tx.Delete(&existing).Error; err != nil {
			return "", err
		}
		return ActionUnliked, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := tx.Create(&like).Error; err != nil {
			if !isDuplicate(err) {
				return "", err
			}
			// Concurrent like won; resolve this call as the removal
			if err := tx.Where(cond, args...).Delete(&models.Like{}).Error; err != nil {
				return "", err
			}
			return ActionUnliked, nil
		}
		return ActionLiked, nil
	default:
		return "", err
	}
}

// HasLikedPost reports whether the user currently likes the post
func (r *Repository) HasLikedPost(ctx context.Context, userID, postID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

// PostLikers lists users who liked the post, most recent first
func (r *Repository) PostLikers(ctx context.Context, postID int64, page, limit int) ([]*models.User, error) {
	offset, lim := pageRange(page, limit)
	var users []*models.User
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN likes ON likes.user_id = users.id").
		Where("likes.post_id = ?", postID).
		Order("likes.created_at desc").
		Offset(offset).Limit(lim).
		Find(&users).Error
	return users, err
}

func recomputePostLikeCount(tx *gorm.DB, postID int64) error {
	var count int64
	if err := tx.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return err
	}
	return tx.Model(&models.Post{}).Where("id = ?", postID).
		Update("likes_count", count).Error
}

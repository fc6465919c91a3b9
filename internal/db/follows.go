package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yoursocial/yoursocial/internal/models"
)

// ToggleFollow follows the target if no edge exists, otherwise unfollows.
// The denormalized counters on both users are rebuilt in the same
// transaction. Returns ActionFollowed or ActionUnfollowed.
func (r *Repository) ToggleFollow(ctx context.Context, followerID, followingID int64) (string, error) {
	if followerID == followingID {
		return "", ErrSelfFollow
	}
	var action string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Follow
		err := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			action = ActionUnfollowed
		case errors.Is(err, gorm.ErrRecordNotFound):
			edge := models.Follow{FollowerID: followerID, FollowingID: followingID}
			if err := tx.Create(&edge).Error; err != nil {
				if !isDuplicate(err) {
					return err
				}
				// Concurrent follow won; resolve this call as the unfollow
				if err := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
					Delete(&models.Follow{}).Error; err != nil {
					return err
				}
				action = ActionUnfollowed
				break
			}
			action = ActionFollowed
		default:
			return err
		}
		if err := recomputeUserCounters(tx, followerID); err != nil {
			return err
		}
		return recomputeUserCounters(tx, followingID)
	})
	if err != nil {
		return "", err
	}
	return action, nil
}

// IsFollowing reports whether follower has an edge to following
func (r *Repository) IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// Followers lists users following the given user, most recent first
func (r *Repository) Followers(ctx context.Context, userID int64, page, limit int) ([]*models.User, error) {
	offset, lim := pageRange(page, limit)
	var users []*models.User
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at desc").
		Offset(offset).Limit(lim).
		Find(&users).Error
	return users, err
}

// Following lists users the given user follows, most recent first
func (r *Repository) Following(ctx context.Context, userID int64, page, limit int) ([]*models.User, error) {
	offset, lim := pageRange(page, limit)
	var users []*models.User
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at desc").
		Offset(offset).Limit(lim).
		Find(&users).Error
	return users, err
}

// FollowingIDs returns the IDs of all users the given user follows
func (r *Repository) FollowingIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error
	return ids, err
}

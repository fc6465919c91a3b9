package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yoursocial/yoursocial/internal/models"
)

// GetUserByID fetches a user by primary key. Returns (nil, nil) when the
// user does not exist.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail fetches a user by email address
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername fetches a user by username
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a new user row
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// UpdateUser persists modified user fields
func (r *Repository) UpdateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// TouchLastLogin stamps the user's last successful login time
func (r *Repository) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_login_at", sql.NullTime{Time: at, Valid: true}).Error
}

// SearchUsers finds users whose username or full name matches the query,
// excluding the searching user
func (r *Repository) SearchUsers(ctx context.Context, excludeID int64, query string, page, limit int) ([]*models.User, error) {
	offset, lim := pageRange(page, limit)
	pattern := "%" + query + "%"
	var users []*models.User
	err := r.db.WithContext(ctx).
		Where("id <> ?", excludeID).
		Where("username LIKE ? OR first_name LIKE ? OR last_name LIKE ?", pattern, pattern, pattern).
		Order("username asc").
		Offset(offset).Limit(lim).
		Find(&users).Error
	return users, err
}

// SuggestedUsers returns users the given user does not yet follow, most
// followed first
func (r *Repository) SuggestedUsers(ctx context.Context, userID int64, limit int) ([]*models.User, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	var users []*models.User
	sub := r.db.Model(&models.Follow{}).
		Select("following_id").
		Where("follower_id = ?", userID)
	err := r.db.WithContext(ctx).
		Where("id <> ?", userID).
		Where("id NOT IN (?)", sub).
		Order("followers_count desc").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// ListUserIDs returns all user IDs, used by periodic statistics refresh
func (r *Repository) ListUserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Order("id asc").
		Pluck("id", &ids).Error
	return ids, err
}

// RecomputeUserCounters rebuilds the denormalized follower, following and
// post counts for a user from the source tables
func (r *Repository) RecomputeUserCounters(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return recomputeUserCounters(tx, userID)
	})
}

func recomputeUserCounters(tx *gorm.DB, userID int64) error {
	var followers, following, posts int64
	if err := tx.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&followers).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&following).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Post{}).Where("author_id = ?", userID).Count(&posts).Error; err != nil {
		return err
	}
	return tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"followers_count": followers,
		"following_count": following,
		"posts_count":     posts,
	}).Error
}

// GetOrCreateUserSettings fetches the user's settings row, creating it
// with defaults on first access
func (r *Repository) GetOrCreateUserSettings(ctx context.Context, userID int64) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	settings = models.DefaultUserSettings(userID)
	if err := r.db.WithContext(ctx).Create(&settings).Error; err != nil {
		if isDuplicate(err) {
			// Lost a creation race; the winner's row is authoritative
			err = r.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
		}
		if err != nil {
			return nil, err
		}
	}
	return &settings, nil
}

// UpdateUserSettings persists modified settings
func (r *Repository) UpdateUserSettings(ctx context.Context, settings *models.UserSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}

// GetTwoFactor fetches the user's two-factor record. Returns (nil, nil)
// when none has been provisioned.
func (r *Repository) GetTwoFactor(ctx context.Context, userID int64) (*models.TwoFactor, error) {
	var tf models.TwoFactor
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&tf).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tf, nil
}

// SaveTwoFactor inserts or updates the user's two-factor record
func (r *Repository) SaveTwoFactor(ctx context.Context, tf *models.TwoFactor) error {
	return r.db.WithContext(ctx).Save(tf).Error
}

// DeleteTwoFactor removes the user's two-factor record entirely
func (r *Repository) DeleteTwoFactor(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.TwoFactor{}).Error
}

// UserStatistics aggregates activity figures for a user profile
type UserStatistics struct {
	PostsCount       int64 `json:"posts_count"`
	FollowersCount   int64 `json:"followers_count"`
	FollowingCount   int64 `json:"following_count"`
	LikesReceived    int64 `json:"likes_received"`
	CommentsReceived int64 `json:"comments_received"`
	StoriesPosted    int64 `json:"stories_posted"`
	PostsLast24h     int64 `json:"posts_last_24h"`
	StoriesLast24h   int64 `json:"stories_last_24h"`
	AccountAgeDays   int64 `json:"account_age_days"`
}

// GetUserStatistics computes activity statistics from the source tables
func (r *Repository) GetUserStatistics(ctx context.Context, userID int64, now time.Time) (*UserStatistics, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	stats := &UserStatistics{
		AccountAgeDays: int64(now.Sub(user.CreatedAt).Hours() / 24),
	}
	tx := r.db.WithContext(ctx)
	if err := tx.Model(&models.Post{}).Where("author_id = ?", userID).Count(&stats.PostsCount).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&stats.FollowersCount).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&stats.FollowingCount).Error; err != nil {
		return nil, err
	}
	postLikes := tx.Model(&models.Like{}).
		Joins("JOIN posts ON posts.id = likes.post_id").
		Where("posts.author_id = ?", userID)
	if err := postLikes.Count(&stats.LikesReceived).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Comment{}).
		Joins("JOIN posts ON posts.id = comments.post_id").
		Where("posts.author_id = ? AND comments.author_id <> ?", userID, userID).
		Count(&stats.CommentsReceived).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Story{}).Where("author_id = ?", userID).Count(&stats.StoriesPosted).Error; err != nil {
		return nil, err
	}
	dayAgo := now.Add(-24 * time.Hour)
	var err error
	if stats.PostsLast24h, err = r.CountPostsSince(ctx, userID, dayAgo); err != nil {
		return nil, err
	}
	if stats.StoriesLast24h, err = r.CountStoriesSince(ctx, userID, dayAgo); err != nil {
		return nil, err
	}
	return stats, nil
}

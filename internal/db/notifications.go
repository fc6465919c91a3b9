package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yoursocial/yoursocial/internal/models"
)

// Mark-read status constants
const (
	MarkedRead  = "marked read"
	AlreadyRead = "already read"
)

// CreateNotification stores a notification unless the recipient's
// preferences disallow the type or the event is self-generated. Returns
// true when a row was written.
func (r *Repository) CreateNotification(ctx context.Context, n *models.Notification) (bool, error) {
	if n.SenderID.Valid && n.SenderID.Int64 == n.RecipientID {
		return false, nil
	}
	prefs, err := r.GetOrCreateNotificationPreferences(ctx, n.RecipientID)
	if err != nil {
		return false, err
	}
	if !prefs.AllowsType(n.Type) {
		return false, nil
	}
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Notifications lists a recipient's notifications newest first, optionally
// unread only
func (r *Repository) Notifications(ctx context.Context, recipientID int64, unreadOnly bool, page, limit int) ([]*models.Notification, error) {
	offset, lim := pageRange(page, limit)
	q := r.db.WithContext(ctx).Preload("Sender").Where("recipient_id = ?", recipientID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var notifs []*models.Notification
	err := q.Order("created_at desc").Offset(offset).Limit(lim).Find(&notifs).Error
	return notifs, err
}

// MarkNotificationRead marks one of the recipient's notifications as read.
// The transition is idempotent; an already-read notification keeps its
// original read_at. Returns ("", nil) when the notification does not
// belong to the recipient.
func (r *Repository) MarkNotificationRead(ctx context.Context, id, recipientID int64, now time.Time) (string, error) {
	var n models.Notification
	err := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if n.IsRead {
		return AlreadyRead, nil
	}
	err = r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": sql.NullTime{Time: now, Valid: true},
		}).Error
	if err != nil {
		return "", err
	}
	return MarkedRead, nil
}

// MarkAllNotificationsRead marks every unread notification of the
// recipient, returning how many rows transitioned
func (r *Repository) MarkAllNotificationsRead(ctx context.Context, recipientID int64, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": sql.NullTime{Time: now, Valid: true},
		})
	return res.RowsAffected, res.Error
}

// UnreadNotificationCount counts a recipient's unread notifications
func (r *Repository) UnreadNotificationCount(ctx context.Context, recipientID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// UnreadNotificationsSince lists unread notifications created at or after
// the cutoff across all recipients, with recipients and senders preloaded.
// Used by the digest job.
func (r *Repository) UnreadNotificationsSince(ctx context.Context, since time.Time) ([]*models.Notification, error) {
	var notifs []*models.Notification
	err := r.db.WithContext(ctx).
		Preload("Recipient").
		Preload("Sender").
		Where("is_read = ? AND created_at >= ?", false, since).
		Order("recipient_id asc, created_at desc").
		Find(&notifs).Error
	return notifs, err
}

// GetOrCreateNotificationPreferences fetches the user's preference row,
// creating it with everything enabled on first access
func (r *Repository) GetOrCreateNotificationPreferences(ctx context.Context, userID int64) (*models.NotificationPreference, error) {
	var prefs models.NotificationPreference
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&prefs).Error
	if err == nil {
		return &prefs, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	prefs = models.NotificationPreference{
		UserID:               userID,
		EmailNotifications:   true,
		PushNotifications:    true,
		InAppNotifications:   true,
		FollowNotifications:  true,
		LikeNotifications:    true,
		CommentNotifications: true,
		MentionNotifications: true,
		MessageNotifications: true,
		StoryNotifications:   true,
	}
	if err := r.db.WithContext(ctx).Create(&prefs).Error; err != nil {
		if isDuplicate(err) {
			// Lost a creation race; the winner's row is authoritative
			err = r.db.WithContext(ctx).Where("user_id = ?", userID).First(&prefs).Error
		}
		if err != nil {
			return nil, err
		}
	}
	return &prefs, nil
}

// UpdateNotificationPreferences persists modified preferences
func (r *Repository) UpdateNotificationPreferences(ctx context.Context, prefs *models.NotificationPreference) error {
	return r.db.WithContext(ctx).Save(prefs).Error
}

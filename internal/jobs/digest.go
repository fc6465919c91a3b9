package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yoursocial/yoursocial/internal/db"
	"github.com/yoursocial/yoursocial/internal/mail"
	"github.com/yoursocial/yoursocial/internal/models"
	"github.com/yoursocial/yoursocial/pkg/logging"
)

// digestWindow bounds how far back the digest looks for unread
// notifications
const digestWindow = 24 * time.Hour

// NotificationDigest emails each user a summary of their recent unread
// notifications. Recipients with email notifications disabled are
// skipped; a failed delivery is logged and the batch continues.
type NotificationDigest struct {
	repo   *db.Repository
	sender mail.Sender
	logger *zap.Logger
}

// NewNotificationDigest creates the digest job
func NewNotificationDigest(repo *db.Repository, sender mail.Sender) *NotificationDigest {
	return &NotificationDigest{
		repo:   repo,
		sender: sender,
		logger: logging.GetLogger().With(zap.String("component", "notification-digest")),
	}
}

// Name implements Job
func (d *NotificationDigest) Name() string { return "notification_digest" }

// Run groups unread notifications from the window per recipient and
// sends one email each
func (d *NotificationDigest) Run(ctx context.Context) error {
	notifs, err := d.repo.UnreadNotificationsSince(ctx, time.Now().UTC().Add(-digestWindow))
	if err != nil {
		return err
	}
	grouped := groupByRecipient(notifs)

	sent := 0
	for recipientID, batch := range grouped {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		recipient := batch[0].Recipient
		if recipient == nil {
			continue
		}
		prefs, err := d.repo.GetOrCreateNotificationPreferences(ctx, recipientID)
		if err != nil {
			d.logger.Warn("Failed to load preferences", zap.Int64("user_id", recipientID), zap.Error(err))
			continue
		}
		if !prefs.EmailNotifications {
			continue
		}
		body := mail.DigestBody(recipient, batch)
		if err := d.sender.Send(recipient.Email, mail.DigestSubject, body); err != nil {
			d.logger.Warn("Failed to send digest", zap.Int64("user_id", recipientID), zap.Error(err))
			continue
		}
		sent++
	}
	d.logger.Info("Notification digest complete",
		zap.Int("recipients", len(grouped)), zap.Int("sent", sent))
	return nil
}

// groupByRecipient buckets notifications per recipient, keeping the
// incoming order within each bucket
func groupByRecipient(notifs []*models.Notification) map[int64][]*models.Notification {
	grouped := make(map[int64][]*models.Notification)
	for _, n := range notifs {
		grouped[n.RecipientID] = append(grouped[n.RecipientID], n)
	}
	return grouped
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yoursocial/yoursocial/internal/models"
)

// CreateMessage inserts a message and advances the conversation's
// last-message pointer and activity timestamp in the same transaction
func (r *Repository) CreateMessage(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Updates(map[string]interface{}{
				"last_message_id": msg.ID,
				"updated_at":      msg.CreatedAt,
			}).Error
	})
}

// GetMessageByID fetches a message with its sender preloaded. Returns
// (nil, nil) when the message does not exist.
func (r *Repository) GetMessageByID(ctx context.Context, id int64) (*models.Message, error) {
	var msg models.Message
	err := r.db.WithContext(ctx).Preload("Sender").First(&msg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetMessageForParticipant fetches a message only when the user
// participates in its conversation. Returns (nil, nil) otherwise.
func (r *Repository) GetMessageForParticipant(ctx context.Context, msgID, userID int64) (*models.Message, error) {
	var msg models.Message
	err := r.db.WithContext(ctx).Preload("Sender").
		Joins("JOIN conversation_participants cp ON cp.conversation_id = messages.conversation_id").
		Where("messages.id = ? AND cp.user_id = ?", msgID, userID).
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ConversationMessages lists a conversation's messages oldest first and
// marks every unread message from other senders as read. Reading is a
// one-directional transition; rows already read keep their original
// read_at.
func (r *Repository) ConversationMessages(ctx context.Context, convID, readerID int64, page, limit int, now time.Time) ([]*models.Message, error) {
	offset, lim := pageRange(page, limit)
	var msgs []*models.Message
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Sender").
			Where("conversation_id = ?", convID).
			Order("created_at asc").
			Offset(offset).Limit(lim).
			Find(&msgs).Error; err != nil {
			return err
		}
		return markRead(tx, convID, readerID, now)
	})
	if err != nil {
		return nil, err
	}
	// Reflect the transition in the returned rows
	for _, m := range msgs {
		if m.SenderID != readerID && !m.IsRead {
			m.IsRead = true
			m.ReadAt = sql.NullTime{Time: now, Valid: true}
		}
	}
	return msgs, nil
}

// UpdateMessage persists modified message fields
func (r *Repository) UpdateMessage(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Save(msg).Error
}

// DeleteMessage removes a message and its reactions. When the message was
// the conversation's last, the pointer falls back to the most recent
// remaining message or NULL.
func (r *Repository) DeleteMessage(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv models.Conversation
		if err := tx.First(&conv, msg.ConversationID).Error; err != nil {
			return err
		}
		if conv.LastMessageID.Valid && conv.LastMessageID.Int64 == msg.ID {
			var prev models.Message
			err := tx.Where("conversation_id = ? AND id <> ?", msg.ConversationID, msg.ID).
				Order("created_at desc, id desc").
				First(&prev).Error
			last := sql.NullInt64{}
			if err == nil {
				last = sql.NullInt64{Int64: prev.ID, Valid: true}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := tx.Model(&models.Conversation{}).Where("id = ?", conv.ID).
				Update("last_message_id", last).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("message_id = ?", msg.ID).Delete(&models.MessageReaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Message{}, msg.ID).Error
	})
}

// MarkConversationRead marks all unread messages from other senders as
// read, returning how many rows transitioned
func (r *Repository) MarkConversationRead(ctx context.Context, convID, readerID int64, now time.Time) (int64, error) {
	var marked int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Message{}).
			Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", convID, readerID, false).
			Updates(map[string]interface{}{
				"is_read": true,
				"read_at": sql.NullTime{Time: now, Valid: true},
			})
		marked = res.RowsAffected
		return res.Error
	})
	return marked, err
}

func markRead(tx *gorm.DB, convID, readerID int64, now time.Time) error {
	return tx.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", convID, readerID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": sql.NullTime{Time: now, Valid: true},
		}).Error
}

// UnreadMessageCount counts unread messages addressed to the user in one
// conversation
func (r *Repository) UnreadMessageCount(ctx context.Context, convID, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", convID, userID, false).
		Count(&count).Error
	return count, err
}

// TotalUnreadMessages counts unread messages addressed to the user across
// all their conversations
func (r *Repository) TotalUnreadMessages(ctx context.Context, userID int64) (int64, error) {
	convIDs := r.db.Model(&models.ConversationParticipant{}).
		Select("conversation_id").
		Where("user_id = ?", userID)
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id IN (?) AND sender_id <> ? AND is_read = ?", convIDs, userID, false).
		Count(&count).Error
	return count, err
}

// ToggleMessageReaction adds the (message, user, emoji) reaction when
// absent and removes it when present. Returns ActionAdded or
// ActionRemoved.
func (r *Repository) ToggleMessageReaction(ctx context.Context, msgID, userID int64, emoji string) (string, error) {
	var action string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.MessageReaction
		err := tx.Where("message_id = ? AND user_id = ? AND emoji = ?", msgID, userID, emoji).
			First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			action = ActionRemoved
		case errors.Is(err, gorm.ErrRecordNotFound):
			reaction := models.MessageReaction{MessageID: msgID, UserID: userID, Emoji: emoji}
			if err := tx.Create(&reaction).Error; err != nil {
				if !isDuplicate(err) {
					return err
				}
				// Concurrent add won; resolve this call as the removal
				if err := tx.Where("message_id = ? AND user_id = ? AND emoji = ?", msgID, userID, emoji).
					Delete(&models.MessageReaction{}).Error; err != nil {
					return err
				}
				action = ActionRemoved
				break
			}
			action = ActionAdded
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return action, nil
}

// MessageReactions lists a message's reactions with reactors preloaded,
// oldest first
func (r *Repository) MessageReactions(ctx context.Context, msgID int64) ([]*models.MessageReaction, error) {
	var reactions []*models.MessageReaction
	err := r.db.WithContext(ctx).Preload("User").
		Where("message_id = ?", msgID).
		Order("created_at asc").
		Find(&reactions).Error
	return reactions, err
}

// MessagingStatistics aggregates messaging activity for a user
type MessagingStatistics struct {
	Conversations    int64 `json:"conversations"`
	MessagesSent     int64 `json:"messages_sent"`
	MessagesReceived int64 `json:"messages_received"`
	UnreadMessages   int64 `json:"unread_messages"`
	SentLast24h      int64 `json:"sent_last_24h"`
}

// GetMessagingStatistics computes messaging statistics for a user at the
// given instant
func (r *Repository) GetMessagingStatistics(ctx context.Context, userID int64, now time.Time) (*MessagingStatistics, error) {
	stats := &MessagingStatistics{}
	tx := r.db.WithContext(ctx)
	if err := tx.Model(&models.ConversationParticipant{}).
		Where("user_id = ?", userID).
		Count(&stats.Conversations).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Message{}).
		Where("sender_id = ?", userID).
		Count(&stats.MessagesSent).Error; err != nil {
		return nil, err
	}
	convIDs := r.db.Model(&models.ConversationParticipant{}).
		Select("conversation_id").
		Where("user_id = ?", userID)
	if err := tx.Model(&models.Message{}).
		Where("conversation_id IN (?) AND sender_id <> ?", convIDs, userID).
		Count(&stats.MessagesReceived).Error; err != nil {
		return nil, err
	}
	var err error
	stats.UnreadMessages, err = r.TotalUnreadMessages(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Message{}).
		Where("sender_id = ? AND created_at >= ?", userID, now.Add(-24*time.Hour)).
		Count(&stats.SentLast24h).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yoursocial/yoursocial/internal/models"
)

// GetOrCreateConversation finds the direct conversation between two users,
// creating it when none exists. The second return reports creation.
func (r *Repository) GetOrCreateConversation(ctx context.Context, userID, otherID int64) (*models.Conversation, bool, error) {
	var conv *models.Conversation
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var convID int64
		err := tx.Model(&models.ConversationParticipant{}).
			Select("conversation_id").
			Where("user_id IN ?", []int64{userID, otherID}).
			Group("conversation_id").
			Having("COUNT(DISTINCT user_id) = 2").
			Limit(1).
			Scan(&convID).Error
		if err != nil {
			return err
		}
		if convID != 0 {
			return tx.Preload("Participants.User").First(&conv, convID).Error
		}
		conv = &models.Conversation{}
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		participants := []models.ConversationParticipant{
			{ConversationID: conv.ID, UserID: userID},
			{ConversationID: conv.ID, UserID: otherID},
		}
		if err := tx.Create(&participants).Error; err != nil {
			return err
		}
		created = true
		return tx.Preload("Participants.User").First(&conv, conv.ID).Error
	})
	if err != nil {
		return nil, false, err
	}
	return conv, created, nil
}

// ConversationsFor lists the user's conversations ordered by most recent
// activity, with participants and the last message preloaded
func (r *Repository) ConversationsFor(ctx context.Context, userID int64, page, limit int) ([]*models.Conversation, error) {
	offset, lim := pageRange(page, limit)
	var convs []*models.Conversation
	err := r.db.WithContext(ctx).
		Preload("Participants.User").
		Preload("LastMessage").
		Preload("LastMessage.Sender").
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id = ?", userID).
		Order("conversations.updated_at desc").
		Offset(offset).Limit(lim).
		Find(&convs).Error
	return convs, err
}

// GetConversationForParticipant fetches a conversation only when the user
// participates in it. Returns (nil, nil) otherwise; non-participants cannot
// distinguish a missing conversation from a forbidden one.
func (r *Repository) GetConversationForParticipant(ctx context.Context, convID, userID int64) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.WithContext(ctx).
		Preload("Participants.User").
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("conversations.id = ? AND cp.user_id = ?", convID, userID).
		First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// DeleteConversation removes a conversation with all its messages,
// reactions and participant rows
func (r *Repository) DeleteConversation(ctx context.Context, convID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Clear the last-message pointer before deleting its target
		if err := tx.Model(&models.Conversation{}).Where("id = ?", convID).
			Update("last_message_id", nil).Error; err != nil {
			return err
		}
		msgIDs := tx.Model(&models.Message{}).Select("id").Where("conversation_id = ?", convID)
		if err := tx.Where("message_id IN (?)", msgIDs).Delete(&models.MessageReaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", convID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", convID).Delete(&models.ConversationParticipant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Conversation{}, convID).Error
	})
}

// SetConversationMuted flips the muted flag for one participant
func (r *Repository) SetConversationMuted(ctx context.Context, convID, userID int64, muted bool) error {
	return r.db.WithContext(ctx).Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", convID, userID).
		Update("muted", muted).Error
}

// IsConversationMuted reports whether the participant has muted the
// conversation
func (r *Repository) IsConversationMuted(ctx context.Context, convID, userID int64) (bool, error) {
	var participant models.ConversationParticipant
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND user_id = ?", convID, userID).
		First(&participant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return participant.Muted, nil
}

// ConversationParticipants lists the membership rows of a conversation
func (r *Repository) ConversationParticipants(ctx context.Context, convID int64) ([]*models.ConversationParticipant, error) {
	var participants []*models.ConversationParticipant
	err := r.db.WithContext(ctx).Preload("User").
		Where("conversation_id = ?", convID).
		Find(&participants).Error
	return participants, err
}

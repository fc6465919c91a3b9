package models

import (
	"database/sql"
	"time"
)

// Conversation represents a private conversation between participants.
// last_message_id always points at the most recently created message in the
// conversation, or is NULL for an empty conversation.
type Conversation struct {
	ID            int64         `gorm:"primaryKey;autoIncrement;column:id"`
	LastMessageID sql.NullInt64 `gorm:"column:last_message_id"`
	CreatedAt     time.Time     `gorm:"not null;column:created_at"`
	UpdatedAt     time.Time     `gorm:"not null;index;column:updated_at"`

	// Relationships
	Participants []ConversationParticipant `gorm:"foreignKey:ConversationID;references:ID"`
	Messages     []Message                 `gorm:"foreignKey:ConversationID;references:ID"`
	LastMessage  *Message                  `gorm:"foreignKey:LastMessageID;references:ID"`
}

// TableName specifies the table name for Conversation
func (Conversation) TableName() string {
	return "conversations"
}

// ConversationParticipant is a membership row; muted suppresses message
// notifications for that participant only
type ConversationParticipant struct {
	ID             int64     `gorm:"primaryKey;autoIncrement;column:id"`
	ConversationID int64     `gorm:"not null;uniqueIndex:conversation_participants_pair_ux;index;column:conversation_id"`
	UserID         int64     `gorm:"not null;uniqueIndex:conversation_participants_pair_ux;index;column:user_id"`
	Muted          bool      `gorm:"not null;default:false;column:muted"`
	CreatedAt      time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Conversation *Conversation `gorm:"foreignKey:ConversationID;references:ID;constraint:OnDelete:CASCADE"`
	User         *User         `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for ConversationParticipant
func (ConversationParticipant) TableName() string {
	return "conversation_participants"
}

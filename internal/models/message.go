package models

import (
	"database/sql"
	"time"
)

// Message represents a private message. read_at is set iff is_read is true;
// the unread -> read transition is one-directional and idempotent.
type Message struct {
	ID             int64        `gorm:"primaryKey;autoIncrement;column:id"`
	ConversationID int64        `gorm:"not null;index;column:conversation_id"`
	SenderID       int64        `gorm:"not null;index;column:sender_id"`
	Content        string       `gorm:"type:text;not null;column:content"`
	MediaURL       string       `gorm:"type:varchar(1024);not null;default:'';column:media_url"`
	MediaType      string       `gorm:"type:varchar(10);not null;default:'';column:media_type"`
	IsRead         bool         `gorm:"not null;default:false;index;column:is_read"`
	ReadAt         sql.NullTime `gorm:"column:read_at"`
	CreatedAt      time.Time    `gorm:"not null;index;column:created_at"`
	UpdatedAt      time.Time    `gorm:"not null;column:updated_at"`

	// Relationships
	Conversation *Conversation     `gorm:"foreignKey:ConversationID;references:ID"`
	Sender       *User             `gorm:"foreignKey:SenderID;references:ID;constraint:OnDelete:CASCADE"`
	Reactions    []MessageReaction `gorm:"foreignKey:MessageID;references:ID"`
}

// TableName specifies the table name for Message
func (Message) TableName() string {
	return "messages"
}

// MessageReaction is an emoji reaction keyed by (message, user, emoji);
// reacting with an existing triple removes it (toggle semantics)
type MessageReaction struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	MessageID int64     `gorm:"not null;uniqueIndex:message_reactions_triple_ux;index;column:message_id"`
	UserID    int64     `gorm:"not null;uniqueIndex:message_reactions_triple_ux;column:user_id"`
	Emoji     string    `gorm:"type:varchar(10);not null;uniqueIndex:message_reactions_triple_ux;column:emoji"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Message *Message `gorm:"foreignKey:MessageID;references:ID;constraint:OnDelete:CASCADE"`
	User    *User    `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for MessageReaction
func (MessageReaction) TableName() string {
	return "message_reactions"
}

package models

import (
	"database/sql"
	"time"
)

// Notification represents a typed event delivered to a recipient.
// The referent is a tagged (kind, id) pair rather than a dynamic reference.
type Notification struct {
	ID          int64          `gorm:"primaryKey;autoIncrement;column:id"`
	RecipientID int64          `gorm:"not null;index;column:recipient_id"`
	SenderID    sql.NullInt64  `gorm:"column:sender_id"`
	Type        string         `gorm:"type:varchar(20);not null;index;column:type"`
	Content     string         `gorm:"type:text;not null;column:content"`
	RefKind     sql.NullString `gorm:"type:varchar(10);column:ref_kind"`
	RefID       sql.NullInt64  `gorm:"column:ref_id"`
	IsRead      bool           `gorm:"not null;default:false;index;column:is_read"`
	ReadAt      sql.NullTime   `gorm:"column:read_at"`
	CreatedAt   time.Time      `gorm:"not null;index;column:created_at"`

	// Relationships
	Recipient *User `gorm:"foreignKey:RecipientID;references:ID;constraint:OnDelete:CASCADE"`
	Sender    *User `gorm:"foreignKey:SenderID;references:ID"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

// Notification type constants
const (
	NotifyTypeFollow        = "follow"
	NotifyTypeLike          = "like"
	NotifyTypeComment       = "comment"
	NotifyTypeMention       = "mention"
	NotifyTypeMessage       = "message"
	NotifyTypeStoryMention  = "story_mention"
	NotifyTypeStoryReaction = "story_reaction"
)

// Notification referent kind constants
const (
	RefKindPost    = "post"
	RefKindComment = "comment"
	RefKindMessage = "message"
	RefKindStory   = "story"
	RefKindUser    = "user"
)

// NotificationPreference holds per-user delivery preferences, created lazily
// with all channels and types enabled
type NotificationPreference struct {
	ID     int64 `gorm:"primaryKey;autoIncrement;column:id"`
	UserID int64 `gorm:"not null;uniqueIndex:notification_preferences_user_ux;column:user_id"`

	// Channels
	EmailNotifications bool `gorm:"not null;default:true;column:email_notifications"`
	PushNotifications  bool `gorm:"not null;default:true;column:push_notifications"`
	InAppNotifications bool `gorm:"not null;default:true;column:in_app_notifications"`

	// Per event type
	FollowNotifications  bool `gorm:"not null;default:true;column:follow_notifications"`
	LikeNotifications    bool `gorm:"not null;default:true;column:like_notifications"`
	CommentNotifications bool `gorm:"not null;default:true;column:comment_notifications"`
	MentionNotifications bool `gorm:"not null;default:true;column:mention_notifications"`
	MessageNotifications bool `gorm:"not null;default:true;column:message_notifications"`
	StoryNotifications   bool `gorm:"not null;default:true;column:story_notifications"`

	CreatedAt time.Time `gorm:"not null;column:created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for NotificationPreference
func (NotificationPreference) TableName() string {
	return "notification_preferences"
}

// AllowsType reports whether the preference row permits in-app delivery of
// the given notification type
func (p *NotificationPreference) AllowsType(notifType string) bool {
	if !p.InAppNotifications {
		return false
	}
	switch notifType {
	case NotifyTypeFollow:
		return p.FollowNotifications
	case NotifyTypeLike:
		return p.LikeNotifications
	case NotifyTypeComment:
		return p.CommentNotifications
	case NotifyTypeMention:
		return p.MentionNotifications
	case NotifyTypeMessage:
		return p.MessageNotifications
	case NotifyTypeStoryMention, NotifyTypeStoryReaction:
		return p.StoryNotifications
	default:
		return true
	}
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

// Post represents a publication on a user's timeline
type Post struct {
	ID        int64                      `gorm:"primaryKey;autoIncrement;column:id"`
	AuthorID  int64                      `gorm:"not null;index;column:author_id"`
	Content   string                     `gorm:"type:text;not null;column:content"`
	MediaURL  string                     `gorm:"type:varchar(1024);not null;default:'';column:media_url"`
	MediaType string                     `gorm:"type:varchar(10);not null;default:'';column:media_type"`
	Hashtags  datatypes.JSONSlice[string] `gorm:"column:hashtags"`
	Mentions  datatypes.JSONSlice[int64]  `gorm:"column:mentions"`
	Location  string                     `gorm:"type:varchar(100);not null;default:'';column:location"`
	IsPrivate bool                       `gorm:"not null;default:false;column:is_private"`
	CreatedAt time.Time                  `gorm:"not null;index;column:created_at"`
	UpdatedAt time.Time                  `gorm:"not null;column:updated_at"`

	// Denormalized counters, kept exact on each like/comment mutation
	LikesCount    int64 `gorm:"not null;default:0;column:likes_count"`
	CommentsCount int64 `gorm:"not null;default:0;column:comments_count"`

	// Relationships
	Author *User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// Media type constants shared by posts, stories and messages
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
	MediaTypeAudio = "audio"
	MediaTypeFile  = "file"
)

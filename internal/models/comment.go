package models

import (
	"database/sql"
	"time"
)

// Comment represents a comment on a post, optionally replying to another
// comment on the same post
type Comment struct {
	ID         int64         `gorm:"primaryKey;autoIncrement;column:id"`
	PostID     int64         `gorm:"not null;index;column:post_id"`
	AuthorID   int64         `gorm:"not null;index;column:author_id"`
	Content    string        `gorm:"type:text;not null;column:content"`
	ParentID   sql.NullInt64 `gorm:"column:parent_id"`
	LikesCount int64         `gorm:"not null;default:0;column:likes_count"`
	CreatedAt  time.Time     `gorm:"not null;column:created_at"`
	UpdatedAt  time.Time     `gorm:"not null;column:updated_at"`

	// Relationships
	Post    *Post     `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	Author  *User     `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
	Parent  *Comment  `gorm:"foreignKey:ParentID;references:ID"`
	Replies []Comment `gorm:"foreignKey:ParentID;references:ID"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

package models

import (
	"database/sql"
	"time"
)

// Like represents a like on exactly one of a post or a comment.
// The pair uniqueness is enforced by partial unique indexes; NULL columns
// do not collide under either index.
type Like struct {
	ID        int64         `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64         `gorm:"not null;index;uniqueIndex:likes_user_post_ux;uniqueIndex:likes_user_comment_ux;column:user_id"`
	PostID    sql.NullInt64 `gorm:"uniqueIndex:likes_user_post_ux;column:post_id"`
	CommentID sql.NullInt64 `gorm:"uniqueIndex:likes_user_comment_ux;column:comment_id"`
	CreatedAt time.Time     `gorm:"not null;column:created_at"`

	// Relationships
	User    *User    `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Post    *Post    `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	Comment *Comment `gorm:"foreignKey:CommentID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Like
func (Like) TableName() string {
	return "likes"
}

package models

import (
	"time"
)

// Follow represents a directed follow edge: follower observes following's content
type Follow struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id"`
	FollowerID  int64     `gorm:"not null;uniqueIndex:follows_pair_ux;index;column:follower_id"`
	FollowingID int64     `gorm:"not null;uniqueIndex:follows_pair_ux;index;column:following_id"`
	CreatedAt   time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Follower  *User `gorm:"foreignKey:FollowerID;references:ID;constraint:OnDelete:CASCADE"`
	Following *User `gorm:"foreignKey:FollowingID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "follows"
}

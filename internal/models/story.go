package models

import (
	"time"

	"gorm.io/datatypes"
)

// StoryTTL is the fixed lifetime of a story
const StoryTTL = 24 * time.Hour

// Story represents an ephemeral publication. Visibility is always computed
// live as expires_at > now; the sweep job only garbage-collects expired rows.
type Story struct {
	ID          int64                      `gorm:"primaryKey;autoIncrement;column:id"`
	AuthorID    int64                      `gorm:"not null;index;column:author_id"`
	ContentURL  string                     `gorm:"type:varchar(1024);not null;column:content_url"`
	ContentType string                     `gorm:"type:varchar(10);not null;column:content_type"`
	Caption     string                     `gorm:"type:varchar(200);not null;default:'';column:caption"`
	Hashtags    datatypes.JSONSlice[string] `gorm:"column:hashtags"`
	Mentions    datatypes.JSONSlice[int64]  `gorm:"column:mentions"`
	CreatedAt   time.Time                  `gorm:"not null;index;column:created_at"`
	ExpiresAt   time.Time                  `gorm:"not null;index;column:expires_at"`

	// Relationships
	Author *User       `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
	Views  []StoryView `gorm:"foreignKey:StoryID;references:ID"`
}

// TableName specifies the table name for Story
func (Story) TableName() string {
	return "stories"
}

// Expired reports whether the story is past its TTL at the given instant
func (s *Story) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// StoryView records that a viewer has seen a story; one row per (story, viewer)
type StoryView struct {
	ID       int64     `gorm:"primaryKey;autoIncrement;column:id"`
	StoryID  int64     `gorm:"not null;uniqueIndex:story_views_pair_ux;index;column:story_id"`
	ViewerID int64     `gorm:"not null;uniqueIndex:story_views_pair_ux;column:viewer_id"`
	ViewedAt time.Time `gorm:"not null;column:viewed_at"`

	// Relationships
	Story  *Story `gorm:"foreignKey:StoryID;references:ID;constraint:OnDelete:CASCADE"`
	Viewer *User  `gorm:"foreignKey:ViewerID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for StoryView
func (StoryView) TableName() string {
	return "story_views"
}

package models

import (
	"database/sql"
	"strings"
	"time"
)

// User represents a registered account
type User struct {
	ID           int64          `gorm:"primaryKey;autoIncrement;column:id"`
	Email        string         `gorm:"type:varchar(254);not null;uniqueIndex:users_email_ux;column:email"`
	Username     string         `gorm:"type:varchar(150);not null;uniqueIndex:users_username_ux;column:username"`
	PasswordHash string         `gorm:"type:varchar(128);not null;column:password_hash"`
	FirstName    string         `gorm:"type:varchar(150);not null;default:'';column:first_name"`
	LastName     string         `gorm:"type:varchar(150);not null;default:'';column:last_name"`
	Bio          string         `gorm:"type:varchar(500);not null;default:'';column:bio"`
	AvatarURL    string         `gorm:"type:varchar(1024);not null;default:'';column:avatar_url"`
	BannerURL    string         `gorm:"type:varchar(1024);not null;default:'';column:banner_url"`
	DateOfBirth  sql.NullTime   `gorm:"column:date_of_birth"`
	Location     string         `gorm:"type:varchar(100);not null;default:'';column:location"`
	Website      string         `gorm:"type:varchar(200);not null;default:'';column:website"`
	IsPrivate    bool           `gorm:"not null;default:false;column:is_private"`
	Role         string         `gorm:"type:varchar(20);not null;default:'user';column:role"`
	LastLoginAt  sql.NullTime   `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"not null;column:created_at"`
	UpdatedAt    time.Time      `gorm:"not null;column:updated_at"`

	// Denormalized counters, reconciled by the statistics job
	FollowersCount int64 `gorm:"not null;default:0;column:followers_count"`
	FollowingCount int64 `gorm:"not null;default:0;column:following_count"`
	PostsCount     int64 `gorm:"not null;default:0;column:posts_count"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// FullName returns first+last name, falling back to the username
func (u *User) FullName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full == "" {
		return u.Username
	}
	return full
}

// User role constants
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserSettings holds per-user preferences, created lazily with defaults
type UserSettings struct {
	ID                 int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID             int64     `gorm:"not null;uniqueIndex:user_settings_user_ux;column:user_id"`
	EmailNotifications bool      `gorm:"not null;default:true;column:email_notifications"`
	PushNotifications  bool      `gorm:"not null;default:true;column:push_notifications"`
	Language           string    `gorm:"type:varchar(10);not null;default:'en';column:language"`
	Theme              string    `gorm:"type:varchar(20);not null;default:'light';column:theme"`
	CreatedAt          time.Time `gorm:"not null;column:created_at"`
	UpdatedAt          time.Time `gorm:"not null;column:updated_at"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for UserSettings
func (UserSettings) TableName() string {
	return "user_settings"
}

// DefaultUserSettings returns a settings row with default values for the
// given user
func DefaultUserSettings(userID int64) UserSettings {
	return UserSettings{
		UserID:             userID,
		EmailNotifications: true,
		PushNotifications:  true,
		Language:           "en",
		Theme:              "light",
	}
}

// TwoFactor holds per-user TOTP second-factor state.
// Lifecycle: no row (uninitialized) -> secret set, inactive (provisioned)
// -> active. Deactivation clears the secret.
type TwoFactor struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64     `gorm:"not null;uniqueIndex:two_factor_user_ux;column:user_id"`
	Secret    string    `gorm:"type:varchar(64);not null;default:'';column:secret"`
	IsActive  bool      `gorm:"not null;default:false;column:is_active"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for TwoFactor
func (TwoFactor) TableName() string {
	return "user_two_factor"
}

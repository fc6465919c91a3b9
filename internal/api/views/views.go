// Package views builds the JSON representations returned by the REST
// handlers from database models.
package views

import (
	"time"

	"github.com/yoursocial/yoursocial/internal/models"
)

// UserSummary is the compact user representation embedded in other views
type UserSummary struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// NewUserSummary builds a user summary; nil users render as nil
func NewUserSummary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName(),
		AvatarURL: u.AvatarURL,
	}
}

// NewUserSummaries builds summaries for a user list
func NewUserSummaries(users []*models.User) []*UserSummary {
	out := make([]*UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserSummary(u))
	}
	return out
}

// Profile is the full user representation
type Profile struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email,omitempty"`
	Username       string     `json:"username"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	FullName       string     `json:"full_name"`
	Bio            string     `json:"bio"`
	AvatarURL      string     `json:"avatar_url"`
	BannerURL      string     `json:"banner_url"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	Location       string     `json:"location"`
	Website        string     `json:"website"`
	IsPrivate      bool       `json:"is_private"`
	FollowersCount int64      `json:"followers_count"`
	FollowingCount int64      `json:"following_count"`
	PostsCount     int64      `json:"posts_count"`
	IsFollowing    bool       `json:"is_following"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NewProfile builds a profile view. Email is included only for the
// account owner.
func NewProfile(u *models.User, owner bool, isFollowing bool) *Profile {
	p := &Profile{
		ID:             u.ID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		FullName:       u.FullName(),
		Bio:            u.Bio,
		AvatarURL:      u.AvatarURL,
		BannerURL:      u.BannerURL,
		Location:       u.Location,
		Website:        u.Website,
		IsPrivate:      u.IsPrivate,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
		PostsCount:     u.PostsCount,
		IsFollowing:    isFollowing,
		CreatedAt:      u.CreatedAt,
	}
	if owner {
		p.Email = u.Email
	}
	if u.DateOfBirth.Valid {
		dob := u.DateOfBirth.Time
		p.DateOfBirth = &dob
	}
	return p
}

// Post is the post representation
type Post struct {
	ID            int64        `json:"id"`
	Author        *UserSummary `json:"author"`
	Content       string       `json:"content"`
	MediaURL      string       `json:"media_url,omitempty"`
	MediaType     string       `json:"media_type,omitempty"`
	Hashtags      []string     `json:"hashtags"`
	Mentions      []int64      `json:"mentions"`
	Location      string       `json:"location,omitempty"`
	IsPrivate     bool         `json:"is_private"`
	LikesCount    int64        `json:"likes_count"`
	CommentsCount int64        `json:"comments_count"`
	Liked         bool         `json:"liked"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// NewPost builds a post view
func NewPost(p *models.Post, liked bool) *Post {
	return &Post{
		ID:            p.ID,
		Author:        NewUserSummary(p.Author),
		Content:       p.Content,
		MediaURL:      p.MediaURL,
		MediaType:     p.MediaType,
		Hashtags:      p.Hashtags,
		Mentions:      p.Mentions,
		Location:      p.Location,
		IsPrivate:     p.IsPrivate,
		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
		Liked:         liked,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// Comment is the comment representation, with one level of replies
type Comment struct {
	ID         int64        `json:"id"`
	PostID     int64        `json:"post_id"`
	Author     *UserSummary `json:"author"`
	Content    string       `json:"content"`
	ParentID   *int64       `json:"parent_id,omitempty"`
	LikesCount int64        `json:"likes_count"`
	Replies    []*Comment   `json:"replies,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// NewComment builds a comment view including its loaded replies
func NewComment(c *models.Comment) *Comment {
	out := &Comment{
		ID:         c.ID,
		PostID:     c.PostID,
		Author:     NewUserSummary(c.Author),
		Content:    c.Content,
		LikesCount: c.LikesCount,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	if c.ParentID.Valid {
		id := c.ParentID.Int64
		out.ParentID = &id
	}
	for i := range c.Replies {
		out.Replies = append(out.Replies, NewComment(&c.Replies[i]))
	}
	return out
}

// Story is the story representation
type Story struct {
	ID          int64        `json:"id"`
	Author      *UserSummary `json:"author"`
	ContentURL  string       `json:"content_url"`
	ContentType string       `json:"content_type"`
	Caption     string       `json:"caption,omitempty"`
	Hashtags    []string     `json:"hashtags"`
	Mentions    []int64      `json:"mentions"`
	Viewed      bool         `json:"viewed"`
	CreatedAt   time.Time    `json:"created_at"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// NewStory builds a story view
func NewStory(s *models.Story, viewed bool) *Story {
	return &Story{
		ID:          s.ID,
		Author:      NewUserSummary(s.Author),
		ContentURL:  s.ContentURL,
		ContentType: s.ContentType,
		Caption:     s.Caption,
		Hashtags:    s.Hashtags,
		Mentions:    s.Mentions,
		Viewed:      viewed,
		CreatedAt:   s.CreatedAt,
		ExpiresAt:   s.ExpiresAt,
	}
}

// Message is the message representation
type Message struct {
	ID             int64        `json:"id"`
	ConversationID int64        `json:"conversation_id"`
	Sender         *UserSummary `json:"sender"`
	Content        string       `json:"content"`
	MediaURL       string       `json:"media_url,omitempty"`
	MediaType      string       `json:"media_type,omitempty"`
	IsRead         bool         `json:"is_read"`
	ReadAt         *time.Time   `json:"read_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

// NewMessage builds a message view
func NewMessage(m *models.Message) *Message {
	out := &Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Sender:         NewUserSummary(m.Sender),
		Content:        m.Content,
		MediaURL:       m.MediaURL,
		MediaType:      m.MediaType,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
	}
	if m.ReadAt.Valid {
		at := m.ReadAt.Time
		out.ReadAt = &at
	}
	return out
}

// Conversation is the conversation-list representation
type Conversation struct {
	ID           int64          `json:"id"`
	Other        *UserSummary   `json:"other_participant,omitempty"`
	Participants []*UserSummary `json:"participants"`
	LastMessage  *Message       `json:"last_message,omitempty"`
	UnreadCount  int64          `json:"unread_count"`
	Muted        bool           `json:"muted"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// NewConversation builds a conversation view from the viewer's side
func NewConversation(conv *models.Conversation, viewerID, unread int64) *Conversation {
	out := &Conversation{
		ID:          conv.ID,
		UnreadCount: unread,
		UpdatedAt:   conv.UpdatedAt,
	}
	for i := range conv.Participants {
		p := &conv.Participants[i]
		out.Participants = append(out.Participants, NewUserSummary(p.User))
		if p.UserID == viewerID {
			out.Muted = p.Muted
		} else if out.Other == nil {
			out.Other = NewUserSummary(p.User)
		}
	}
	if conv.LastMessage != nil {
		out.LastMessage = NewMessage(conv.LastMessage)
	}
	return out
}

// Notification is the notification representation
type Notification struct {
	ID        int64        `json:"id"`
	Sender    *UserSummary `json:"sender,omitempty"`
	Type      string       `json:"type"`
	Content   string       `json:"content"`
	RefKind   string       `json:"ref_kind,omitempty"`
	RefID     *int64       `json:"ref_id,omitempty"`
	IsRead    bool         `json:"is_read"`
	ReadAt    *time.Time   `json:"read_at,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewNotification builds a notification view
func NewNotification(n *models.Notification) *Notification {
	out := &Notification{
		ID:        n.ID,
		Sender:    NewUserSummary(n.Sender),
		Type:      n.Type,
		Content:   n.Content,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.RefKind.Valid {
		out.RefKind = n.RefKind.String
	}
	if n.RefID.Valid {
		id := n.RefID.Int64
		out.RefID = &id
	}
	if n.ReadAt.Valid {
		at := n.ReadAt.Time
		out.ReadAt = &at
	}
	return out
}

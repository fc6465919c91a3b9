package notifications

import (
	"github.com/gin-gonic/gin"

	"github.com/yoursocial/yoursocial/internal/api/middleware"
	"github.com/yoursocial/yoursocial/internal/api/response"
	"github.com/yoursocial/yoursocial/internal/models"
)

type preferencesView struct {
	EmailNotifications   bool `json:"email_notifications"`
	PushNotifications    bool `json:"push_notifications"`
	InAppNotifications   bool `json:"in_app_notifications"`
	FollowNotifications  bool `json:"follow_notifications"`
	LikeNotifications    bool `json:"like_notifications"`
	CommentNotifications bool `json:"comment_notifications"`
	MentionNotifications bool `json:"mention_notifications"`
	MessageNotifications bool `json:"message_notifications"`
	StoryNotifications   bool `json:"story_notifications"`
}

func newPreferencesView(p *models.NotificationPreference) preferencesView {
	return preferencesView{
		EmailNotifications:   p.EmailNotifications,
		PushNotifications:    p.PushNotifications,
		InAppNotifications:   p.InAppNotifications,
		FollowNotifications:  p.FollowNotifications,
		LikeNotifications:    p.LikeNotifications,
		CommentNotifications: p.CommentNotifications,
		MentionNotifications: p.MentionNotifications,
		MessageNotifications: p.MessageNotifications,
		StoryNotifications:   p.StoryNotifications,
	}
}

// GetPreferences handles GET /api/notifications/preferences, creating the
// row with everything enabled on first access
func (a *API) GetPreferences(c *gin.Context) {
	prefs, err := a.repo.GetOrCreateNotificationPreferences(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, newPreferencesView(prefs))
}

type updatePreferencesRequest struct {
	EmailNotifications   *bool `json:"email_notifications"`
	PushNotifications    *bool `json:"push_notifications"`
	InAppNotifications   *bool `json:"in_app_notifications"`
	FollowNotifications  *bool `json:"follow_notifications"`
	LikeNotifications    *bool `json:"like_notifications"`
	CommentNotifications *bool `json:"comment_notifications"`
	MentionNotifications *bool `json:"mention_notifications"`
	MessageNotifications *bool `json:"message_notifications"`
	StoryNotifications   *bool `json:"story_notifications"`
}

// UpdatePreferences handles PUT /api/notifications/preferences
func (a *API) UpdatePreferences(c *gin.Context) {
	var req updatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid preferences payload")
		return
	}
	ctx := c.Request.Context()
	prefs, err := a.repo.GetOrCreateNotificationPreferences(ctx, middleware.UserID(c))
	if err != nil {
		response.Internal(c)
		return
	}

	apply := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&prefs.EmailNotifications, req.EmailNotifications)
	apply(&prefs.PushNotifications, req.PushNotifications)
	apply(&prefs.InAppNotifications, req.InAppNotifications)
	apply(&prefs.FollowNotifications, req.FollowNotifications)
	apply(&prefs.LikeNotifications, req.LikeNotifications)
	apply(&prefs.CommentNotifications, req.CommentNotifications)
	apply(&prefs.MentionNotifications, req.MentionNotifications)
	apply(&prefs.MessageNotifications, req.MessageNotifications)
	apply(&prefs.StoryNotifications, req.StoryNotifications)

	if err := a.repo.UpdateNotificationPreferences(ctx, prefs); err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, newPreferencesView(prefs))
}

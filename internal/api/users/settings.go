package users

import (
	"github.com/gin-gonic/gin"

	"github.com/yoursocial/yoursocial/internal/api/middleware"
	"github.com/yoursocial/yoursocial/internal/api/response"
	"github.com/yoursocial/yoursocial/internal/models"
)

type settingsView struct {
	EmailNotifications bool   `json:"email_notifications"`
	PushNotifications  bool   `json:"push_notifications"`
	Language           string `json:"language"`
	Theme              string `json:"theme"`
}

func newSettingsView(s *models.UserSettings) settingsView {
	return settingsView{
		EmailNotifications: s.EmailNotifications,
		PushNotifications:  s.PushNotifications,
		Language:           s.Language,
		Theme:              s.Theme,
	}
}

// GetSettings handles GET /api/users/me/settings, creating defaults on
// first access
func (a *API) GetSettings(c *gin.Context) {
	settings, err := a.repo.GetOrCreateUserSettings(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, newSettingsView(settings))
}

type updateSettingsRequest struct {
	EmailNotifications *bool   `json:"email_notifications"`
	PushNotifications  *bool   `json:"push_notifications"`
	Language           *string `json:"language"`
	Theme              *string `json:"theme"`
}

// UpdateSettings handles PUT /api/users/me/settings
func (a *API) UpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid settings payload")
		return
	}
	ctx := c.Request.Context()
	settings, err := a.repo.GetOrCreateUserSettings(ctx, middleware.UserID(c))
	if err != nil {
		response.Internal(c)
		return
	}
	if req.EmailNotifications != nil {
		settings.EmailNotifications = *req.EmailNotifications
	}
	if req.PushNotifications != nil {
		settings.PushNotifications = *req.PushNotifications
	}
	if req.Language != nil {
		settings.Language = *req.Language
	}
	if req.Theme != nil {
		settings.Theme = *req.Theme
	}
	if err := a.repo.UpdateUserSettings(ctx, settings); err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, newSettingsView(settings))
}

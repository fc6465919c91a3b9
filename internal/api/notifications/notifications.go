// Package notifications implements notification listing, read-state and
// preference endpoints.
package notifications

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yoursocial/yoursocial/internal/api/middleware"
	"github.com/yoursocial/yoursocial/internal/api/response"
	"github.com/yoursocial/yoursocial/internal/api/views"
	"github.com/yoursocial/yoursocial/internal/cache"
	"github.com/yoursocial/yoursocial/internal/db"
	"github.com/yoursocial/yoursocial/pkg/logging"
)

// API provides notification endpoints
type API struct {
	repo   *db.Repository
	unread *cache.UnreadCounts
	logger *zap.Logger
}

// NewAPI creates the notifications API
func NewAPI(repo *db.Repository, unread *cache.UnreadCounts) *API {
	return &API{
		repo:   repo,
		unread: unread,
		logger: logging.GetLogger().With(zap.String("component", "notifications-api")),
	}
}

// List handles GET /api/notifications, newest first, with an unread_only
// filter
func (a *API) List(c *gin.Context) {
	userID := middleware.UserID(c)
	page, limit := response.Page(c)
	unreadOnly := c.Query("unread_only") == "true"
	notifs, err := a.repo.Notifications(c.Request.Context(), userID, unreadOnly, page, limit)
	if err != nil {
		response.Internal(c)
		return
	}
	out := make([]*views.Notification, 0, len(notifs))
	for _, n := range notifs {
		out = append(out, views.NewNotification(n))
	}
	response.OK(c, gin.H{"notifications": out, "page": page})
}

// MarkRead handles POST /api/notifications/:id/read; marking twice keeps
// the original read_at
func (a *API) MarkRead(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid notification id")
		return
	}
	userID := middleware.UserID(c)
	status, err := a.repo.MarkNotificationRead(c.Request.Context(), id, userID, time.Now().UTC())
	if err != nil {
		response.Internal(c)
		return
	}
	if status == "" {
		response.NotFound(c, "notification not found")
		return
	}
	if err := a.unread.Invalidate(cache.UnreadNotifications, userID); err != nil {
		a.logger.Warn("failed to invalidate unread cache", zap.Error(err))
	}
	response.OK(c, gin.H{"status": status})
}

// MarkAllRead handles POST /api/notifications/read-all
func (a *API) MarkAllRead(c *gin.Context) {
	userID := middleware.UserID(c)
	marked, err := a.repo.MarkAllNotificationsRead(c.Request.Context(), userID, time.Now().UTC())
	if err != nil {
		response.Internal(c)
		return
	}
	if err := a.unread.Invalidate(cache.UnreadNotifications, userID); err != nil {
		a.logger.Warn("failed to invalidate unread cache", zap.Error(err))
	}
	response.OK(c, gin.H{"marked": marked})
}

// UnreadCount handles GET /api/notifications/unread; cached with the
// database as the authority on miss
func (a *API) UnreadCount(c *gin.Context) {
	userID := middleware.UserID(c)
	if count, ok := a.unread.Get(cache.UnreadNotifications, userID); ok {
		response.OK(c, gin.H{"unread": count})
		return
	}
	count, err := a.repo.UnreadNotificationCount(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c)
		return
	}
	if err := a.unread.Set(cache.UnreadNotifications, userID, count); err != nil {
		a.logger.Warn("failed to cache unread count", zap.Error(err))
	}
	response.OK(c, gin.H{"unread": count})
}

package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yoursocial/yoursocial/internal/api/middleware"
	"github.com/yoursocial/yoursocial/internal/api/response"
	"github.com/yoursocial/yoursocial/internal/api/views"
	"github.com/yoursocial/yoursocial/internal/db"
	"github.com/yoursocial/yoursocial/internal/models"
)

// Follow handles POST /api/users/:id/follow, toggling the follow edge
func (a *API) Follow(c *gin.Context) {
	targetID, ok := response.IDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid user id")
		return
	}
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	target, err := a.repo.GetUserByID(ctx, targetID)
	if err != nil {
		response.Internal(c)
		return
	}
	if target == nil {
		response.NotFound(c, "user not found")
		return
	}

	action, err := a.repo.ToggleFollow(ctx, userID, targetID)
	if errors.Is(err, db.ErrSelfFollow) {
		response.BadRequest(c, "cannot follow yourself")
		return
	}
	if err != nil {
		response.Internal(c)
		return
	}

	if action == db.ActionFollowed {
		follower, err := a.repo.GetUserByID(ctx, userID)
		if err == nil && follower != nil {
			a.notifyFollow(c, follower, targetID)
		}
	}
	response.OK(c, gin.H{"action": action})
}

func (a *API) notifyFollow(c *gin.Context, follower *models.User, targetID int64) {
	_, err := a.repo.CreateNotification(c.Request.Context(), &models.Notification{
		RecipientID: targetID,
		SenderID:    sql.NullInt64{Int64: follower.ID, Valid: true},
		Type:        models.NotifyTypeFollow,
		Content:     fmt.Sprintf("%s started following you", follower.Username),
		RefKind:     sql.NullString{String: models.RefKindUser, Valid: true},
		RefID:       sql.NullInt64{Int64: follower.ID, Valid: true},
	})
	if err != nil {
		a.logger.Warn("failed to create follow notification", zap.Error(err))
	}
}

// Followers handles GET /api/users/:id/followers
func (a *API) Followers(c *gin.Context) {
	a.listEdge(c, a.repo.Followers)
}

// Following handles GET /api/users/:id/following
func (a *API) Following(c *gin.Context) {
	a.listEdge(c, a.repo.Following)
}

func (a *API) listEdge(c *gin.Context, list func(ctx context.Context, userID int64, page, limit int) ([]*models.User, error)) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid user id")
		return
	}
	user, err := a.repo.GetUserByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c)
		return
	}
	if user == nil {
		response.NotFound(c, "user not found")
		return
	}
	page, limit := response.Page(c)
	found, err := list(c.Request.Context(), id, page, limit)
	if err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, gin.H{"users": views.NewUserSummaries(found), "page": page})
}

package social

import (
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yoursocial/yoursocial/internal/api/middleware"
	"github.com/yoursocial/yoursocial/internal/api/response"
	"github.com/yoursocial/yoursocial/internal/api/views"
	"github.com/yoursocial/yoursocial/internal/db"
	"github.com/yoursocial/yoursocial/internal/models"
)

// LikePost handles POST /api/social/posts/:id/like, toggling the viewer's
// like
func (a *API) LikePost(c *gin.Context) {
	post, ok := a.visiblePost(c)
	if !ok {
		return
	}
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	action, err := a.repo.TogglePostLike(ctx, userID, post.ID)
	if err != nil {
		response.Internal(c)
		return
	}
	if action == db.ActionLiked {
		a.notifyLike(c, userID, post.AuthorID, models.RefKindPost, post.ID, "liked your post")
	}
	response.OK(c, gin.H{"action": action})
}

// LikeComment handles POST /api/social/comments/:id/like
func (a *API) LikeComment(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid comment id")
		return
	}
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	comment, err := a.repo.GetCommentByID(ctx, id)
	if err != nil {
		response.Internal(c)
		return
	}
	if comment == nil {
		response.NotFound(c, "comment not found")
		return
	}
	action, err := a.repo.ToggleCommentLike(ctx, userID, comment.ID)
	if err != nil {
		response.Internal(c)
		return
	}
	if action == db.ActionLiked {
		a.notifyLike(c, userID, comment.AuthorID, models.RefKindComment, comment.ID, "liked your comment")
	}
	response.OK(c, gin.H{"action": action})
}

// PostLikers handles GET /api/social/posts/:id/likes
func (a *API) PostLikers(c *gin.Context) {
	post, ok := a.visiblePost(c)
	if !ok {
		return
	}
	page, limit := response.Page(c)
	users, err := a.repo.PostLikers(c.Request.Context(), post.ID, page, limit)
	if err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, gin.H{"users": views.NewUserSummaries(users), "page": page})
}

func (a *API) notifyLike(c *gin.Context, senderID, recipientID int64, refKind string, refID int64, verb string) {
	sender, err := a.repo.GetUserByID(c.Request.Context(), senderID)
	if err != nil || sender == nil {
		return
	}
	if _, err := a.repo.CreateNotification(c.Request.Context(), &models.Notification{
		RecipientID: recipientID,
		SenderID:    sql.NullInt64{Int64: senderID, Valid: true},
		Type:        models.NotifyTypeLike,
		Content:     fmt.Sprintf("%s %s", sender.Username, verb),
		RefKind:     sql.NullString{String: refKind, Valid: true},
		RefID:       sql.NullInt64{Int64: refID, Valid: true},
	}); err != nil {
		a.logger.Warn("failed to create like notification", zap.Error(err))
	}
}

package social

import (
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

type commentRequest struct {
	Content  string `json:"content" binding:"required,max=2000"`
	ParentID *int64 `json:"parent_id"`
}

// CreateComment handles POST /api/social/posts/:id/comments. Replies must
// reference a parent comment on the same post.
func (a *API) CreateComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid comment payload")
		return
	}
	post, ok := a.visiblePost(c)
	if !ok {
		return
	}
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: userID,
		Content:  req.Content,
	}
	if req.ParentID != nil {
		comment.ParentID = sql.NullInt64{Int64: *req.ParentID, Valid: true}
	}
	err := a.repo.CreateComment(ctx, comment)
	if errors.Is(err, db.ErrParentMismatch) {
		response.BadRequest(c, "parent comment must belong to the same post")
		return
	}
	if err != nil {
		response.Internal(c)
		return
	}

	author, err := a.repo.GetUserByID(ctx, userID)
	if err == nil && author != nil {
		comment.Author = author
		if _, err := a.repo.CreateNotification(ctx, &models.Notification{
			RecipientID: post.AuthorID,
			SenderID:    sql.NullInt64{Int64: userID, Valid: true},
			Type:        models.NotifyTypeComment,
			Content:     fmt.Sprintf("%s commented on your post", author.Username),
			RefKind:     sql.NullString{String: models.RefKindComment, Valid: true},
			RefID:       sql.NullInt64{Int64: comment.ID, Valid: true},
		}); err != nil {
			a.logger.Warn("failed to create comment notification", zap.Error(err))
		}
	}
	response.Created(c, views.NewComment(comment))
}

// ListComments handles GET /api/social/posts/:id/comments, top-level
// comments with one level of replies, oldest first
func (a *API) ListComments(c *gin.Context) {
	post, ok := a.visiblePost(c)
	if !ok {
		return
	}
	page, limit := response.Page(c)
	comments, err := a.repo.TopLevelComments(c.Request.Context(), post.ID, page, limit)
	if err != nil {
		response.Internal(c)
		return
	}
	out := make([]*views.Comment, 0, len(comments))
	for _, comment := range comments {
		out = append(out, views.NewComment(comment))
	}
	response.OK(c, gin.H{"comments": out, "page": page})
}

type updateCommentRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// UpdateComment handles PUT /api/social/comments/:id, author only
func (a *API) UpdateComment(c *gin.Context) {
	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid comment payload")
		return
	}
	id, ok := response.IDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid comment id")
		return
	}
	comment, err := a.repo.GetCommentByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c)
		return
	}
	if comment == nil {
		response.NotFound(c, "comment not found")
		return
	}
	if comment.AuthorID != middleware.UserID(c) {
		response.Forbidden(c, "only the author can edit a comment")
		return
	}
	comment.Content = req.Content
	if err := a.repo.UpdateComment(c.Request.Context(), comment); err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, views.NewComment(comment))
}

// DeleteComment handles DELETE /api/social/comments/:id, author only
func (a *API) DeleteComment(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid comment id")
		return
	}
	comment, err := a.repo.GetCommentByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c)
		return
	}
	if comment == nil {
		response.NotFound(c, "comment not found")
		return
	}
	if comment.AuthorID != middleware.UserID(c) {
		response.Forbidden(c, "only the author can delete a comment")
		return
	}
	if err := a.repo.DeleteComment(c.Request.Context(), comment); err != nil {
		response.Internal(c)
		return
	}
	response.NoContent(c)
}

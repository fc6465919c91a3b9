// Package social implements post, comment, like, story, hashtag and
// trending endpoints.
package social

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yoursocial/yoursocial/internal/api/middleware"
	"github.com/yoursocial/yoursocial/internal/api/response"
	"github.com/yoursocial/yoursocial/internal/api/views"
	"github.com/yoursocial/yoursocial/internal/db"
	"github.com/yoursocial/yoursocial/internal/media"
	"github.com/yoursocial/yoursocial/internal/models"
	"github.com/yoursocial/yoursocial/pkg/logging"
)

// API provides social endpoints
type API struct {
	repo   *db.Repository
	store  *media.Store
	logger *zap.Logger
}

// NewAPI creates the social API
func NewAPI(repo *db.Repository, store *media.Store) *API {
	return &API{
		repo:   repo,
		store:  store,
		logger: logging.GetLogger().With(zap.String("component", "social-api")),
	}
}

type postRequest struct {
	Content   string   `json:"content" binding:"required,max=5000"`
	MediaURL  string   `json:"media_url"`
	MediaType string   `json:"media_type"`
	Hashtags  []string `json:"hashtags"`
	Mentions  []int64  `json:"mentions"`
	Location  string   `json:"location"`
	IsPrivate bool     `json:"is_private"`
}

// CreatePost handles POST /api/social/posts
func (a *API) CreatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid post payload")
		return
	}
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	post := &models.Post{
		AuthorID:  userID,
		Content:   req.Content,
		MediaURL:  req.MediaURL,
		MediaType: req.MediaType,
		Hashtags:  normalizeTags(req.Hashtags),
		Mentions:  req.Mentions,
		Location:  req.Location,
		IsPrivate: req.IsPrivate,
	}
	if err := a.repo.CreatePost(ctx, post); err != nil {
		response.Internal(c)
		return
	}

	author, err := a.repo.GetUserByID(ctx, userID)
	if err == nil && author != nil {
		post.Author = author
		a.notifyMentions(c, author, post.Mentions, models.NotifyTypeMention, models.RefKindPost, post.ID,
			fmt.Sprintf("%s mentioned you in a post", author.Username))
	}
	a.logger.Info("post created", zap.Int64("post_id", post.ID), zap.Int64("author_id", userID))
	response.Created(c, views.NewPost(post, false))
}

// Feed handles GET /api/social/posts/feed: own plus followed authors,
// newest first
func (a *API) Feed(c *gin.Context) {
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	followingIDs, err := a.repo.FollowingIDs(ctx, userID)
	if err != nil {
		response.Internal(c)
		return
	}
	page, limit := response.Page(c)
	posts, err := a.repo.FeedPosts(ctx, userID, followingIDs, page, limit)
	if err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, gin.H{"posts": a.postViews(c, posts, userID), "page": page})
}

// GetPost handles GET /api/social/posts/:id. Private posts from other
// authors the viewer does not follow read as missing.
func (a *API) GetPost(c *gin.Context) {
	post, ok := a.visiblePost(c)
	if !ok {
		return
	}
	userID := middleware.UserID(c)
	liked, err := a.repo.HasLikedPost(c.Request.Context(), userID, post.ID)
	if err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, views.NewPost(post, liked))
}

// UserPosts handles GET /api/social/users/:id/posts
func (a *API) UserPosts(c *gin.Context) {
	authorID, ok := response.IDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid user id")
		return
	}
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	includePrivate := authorID == userID
	if !includePrivate {
		following, err := a.repo.IsFollowing(ctx, userID, authorID)
		if err != nil {
			response.Internal(c)
			return
		}
		includePrivate = following
	}
	page, limit := response.Page(c)
	posts, err := a.repo.PostsByAuthor(ctx, authorID, includePrivate, page, limit)
	if err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, gin.H{"posts": a.postViews(c, posts, userID), "page": page})
}

type updatePostRequest struct {
	Content   *string  `json:"content"`
	Hashtags  []string `json:"hashtags"`
	Location  *string  `json:"location"`
	IsPrivate *bool    `json:"is_private"`
}

// UpdatePost handles PUT /api/social/posts/:id, author only
func (a *API) UpdatePost(c *gin.Context) {
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid post payload")
		return
	}
	post, ok := a.visiblePost(c)
	if !ok {
		return
	}
	if post.AuthorID != middleware.UserID(c) {
		response.Forbidden(c, "only the author can edit a post")
		return
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Hashtags != nil {
		post.Hashtags = normalizeTags(req.Hashtags)
	}
	if req.Location != nil {
		post.Location = *req.Location
	}
	if req.IsPrivate != nil {
		post.IsPrivate = *req.IsPrivate
	}
	if err := a.repo.UpdatePost(c.Request.Context(), post); err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, views.NewPost(post, false))
}

// DeletePost handles DELETE /api/social/posts/:id, author only
func (a *API) DeletePost(c *gin.Context) {
	post, ok := a.visiblePost(c)
	if !ok {
		return
	}
	if post.AuthorID != middleware.UserID(c) {
		response.Forbidden(c, "only the author can delete a post")
		return
	}
	if err := a.repo.DeletePost(c.Request.Context(), post); err != nil {
		response.Internal(c)
		return
	}
	if post.MediaURL != "" {
		if err := a.store.Delete(post.MediaURL); err != nil {
			a.logger.Warn("failed to delete post media", zap.Error(err))
		}
	}
	response.NoContent(c)
}

// UploadMedia handles POST /api/social/media, storing an attachment for a
// later post, story or message
func (a *API) UploadMedia(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file upload")
		return
	}
	up, err := a.store.Save("uploads", header)
	if err != nil {
		response.Internal(c)
		return
	}
	response.Created(c, gin.H{"url": up.URL, "media_type": up.MediaType})
}

// visiblePost loads the :id post and applies the visibility rule: private
// posts are readable by their author and followers only, and read as
// missing to everyone else
func (a *API) visiblePost(c *gin.Context) (*models.Post, bool) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid post id")
		return nil, false
	}
	userID := middleware.UserID(c)
	post, err := a.repo.GetPostByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c)
		return nil, false
	}
	if post == nil {
		response.NotFound(c, "post not found")
		return nil, false
	}
	if post.IsPrivate && post.AuthorID != userID {
		following, err := a.repo.IsFollowing(c.Request.Context(), userID, post.AuthorID)
		if err != nil {
			response.Internal(c)
			return nil, false
		}
		if !following {
			response.NotFound(c, "post not found")
			return nil, false
		}
	}
	return post, true
}

func (a *API) postViews(c *gin.Context, posts []*models.Post, viewerID int64) []*views.Post {
	out := make([]*views.Post, 0, len(posts))
	for _, p := range posts {
		liked, err := a.repo.HasLikedPost(c.Request.Context(), viewerID, p.ID)
		if err != nil {
			liked = false
		}
		out = append(out, views.NewPost(p, liked))
	}
	return out
}

func (a *API) notifyMentions(c *gin.Context, sender *models.User, mentions []int64, notifType, refKind string, refID int64, content string) {
	for _, recipientID := range mentions {
		_, err := a.repo.CreateNotification(c.Request.Context(), &models.Notification{
			RecipientID: recipientID,
			SenderID:    sql.NullInt64{Int64: sender.ID, Valid: true},
			Type:        notifType,
			Content:     content,
			RefKind:     sql.NullString{String: refKind, Valid: true},
			RefID:       sql.NullInt64{Int64: refID, Valid: true},
		})
		if err != nil {
			a.logger.Warn("failed to create mention notification", zap.Error(err))
		}
	}
}

// normalizeTags lowercases tags, strips leading '#' and drops empties and
// duplicates while preserving order
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

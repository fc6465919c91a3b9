package social

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yoursocial/yoursocial/internal/api/middleware"
	"github.com/yoursocial/yoursocial/internal/api/response"
	"github.com/yoursocial/yoursocial/internal/api/views"
	"github.com/yoursocial/yoursocial/internal/models"
)

type storyRequest struct {
	ContentURL  string   `json:"content_url" binding:"required"`
	ContentType string   `json:"content_type" binding:"required"`
	Caption     string   `json:"caption" binding:"max=200"`
	Hashtags    []string `json:"hashtags"`
	Mentions    []int64  `json:"mentions"`
}

// CreateStory handles POST /api/social/stories; stories live for a fixed
// 24 hours
func (a *API) CreateStory(c *gin.Context) {
	var req storyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid story payload")
		return
	}
	if req.ContentType != models.MediaTypeImage && req.ContentType != models.MediaTypeVideo {
		response.BadRequest(c, "content_type must be image or video")
		return
	}
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	story := &models.Story{
		AuthorID:    userID,
		ContentURL:  req.ContentURL,
		ContentType: req.ContentType,
		Caption:     req.Caption,
		Hashtags:    normalizeTags(req.Hashtags),
		Mentions:    req.Mentions,
	}
	if err := a.repo.CreateStory(ctx, story); err != nil {
		response.Internal(c)
		return
	}

	author, err := a.repo.GetUserByID(ctx, userID)
	if err == nil && author != nil {
		story.Author = author
		a.notifyStoryMentions(c, author, story)
	}
	response.Created(c, views.NewStory(story, false))
}

// ListStories handles GET /api/social/stories: unexpired stories from the
// viewer and followed authors, grouped per author in the response order
func (a *API) ListStories(c *gin.Context) {
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	followingIDs, err := a.repo.FollowingIDs(ctx, userID)
	if err != nil {
		response.Internal(c)
		return
	}
	authorIDs := append([]int64{userID}, followingIDs...)
	stories, err := a.repo.ActiveStories(ctx, authorIDs, time.Now().UTC())
	if err != nil {
		response.Internal(c)
		return
	}

	storyIDs := make([]int64, 0, len(stories))
	for _, s := range stories {
		storyIDs = append(storyIDs, s.ID)
	}
	seen, err := a.repo.ViewedStoryIDs(ctx, userID, storyIDs)
	if err != nil {
		response.Internal(c)
		return
	}
	out := make([]*views.Story, 0, len(stories))
	for _, s := range stories {
		out = append(out, views.NewStory(s, seen[s.ID]))
	}
	response.OK(c, gin.H{"stories": out})
}

// ViewStory handles POST /api/social/stories/:id/view; the receipt is
// idempotent
func (a *API) ViewStory(c *gin.Context) {
	story, ok := a.activeStory(c)
	if !ok {
		return
	}
	userID := middleware.UserID(c)
	status, err := a.repo.RecordStoryView(c.Request.Context(), story.ID, userID, time.Now().UTC())
	if err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, gin.H{"status": status})
}

// StoryViewers handles GET /api/social/stories/:id/views, author only
func (a *API) StoryViewers(c *gin.Context) {
	story, ok := a.activeStory(c)
	if !ok {
		return
	}
	if story.AuthorID != middleware.UserID(c) {
		response.Forbidden(c, "only the author can list story views")
		return
	}
	storyViews, err := a.repo.StoryViews(c.Request.Context(), story.ID)
	if err != nil {
		response.Internal(c)
		return
	}
	type viewerEntry struct {
		Viewer   *views.UserSummary `json:"viewer"`
		ViewedAt time.Time          `json:"viewed_at"`
	}
	out := make([]viewerEntry, 0, len(storyViews))
	for _, v := range storyViews {
		out = append(out, viewerEntry{Viewer: views.NewUserSummary(v.Viewer), ViewedAt: v.ViewedAt})
	}
	response.OK(c, gin.H{"views": out, "count": len(out)})
}

// ExpiredStories handles GET /api/social/stories/expired: the viewer's own
// stories past their TTL, still readable until swept
func (a *API) ExpiredStories(c *gin.Context) {
	userID := middleware.UserID(c)
	page, limit := response.Page(c)
	stories, err := a.repo.ExpiredStoriesByAuthor(c.Request.Context(), userID, time.Now().UTC(), page, limit)
	if err != nil {
		response.Internal(c)
		return
	}
	out := make([]*views.Story, 0, len(stories))
	for _, s := range stories {
		out = append(out, views.NewStory(s, true))
	}
	response.OK(c, gin.H{"stories": out, "page": page})
}

// StoryStatistics handles GET /api/social/stories/statistics for the
// viewer
func (a *API) StoryStatistics(c *gin.Context) {
	stats, err := a.repo.GetStoryStatistics(c.Request.Context(), middleware.UserID(c), time.Now().UTC())
	if err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, stats)
}

// activeStory loads the :id story; expired stories read as missing to
// everyone but their author
func (a *API) activeStory(c *gin.Context) (*models.Story, bool) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid story id")
		return nil, false
	}
	story, err := a.repo.GetStoryByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c)
		return nil, false
	}
	if story == nil {
		response.NotFound(c, "story not found")
		return nil, false
	}
	if story.Expired(time.Now().UTC()) && story.AuthorID != middleware.UserID(c) {
		response.NotFound(c, "story not found")
		return nil, false
	}
	return story, true
}

func (a *API) notifyStoryMentions(c *gin.Context, author *models.User, story *models.Story) {
	a.notifyMentions(c, author, story.Mentions, models.NotifyTypeStoryMention, models.RefKindStory, story.ID,
		fmt.Sprintf("%s mentioned you in a story", author.Username))
}

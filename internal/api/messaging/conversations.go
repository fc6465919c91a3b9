// Package messaging implements conversation, message and reaction
// endpoints.
package messaging

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yoursocial/yoursocial/internal/api/middleware"
	"github.com/yoursocial/yoursocial/internal/api/response"
	"github.com/yoursocial/yoursocial/internal/api/views"
	"github.com/yoursocial/yoursocial/internal/cache"
	"github.com/yoursocial/yoursocial/internal/db"
	"github.com/yoursocial/yoursocial/internal/models"
	"github.com/yoursocial/yoursocial/pkg/logging"
)

// API provides messaging endpoints
type API struct {
	repo   *db.Repository
	unread *cache.UnreadCounts
	logger *zap.Logger
}

// NewAPI creates the messaging API
func NewAPI(repo *db.Repository, unread *cache.UnreadCounts) *API {
	return &API{
		repo:   repo,
		unread: unread,
		logger: logging.GetLogger().With(zap.String("component", "messaging-api")),
	}
}

type createConversationRequest struct {
	ParticipantID int64 `json:"participant_id" binding:"required"`
}

// CreateConversation handles POST /api/messaging/conversations,
// returning the existing direct conversation when one already exists
func (a *API) CreateConversation(c *gin.Context) {
	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid conversation payload")
		return
	}
	userID := middleware.UserID(c)
	if req.ParticipantID == userID {
		response.BadRequest(c, "cannot start a conversation with yourself")
		return
	}
	ctx := c.Request.Context()

	other, err := a.repo.GetUserByID(ctx, req.ParticipantID)
	if err != nil {
		response.Internal(c)
		return
	}
	if other == nil {
		response.NotFound(c, "user not found")
		return
	}

	conv, created, err := a.repo.GetOrCreateConversation(ctx, userID, req.ParticipantID)
	if err != nil {
		response.Internal(c)
		return
	}
	view := views.NewConversation(conv, userID, 0)
	if created {
		response.Created(c, view)
		return
	}
	response.OK(c, view)
}

// ListConversations handles GET /api/messaging/conversations, most
// recently active first, with per-conversation unread counts
func (a *API) ListConversations(c *gin.Context) {
	userID := middleware.UserID(c)
	page, limit := response.Page(c)
	convs, err := a.repo.ConversationsFor(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Internal(c)
		return
	}
	out := make([]*views.Conversation, 0, len(convs))
	for _, conv := range convs {
		unread, err := a.repo.UnreadMessageCount(c.Request.Context(), conv.ID, userID)
		if err != nil {
			response.Internal(c)
			return
		}
		out = append(out, views.NewConversation(conv, userID, unread))
	}
	response.OK(c, gin.H{"conversations": out, "page": page})
}

// RecentConversations handles GET /api/messaging/conversations/recent
func (a *API) RecentConversations(c *gin.Context) {
	userID := middleware.UserID(c)
	convs, err := a.repo.ConversationsFor(c.Request.Context(), userID, 1, 5)
	if err != nil {
		response.Internal(c)
		return
	}
	out := make([]*views.Conversation, 0, len(convs))
	for _, conv := range convs {
		unread, err := a.repo.UnreadMessageCount(c.Request.Context(), conv.ID, userID)
		if err != nil {
			response.Internal(c)
			return
		}
		out = append(out, views.NewConversation(conv, userID, unread))
	}
	response.OK(c, gin.H{"conversations": out})
}

// DeleteConversation handles DELETE /api/messaging/conversations/:id,
// participant only; messages and reactions go with it
func (a *API) DeleteConversation(c *gin.Context) {
	conv, ok := a.participantConversation(c)
	if !ok {
		return
	}
	if err := a.repo.DeleteConversation(c.Request.Context(), conv.ID); err != nil {
		response.Internal(c)
		return
	}
	a.invalidateUnread(conv)
	response.NoContent(c)
}

type muteRequest struct {
	Muted bool `json:"muted"`
}

// MuteConversation handles PUT /api/messaging/conversations/:id/mute.
// Muting suppresses message notifications for this participant only.
func (a *API) MuteConversation(c *gin.Context) {
	var req muteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid mute payload")
		return
	}
	conv, ok := a.participantConversation(c)
	if !ok {
		return
	}
	userID := middleware.UserID(c)
	if err := a.repo.SetConversationMuted(c.Request.Context(), conv.ID, userID, req.Muted); err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, gin.H{"muted": req.Muted})
}

// participantConversation loads the :id conversation when the caller
// participates in it; non-participants get not-found
func (a *API) participantConversation(c *gin.Context) (*models.Conversation, bool) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid conversation id")
		return nil, false
	}
	conv, err := a.repo.GetConversationForParticipant(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		response.Internal(c)
		return nil, false
	}
	if conv == nil {
		response.NotFound(c, "conversation not found")
		return nil, false
	}
	return conv, true
}

func (a *API) invalidateUnread(conv *models.Conversation) {
	for i := range conv.Participants {
		if err := a.unread.Invalidate(cache.UnreadMessages, conv.Participants[i].UserID); err != nil {
			a.logger.Warn("failed to invalidate unread cache", zap.Error(err))
		}
	}
}

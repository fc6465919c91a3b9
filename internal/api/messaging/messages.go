package messaging

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yoursocial/yoursocial/internal/api/middleware"
	"github.com/yoursocial/yoursocial/internal/api/response"
	"github.com/yoursocial/yoursocial/internal/api/views"
	"github.com/yoursocial/yoursocial/internal/cache"
	"github.com/yoursocial/yoursocial/internal/models"
)

type sendMessageRequest struct {
	Content   string `json:"content" binding:"required,max=5000"`
	MediaURL  string `json:"media_url"`
	MediaType string `json:"media_type"`
}

// SendMessage handles POST /api/messaging/conversations/:id/messages. The
// conversation's last-message pointer and activity timestamp advance with
// the new message.
func (a *API) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid message payload")
		return
	}
	conv, ok := a.participantConversation(c)
	if !ok {
		return
	}
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       userID,
		Content:        req.Content,
		MediaURL:       req.MediaURL,
		MediaType:      req.MediaType,
	}
	if err := a.repo.CreateMessage(ctx, msg); err != nil {
		response.Internal(c)
		return
	}

	sender, err := a.repo.GetUserByID(ctx, userID)
	if err == nil && sender != nil {
		msg.Sender = sender
		a.notifyRecipients(c, conv, sender, msg)
	}
	response.Created(c, views.NewMessage(msg))
}

// notifyRecipients creates a message notification for every other
// participant who has not muted the conversation. Membership rows are
// re-read so a mute flipped after the conversation was loaded is honored.
func (a *API) notifyRecipients(c *gin.Context, conv *models.Conversation, sender *models.User, msg *models.Message) {
	participants, err := a.repo.ConversationParticipants(c.Request.Context(), conv.ID)
	if err != nil {
		a.logger.Warn("failed to load conversation participants", zap.Error(err))
		return
	}
	for _, p := range participants {
		if p.UserID == sender.ID || p.Muted {
			continue
		}
		if _, err := a.repo.CreateNotification(c.Request.Context(), &models.Notification{
			RecipientID: p.UserID,
			SenderID:    sql.NullInt64{Int64: sender.ID, Valid: true},
			Type:        models.NotifyTypeMessage,
			Content:     fmt.Sprintf("%s sent you a message", sender.Username),
			RefKind:     sql.NullString{String: models.RefKindMessage, Valid: true},
			RefID:       sql.NullInt64{Int64: msg.ID, Valid: true},
		}); err != nil {
			a.logger.Warn("failed to create message notification", zap.Error(err))
		}
		if err := a.unread.Invalidate(cache.UnreadMessages, p.UserID); err != nil {
			a.logger.Warn("failed to invalidate unread cache", zap.Error(err))
		}
		if err := a.unread.Invalidate(cache.UnreadNotifications, p.UserID); err != nil {
			a.logger.Warn("failed to invalidate unread cache", zap.Error(err))
		}
	}
}

// ListMessages handles GET /api/messaging/conversations/:id/messages,
// chronological. Listing marks the other participants' unread messages as
// read; repeat listings change nothing.
func (a *API) ListMessages(c *gin.Context) {
	conv, ok := a.participantConversation(c)
	if !ok {
		return
	}
	userID := middleware.UserID(c)
	page, limit := response.Page(c)
	msgs, err := a.repo.ConversationMessages(c.Request.Context(), conv.ID, userID, page, limit, time.Now().UTC())
	if err != nil {
		response.Internal(c)
		return
	}
	if err := a.unread.Invalidate(cache.UnreadMessages, userID); err != nil {
		a.logger.Warn("failed to invalidate unread cache", zap.Error(err))
	}
	out := make([]*views.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, views.NewMessage(m))
	}
	response.OK(c, gin.H{"messages": out, "page": page})
}

type editMessageRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

// EditMessage handles PUT /api/messaging/messages/:id, sender only
func (a *API) EditMessage(c *gin.Context) {
	var req editMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid message payload")
		return
	}
	msg, ok := a.participantMessage(c)
	if !ok {
		return
	}
	if msg.SenderID != middleware.UserID(c) {
		response.Forbidden(c, "only the sender can edit a message")
		return
	}
	msg.Content = req.Content
	if err := a.repo.UpdateMessage(c.Request.Context(), msg); err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, views.NewMessage(msg))
}

// DeleteMessage handles DELETE /api/messaging/messages/:id, sender only.
// The conversation's last-message pointer falls back to the most recent
// remaining message.
func (a *API) DeleteMessage(c *gin.Context) {
	msg, ok := a.participantMessage(c)
	if !ok {
		return
	}
	if msg.SenderID != middleware.UserID(c) {
		response.Forbidden(c, "only the sender can delete a message")
		return
	}
	if err := a.repo.DeleteMessage(c.Request.Context(), msg); err != nil {
		response.Internal(c)
		return
	}
	response.NoContent(c)
}

// UnreadCount handles GET /api/messaging/conversations/:id/unread
func (a *API) UnreadCount(c *gin.Context) {
	conv, ok := a.participantConversation(c)
	if !ok {
		return
	}
	count, err := a.repo.UnreadMessageCount(c.Request.Context(), conv.ID, middleware.UserID(c))
	if err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, gin.H{"unread": count})
}

// TotalUnread handles GET /api/messaging/unread; cached with the database
// as the authority on miss
func (a *API) TotalUnread(c *gin.Context) {
	userID := middleware.UserID(c)
	if count, ok := a.unread.Get(cache.UnreadMessages, userID); ok {
		response.OK(c, gin.H{"unread": count})
		return
	}
	count, err := a.repo.TotalUnreadMessages(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c)
		return
	}
	if err := a.unread.Set(cache.UnreadMessages, userID, count); err != nil {
		a.logger.Warn("failed to cache unread count", zap.Error(err))
	}
	response.OK(c, gin.H{"unread": count})
}

// MarkRead handles POST /api/messaging/conversations/:id/read, marking
// every unread message from other senders
func (a *API) MarkRead(c *gin.Context) {
	conv, ok := a.participantConversation(c)
	if !ok {
		return
	}
	userID := middleware.UserID(c)
	marked, err := a.repo.MarkConversationRead(c.Request.Context(), conv.ID, userID, time.Now().UTC())
	if err != nil {
		response.Internal(c)
		return
	}
	if err := a.unread.Invalidate(cache.UnreadMessages, userID); err != nil {
		a.logger.Warn("failed to invalidate unread cache", zap.Error(err))
	}
	response.OK(c, gin.H{"marked": marked})
}

// Statistics handles GET /api/messaging/statistics for the viewer
func (a *API) Statistics(c *gin.Context) {
	stats, err := a.repo.GetMessagingStatistics(c.Request.Context(), middleware.UserID(c), time.Now().UTC())
	if err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, stats)
}

// participantMessage loads the :id message when the caller participates
// in its conversation
func (a *API) participantMessage(c *gin.Context) (*models.Message, bool) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid message id")
		return nil, false
	}
	msg, err := a.repo.GetMessageForParticipant(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		response.Internal(c)
		return nil, false
	}
	if msg == nil {
		response.NotFound(c, "message not found")
		return nil, false
	}
	return msg, true
}

package messaging

import (
	"github.com/gin-gonic/gin"

	"github.com/yoursocial/yoursocial/internal/api/middleware"
	"github.com/yoursocial/yoursocial/internal/api/response"
	"github.com/yoursocial/yoursocial/internal/api/views"
)

type reactionRequest struct {
	Emoji string `json:"emoji" binding:"required,max=10"`
}

// ToggleReaction handles POST /api/messaging/messages/:id/reactions.
// Reacting with an emoji already present for this user removes it.
func (a *API) ToggleReaction(c *gin.Context) {
	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid reaction payload")
		return
	}
	msg, ok := a.participantMessage(c)
	if !ok {
		return
	}
	action, err := a.repo.ToggleMessageReaction(c.Request.Context(), msg.ID, middleware.UserID(c), req.Emoji)
	if err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, gin.H{"action": action})
}

// ListReactions handles GET /api/messaging/messages/:id/reactions,
// grouped by emoji
func (a *API) ListReactions(c *gin.Context) {
	msg, ok := a.participantMessage(c)
	if !ok {
		return
	}
	reactions, err := a.repo.MessageReactions(c.Request.Context(), msg.ID)
	if err != nil {
		response.Internal(c)
		return
	}

	grouped := make(map[string][]*views.UserSummary)
	order := make([]string, 0)
	for _, r := range reactions {
		if _, ok := grouped[r.Emoji]; !ok {
			order = append(order, r.Emoji)
		}
		grouped[r.Emoji] = append(grouped[r.Emoji], views.NewUserSummary(r.User))
	}

	type emojiGroup struct {
		Emoji string               `json:"emoji"`
		Count int                  `json:"count"`
		Users []*views.UserSummary `json:"users"`
	}
	out := make([]emojiGroup, 0, len(order))
	for _, emoji := range order {
		out = append(out, emojiGroup{Emoji: emoji, Count: len(grouped[emoji]), Users: grouped[emoji]})
	}
	response.OK(c, gin.H{"reactions": out})
}

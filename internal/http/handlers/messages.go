package handlers

import (
	"net/http"

	"github.com/suryssss/SkillStones-sub001/internal/http/middleware"
	"github.com/suryssss/SkillStones-sub001/internal/stones"
	"github.com/suryssss/SkillStones-sub001/internal/ws"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	Stones *stones.Service
	Hub    *ws.Hub
}

func (h *MessageHandler) List(c *gin.Context) {
	msgs, err := h.Stones.ListMessages(paramID(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": msgs})
}

type sendMessageReq struct {
	Content string `json:"content" binding:"required"`
}

// Send persists the message, then fans it out to everyone in the
// stone's room, sender included. Connected sessions see it immediately;
// everyone else picks it up on the next ListMessages.
func (h *MessageHandler) Send(c *gin.Context) {
	userID := middleware.MustUserID(c)

	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "content is required", "error": err.Error()})
		return
	}

	stoneID := paramID(c, "id")
	msg, err := h.Stones.SendMessage(userID, stoneID, req.Content)
	if err != nil {
		fail(c, err)
		return
	}

	h.Hub.PublishMessage(stoneID, msg)

	c.JSON(http.StatusOK, gin.H{"data": msg})
}

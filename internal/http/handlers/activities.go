package handlers

import (
	"net/http"

	"github.com/suryssss/SkillStones-sub001/internal/activity"
	"github.com/suryssss/SkillStones-sub001/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	Activities *activity.Service
}

func (h *ActivityHandler) ListForUser(c *gin.Context) {
	userID := middleware.MustUserID(c)

	acts, err := h.Activities.ListForUser(userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": acts})
}

func (h *ActivityHandler) ListForProject(c *gin.Context) {
	userID := middleware.MustUserID(c)

	acts, err := h.Activities.ListForProject(userID, paramID(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": acts})
}

func (h *ActivityHandler) Stats(c *gin.Context) {
	userID := middleware.MustUserID(c)

	stats, err := h.Activities.ComputeStats(userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

package handlers

import (
	"net/http"

	"github.com/suryssss/SkillStones-sub001/internal/http/middleware"
	"github.com/suryssss/SkillStones-sub001/internal/models"
	"github.com/suryssss/SkillStones-sub001/internal/stones"
	"github.com/suryssss/SkillStones-sub001/internal/ws"

	"github.com/gin-gonic/gin"
)

type StoneHandler struct {
	Stones *stones.Service
	Hub    *ws.Hub
}

func (h *StoneHandler) List(c *gin.Context) {
	userID := middleware.MustUserID(c)

	stns, err := h.Stones.List(userID, paramID(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stns})
}

type createStoneReq struct {
	Title  string             `json:"title" binding:"required"`
	Detail string             `json:"detail"`
	Status models.StoneStatus `json:"status"`
}

func (h *StoneHandler) Create(c *gin.Context) {
	userID := middleware.MustUserID(c)

	var req createStoneReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body", "error": err.Error()})
		return
	}

	st, err := h.Stones.Create(userID, paramID(c, "id"), stones.CreateInput{
		Title:  req.Title,
		Detail: req.Detail,
		Status: req.Status,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": st})
}

type updateStatusReq struct {
	Status models.StoneStatus `json:"status" binding:"required"`
}

// UpdateStatus persists the transition, then notifies the stone's room.
// The broadcast is fire-and-forget: the row is already written and a
// failed delivery never surfaces to the caller.
func (h *StoneHandler) UpdateStatus(c *gin.Context) {
	userID := middleware.MustUserID(c)

	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "status is required", "error": err.Error()})
		return
	}

	st, err := h.Stones.UpdateStatus(userID, paramID(c, "id"), paramID(c, "stoneId"), req.Status)
	if err != nil {
		fail(c, err)
		return
	}

	h.Hub.PublishStatusChange(st.ID, st)

	c.JSON(http.StatusOK, gin.H{"data": st})
}

type assignStoneReq struct {
	AssigneeID uint `json:"assignee_id" binding:"required"`
}

func (h *StoneHandler) Assign(c *gin.Context) {
	userID := middleware.MustUserID(c)

	var req assignStoneReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body", "error": err.Error()})
		return
	}

	st, err := h.Stones.Assign(userID, paramID(c, "id"), paramID(c, "stoneId"), req.AssigneeID)
	if err != nil {
		fail(c, err)
		return
	}

	h.Hub.PublishStatusChange(st.ID, st)

	c.JSON(http.StatusOK, gin.H{"data": st})
}

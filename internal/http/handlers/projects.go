package handlers

import (
	"net/http"
	"strconv"

	"github.com/suryssss/SkillStones-sub001/internal/http/middleware"
	"github.com/suryssss/SkillStones-sub001/internal/projects"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	Projects *projects.Service
}

// paramID parses a numeric path param; returns 0 for anything invalid,
// which downstream access checks turn into a 404.
func paramID(c *gin.Context, name string) uint {
	id, _ := strconv.ParseUint(c.Param(name), 10, 64)
	return uint(id)
}

type createProjectReq struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	userID := middleware.MustUserID(c)

	var req createProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body", "error": err.Error()})
		return
	}

	p, err := h.Projects.Create(userID, req.Title, req.Description)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": p})
}

func (h *ProjectHandler) List(c *gin.Context) {
	userID := middleware.MustUserID(c)

	projs, err := h.Projects.List(userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": projs})
}

func (h *ProjectHandler) Get(c *gin.Context) {
	userID := middleware.MustUserID(c)

	p, err := h.Projects.Get(userID, paramID(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p})
}

type addMemberReq struct {
	UserID uint `json:"user_id" binding:"required"`
}

func (h *ProjectHandler) AddMember(c *gin.Context) {
	userID := middleware.MustUserID(c)

	var req addMemberReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body", "error": err.Error()})
		return
	}

	m, err := h.Projects.AddMember(userID, paramID(c, "id"), req.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": m})
}

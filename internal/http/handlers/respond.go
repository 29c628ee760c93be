package handlers

import (
	"errors"
	"net/http"

	"github.com/suryssss/SkillStones-sub001/internal/apperr"

	"github.com/gin-gonic/gin"
)

// fail maps a service error kind onto its HTTP status. Messages stay
// distinct per failure so a client can tell a retryable 500 from a
// terminal 400/404.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, apperr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "something went wrong", "error": err.Error()})
	}
}

package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"taskflow-api/internal/apperr"

	"github.com/gin-gonic/gin"
)

// Pagination is the paging block of a list response envelope.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// fail translates a service error into the response envelope. Validation
// failures carry field detail; anything unrecognized is a generic server error
// with the cause logged, never leaked.
func fail(c *gin.Context, err error) {
	var v *apperr.ValidationError
	switch {
	case errors.As(err, &v):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  v.Fields,
		})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": notFoundMessage(err),
		})
	case errors.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "Access denied",
		})
	case errors.Is(err, apperr.ErrAlreadyRunning):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Timer is already running",
		})
	case errors.Is(err, apperr.ErrNotRunning):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Timer is not running",
		})
	default:
		log.Printf("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Server error",
		})
	}
}

func notFoundMessage(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "comment"):
		return "Comment not found"
	case strings.Contains(msg, "user"):
		return "User not found"
	}
	return "Task not found"
}

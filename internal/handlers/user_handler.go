package handlers

import (
	"net/http"

	"taskflow-api/internal/models"

	"github.com/gin-gonic/gin"
)

// UserResponse is the safe user payload exposed to other team members.
type UserResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Role       models.UserRole `json:"role"`
	Department string          `json:"department"`
}

// GetAllUsers handles GET /api/users
// Returns all users, for assignee pickers and comment attribution.
func GetAllUsers(c *gin.Context) {
	users, err := svc.Users().List()
	if err != nil {
		fail(c, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, UserResponse{
			ID:         u.ID,
			Name:       u.Name,
			Email:      u.Email,
			Role:       u.Role,
			Department: u.Department,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}

package handlers

import (
	"errors"
	"net/http"

	"taskflow-api/internal/apperr"
	"taskflow-api/internal/auth"
	"taskflow-api/internal/models"
	"taskflow-api/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest is the body for POST /api/register
type RegisterRequest struct {
	Name       string          `json:"name" binding:"required,min=2,max=50"`
	Email      string          `json:"email" binding:"required,email"`
	Password   string          `json:"password" binding:"required,min=6"`
	Role       models.UserRole `json:"role"`
	Department string          `json:"department"`
}

// LoginRequest is the body for POST /api/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/register (admin only; the route gates on role).
// Creates a user account and returns a signed token for it. A welcome
// notification is sent best-effort.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleTeamMember
	}
	if !role.Valid() {
		fail(c, apperr.Validation("role", "Role must be admin or team-member"))
		return
	}

	if _, err := svc.Users().FindByEmail(req.Email); err == nil {
		fail(c, apperr.Validation("email", "Email is already registered"))
		return
	} else if !errors.Is(err, apperr.ErrNotFound) {
		fail(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, err)
		return
	}

	user := models.User{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Email:      req.Email,
		Password:   string(hash),
		Role:       role,
		Department: req.Department,
	}
	if err := svc.Users().Create(&user); err != nil {
		fail(c, err)
		return
	}

	notify.Send(dispatcher, notify.Notification{
		Kind:      notify.KindWelcome,
		Recipient: user,
		Actor:     user,
	})

	token, err := auth.GenerateToken(&user)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    gin.H{"token": token, "user": user},
		"message": "Registration successful",
	})
}

// Login handles POST /api/login
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	user, err := svc.Users().FindByEmail(req.Email)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		// same response for unknown email and bad password
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid email or password",
		})
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"token": token, "user": user},
		"message": "Login successful",
	})
}

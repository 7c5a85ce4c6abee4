package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sahatak/models"
	user "sahatak/services/user"
	"sahatak/utils"
)

// AuthHandler exposes registration and login.
type AuthHandler struct {
	Users user.UserService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users user.UserService) *AuthHandler {
	return &AuthHandler{Users: users}
}

// Register creates a new account and returns a bearer token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	resp, err := h.Users.Register(req)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login verifies credentials and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	resp, err := h.Users.Authenticate(req)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, err.Error(), "")
		return
	}
	c.JSON(http.StatusOK, resp)
}

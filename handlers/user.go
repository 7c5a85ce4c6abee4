package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sahatak/models"
	user "sahatak/services/user"
	"sahatak/utils"
)

// UserHandler exposes account management for the authenticated caller.
type UserHandler struct {
	Users user.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users user.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

// UpdateFCMToken stores the caller's device push token so appointment
// notifications can reach it.
func (h *UserHandler) UpdateFCMToken(c *gin.Context) {
	var req models.FCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.Users.SetFCMToken(callerID(c), req.FCMToken); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to update push token", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "push token updated"})
}

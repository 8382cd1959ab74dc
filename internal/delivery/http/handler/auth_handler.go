package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// MeResponse describes the authenticated caller
type MeResponse struct {
	ProfileID string `json:"profile_id"`
}

// Me returns the profile bound to the access token
// @Summary Get current profile id
// @Description Resolve the bearer token to the caller's profile id
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} MeResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, MeResponse{
		ProfileID: profileID.String(),
	})
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents success response
type SuccessResponse struct {
	Message string `json:"message"`
}

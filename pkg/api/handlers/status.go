package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dasbridge/bridge/pkg/api/types"
)

// StatusHandler reports the calling user's identity
type StatusHandler struct{}

// NewStatusHandler creates a new status handler
func NewStatusHandler() *StatusHandler {
	return &StatusHandler{}
}

// Status handles GET /status
// @Summary      Caller identity
// @Description  Returns the name and email of the user owning the API key
// @Tags         status
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Failure      401  {object}  types.ErrorResponse  "Missing or invalid API key"
// @Router       /status [get]
func (h *StatusHandler) Status(c *gin.Context) {
	user := CurrentProfile(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, types.ErrorResponse{
			Error:   "unauthorized",
			Message: "no authenticated user",
		})
		return
	}

	c.JSON(http.StatusOK, types.StatusResponse{
		Name:  user.Name,
		Email: user.Email,
	})
}

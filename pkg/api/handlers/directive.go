package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dasbridge/bridge/pkg/alexa"
	"github.com/dasbridge/bridge/pkg/api/types"
	"github.com/dasbridge/bridge/pkg/schema"
)

// DirectiveHandler accepts voice-platform directive envelopes
type DirectiveHandler struct {
	skill     *alexa.Skill
	validator *schema.Validator
}

// NewDirectiveHandler creates a new directive handler
func NewDirectiveHandler(skill *alexa.Skill, validator *schema.Validator) *DirectiveHandler {
	return &DirectiveHandler{skill: skill, validator: validator}
}

// Handle handles POST /alexa/directives
// @Summary      Process a directive
// @Description  Runs one directive envelope through the skill and returns the response envelope
// @Tags         directives
// @Accept       json
// @Produce      json
// @Success      200  {object}  alexa.Response  "Response or ErrorResponse envelope"
// @Failure      400  {object}  types.ErrorResponse  "Malformed envelope"
// @Router       /alexa/directives [post]
func (h *DirectiveHandler) Handle(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "request body must be a JSON object",
		})
		return
	}

	if err := h.validator.Validate(schema.Directive, body); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_directive",
			Message: err.Error(),
		})
		return
	}

	// Round-trip through the validated map so the request carries exactly
	// what was validated.
	raw, err := json.Marshal(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_directive",
			Message: err.Error(),
		})
		return
	}

	var req alexa.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_directive",
			Message: err.Error(),
		})
		return
	}

	// Directive failures travel inside the envelope, so the transport
	// status is always 200 past this point.
	c.JSON(http.StatusOK, h.skill.Handle(c.Request.Context(), &req))
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dasbridge/bridge/pkg/api/types"
	"github.com/dasbridge/bridge/pkg/registry"
	"github.com/dasbridge/bridge/pkg/schema"
	"github.com/dasbridge/bridge/pkg/thing"
)

// DevicesHandler handles device registry endpoints
type DevicesHandler struct {
	things    *thing.Service
	validator *schema.Validator
}

// NewDevicesHandler creates a new devices handler
func NewDevicesHandler(things *thing.Service, validator *schema.Validator) *DevicesHandler {
	return &DevicesHandler{things: things, validator: validator}
}

// ListDevices handles GET /devices
// @Summary      List registered devices
// @Description  Returns the calling user's registered devices with short-form names
// @Tags         devices
// @Produce      json
// @Success      200  {object}  types.ListDevicesResponse
// @Failure      500  {object}  types.ErrorResponse  "Registry error"
// @Router       /devices [get]
func (h *DevicesHandler) ListDevices(c *gin.Context) {
	ctx := c.Request.Context()
	user := CurrentProfile(c)

	devices, err := h.things.List(ctx, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "registry_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.ListDevicesResponse{
		Devices: devices,
		Count:   len(devices),
	})
}

// GetDevice handles GET /devices/:id
// @Summary      Get device details
// @Description  Returns one of the calling user's devices by thing id
// @Tags         devices
// @Produce      json
// @Param        id   path      string  true  "Thing id"
// @Success      200  {object}  types.DeviceResponse
// @Failure      404  {object}  types.ErrorResponse  "Device not found"
// @Failure      500  {object}  types.ErrorResponse  "Registry error"
// @Router       /devices/{id} [get]
func (h *DevicesHandler) GetDevice(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()
	user := CurrentProfile(c)

	d, err := h.things.Describe(ctx, user, id)
	if err != nil {
		if errors.Is(err, registry.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, types.ErrorResponse{
				Error:   "not_found",
				Message: "Device not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "registry_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DeviceResponse{
		Device: *d,
	})
}

// ProvisionDevice handles POST /devices
// @Summary      Provision a device
// @Description  Mints connection credentials and registers a new thing for the calling user
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        request  body      thing.Request  true  "Thing id and type"
// @Success      201      {object}  types.ProvisionResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      500      {object}  types.ErrorResponse  "Provisioning error"
// @Router       /devices [post]
func (h *DevicesHandler) ProvisionDevice(c *gin.Context) {
	ctx := c.Request.Context()
	user := CurrentProfile(c)

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "request body must be a JSON object",
		})
		return
	}

	if err := h.validator.Validate(schema.NewDevice, body); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	req := thing.Request{}
	if v, ok := body["thingId"].(string); ok {
		req.ThingID = v
	}
	if v, ok := body["thingType"].(string); ok {
		req.ThingType = v
	}

	spec, err := h.things.Provision(ctx, user, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "provisioning_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, types.ProvisionResponse{
		Device: *spec,
	})
}

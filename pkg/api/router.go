package api

import (
	"github.com/gin-gonic/gin"

	"github.com/dasbridge/bridge/pkg/alexa"
	"github.com/dasbridge/bridge/pkg/api/handlers"
	"github.com/dasbridge/bridge/pkg/identity"
	"github.com/dasbridge/bridge/pkg/schema"
	"github.com/dasbridge/bridge/pkg/shadow"
	"github.com/dasbridge/bridge/pkg/thing"
)

// Router holds the Gin engine and dependencies
type Router struct {
	engine    *gin.Engine
	skill     *alexa.Skill
	things    *thing.Service
	provider  identity.Provider
	broker    shadow.Broker
	validator *schema.Validator
}

// NewRouter creates a new API router
func NewRouter(skill *alexa.Skill, things *thing.Service, provider identity.Provider, broker shadow.Broker, validator *schema.Validator) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	router := &Router{
		engine:    engine,
		skill:     skill,
		things:    things,
		provider:  provider,
		broker:    broker,
		validator: validator,
	}

	router.setupRoutes()

	return router
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Health check at root
	healthHandler := handlers.NewHealthHandler(r.broker)
	r.engine.GET("/health", healthHandler.Health)

	// Directive ingress, voice-platform authenticated via directive scopes
	directiveHandler := handlers.NewDirectiveHandler(r.skill, r.validator)
	r.engine.POST("/alexa/directives", directiveHandler.Handle)

	// API v1 routes, key authenticated
	v1 := r.engine.Group("/api/v1")
	v1.Use(APIKeyAuth(r.provider))
	{
		// Health
		v1.GET("/health", healthHandler.Health)

		// Caller identity
		statusHandler := handlers.NewStatusHandler()
		v1.GET("/status", statusHandler.Status)

		// Devices
		devicesHandler := handlers.NewDevicesHandler(r.things, r.validator)
		devices := v1.Group("/devices")
		{
			devices.GET("", devicesHandler.ListDevices)
			devices.GET("/:id", devicesHandler.GetDevice)
			devices.POST("", devicesHandler.ProvisionDevice)
		}
	}
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dasbridge/bridge/pkg/api/handlers"
	"github.com/dasbridge/bridge/pkg/api/types"
	"github.com/dasbridge/bridge/pkg/identity"
)

// SetupMiddleware configures the middleware stack for the Gin router
func SetupMiddleware(r *gin.Engine) {
	// Recovery middleware
	r.Use(gin.Recovery())

	// Request logging middleware
	r.Use(RequestLogger())

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Api-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
}

// RequestLogger returns a Gin middleware for logging requests
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Process request
		c.Next()

		// Log after request
		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		logEvent := log.Info()
		if statusCode >= 400 {
			logEvent = log.Warn()
		}
		if statusCode >= 500 {
			logEvent = log.Error()
		}

		logEvent.
			Str("method", method).
			Str("path", path).
			Int("status", statusCode).
			Dur("latency", latency).
			Str("client_ip", clientIP).
			Msg("request")
	}
}

// APIKeyAuth resolves the X-Api-Key header to a user profile and aborts
// with 401 when the key is missing or unknown.
func APIKeyAuth(provider identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-Api-Key")
		if apiKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, types.ErrorResponse{
				Error:   "missing_api_key",
				Message: "X-Api-Key header is required",
			})
			return
		}

		profile, err := provider.ResolveAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			status := http.StatusInternalServerError
			kind := "auth_error"
			if errors.Is(err, identity.ErrAuth) {
				status = http.StatusUnauthorized
				kind = "invalid_api_key"
			}
			c.AbortWithStatusJSON(status, types.ErrorResponse{
				Error:   kind,
				Message: err.Error(),
			})
			return
		}

		c.Set(handlers.ProfileKey, profile)
		c.Next()
	}
}

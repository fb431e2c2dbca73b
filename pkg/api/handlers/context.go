package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/dasbridge/bridge/pkg/identity"
)

// ProfileKey is the gin context key the authentication middleware stores
// the resolved user profile under.
const ProfileKey = "user_profile"

// CurrentProfile returns the profile stored by the authentication
// middleware, or nil when the request was not authenticated.
func CurrentProfile(c *gin.Context) *identity.UserProfile {
	v, ok := c.Get(ProfileKey)
	if !ok {
		return nil
	}
	profile, _ := v.(*identity.UserProfile)
	return profile
}

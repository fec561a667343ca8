package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// Header fields set by the authenticating proxy in front of the API.
	UserIDHeader   = "sub"
	UserNameHeader = "name"

	userIDKey   = "user_id"
	userNameKey = "user_name"
)

// RequireUser reads the user id the authenticating proxy put in the "sub"
// header and makes it available through CurrentUser. Requests without it are
// rejected with 401.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		sub := c.GetHeader(UserIDHeader)
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication credentials were not provided.",
			})
			return
		}
		name := c.GetHeader(UserNameHeader)
		if name == "" {
			name = sub
		}
		c.Set(userIDKey, sub)
		c.Set(userNameKey, name)

		c.Next()
	}
}

// CurrentUser returns the id and display name set by RequireUser.
func CurrentUser(c *gin.Context) (id string, name string) {
	return c.GetString(userIDKey), c.GetString(userNameKey)
}

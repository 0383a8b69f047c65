package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookie = "glassbird_sid"
	ProfileCookie = "glassbird_profile"

	ContextSessionID = "sessionId"
	ContextProfileID = "profileId"

	profileMaxAge = 365 * 24 * 3600
)

// Identity issues the session cookie, which lives as long as the browser
// tab, and the long-lived profile cookie, when they are missing.
func Identity(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetSameSite(http.SameSiteLaxMode)

		sid, err := c.Cookie(SessionCookie)
		if err != nil || uuid.Validate(sid) != nil {
			sid = uuid.NewString()
			c.SetCookie(SessionCookie, sid, 0, "/", "", secure, true)
		}

		profile, err := c.Cookie(ProfileCookie)
		if err != nil || uuid.Validate(profile) != nil {
			profile = uuid.NewString()
			c.SetCookie(ProfileCookie, profile, profileMaxAge, "/", "", secure, true)
		}

		c.Set(ContextSessionID, sid)
		c.Set(ContextProfileID, profile)
		c.Next()
	}
}

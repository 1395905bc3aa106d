package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// UserCookieName is the browser cookie carrying the anonymous user handle.
	UserCookieName = "agentmemory_user"
	// UserCookieMaxAge is 30 days in seconds.
	UserCookieMaxAge = 30 * 24 * 60 * 60
	// UserIDKey is the gin context key the resolved handle is stored under.
	UserIDKey = "userID"
)

// Identity gives every browser a stable anonymous user handle via a
// long-lived cookie. Handlers may still honor an explicit user_id in the
// request, which takes precedence over the cookie.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		handle, err := c.Cookie(UserCookieName)
		if err != nil || handle == "" {
			handle = issueHandle(c)
		} else if _, parseErr := uuid.Parse(handle); parseErr != nil {
			// A tampered or malformed cookie gets replaced, not rejected.
			handle = issueHandle(c)
		}

		c.Set(UserIDKey, handle)
		c.Next()
	}
}

func issueHandle(c *gin.Context) string {
	handle := uuid.New().String()
	c.SetCookie(UserCookieName, handle, UserCookieMaxAge, "/", "", false, true)
	return handle
}

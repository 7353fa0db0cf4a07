package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"ecommerce-api/internal/models"
	"ecommerce-api/internal/session"
)

// Context keys set by the auth middleware.
const (
	CurrentUserKey = "currentUser"
	SessionIDKey   = "sessionID"
)

// UserStore resolves the persisted user a session points at.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// RequireAuth resolves the session cookie and re-loads the user from the
// database. A missing or expired session, or a session whose user no longer
// exists, fails closed with 401.
func RequireAuth(sessions *session.Manager, users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, sessionID, ok := resolve(c, sessions, users)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"success": false, "message": "Unauthorized. Please log in."})
			return
		}
		c.Set(CurrentUserKey, user)
		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// RequireAdmin is RequireAuth plus a role check against the persisted user,
// not the session snapshot, so a role downgrade takes effect on the next
// request.
func RequireAdmin(sessions *session.Manager, users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, sessionID, ok := resolve(c, sessions, users)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"success": false, "message": "Unauthorized. Please log in as admin."})
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				gin.H{"success": false, "message": "Access denied. Admin privileges required."})
			return
		}
		c.Set(CurrentUserKey, user)
		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

func resolve(c *gin.Context, sessions *session.Manager, users UserStore) (*models.User, string, bool) {
	sessionID, err := c.Cookie(session.CookieName)
	if err != nil || sessionID == "" {
		return nil, "", false
	}

	payload, err := sessions.Get(c.Request.Context(), sessionID)
	if err != nil {
		return nil, "", false
	}

	user, err := users.FindByID(c.Request.Context(), payload.UserID)
	if err != nil {
		return nil, "", false
	}
	return user, sessionID, true
}

// CurrentUser returns the user attached by RequireAuth/RequireAdmin.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CurrentUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

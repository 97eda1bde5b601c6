package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/priority-matrix-api/internal/constants"
	apierrors "github.com/yukikurage/priority-matrix-api/internal/errors"
	"github.com/yukikurage/priority-matrix-api/internal/session"
)

// PrincipalResolver resolves the caller's identity from a request
type PrincipalResolver interface {
	Resolve(r *http.Request) (*session.Principal, bool)
}

// RequireAuth rejects requests without a valid session token before any
// handler runs
func RequireAuth(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := resolver.Resolve(c.Request)
		if !ok || principal.UserID == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store identity in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, principal.UserID)
		c.Set(constants.ContextKeyPrincipal, principal)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}

	id, ok := userID.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// GetPrincipal retrieves the resolved session principal from context
func GetPrincipal(c *gin.Context) (*session.Principal, bool) {
	value, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return nil, false
	}
	principal, ok := value.(*session.Principal)
	return principal, ok
}

package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/authcore/internal/entities"
)

// ContextKeyUser holds the *entities.User resolved for the request.
const ContextKeyUser = "auth_user"

// Middleware enforces a Strategy on every request outside the excluded paths.
type Middleware struct {
	strategy Strategy
	excluded []string
}

// NewMiddleware creates the enforcement middleware. A nil strategy
// disables enforcement.
func NewMiddleware(strategy Strategy, excluded []string) *Middleware {
	return &Middleware{
		strategy: strategy,
		excluded: excluded,
	}
}

// Handler returns the gin handler.
//
// A request with neither an Authorization header nor a session cookie gets
// 401. A request whose credentials do not resolve to a user gets 403.
func (m *Middleware) Handler() gin.HandlerFunc {
	if m.strategy == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if !m.strategy.RequireAuth(c.Request.URL.Path, m.excluded) {
			c.Next()
			return
		}

		if m.strategy.AuthorizationHeader(c.Request) == "" && m.strategy.SessionCookie(c.Request) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		user := m.strategy.CurrentUser(c.Request)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// GetCurrentUser returns the user stored by the middleware, or nil.
func GetCurrentUser(c *gin.Context) *entities.User {
	if v, exists := c.Get(ContextKeyUser); exists {
		if user, ok := v.(*entities.User); ok {
			return user
		}
	}
	return nil
}

// IsAuthenticated returns true if the request carries a resolved user.
func IsAuthenticated(c *gin.Context) bool {
	return GetCurrentUser(c) != nil
}

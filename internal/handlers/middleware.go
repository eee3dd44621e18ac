package handlers

import (
	"grocery_store/internal/services"
	"strings"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

type AuthMiddleware struct {
	users services.UserService
}

func NewAuthMiddleware(users services.UserService) *AuthMiddleware {
	return &AuthMiddleware{users: users}
}

// OptionalAuth attaches the session when a valid bearer token is present and
// lets anonymous requests through.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if session, err := m.users.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(sessionKey, session)
			}
		}
		c.Next()
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := m.users.Authenticate(c.Request.Context(), bearerToken(c))
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := currentSession(c)
		if session == nil {
			respondError(c, services.ErrUnauthorized)
			c.Abort()
			return
		}
		if !session.IsAdmin {
			respondError(c, services.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func currentSession(c *gin.Context) *services.Session {
	value, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := value.(*services.Session)
	return session
}

// actingUserID is nil for guests.
func actingUserID(c *gin.Context) *uint {
	session := currentSession(c)
	if session == nil {
		return nil
	}
	id := session.UserID
	return &id
}

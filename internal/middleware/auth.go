package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"newsportal/api/internal/config"
	"newsportal/api/internal/models"
	"newsportal/api/internal/security"
)

// AuthCookieName is the session cookie; the token inside is the only session
// state, nothing is stored server-side.
const AuthCookieName = "auth-token"

const (
	ContextUser   = "current_user"
	ContextClaims = "session_claims"
)

type UserGetter interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

// Auth authenticates the request from the session cookie and loads the
// current user into the context. Any token problem is a plain 401; nothing
// about the failure mode leaks to the client.
func Auth(cfg *config.AppConfig, users UserGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AuthCookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
			return
		}

		claims, err := security.ParseSessionToken(token, cfg.Security.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
			return
		}

		c.Set(ContextClaims, *claims)
		c.Set(ContextUser, user)

		c.Next()
	}
}

// CurrentUser returns the user placed in the context by Auth.
func CurrentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get(ContextUser)
	if !exists {
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	return user, ok
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"filechat-lite/internal/auth"
	"filechat-lite/internal/model"
)

const identityContextKey = "identity"

// IdentitySource reports the identity that is currently signed in, if any.
type IdentitySource interface {
	Current() (model.Identity, bool)
}

func IdentityFromContext(c *gin.Context) (model.Identity, bool) {
	v, ok := c.Get(identityContextKey)
	if !ok {
		return model.Identity{}, false
	}
	id, ok := v.(model.Identity)
	return id, ok && id.ID != ""
}

// RequireAuth accepts a bearer token only while the identity it was issued
// for is still the current one, so signing out invalidates every token.
func RequireAuth(cfg auth.TokenConfig, sessions IdentitySource) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
			c.Abort()
			return
		}

		id, ok := Authenticate(parts[1], cfg, sessions)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
			c.Abort()
			return
		}

		c.Set(identityContextKey, id)
		c.Next()
	}
}

// Authenticate verifies token and resolves it to the current identity.
func Authenticate(token string, cfg auth.TokenConfig, sessions IdentitySource) (model.Identity, bool) {
	claims, err := auth.VerifyToken(token, cfg)
	if err != nil {
		return model.Identity{}, false
	}
	current, ok := sessions.Current()
	if !ok || current.ID != claims.IdentityID() {
		return model.Identity{}, false
	}
	return current, true
}

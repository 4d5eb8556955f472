package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/meoris-storefront/internal/platform/httpx"
	"github.com/ridloal/meoris-storefront/internal/user/domain"
)

const (
	ctxUserID = "userID"
	ctxEmail  = "email"
)

// TokenParser is the part of the user service the middleware needs.
type TokenParser interface {
	ParseToken(token string) (*domain.Identity, error)
}

// RequireAuth rejects requests without a valid bearer token. The token is read from the
// Authorization header, or from the token query parameter for websocket upgrades.
func RequireAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if token == "" {
			token = c.Query("token")
		}
		identity, err := parser.ParseToken(token)
		if err != nil {
			httpx.Error(c, err, "Unauthorized")
			c.Abort()
			return
		}
		c.Set(ctxUserID, identity.UserID)
		c.Set(ctxEmail, identity.Email)
		c.Next()
	}
}

// UserID returns the authenticated user id set by RequireAuth.
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

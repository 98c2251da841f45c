package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxUserID = "user_id"

// TokenParser returns the user id carried by a bearer token.
type TokenParser interface {
	ParseToken(token string) (string, error)
}

// Auth resolves the caller from the Authorization header. Requests without a
// header pass through anonymously; a header with a bad token is rejected.
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be a Bearer token"})
			return
		}
		userID, err := parser.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.Set(ctxUserID, userID)
		c.Next()
	}
}

// RequireUser rejects anonymous requests.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication credentials were not provided."})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated caller, or "".
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// SetUserID is used by handler tests that bypass Auth.
func SetUserID(c *gin.Context, userID string) {
	c.Set(ctxUserID, userID)
}

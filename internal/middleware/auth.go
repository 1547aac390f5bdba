package middleware

import (
	"net/http"
	"strings"

	"budget_buddy/internal/auth"
	"budget_buddy/internal/domain"

	"github.com/gin-gonic/gin"
)

// ContextUserKey is the gin context key the resolved user is bound under.
const ContextUserKey = "currentUser"

// BearerToken extracts the credential from a standard
// "Authorization: Bearer <token>" header, or "" when absent or malformed.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// BearerAuth resolves the bearer token on every request and binds the user to
// the request context. Missing or malformed headers, unknown or expired
// tokens and resolution faults all abort with 401 before the handler runs.
func BearerAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		user, err := tokens.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(ContextUserKey, user) // Handlers scope every query by this user
		c.Next()
	}
}

// CurrentUser returns the user bound by BearerAuth for this request
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}

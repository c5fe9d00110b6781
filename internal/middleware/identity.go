package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/chat_app/internal/security"
	"github.com/mroshb/chat_app/pkg/errors"
)

const externalIDKey = "externalID"

// Identity requires a valid bearer token and stores its subject on the context.
func Identity(secret, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		externalID, ok := bearerSubject(c, secret, issuer)
		if !ok {
			abort(c, http.StatusUnauthorized, errors.ErrCodeUnauthenticated, "Unauthorized")
			return
		}

		c.Set(externalIDKey, externalID)
		c.Next()
	}
}

// OptionalIdentity stores the subject when a valid token is present and lets
// the request through either way.
func OptionalIdentity(secret, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if externalID, ok := bearerSubject(c, secret, issuer); ok {
			c.Set(externalIDKey, externalID)
		}
		c.Next()
	}
}

// ExternalID returns the authenticated subject, or "" when there is none.
func ExternalID(c *gin.Context) string {
	return c.GetString(externalIDKey)
}

func bearerSubject(c *gin.Context, secret, issuer string) (string, bool) {
	h := c.GetHeader("Authorization")
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}

	claims, err := security.ValidateIdentityToken(strings.TrimPrefix(h, "Bearer "), secret, issuer)
	if err != nil {
		return "", false
	}
	return claims.Subject, true
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

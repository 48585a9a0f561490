// README: Optional Firebase ID-token auth; a verified token's UID becomes the caller id.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tripwise/internal/infra"
)

const callerUIDKey = "caller_uid"

// RejectFunc writes a rejection and aborts the chain.
type RejectFunc func(c *gin.Context, status int, msg string)

// JSONReject answers with {"error": msg}.
func JSONReject(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// Auth verifies a bearer token when one is sent. Requests without an
// Authorization header pass through anonymously; a bad token is rejected.
// A nil verifier disables the check.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return AuthWith(verifier, JSONReject)
}

// AuthWith is Auth with a caller-chosen rejection.
func AuthWith(verifier infra.TokenVerifier, reject RejectFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if verifier == nil || header == "" {
			c.Next()
			return
		}

		idToken, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(idToken) == "" {
			reject(c, http.StatusUnauthorized, "invalid authorization header")
			return
		}
		token, err := verifier.VerifyIDToken(c.Request.Context(), strings.TrimSpace(idToken))
		if err != nil {
			reject(c, http.StatusUnauthorized, "invalid token")
			return
		}
		c.Set(callerUIDKey, token.UID)
		c.Next()
	}
}

// CallerUID returns the verified UID, or "" for anonymous requests.
func CallerUID(c *gin.Context) string {
	return c.GetString(callerUIDKey)
}

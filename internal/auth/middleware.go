package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HeaderName is the request header carrying the shared API key.
const HeaderName = "x-api-key"

// APIKeyMiddleware creates a middleware that rejects any request whose
// x-api-key header does not exactly match the configured key. There is no
// token issuance or expiry; the same static check applies to every request.
func APIKeyMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(HeaderName) != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// CacheControl lets browsers and proxies reuse GET responses, such as
// uploaded images and the paper catalog, for maxAgeSeconds.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	value := fmt.Sprintf("public, max-age=%d", maxAgeSeconds)
	return func(c *gin.Context) {
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" {
			c.Header("Cache-Control", value)
		}
		c.Next()
	}
}

// NoStore keeps per-user responses such as attempt state out of caches.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}

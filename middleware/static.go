package middleware

import (
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

const longCache = "public, max-age=31536000"

// StaticHeaders sets cache headers for static assets, long lived outside development,
// and range and content type headers for audio guides.
func StaticHeaders(dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if dev {
			c.Header("Cache-Control", "public, max-age=0")
		} else {
			c.Header("Cache-Control", longCache)
		}

		switch strings.ToLower(filepath.Ext(c.Request.URL.Path)) {
		case ".mp3":
			c.Header("Accept-Ranges", "bytes")
			c.Header("Content-Type", "audio/mpeg")
		case ".m4a", ".aac":
			c.Header("Accept-Ranges", "bytes")
			c.Header("Content-Type", "audio/aac")
		}
		c.Next()
	}
}

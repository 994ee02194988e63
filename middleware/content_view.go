package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yunlin/oldtown/models"
	"github.com/yunlin/oldtown/services"
	"github.com/yunlin/oldtown/utils"
)

// ContentItemRoute is the route whose successful reads count as item views.
const ContentItemRoute = "/api/:category/:id"

// ContentViewRecorder counts successful item reads per day.
func ContentViewRecorder(views *services.ViewCounter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if views == nil || c.Request.Method != http.MethodGet || c.FullPath() != ContentItemRoute {
			return
		}
		if status := c.Writer.Status(); status < 200 || status >= 300 {
			return
		}
		category, ok := models.ParseCategory(c.Param("category"))
		if !ok {
			return
		}

		if err := views.Record(c.Request.Context(), category, c.Param("id"), time.Now()); err != nil {
			utils.Logger.Warn("record content view failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		}
	}
}

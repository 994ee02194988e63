package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yunlin/oldtown/utils"
)

// ErrorHandler turns panics and errors attached with ctx.Error into a 500 envelope.
// In development the stack trace is included.
func ErrorHandler(dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				utils.Logger.Error("panic recovered",
					zap.String("panic", fmt.Sprintf("%v", r)),
					zap.String("path", c.Request.URL.Path),
					zap.String("stack", stack))
				respondInternal(c, fmt.Sprintf("%v", r), stack, dev)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		utils.Logger.Error("unhandled request error", zap.String("path", c.Request.URL.Path), zap.Error(err))
		respondInternal(c, err.Error(), fmt.Sprintf("%+v", err), dev)
	}
}

func respondInternal(c *gin.Context, message, stack string, dev bool) {
	if message == "" {
		message = "Internal Server Error"
	}
	body := gin.H{"success": false, "error": message}
	if dev {
		body["stack"] = stack
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}

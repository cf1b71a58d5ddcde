package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/errs"
)

// ErrorHandler writes the last error a handler attached with c.Error as a
// JSON body, unless the handler already wrote a response.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := errs.StatusOf(err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
			c.JSON(status, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(status, bodyOf(err))
	}
}

// Recovery turns panics into a 500 JSON response and logs the value.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}

func bodyOf(err error) map[string]any {
	var apiErr *errs.Error
	if errors.As(err, &apiErr) {
		return apiErr.Body()
	}
	return map[string]any{"error": err.Error()}
}

package middleware

import (
	"github.com/ekrishihub/storefront/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery turns a handler panic into a 500 response
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			logger.Error("Handler panicked",
				zap.Any("panic", v),
				zap.String("method", c.Request.Method),
				zap.String("route", c.FullPath()),
				zap.String("path", c.Request.URL.Path),
				zap.Stack("stack"),
			)
			c.Abort()
			if !c.Writer.Written() {
				response.Error(c, nil)
			}
		}()

		c.Next()
	}
}

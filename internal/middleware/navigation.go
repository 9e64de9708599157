package middleware

import (
	"net/http"

	"github.com/ekrishihub/storefront/internal/gateway"
	"github.com/ekrishihub/storefront/pkg/response"
	"github.com/gin-gonic/gin"
)

// Navigation installs the per-request navigation slot. After the handler it
// turns a recorded navigation into a redirect, or renders the last handler
// error when nothing was written.
func Navigation() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(gateway.WithNavigation(c.Request.Context()))

		c.Next()

		if c.Writer.Written() {
			return
		}
		if target, ok := gateway.NavigationTarget(c.Request.Context()); ok {
			recordRedirect(target)
			c.Redirect(http.StatusFound, target)
			return
		}
		if err := c.Errors.Last(); err != nil {
			response.Error(c, err.Err)
		}
	}
}

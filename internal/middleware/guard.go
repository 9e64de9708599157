package middleware

import (
	"net/http"

	"github.com/ekrishihub/storefront/internal/guard"
	"github.com/gin-gonic/gin"
)

// Guard evaluates the access guard for routes listed in table. Unlisted routes pass through.
func Guard(g *guard.Guard, table *guard.RouteTable) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, guarded := table.Lookup(c.FullPath())
		if !guarded {
			c.Next()
			return
		}

		d := g.Evaluate(c.Request.Context(), req.Role)
		if d.Kind != guard.Allow {
			recordRedirect(d.Target)
			c.Redirect(http.StatusFound, d.Target)
			c.Abort()
			return
		}

		c.Next()
	}
}

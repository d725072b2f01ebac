// Package ginauth is the gin flavour of the campusAuth middleware: it
// authenticates bearer tokens, applies a [middleware.RouteTable] keyed by
// the matched route, and hands the principal to handlers.
package ginauth

import (
	"github.com/gin-gonic/gin"

	campusAuth "github.com/MrEthical07/campusAuth"
	"github.com/MrEthical07/campusAuth/middleware"
)

// HandlerFunc is a gin handler that receives the request's principal.
type HandlerFunc func(c *gin.Context, p *campusAuth.Principal)

// Authenticate resolves the bearer token and binds the principal to the
// request context. Anonymous requests continue unchanged.
func Authenticate(resolver middleware.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := campusAuth.WithClientIP(c.Request.Context(), c.ClientIP())
		if resolver != nil {
			p, ok := middleware.ResolveRequest(ctx, resolver, c.GetHeader("Authorization"), c.Request.URL.Path)
			if ok {
				ctx = campusAuth.WithPrincipal(ctx, p)
			}
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Require enforces table for the matched route, looked up by request
// method and c.FullPath(). Requests that matched no route pass through so
// gin can answer 404.
func Require(table *middleware.RouteTable) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			c.Next()
			return
		}

		p, _ := campusAuth.PrincipalFromContext(c.Request.Context())
		if err := table.Check(c.Request.Method, path, p); err != nil {
			Abort(c, err)
			return
		}
		c.Next()
	}
}

// Handle adapts fn to gin, passing the principal bound by Authenticate.
func Handle(fn HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := campusAuth.PrincipalFromContext(c.Request.Context())
		fn(c, p)
	}
}

// Abort writes the JSON error response for err and stops the chain.
func Abort(c *gin.Context, err error) {
	status, body := middleware.ErrorResponse(err)
	c.AbortWithStatusJSON(status, body)
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RouteGuard redirects page requests by session state: anonymous visitors
// of the reading area go to /login, signed-in visitors of /login and
// /signup go to /read. Must run after OptionalAuth.
func RouteGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		_, authenticated := c.Get("userID")

		switch {
		case !authenticated && isReadingPath(path):
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		case authenticated && (path == "/login" || path == "/signup"):
			c.Redirect(http.StatusFound, "/read")
			c.Abort()
			return
		}

		c.Next()
	}
}

func isReadingPath(path string) bool {
	return path == "/read" || strings.HasPrefix(path, "/read/")
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Page renders a placeholder for a UI route. The UI itself is served elsewhere;
// these routes exist so the route guard has something to protect.
func Page(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"page":          name,
			"authenticated": c.GetString("userID") != "",
		})
	}
}

package handler_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/handler"
)

func TestPage(t *testing.T) {
	r := gin.New()
	r.GET("/anon", withUser(""), handler.Page("landing"))
	r.GET("/authed", withUser("user-1"), handler.Page("library"))

	w := serve(r, jsonRequest(t, http.MethodGet, "/anon", nil))
	assert.JSONEq(t, `{"page":"landing","authenticated":false}`, w.Body.String())

	w = serve(r, jsonRequest(t, http.MethodGet, "/authed", nil))
	assert.JSONEq(t, `{"page":"library","authenticated":true}`, w.Body.String())
}

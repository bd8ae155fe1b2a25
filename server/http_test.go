package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"gitlab.com/paramountdax-exchange/distribution_api/actions"
	"gitlab.com/paramountdax-exchange/distribution_api/config"
)

func TestNewRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(actions.NewActions(config.Config{}, nil, context.Background()))

	routes := map[string]bool{}
	for _, route := range r.Routes() {
		routes[route.Method+" "+route.Path] = true
	}
	for _, route := range []string{
		"GET /ping",
		"GET /config",
		"GET /claims/:user",
		"GET /balances/:user",
		"POST /claims",
		"POST /burns",
		"POST /admin/config",
		"POST /admin/mint",
		"GET /admin/holders",
		"POST /admin/pause",
		"POST /admin/unpause",
		"GET /admin/blacklist",
		"POST /admin/blacklist",
		"POST /admin/blacklist/:user",
		"DELETE /admin/blacklist/:user",
		"POST /admin/actions",
		"DELETE /admin/actions",
		"POST /admin/actions/execute",
		"GET /admin/actions/:admin",
	} {
		assert.True(t, routes[route], route)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// the caller is checked before any handler runs
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/mint", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

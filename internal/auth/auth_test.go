package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"halwahouse/internal/kitchen"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("unit-test-secret")

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(secret))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, ActorFrom(c))
	})
	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddlewareAcceptsValidToken(t *testing.T) {
	r := newRouter()

	tok, err := GenerateToken(secret, "chef-7", kitchen.RoleAdmin, time.Hour)
	require.NoError(t, err)

	w := get(r, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "chef-7")
	assert.Contains(t, w.Body.String(), kitchen.RoleAdmin)

	// The bare token without the Bearer prefix works too.
	w = get(r, tok)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddlewareRejectsMissingOrBadTokens(t *testing.T) {
	r := newRouter()

	w := get(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Token signed with a different secret.
	other, err := GenerateToken([]byte("other-secret"), "chef-7", kitchen.RoleChef, time.Hour)
	require.NoError(t, err)
	w = get(r, "Bearer "+other)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Expired token.
	expired, err := GenerateToken(secret, "chef-7", kitchen.RoleChef, -time.Minute)
	require.NoError(t, err)
	w = get(r, "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

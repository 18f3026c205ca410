package middleware

import (
	"IQNet/internal/pkg/security"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withRevoked(t *testing.T, lookup security.RevokedLookup) {
	old := revokedLookup
	revokedLookup = lookup
	t.Cleanup(func() { revokedLookup = old })
}

func newAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetUint64("user_id")})
	})
	return r
}

func doAuth(r *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	withRevoked(t, func(context.Context, string) (string, error) { return "", nil })
	token, err := security.GenerateToken(5)
	require.NoError(t, err)
	r := newAuthRouter(AuthMiddleware())

	w := doAuth(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":5}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, doAuth(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doAuth(r, "Bearer "+token+"x").Code)
}

func TestAuthMiddlewareRevokedAndBackendFailure(t *testing.T) {
	token, err := security.GenerateToken(5)
	require.NoError(t, err)
	r := newAuthRouter(AuthMiddleware())

	withRevoked(t, func(context.Context, string) (string, error) { return "1", nil })
	assert.Equal(t, http.StatusUnauthorized, doAuth(r, "Bearer "+token).Code)

	withRevoked(t, func(context.Context, string) (string, error) { return "", errors.New("redis down") })
	assert.Equal(t, http.StatusInternalServerError, doAuth(r, "Bearer "+token).Code)
}

func TestAuthOptionalMiddleware(t *testing.T) {
	withRevoked(t, func(context.Context, string) (string, error) { return "", nil })
	token, err := security.GenerateToken(8)
	require.NoError(t, err)
	r := newAuthRouter(AuthOptionalMiddleware())

	assert.JSONEq(t, `{"uid":8}`, doAuth(r, "Bearer "+token).Body.String())
	assert.JSONEq(t, `{"uid":0}`, doAuth(r, "").Body.String())
	assert.JSONEq(t, `{"uid":0}`, doAuth(r, "Bearer broken").Body.String())
}

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventnest/identity-service/internal/interface/middleware"
	"github.com/eventnest/identity-service/pkg/helpers"
)

func newAuthRouter(mgr *helpers.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", middleware.Auth(mgr), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.CtxUserIDKey))
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	mgr := helpers.NewJWTManager("test-secret", time.Hour)
	r := newAuthRouter(mgr)

	do := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("valid bearer token passes identity through", func(t *testing.T) {
		token, _, err := mgr.Generate("user-42", "asha@test.com")
		require.NoError(t, err)

		w := do("Bearer " + token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-42", w.Body.String())
	})

	t.Run("scheme is case insensitive", func(t *testing.T) {
		token, _, err := mgr.Generate("user-42", "asha@test.com")
		require.NoError(t, err)

		w := do("bearer " + token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do("").Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do("Basic abc").Code)
	})

	t.Run("malformed token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do("Bearer not.a.token").Code)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := helpers.NewJWTManager("other-secret", time.Hour)
		token, _, err := other.Generate("user-42", "asha@test.com")
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnauthorized, do("Bearer "+token).Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := helpers.NewJWTManager("test-secret", -time.Minute)
		token, _, err := expired.Generate("user-42", "asha@test.com")
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnauthorized, do("Bearer "+token).Code)
	})
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eventnest/identity-service/pkg/helpers"
	"github.com/eventnest/identity-service/pkg/response"
)

const CtxUserIDKey = "userID"

// Auth validates the Authorization bearer token and injects the identity id
// and email into the Gin context. Every failure mode gets the same reply so
// callers cannot distinguish a bad signature from an expired token.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.AbortError(c, http.StatusUnauthorized, "invalid token", map[string]string{"code": "invalid_token"})
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid token", map[string]string{"code": "invalid_token"})
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set("userEmail", claims.Email)
		c.Next()
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventnest/identity-service/internal/container"
	handlers "github.com/eventnest/identity-service/internal/interface/http"
	"github.com/eventnest/identity-service/internal/interface/middleware"
	"github.com/eventnest/identity-service/pkg/helpers"
)

// AuthModule registers the public credential lifecycle routes.
// POST /api/auth/register, /api/auth/verify, /api/auth/otp/resend,
// /api/auth/login.
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Tight per-IP budgets on the endpoints that create accounts or send
	// mail; a looser one on verify/login which are retried legitimately.
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resendLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	verifyLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/verify", verifyLimiter, m.Handler.Verify)
	rg.POST("/auth/otp/resend", resendLimiter, m.Handler.ResendOTP)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
}

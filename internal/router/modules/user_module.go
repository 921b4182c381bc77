package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventnest/identity-service/internal/container"
	handlers "github.com/eventnest/identity-service/internal/interface/http"
	"github.com/eventnest/identity-service/internal/interface/middleware"
	"github.com/eventnest/identity-service/pkg/helpers"
)

// UserModule registers the bearer-token-protected profile surface.
// GET /api/profile, POST /api/profile/image, GET /api/users/search.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.POST("/profile/image", m.Handler.UploadImage)
		auth.GET("/users/search", m.Handler.Search)
	}
}

package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventnest/identity-service/internal/container"
	"github.com/eventnest/identity-service/internal/interface/middleware"
)

// DebugModule exposes expvar counters at /api/debug/vars. Registered only
// when debug metrics are enabled; limits are relaxed for private networks.
type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}

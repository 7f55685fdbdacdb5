package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopeasy/shopeasy-engine/internal/container"
	handlers "github.com/shopeasy/shopeasy-engine/internal/interface/http"
	"github.com/shopeasy/shopeasy-engine/internal/interface/middleware"
	"github.com/shopeasy/shopeasy-engine/pkg/helpers"
)

type OrderModule struct {
	Handler *handlers.OrderHandler
	JWT     *helpers.JWTManager
}

func NewOrderModule(h *handlers.OrderHandler, jwt *helpers.JWTManager) *OrderModule {
	return &OrderModule{Handler: h, JWT: jwt}
}

func (m *OrderModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetStore(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/orders/checkout", m.Handler.Checkout)
		auth.GET("/orders", m.Handler.History)
	}
}

package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/shopeasy/shopeasy-engine/internal/interface/http"
	"github.com/shopeasy/shopeasy-engine/pkg/helpers"
)

type CartModule struct {
	Handler *handlers.CartHandler
	JWT     *helpers.JWTManager
}

func NewCartModule(h *handlers.CartHandler, jwt *helpers.JWTManager) *CartModule {
	return &CartModule{Handler: h, JWT: jwt}
}

func (m *CartModule) Register(rg *gin.RouterGroup) {
	// The cart can be filled before logging in; checkout is what needs a session
	rg.GET("/cart", m.Handler.Get)
	rg.POST("/cart/items", m.Handler.AddItem)
	rg.PATCH("/cart/items/:id", m.Handler.UpdateQuantity)
	rg.DELETE("/cart/items/:id", m.Handler.RemoveItem)
	rg.DELETE("/cart", m.Handler.Clear)
}

package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/shopeasy/shopeasy-engine/internal/container"
	handlers "github.com/shopeasy/shopeasy-engine/internal/interface/http"
	"github.com/shopeasy/shopeasy-engine/internal/interface/middleware"
	"github.com/shopeasy/shopeasy-engine/pkg/helpers"
)

type CatalogModule struct {
	Handler *handlers.CatalogHandler
	JWT     *helpers.JWTManager
}

func NewCatalogModule(h *handlers.CatalogHandler, jwt *helpers.JWTManager) *CatalogModule {
	return &CatalogModule{Handler: h, JWT: jwt}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	// Browsing is public; the wishlist follows the session
	rg.GET("/products", m.Handler.List)
	rg.GET("/products/:id", m.Handler.Get)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetStore(), m.JWT))
	{
		auth.GET("/wishlist", m.Handler.WishlistItems)
		auth.POST("/wishlist/:id/toggle", m.Handler.ToggleWishlist)
	}
}

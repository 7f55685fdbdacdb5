package router

import (
	"github.com/shopeasy/shopeasy-engine/internal/container"
	handlers "github.com/shopeasy/shopeasy-engine/internal/interface/http"
	"github.com/shopeasy/shopeasy-engine/internal/router/modules"
)

// InitModules wires every feature module from the container singletons and
// registers it with the router registry. Call once during startup, after the
// services have been constructed.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()

	accountHandler := handlers.NewAccountHandler(
		container.GetAccounts(),
		logger,
		cfg.CookieDomain,
		cfg.CookieSecure,
		container.GetRabbitPub(),
	)
	catalogHandler := handlers.NewCatalogHandler(container.GetCatalog(), container.GetWishlist(), logger)
	cartHandler := handlers.NewCartHandler(container.GetCart(), container.GetCatalog(), logger)
	orderHandler := handlers.NewOrderHandler(container.GetOrders(), logger)

	r.Add(modules.NewAccountModule(accountHandler, jwt))
	r.Add(modules.NewCatalogModule(catalogHandler, jwt))
	r.Add(modules.NewCartModule(cartHandler, jwt))
	r.Add(modules.NewOrderModule(orderHandler, jwt))
}

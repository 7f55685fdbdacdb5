package router

import "github.com/gin-gonic/gin"

// Module is one storefront feature (accounts, catalog, cart, orders) that
// mounts its routes on the shared API group.
type Module interface {
	Register(api *gin.RouterGroup)
}

package router

import "github.com/gin-gonic/gin"

const basePath = "/api"

// Registry collects the storefront feature modules and mounts them under the
// shared /api group once RegisterAll runs.
type Registry struct {
	Engine  *gin.Engine
	API     *gin.RouterGroup
	shared  []gin.HandlerFunc
	modules []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group(basePath)}
}

// Use queues middleware applied to every module's routes.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.shared = append(r.shared, mw...)
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

// RegisterAll attaches the shared middleware, then lets each module mount its
// routes in the order it was added.
func (r *Registry) RegisterAll() {
	if len(r.shared) > 0 {
		r.API.Use(r.shared...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}

package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopeasy/shopeasy-engine/internal/container"
	handlers "github.com/shopeasy/shopeasy-engine/internal/interface/http"
	"github.com/shopeasy/shopeasy-engine/internal/interface/middleware"
	"github.com/shopeasy/shopeasy-engine/pkg/helpers"
)

type AccountModule struct {
	Handler *handlers.AccountHandler
	JWT     *helpers.JWTManager
}

func NewAccountModule(h *handlers.AccountHandler, jwt *helpers.JWTManager) *AccountModule {
	return &AccountModule{Handler: h, JWT: jwt}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	// Credential endpoints get IP-based rate limits
	credentialLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	otpLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())

	rg.POST("/accounts/register", credentialLimiter, m.Handler.Register)
	rg.POST("/accounts/login", credentialLimiter, m.Handler.Login)
	rg.POST("/accounts/refresh", m.Handler.Refresh)
	rg.POST("/accounts/password/forgot", otpLimiter, m.Handler.ForgotPassword)
	rg.POST("/accounts/password/reset", otpLimiter, m.Handler.ResetPassword)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetStore(), m.JWT))
	{
		auth.POST("/accounts/logout", m.Handler.Logout)
		auth.GET("/accounts/me", m.Handler.Me)
		auth.PATCH("/accounts/me", m.Handler.UpdateProfile)
		auth.POST("/accounts/me/avatar", m.Handler.UploadAvatar)
		auth.GET("/accounts/me/stats", m.Handler.Stats)
	}
}

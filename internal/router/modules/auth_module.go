package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yogapw/forumgo/internal/container"
	handlers "github.com/yogapw/forumgo/internal/interface/http"
	"github.com/yogapw/forumgo/internal/interface/middleware"
	"github.com/yogapw/forumgo/pkg/helpers"
)

// AuthModule wires registration/login/logout routes.
// Public: POST /api/auth/register, POST /api/auth/login, POST /api/auth/refresh
// Protected: POST /api/auth/logout
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	registerLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIP())
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP())
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP())

	auth := rg.Group("/auth")
	auth.POST("/register", registerLimiter, m.Handler.Register)
	auth.POST("/login", loginLimiter, m.Handler.Login)
	auth.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	protected := auth.Group("/")
	protected.Use(middleware.Auth(rdb, m.JWT))
	protected.POST("/logout", m.Handler.Logout)
}

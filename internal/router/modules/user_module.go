package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yogapw/forumgo/internal/container"
	handlers "github.com/yogapw/forumgo/internal/interface/http"
	"github.com/yogapw/forumgo/internal/interface/middleware"
	"github.com/yogapw/forumgo/pkg/helpers"
)

// UserModule wires the profile and user-mutation routes. All of them require
// an authenticated session:
//
//	GET    /api/profile       own profile snapshot
//	GET    /api/users/:id     profile snapshot (redirects for own id)
//	PUT    /api/users/:id     update fields / password / media
//	DELETE /api/users/:id     delete account
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	auth := rg.Group("/")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP()),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID()),
	)
	{
		auth.GET("/profile", m.Handler.MyProfile)
		auth.GET("/users/:id", m.Handler.GetProfile)
		auth.PUT("/users/:id", m.Handler.Update)
		auth.DELETE("/users/:id", m.Handler.Delete)
	}
}

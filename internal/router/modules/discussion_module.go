package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yogapw/forumgo/internal/container"
	handlers "github.com/yogapw/forumgo/internal/interface/http"
	"github.com/yogapw/forumgo/internal/interface/middleware"
	"github.com/yogapw/forumgo/pkg/helpers"
)

// DiscussionModule wires discussion browsing, authoring, comments, follows,
// and search. Reads are public; writes require an authenticated session.
type DiscussionModule struct {
	Handler *handlers.DiscussionHandler
	JWT     *helpers.JWTManager
}

func NewDiscussionModule(h *handlers.DiscussionHandler, jwt *helpers.JWTManager) *DiscussionModule {
	return &DiscussionModule{Handler: h, JWT: jwt}
}

func (m *DiscussionModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	public := rg.Group("/discussions")
	public.Use(middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP()))
	public.GET("", m.Handler.List)
	public.GET("/search", m.Handler.Search)
	public.GET("/:id", m.Handler.Get)

	auth := rg.Group("/discussions")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.POST("", m.Handler.Create)
		auth.POST("/:id/comments", m.Handler.AddComment)
		auth.POST("/:id/follow", m.Handler.Follow)
		auth.DELETE("/:id/follow", m.Handler.Unfollow)
	}
}

package router

import (
	"github.com/yogapw/forumgo/internal/application"
	"github.com/yogapw/forumgo/internal/container"
	pginfra "github.com/yogapw/forumgo/internal/infrastructure/postgres"
	handlers "github.com/yogapw/forumgo/internal/interface/http"
	"github.com/yogapw/forumgo/internal/router/modules"
	"github.com/yogapw/forumgo/pkg/helpers"
)

// InitModules constructs repositories, services, and handlers from the
// container singletons and registers every feature module with the registry.
// Called once during application startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	discussions := pginfra.NewDiscussionRepository(pool)
	comments := pginfra.NewCommentRepository(pool)
	follows := pginfra.NewFollowRepository(pool)

	uploader := helpers.NewGCSUploader(container.GetGCS(), cfg.GCSBucket)

	userSvc := application.NewService(
		users,
		follows,
		uploader,
		container.GetRedis(),
		logger,
		container.GetRabbitPub(),
		cfg.AppName,
		cfg.MailSendEnabled,
	)
	profileSvc := application.NewProfileService(users, discussions, comments, logger)
	discussionSvc := application.NewDiscussionService(
		discussions,
		comments,
		follows,
		container.GetRedis(),
		logger,
		container.GetES(),
		cfg.ESDiscussionsIndex,
	)

	jwt := container.GetJWT()

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(userSvc, jwt, logger, cfg.CookieDomain, cfg.CookieSecure), jwt))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, profileSvc, logger, cfg.UploadsDir), jwt))
	r.Add(modules.NewDiscussionModule(handlers.NewDiscussionHandler(discussionSvc, logger), jwt))
}

package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"newsportal/api/internal/config"
	"newsportal/api/internal/middleware"
	"newsportal/api/internal/models"
	"newsportal/api/internal/news"
	"newsportal/api/internal/repository"
	"newsportal/api/internal/service"
)

type HandlerSet struct {
	log        zerolog.Logger
	cfg        *config.AppConfig
	auth       *service.AuthService
	engagement *service.EngagementService
	news       *news.Service
	users      *repository.UserRepository
	attempts   *repository.AttemptRepository
	db         *pgxpool.Pool
	cache      *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, newsService *news.Service, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)
	reactionRepo := repository.NewReactionRepository(db)

	return HandlerSet{
		log:        log,
		cfg:        cfg,
		auth:       service.NewAuthService(userRepo, attemptRepo, cfg, log),
		engagement: service.NewEngagementService(bookmarkRepo, reactionRepo, log),
		news:       newsService,
		users:      userRepo,
		attempts:   attemptRepo,
		db:         db,
		cache:      cache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	auth := router.Group("/auth")
	auth.POST("/register", h.RegisterUser)
	auth.POST("/login", h.Login)
	auth.GET("/check-email", h.CheckEmail)

	authed := router.Group("/auth")
	authed.Use(middleware.Auth(h.cfg, h.users))
	authed.POST("/logout", h.Logout)
	authed.GET("/me", h.Me)

	user := router.Group("/user")
	user.Use(middleware.Auth(h.cfg, h.users))
	user.GET("/bookmark", h.ListBookmarks)
	user.POST("/bookmark", h.AddBookmark)
	user.DELETE("/bookmark", h.RemoveBookmark)
	user.GET("/reaction", h.ListReactions)
	user.POST("/reaction", h.AddReaction)

	admin := router.Group("/user")
	admin.Use(
		middleware.Auth(h.cfg, h.users),
		middleware.RequireRoles(models.RoleAdmin),
	)
	admin.GET("", h.AdminListBlocked)
	admin.PATCH("", h.AdminToggleBlock)

	newsGroup := router.Group("/news")
	newsGroup.GET("/headlines", h.Headlines)
	newsGroup.GET("/category", h.Category)
	newsGroup.GET("/search", h.Search)
	newsGroup.GET("/reactions", h.ReactionCounts)
}

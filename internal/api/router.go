package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yoursocial/yoursocial/internal/api/messaging"
	"github.com/yoursocial/yoursocial/internal/api/middleware"
	"github.com/yoursocial/yoursocial/internal/api/notifications"
	"github.com/yoursocial/yoursocial/internal/api/social"
	"github.com/yoursocial/yoursocial/internal/api/users"
	"github.com/yoursocial/yoursocial/internal/auth"
	"github.com/yoursocial/yoursocial/internal/cache"
	"github.com/yoursocial/yoursocial/internal/db"
	"github.com/yoursocial/yoursocial/internal/media"
	"github.com/yoursocial/yoursocial/pkg/config"
	"github.com/yoursocial/yoursocial/pkg/logging"
)

// Router sets up API routes
type Router struct {
	db     *db.DB
	cache  *cache.Cache
	store  *media.Store
	cfg    *config.Config
	logger *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, redisCache *cache.Cache, store *media.Store, cfg *config.Config) *Router {
	return &Router{
		db:     database,
		cache:  redisCache,
		store:  store,
		cfg:    cfg,
		logger: logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	repo := db.NewRepository(r.db.DB)
	tokens := auth.NewTokenManager(&r.cfg.Auth)
	limiter := cache.NewLoginLimiter(r.cache, r.cfg.Auth.LoginMaxAttempts, r.cfg.Auth.LoginWindow)
	unread := cache.NewUnreadCounts(r.cache)

	usersAPI := users.NewAPI(repo, tokens, limiter, r.store, &r.cfg.Auth)
	socialAPI := social.NewAPI(repo, r.store)
	messagingAPI := messaging.NewAPI(repo, unread)
	notificationsAPI := notifications.NewAPI(repo, unread)

	engine.Use(middleware.Tracing())

	authed := middleware.AuthRequired(tokens)

	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	// Stored media
	engine.Static("/media", r.store.RootDir())

	u := engine.Group("/api/users")
	{
		u.POST("/register", usersAPI.Register)
		u.POST("/login", usersAPI.Login)
		u.POST("/refresh", usersAPI.Refresh)

		u.GET("/me", authed, usersAPI.Me)
		u.PUT("/me", authed, usersAPI.UpdateMe)
		u.POST("/me/avatar", authed, usersAPI.UploadAvatar)
		u.POST("/me/banner", authed, usersAPI.UploadBanner)
		u.GET("/me/settings", authed, usersAPI.GetSettings)
		u.PUT("/me/settings", authed, usersAPI.UpdateSettings)
		u.GET("/me/statistics", authed, usersAPI.Statistics)
		u.POST("/me/2fa/activate", authed, usersAPI.ActivateTwoFactor)
		u.POST("/me/2fa/verify", authed, usersAPI.VerifyTwoFactor)
		u.POST("/me/2fa/deactivate", authed, usersAPI.DeactivateTwoFactor)

		u.GET("/search", authed, usersAPI.Search)
		u.GET("/suggestions", authed, usersAPI.Suggestions)
		u.GET("/:id", authed, usersAPI.GetUser)
		u.POST("/:id/follow", authed, usersAPI.Follow)
		u.GET("/:id/followers", authed, usersAPI.Followers)
		u.GET("/:id/following", authed, usersAPI.Following)
	}

	s := engine.Group("/api/social", authed)
	{
		s.POST("/posts", socialAPI.CreatePost)
		s.GET("/posts/feed", socialAPI.Feed)
		s.GET("/posts/:id", socialAPI.GetPost)
		s.PUT("/posts/:id", socialAPI.UpdatePost)
		s.DELETE("/posts/:id", socialAPI.DeletePost)
		s.GET("/users/:id/posts", socialAPI.UserPosts)
		s.POST("/media", socialAPI.UploadMedia)

		s.POST("/posts/:id/comments", socialAPI.CreateComment)
		s.GET("/posts/:id/comments", socialAPI.ListComments)
		s.PUT("/comments/:id", socialAPI.UpdateComment)
		s.DELETE("/comments/:id", socialAPI.DeleteComment)

		s.POST("/posts/:id/like", socialAPI.LikePost)
		s.GET("/posts/:id/likes", socialAPI.PostLikers)
		s.POST("/comments/:id/like", socialAPI.LikeComment)

		s.POST("/stories", socialAPI.CreateStory)
		s.GET("/stories", socialAPI.ListStories)
		s.GET("/stories/expired", socialAPI.ExpiredStories)
		s.GET("/stories/statistics", socialAPI.StoryStatistics)
		s.POST("/stories/:id/view", socialAPI.ViewStory)
		s.GET("/stories/:id/views", socialAPI.StoryViewers)

		s.GET("/hashtags", socialAPI.Hashtags)
		s.GET("/hashtags/:tag/posts", socialAPI.PostsByTag)
		s.GET("/hashtags/:tag/stories", socialAPI.StoriesByTag)
		s.GET("/trending", socialAPI.Trending)
	}

	m := engine.Group("/api/messaging", authed)
	{
		m.POST("/conversations", messagingAPI.CreateConversation)
		m.GET("/conversations", messagingAPI.ListConversations)
		m.GET("/conversations/recent", messagingAPI.RecentConversations)
		m.DELETE("/conversations/:id", messagingAPI.DeleteConversation)
		m.PUT("/conversations/:id/mute", messagingAPI.MuteConversation)

		m.POST("/conversations/:id/messages", messagingAPI.SendMessage)
		m.GET("/conversations/:id/messages", messagingAPI.ListMessages)
		m.GET("/conversations/:id/unread", messagingAPI.UnreadCount)
		m.POST("/conversations/:id/read", messagingAPI.MarkRead)

		m.PUT("/messages/:id", messagingAPI.EditMessage)
		m.DELETE("/messages/:id", messagingAPI.DeleteMessage)
		m.POST("/messages/:id/reactions", messagingAPI.ToggleReaction)
		m.GET("/messages/:id/reactions", messagingAPI.ListReactions)

		m.GET("/unread", messagingAPI.TotalUnread)
		m.GET("/statistics", messagingAPI.Statistics)
	}

	n := engine.Group("/api/notifications", authed)
	{
		n.GET("", notificationsAPI.List)
		n.GET("/unread", notificationsAPI.UnreadCount)
		n.POST("/read-all", notificationsAPI.MarkAllRead)
		n.POST("/:id/read", notificationsAPI.MarkRead)
		n.GET("/preferences", notificationsAPI.GetPreferences)
		n.PUT("/preferences", notificationsAPI.UpdatePreferences)
	}
}

// healthHandler reports component health
func (r *Router) healthHandler(c *gin.Context) {
	ctx := c.Request.Context()
	status := "ok"
	checks := gin.H{}

	if err := r.db.Health(ctx); err != nil {
		status = "degraded"
		checks["database"] = err.Error()
	} else {
		checks["database"] = "ok"
	}
	if err := r.cache.Health(ctx); err != nil {
		if err == cache.ErrCacheDisabled {
			checks["cache"] = "disabled"
		} else {
			status = "degraded"
			checks["cache"] = err.Error()
		}
	} else {
		checks["cache"] = "ok"
	}

	c.JSON(200, gin.H{"status": status, "checks": checks})
}

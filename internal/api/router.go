package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hablandodecaballos/backend/config"
	"github.com/hablandodecaballos/backend/internal/api/handlers"
	"github.com/hablandodecaballos/backend/internal/api/middleware"
	"github.com/hablandodecaballos/backend/internal/core/auth"
	"github.com/hablandodecaballos/backend/internal/storage/objectstore"
)

type Router struct {
	engine            *gin.Engine
	corsConfig        *config.CORSConfig
	authMiddleware    *middleware.AuthMiddleware
	authHandler       *handlers.AuthHandler
	forumHandler      *handlers.ForumHandler
	hofHandler        *handlers.HallOfFameHandler
	newsHandler       *handlers.NewsHandler
	galleryHandler    *handlers.GalleryHandler
	adsHandler        *handlers.AdsHandler
	profileHandler    *handlers.ProfileHandler
	moderationHandler *handlers.ModerationHandler
	adminHandler      *handlers.AdminHandler
	filesHandler      *handlers.FilesHandler
}

func NewRouter(
	authService *auth.Service,
	corsConfig *config.CORSConfig,
	authHandler *handlers.AuthHandler,
	forumHandler *handlers.ForumHandler,
	hofHandler *handlers.HallOfFameHandler,
	newsHandler *handlers.NewsHandler,
	galleryHandler *handlers.GalleryHandler,
	adsHandler *handlers.AdsHandler,
	profileHandler *handlers.ProfileHandler,
	moderationHandler *handlers.ModerationHandler,
	adminHandler *handlers.AdminHandler,
	filesHandler *handlers.FilesHandler,
) *Router {
	return &Router{
		corsConfig:        corsConfig,
		authMiddleware:    middleware.NewAuthMiddleware(authService),
		authHandler:       authHandler,
		forumHandler:      forumHandler,
		hofHandler:        hofHandler,
		newsHandler:       newsHandler,
		galleryHandler:    galleryHandler,
		adsHandler:        adsHandler,
		profileHandler:    profileHandler,
		moderationHandler: moderationHandler,
		adminHandler:      adminHandler,
		filesHandler:      filesHandler,
	}
}

func (r *Router) Setup(mode string) *gin.Engine {
	gin.SetMode(mode)
	r.engine = gin.New()
	r.engine.Use(gin.Recovery())
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger())
	r.engine.Use(cors.New(cors.Config{
		AllowOrigins:     r.corsConfig.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.engine.Use(middleware.AuditMiddleware())

	r.setupRoutes()
	return r.engine
}

func (r *Router) setupRoutes() {
	api := r.engine.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Signed URLs carry their own authorization.
	api.GET(strings.TrimPrefix(objectstore.DownloadPath, "/api"), r.filesHandler.Download)

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", r.authHandler.Register)
		authRoutes.POST("/login", r.authHandler.Login)
	}

	// Public reads. OptionalAuth lets owners and staff see rows that are
	// hidden from anonymous visitors.
	public := api.Group("")
	public.Use(r.authMiddleware.OptionalAuth())
	{
		public.GET("/forum/threads", r.forumHandler.ListThreads)
		public.GET("/forum/threads/:id", r.forumHandler.GetThread)
		public.GET("/forum/threads/:id/posts", r.forumHandler.ListPosts)

		public.GET("/halloffame/horses", r.hofHandler.List)
		public.GET("/halloffame/horses/:id", r.hofHandler.Get)

		public.GET("/news", r.newsHandler.List)
		public.GET("/news/:id", r.newsHandler.Get)

		public.GET("/gallery/albums", r.galleryHandler.ListAlbums)
		public.GET("/gallery/albums/:id", r.galleryHandler.GetAlbum)
		public.GET("/gallery/albums/:id/media", r.galleryHandler.ListMedia)

		public.GET("/ads", r.adsHandler.List)
		public.GET("/ads/:id", r.adsHandler.Get)

		public.GET("/profiles/:id", r.profileHandler.Get)
	}

	protected := api.Group("")
	protected.Use(r.authMiddleware.Authenticate())
	{
		protected.GET("/auth/me", r.authHandler.Me)
		protected.PUT("/profiles/me", r.profileHandler.UpdateMe)

		protected.POST("/forum/threads", r.forumHandler.CreateThread)
		protected.POST("/forum/threads/:id/posts", r.forumHandler.Reply)

		protected.POST("/halloffame/horses", r.hofHandler.Nominate)
		protected.POST("/halloffame/horses/:id/votes", r.hofHandler.Vote)

		protected.POST("/news", r.newsHandler.Create)
		protected.PUT("/news/:id", r.newsHandler.Update)
		protected.POST("/news/:id/publish", r.newsHandler.Publish)
		protected.DELETE("/news/:id", r.newsHandler.Delete)

		protected.POST("/gallery/albums", r.galleryHandler.CreateAlbum)
		protected.POST("/gallery/albums/:id/media", r.galleryHandler.Upload)

		protected.POST("/ads", r.adsHandler.Create)
		protected.PUT("/ads/:id/status", r.adsHandler.SetStatus)

		protected.POST("/reports", r.moderationHandler.CreateReport)
	}

	moderation := api.Group("/moderation")
	moderation.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireModerator())
	{
		moderation.GET("/reports", r.moderationHandler.ListReports)
		moderation.POST("/reports/:id/resolve", r.moderationHandler.Resolve)
		moderation.POST("/reports/:id/dismiss", r.moderationHandler.Dismiss)
		moderation.PUT("/forum/threads/:id/flags", r.forumHandler.SetThreadFlags)
	}

	admin := api.Group("/admin")
	admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireAdmin())
	{
		admin.GET("/users", r.adminHandler.ListUsers)
		admin.POST("/users/:userId/ban", r.adminHandler.BanUser)
		admin.POST("/users/:userId/unban", r.adminHandler.UnbanUser)
		admin.POST("/users/:userId/promote", r.adminHandler.PromoteModerator)
		admin.POST("/users/:userId/demote", r.adminHandler.DemoteModerator)
		admin.GET("/audit-logs", r.adminHandler.ListAuditLogs)
		admin.POST("/ads/expire", r.adminHandler.ExpireAds)
	}
}

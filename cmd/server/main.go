package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hablandodecaballos/backend/config"
	"github.com/hablandodecaballos/backend/internal/api"
	"github.com/hablandodecaballos/backend/internal/api/handlers"
	"github.com/hablandodecaballos/backend/internal/core/ads"
	"github.com/hablandodecaballos/backend/internal/core/auth"
	"github.com/hablandodecaballos/backend/internal/core/forum"
	"github.com/hablandodecaballos/backend/internal/core/gallery"
	"github.com/hablandodecaballos/backend/internal/core/halloffame"
	"github.com/hablandodecaballos/backend/internal/core/moderation"
	"github.com/hablandodecaballos/backend/internal/core/news"
	"github.com/hablandodecaballos/backend/internal/core/profile"
	"github.com/hablandodecaballos/backend/internal/core/validation"
	"github.com/hablandodecaballos/backend/internal/storage/objectstore"
	"github.com/hablandodecaballos/backend/internal/storage/postgres"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if os.Getenv("LOG_PRETTY") != "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg := config.Load()

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET environment variable is required")
	}
	if cfg.Storage.URLSecret == "" {
		log.Fatal().Msg("STORAGE_URL_SECRET environment variable is required")
	}

	db, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	log.Info().Msg("connected to database")

	store, err := objectstore.New(cfg.Storage.Root, []byte(cfg.Storage.URLSecret))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object storage")
	}

	authRepo := auth.NewRepository(db)
	profileRepo := profile.NewRepository(db)
	forumRepo := forum.NewRepository(db)
	hofRepo := halloffame.NewRepository(db)
	newsRepo := news.NewRepository(db)
	galleryRepo := gallery.NewRepository(db)
	adsRepo := ads.NewRepository(db)
	modRepo := moderation.NewRepository(db)

	authService := auth.NewService(authRepo, &cfg.JWT)
	profileService := profile.NewService(profileRepo)
	forumService := forum.NewService(forumRepo, profileService)
	hofService := halloffame.NewService(hofRepo, profileService)
	newsService := news.NewService(newsRepo, profileService)
	galleryService := gallery.NewService(galleryRepo, store, profileService, cfg.Storage.URLTTL)
	validator := validation.NewValidator()
	adsService := ads.NewService(adsRepo, validator, profileService)
	modService := moderation.NewService(modRepo)

	router := api.NewRouter(
		authService,
		&cfg.CORS,
		handlers.NewAuthHandler(authService),
		handlers.NewForumHandler(forumService),
		handlers.NewHallOfFameHandler(hofService),
		handlers.NewNewsHandler(newsService),
		handlers.NewGalleryHandler(galleryService),
		handlers.NewAdsHandler(adsService),
		handlers.NewProfileHandler(profileService),
		handlers.NewModerationHandler(modService),
		handlers.NewAdminHandler(authService, modService, adsService),
		handlers.NewFilesHandler(store),
	)

	engine := router.Setup(cfg.Server.Mode)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: engine,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Let in-flight requests drain before the pool closes.
	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}

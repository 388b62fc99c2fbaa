package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/DLXHub/API/internal/cache"
	"github.com/DLXHub/API/internal/config"
	"github.com/DLXHub/API/internal/database"
	"github.com/DLXHub/API/internal/handlers"
	"github.com/DLXHub/API/internal/logging"
	"github.com/DLXHub/API/internal/middleware"
	"github.com/DLXHub/API/internal/models"
	"github.com/DLXHub/API/internal/response"
	"github.com/DLXHub/API/internal/services/analytics"
	"github.com/DLXHub/API/internal/services/collections"
	"github.com/DLXHub/API/internal/services/downloads"
	"github.com/DLXHub/API/internal/services/featureflags"
	"github.com/DLXHub/API/internal/services/genres"
	"github.com/DLXHub/API/internal/services/jobs"
	"github.com/DLXHub/API/internal/services/languages"
	"github.com/DLXHub/API/internal/services/movies"
	"github.com/DLXHub/API/internal/services/pages"
	"github.com/DLXHub/API/internal/services/people"
	"github.com/DLXHub/API/internal/services/tvshows"
	"github.com/DLXHub/API/internal/services/users"
	ws "github.com/DLXHub/API/internal/services/websocket"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if envPort := os.Getenv("PORT"); envPort != "" {
		if port, err := strconv.Atoi(envPort); err == nil {
			cfg.Server.Port = port
		}
	}

	logging.Init(cfg.Logging.Level, cfg.Logging.Pretty)
	log := logging.With("server")

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.AutoMigrate(
		&models.User{},
		&models.Page{},
		&models.Job{},
		&models.Movie{},
		&models.TvShow{},
		&models.Season{},
		&models.Episode{},
		&models.Genre{},
		&models.MediaGenre{},
		&models.Person{},
		&models.MovieCast{},
		&models.MovieCrew{},
		&models.TvShowCast{},
		&models.TvShowCrew{},
		&models.Collection{},
		&models.CollectionMovie{},
		&models.Language{},
		&models.FeatureFlag{},
		&models.PageView{},
		&models.PerformanceMetric{},
		&models.Download{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	contentCache := buildCache(cfg)

	ws.InitHub()

	pageService := pages.New(db, contentCache, logging.With("pages"))
	movieService := movies.New(db)
	tvShowService := tvshows.New(db)
	personService := people.New(db)
	genreService := genres.New(db)
	collectionService := collections.New(db)
	languageService := languages.New(db)
	flagService := featureflags.New(db, contentCache)
	analyticsService := analytics.New(db)
	downloadService := downloads.New(db)
	userService := users.New(db)

	baseURL := os.Getenv("DLXHUB_BASE_URL")
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}
	handlerMap := jobs.HandlerMap{
		models.JobTypeGenerateSitemap:   jobs.NewSitemapHandler(db, contentCache, baseURL, logging.With("sitemap")),
		models.JobTypeCleanupTempFiles:  jobs.NewCleanupHandler(cfg.Jobs.TempDir, cfg.Jobs.TempFileMaxAge, logging.With("cleanup")),
		models.JobTypeUpdateSearchIndex: jobs.NewSearchIndexHandler(db, contentCache, logging.With("searchindex")),
	}
	jobService := jobs.New(db, handlerMap, ws.JobHub, logging.With("jobs"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := jobs.NewRunner(jobService, cfg.Jobs.PollInterval, logging.With("runner"))
	go runner.Run(ctx)

	if err := userService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		log.Error().Err(err).Msg("failed to seed admin user")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(response.Error(err.Error()))
		},
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	setupRoutes(app, routeHandlers{
		pages:       handlers.NewPageHandler(pageService),
		jobs:        handlers.NewJobHandler(jobService),
		movies:      handlers.NewMovieHandler(movieService, genreService, downloadService),
		tvShows:     handlers.NewTvShowHandler(tvShowService),
		people:      handlers.NewPersonHandler(personService),
		genres:      handlers.NewGenreHandler(genreService),
		collections: handlers.NewCollectionHandler(collectionService),
		languages:   handlers.NewLanguageHandler(languageService),
		flags:       handlers.NewFeatureFlagHandler(flagService),
		analytics:   handlers.NewAnalyticsHandler(analyticsService),
		downloads:   handlers.NewDownloadHandler(downloadService),
		auth:        handlers.NewAuthHandler(userService),
		dashboard:   handlers.NewDashboardHandler(db),
		sitemap:     handlers.NewSitemapHandler(contentCache),
	})

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		app.Shutdown()
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("server starting")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// buildCache returns the Redis-backed cache when configured, otherwise an
// in-process cache.
func buildCache(cfg *config.Config) cache.Cache {
	log := logging.With("cache")
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedis(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, "dlxhub")
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).
				Msg("redis unavailable, falling back to in-memory cache")
			return cache.NewMemory()
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis cache")
		return redisCache
	}
	return cache.NewMemory()
}

type routeHandlers struct {
	pages       *handlers.PageHandler
	jobs        *handlers.JobHandler
	movies      *handlers.MovieHandler
	tvShows     *handlers.TvShowHandler
	people      *handlers.PersonHandler
	genres      *handlers.GenreHandler
	collections *handlers.CollectionHandler
	languages   *handlers.LanguageHandler
	flags       *handlers.FeatureFlagHandler
	analytics   *handlers.AnalyticsHandler
	downloads   *handlers.DownloadHandler
	auth        *handlers.AuthHandler
	dashboard   *handlers.DashboardHandler
	sitemap     *handlers.SitemapHandler
}

func setupRoutes(app *fiber.App, h routeHandlers) {
	app.Get("/sitemap.xml", h.sitemap.Serve)

	api := app.Group("/api")

	// Public
	api.Post("/auth/register", h.auth.Register)
	api.Post("/auth/login", h.auth.Login)

	api.Get("/pages", middleware.OptionalAuth(), h.pages.List)
	api.Get("/pages/slug/:slug", middleware.OptionalAuth(), h.pages.GetBySlug)
	api.Get("/pages/link/:target", middleware.OptionalAuth(), h.pages.GetByLinkTarget)

	api.Get("/movies", h.movies.List)
	api.Get("/movies/slug/:slug", h.movies.GetBySlug)
	api.Get("/movies/tmdb/:tmdbId", h.movies.GetByTmdbID)
	api.Get("/movies/:id", h.movies.Get)
	api.Get("/movies/:id/genres", h.movies.Genres)
	api.Get("/movies/:id/downloads", h.movies.Downloads)

	api.Get("/tvshows", h.tvShows.List)
	api.Get("/tvshows/slug/:slug", h.tvShows.GetBySlug)
	api.Get("/tvshows/tmdb/:tmdbId", h.tvShows.GetByTmdbID)
	api.Get("/tvshows/:id", h.tvShows.Get)
	api.Get("/tvshows/:id/seasons", h.tvShows.Seasons)
	api.Get("/tvshows/:id/seasons/:number/episodes", h.tvShows.SeasonEpisodes)

	api.Get("/people", h.people.List)
	api.Get("/people/tmdb/:tmdbId", h.people.GetByTmdbID)
	api.Get("/people/:id", h.people.Get)
	api.Get("/people/:id/credits", h.people.Credits)

	api.Get("/genres", h.genres.List)
	api.Get("/genres/:id", h.genres.Get)
	api.Get("/languages", h.languages.List)
	api.Get("/languages/:id", h.languages.Get)
	api.Get("/feature-flags/client", h.flags.ClientFlags)
	api.Get("/downloads/:id", h.downloads.Get)
	api.Get("/episodes/:id/downloads", h.downloads.ForEpisode)

	api.Post("/analytics/pageview", h.analytics.RecordPageView)
	api.Post("/analytics/metric", h.analytics.RecordMetric)

	// Authenticated
	protected := api.Group("/", middleware.AuthRequired())
	protected.Get("/auth/profile", h.auth.Profile)
	protected.Put("/auth/profile", h.auth.UpdateProfile)
	protected.Post("/auth/2fa/setup", h.auth.SetupTwoFactor)
	protected.Post("/auth/2fa/confirm", h.auth.ConfirmTwoFactor)
	protected.Post("/auth/2fa/disable", h.auth.DisableTwoFactor)

	protected.Get("/collections", h.collections.Mine)
	protected.Post("/collections", h.collections.Create)
	protected.Get("/collections/:id", h.collections.Get)
	protected.Get("/collections/:id/movies", h.collections.Movies)
	protected.Post("/collections/:id/movies", h.collections.AddMovie)

	protected.Get("/pages/:id", h.pages.Get)

	// Admin
	admin := protected.Group("/", middleware.AdminRequired())
	admin.Post("/pages", h.pages.Create)
	admin.Put("/pages/:id", h.pages.Update)
	admin.Post("/pages/:id/publish", h.pages.Publish)
	admin.Delete("/pages/:id", h.pages.Delete)

	admin.Get("/jobs", h.jobs.List)
	admin.Post("/jobs", h.jobs.Create)
	admin.Get("/jobs/:id", h.jobs.Get)
	admin.Post("/jobs/:id/start", h.jobs.Start)
	admin.Post("/jobs/:id/cancel", h.jobs.Cancel)

	admin.Post("/movies/import", h.movies.Import)
	admin.Post("/genres", h.genres.Upsert)
	admin.Post("/genres/:id/assign", h.genres.Assign)

	admin.Post("/languages", h.languages.Create)
	admin.Put("/languages/:id", h.languages.Update)
	admin.Post("/languages/:id/default", h.languages.SetDefault)
	admin.Delete("/languages/:id", h.languages.Delete)

	admin.Get("/feature-flags", h.flags.List)
	admin.Get("/feature-flags/key/:key", h.flags.GetByKey)
	admin.Post("/feature-flags", h.flags.Create)
	admin.Put("/feature-flags/:id", h.flags.Update)
	admin.Post("/feature-flags/:id/toggle", h.flags.Toggle)
	admin.Delete("/feature-flags/:id", h.flags.Delete)

	admin.Post("/downloads", h.downloads.Create)
	admin.Delete("/downloads/:id", h.downloads.Delete)

	admin.Get("/analytics/top-pages", h.analytics.TopPages)
	admin.Get("/analytics/summary", h.analytics.Summary)
	admin.Get("/analytics/vitals", h.analytics.Vitals)

	admin.Get("/dashboard/stats", h.dashboard.Stats)
	admin.Get("/dashboard/system", h.dashboard.System)

	admin.Get("/users", h.auth.ListUsers)
	admin.Delete("/users/:id", h.auth.DeleteUser)

	// Job event feed
	app.Get("/ws/jobs", websocket.New(ws.HandleWebSocket))
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/catalog_api/internal/cache"
	"github.com/GTDGit/catalog_api/internal/config"
	"github.com/GTDGit/catalog_api/internal/database"
	"github.com/GTDGit/catalog_api/internal/handler"
	"github.com/GTDGit/catalog_api/internal/metrics"
	"github.com/GTDGit/catalog_api/internal/middleware"
	"github.com/GTDGit/catalog_api/internal/repository"
	"github.com/GTDGit/catalog_api/internal/search"
	"github.com/GTDGit/catalog_api/internal/service"
	"github.com/GTDGit/catalog_api/internal/worker"
)

// main is the application entrypoint for the catalog API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting catalog api")

	// 3. Connect database
	db, err := database.Connect(context.Background(), &cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := database.Migrate(db.DB, cfg.DB.MigrationsPath, true); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis; the catalog is served uncached without it
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("redis connection failed - catalog cache disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("redis connected successfully")
	}
	catalogCache := cache.NewCatalogCache(redisClient, cfg.Redis.CacheTTL)

	// 3c. Elasticsearch; search answers 503 while it is unavailable
	searchClient, err := search.NewClient(&cfg.Search)
	if err != nil {
		log.Warn().Err(err).Msg("search client initialization failed - search will be disabled")
		searchClient = nil
	} else if err := searchClient.Ping(context.Background()); err != nil {
		log.Warn().Err(err).Msg("elasticsearch not reachable at startup")
	}

	// 4. Initialize repositories
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	promotionRepo := repository.NewPromotionRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)

	// 5. Initialize services
	catalogSvc := service.NewCatalogService(categoryRepo, productRepo, inventoryRepo, promotionRepo, catalogCache, cfg.Media.URLPrefix)
	searchSvc := service.NewSearchService(searchClient, cfg.Search.DefaultLimit, cfg.Search.MaxLimit)
	adminAuthSvc := service.NewAdminAuthService(adminRepo, cfg.JWTSecret, cfg.JWTTTL)

	// 6. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware(cfg.JWTSecret)
	loginLimiter := middleware.NewInvalidAuthRateLimiter(5, 15*time.Minute)
	defer loginLimiter.Stop()

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:  handler.NewHealthHandler("database", healthChecks(db, redisClient, searchClient)),
		Catalog: handler.NewCatalogHandler(catalogSvc, cfg.TrustProxyHeaders),
		Search:  handler.NewSearchHandler(searchSvc, cfg.TrustProxyHeaders),
		Admin:   handler.NewAdminHandler(catalogSvc),
		Auth:    handler.NewAuthHandler(adminAuthSvc, loginLimiter),
	}

	// 8. Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	router.Use(metrics.Middleware())
	setupRoutes(router, handlers, jwtMw)

	// 9. Start background workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if searchClient != nil {
		indexSyncSvc := service.NewIndexSyncService(inventoryRepo, searchClient, service.DefaultIndexBatchSize)
		go worker.NewIndexSyncWorker(indexSyncSvc, cfg.Worker.IndexSyncInterval).Start(ctx)
	}

	// 10. Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 11. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups the HTTP handlers mounted by setupRoutes.
type Handlers struct {
	Health  *handler.HealthHandler
	Catalog *handler.CatalogHandler
	Search  *handler.SearchHandler
	Admin   *handler.AdminHandler
	Auth    *handler.AuthHandler
}

func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public catalog (read-only)
	api := router.Group("/api")
	{
		api.GET("/inventory/category/all", handlers.Catalog.ListCategories)
		api.GET("/inventory/products/category/:slug/", handlers.Catalog.ProductsByCategory)
		api.GET("/inventory/products/:web_id/", handlers.Catalog.InventoryByWebID)
		api.GET("/search/:query/", handlers.Search.Search)
	}

	// Admin
	router.POST("/api/admin/auth/login", handlers.Auth.Login)
	admin := router.Group("/api/admin")
	admin.Use(jwtMiddleware.Handle())
	{
		admin.GET("/categories/tree", handlers.Admin.CategoryTree)
		admin.GET("/categories/:slug/ancestors", handlers.Admin.Ancestors)
		admin.GET("/categories/:slug/descendants", handlers.Admin.Descendants)
		admin.GET("/inventory/:sku/stock", handlers.Admin.Stock)
	}
}

// healthChecks checks the database always and Redis and Elasticsearch when
// they are configured.
func healthChecks(db *sqlx.DB, redisClient *cache.RedisClient, searchClient *search.Client) map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{
		"database": db.PingContext,
		"redis":    nil,
		"search":   nil,
	}
	if redisClient != nil {
		checks["redis"] = redisClient.Ping
	}
	if searchClient != nil {
		checks["search"] = searchClient.Ping
	}
	return checks
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

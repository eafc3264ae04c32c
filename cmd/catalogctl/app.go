package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/catalog_api/internal/cache"
	"github.com/GTDGit/catalog_api/internal/config"
	"github.com/GTDGit/catalog_api/internal/database"
	"github.com/GTDGit/catalog_api/internal/repository"
	"github.com/GTDGit/catalog_api/internal/search"
	"github.com/GTDGit/catalog_api/internal/service"
)

// app holds the connections and services a command needs.
type app struct {
	cfg   *config.Config
	db    *sqlx.DB
	redis *cache.RedisClient

	categories *repository.CategoryRepository
	inventory  *repository.InventoryRepository

	catalog    *service.CatalogService
	management *service.ManagementService
	admins     *service.AdminAuthService
}

// openApp loads configuration and connects to the database. Redis is optional;
// without it cache invalidation is skipped.
func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.Connect(context.Background(), &cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable - cached catalog responses will expire on their own")
		redisClient = nil
	}
	catalogCache := cache.NewCatalogCache(redisClient, cfg.Redis.CacheTTL)

	categoryRepo := repository.NewCategoryRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	attributeRepo := repository.NewAttributeRepository(db)
	productRepo := repository.NewProductRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	promotionRepo := repository.NewPromotionRepository(db)
	integrityRepo := repository.NewIntegrityRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)

	return &app{
		cfg:        cfg,
		db:         db,
		redis:      redisClient,
		categories: categoryRepo,
		inventory:  inventoryRepo,
		catalog: service.NewCatalogService(
			categoryRepo, productRepo, inventoryRepo, promotionRepo, catalogCache, cfg.Media.URLPrefix,
		),
		management: service.NewManagementService(
			categoryRepo, brandRepo, attributeRepo, productRepo, inventoryRepo, promotionRepo, integrityRepo, catalogCache,
		),
		admins: service.NewAdminAuthService(adminRepo, cfg.JWTSecret, cfg.JWTTTL),
	}, nil
}

func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	_ = a.db.Close()
}

// indexSync returns the service that mirrors inventory into the search index.
func (a *app) indexSync() (*service.IndexSyncService, error) {
	client, err := search.NewClient(&a.cfg.Search)
	if err != nil {
		return nil, err
	}
	return service.NewIndexSyncService(a.inventory, client, service.DefaultIndexBatchSize), nil
}

// withApp runs fn with an open app and closes it afterwards.
func withApp(fn func(a *app) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

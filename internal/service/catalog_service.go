package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/catalog_api/internal/cache"
	"github.com/GTDGit/catalog_api/internal/models"
	"github.com/GTDGit/catalog_api/internal/projection"
)

// CatalogService serves the read-only catalog projections.
type CatalogService struct {
	categories  CategoryStore
	products    ProductStore
	inventory   InventoryStore
	promotions  PromotionStore
	cache       *cache.CatalogCache
	mediaPrefix string
	now         func() time.Time
}

// NewCatalogService constructs a CatalogService. cache may be nil.
func NewCatalogService(
	categories CategoryStore,
	products ProductStore,
	inventory InventoryStore,
	promotions PromotionStore,
	cache *cache.CatalogCache,
	mediaPrefix string,
) *CatalogService {
	return &CatalogService{
		categories:  categories,
		products:    products,
		inventory:   inventory,
		promotions:  promotions,
		cache:       cache,
		mediaPrefix: mediaPrefix,
		now:         time.Now,
	}
}

// ListCategories returns every category ordered by name.
func (s *CatalogService) ListCategories(ctx context.Context) ([]projection.CategoryView, error) {
	var views []projection.CategoryView
	if s.cache.Categories(ctx, &views) {
		return views, nil
	}

	rows, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	views = projection.Categories(rows)
	s.cache.SetCategories(ctx, views)
	return views, nil
}

// ProductsByCategory returns the products of the category with the given
// slug ordered by name. Unknown and empty slugs yield an empty list.
func (s *CatalogService) ProductsByCategory(ctx context.Context, slug string) ([]projection.ProductView, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return []projection.ProductView{}, nil
	}

	var views []projection.ProductView
	if s.cache.ProductsByCategory(ctx, slug, &views) {
		return views, nil
	}

	rows, err := s.products.ListByCategorySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	views = projection.ProductSummaries(rows)
	s.cache.SetProductsByCategory(ctx, slug, views)
	return views, nil
}

// InventoryByWebID returns every variant of the product with the given
// web_id. origin is the scheme and host media URLs are resolved against.
// An unknown web_id yields an empty list.
func (s *CatalogService) InventoryByWebID(ctx context.Context, webID, origin string) ([]projection.InventoryView, error) {
	rows, err := s.inventory.ListByWebID(ctx, webID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []projection.InventoryView{}, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	media, err := s.inventory.MediaFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	attrs, err := s.inventory.AttributesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	// Variants without an active promotion are absent from prices and
	// project to a null promotion_price.
	prices, err := s.promotions.ActivePrices(ctx, ids, s.now())
	if err != nil {
		log.Error().Err(err).Str("web_id", webID).Msg("failed to load promotion prices")
		return nil, err
	}

	return projection.Inventories(rows, media, attrs, projection.Context{
		Origin:          origin,
		MediaPrefix:     s.mediaPrefix,
		PromotionPrices: prices,
	}), nil
}

// CategoryTree returns every category in tree order.
func (s *CatalogService) CategoryTree(ctx context.Context) ([]models.Category, error) {
	return s.categories.Tree(ctx)
}

// Ancestors returns the path from the root down to the parent of slug.
func (s *CatalogService) Ancestors(ctx context.Context, slug string) ([]models.Category, error) {
	c, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.categories.Ancestors(ctx, c)
}

// Descendants returns the subtree below slug in tree order.
func (s *CatalogService) Descendants(ctx context.Context, slug string) ([]models.Category, error) {
	c, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.categories.Descendants(ctx, c)
}

// StockBySKU returns the stock record of a variant.
func (s *CatalogService) StockBySKU(ctx context.Context, sku string) (*models.Stock, error) {
	return s.inventory.StockBySKU(ctx, sku)
}

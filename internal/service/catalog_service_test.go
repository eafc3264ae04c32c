package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/catalog_api/internal/cache"
	"github.com/GTDGit/catalog_api/internal/config"
	"github.com/GTDGit/catalog_api/internal/models"
	"github.com/GTDGit/catalog_api/internal/utils"
)

func seedShoes(t *testing.T, f *fakeCatalog) {
	t.Helper()
	ctx := context.Background()
	shoes := &models.Category{Name: "Shoes", Slug: "shoes", IsActive: true}
	require.NoError(t, f.Create(ctx, shoes))
	require.NoError(t, fakeProducts{f}.Create(ctx, &models.Product{Name: "Runner", WebID: "R100", CategoryID: &shoes.ID}))
}

func newCatalogService(f *fakeCatalog, c *cache.CatalogCache) *CatalogService {
	return NewCatalogService(f, fakeProducts{f}, fakeInventory{f}, fakePromotions{f}, c, "/media/")
}

func TestCatalogService_ProductsByCategory(t *testing.T) {
	f := newFakeCatalog()
	seedShoes(t, f)
	svc := newCatalogService(f, nil)

	views, err := svc.ProductsByCategory(context.Background(), "shoes")
	require.NoError(t, err)

	data, err := json.Marshal(views)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Runner","web_id":"R100"}]`, string(data))
}

func TestCatalogService_ProductsByUnknownOrEmptySlug(t *testing.T) {
	f := newFakeCatalog()
	seedShoes(t, f)
	svc := newCatalogService(f, nil)

	views, err := svc.ProductsByCategory(context.Background(), "unknown-slug")
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)

	calls := f.productCalls
	views, err = svc.ProductsByCategory(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, views)
	assert.Equal(t, calls, f.productCalls)
}

func TestCatalogService_ListCategoriesIsCached(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := cache.NewRedisClient(&config.RedisConfig{Host: mr.Host(), Port: mr.Port()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	c := cache.NewCatalogCache(client, time.Minute)

	f := newFakeCatalog()
	seedShoes(t, f)
	require.NoError(t, f.Create(context.Background(), &models.Category{Name: "Boots", Slug: "boots"}))
	svc := newCatalogService(f, c)
	ctx := context.Background()

	first, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	second, err := svc.ListCategories(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.listCalls)
	assert.Equal(t, "Boots", first[0].Name)

	require.NoError(t, c.Invalidate(ctx))
	_, err = svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, f.listCalls)
}

func TestCatalogService_InventoryByWebID(t *testing.T) {
	f := newFakeCatalog()
	seedShoes(t, f)
	ctx := context.Background()
	inv := fakeInventory{f}

	product, err := fakeProducts{f}.GetByWebID(ctx, "R100")
	require.NoError(t, err)
	onSale := &models.ProductInventory{SKU: "SKU1", ProductID: product.ID, ProductTypeID: 1, IsDefault: true, StorePrice: decimal.RequireFromString("92")}
	plain := &models.ProductInventory{SKU: "SKU2", ProductID: product.ID, ProductTypeID: 1, StorePrice: decimal.RequireFromString("90")}
	require.NoError(t, inv.Create(ctx, onSale, nil))
	require.NoError(t, inv.Create(ctx, plain, nil))
	require.NoError(t, inv.AddMedia(ctx, &models.Media{ProductInventoryID: onSale.ID, ImgURL: "images/default.png", AltText: "runner"}))

	promos := fakePromotions{f}
	require.NoError(t, promos.Create(ctx, &models.Promotion{Name: "Summer", IsActive: true},
		[]models.PromotionItem{{ProductInventoryID: onSale.ID, PromoPrice: decimal.RequireFromString("46")}}))
	require.NoError(t, promos.Create(ctx, &models.Promotion{Name: "Stale", IsActive: false},
		[]models.PromotionItem{{ProductInventoryID: plain.ID, PromoPrice: decimal.RequireFromString("10")}}))

	svc := newCatalogService(f, nil)
	views, err := svc.InventoryByWebID(ctx, "R100", "http://shop.test")
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, "SKU1", views[0].SKU)
	require.NotNil(t, views[0].PromotionPrice)
	assert.Equal(t, "46.00", *views[0].PromotionPrice)
	require.Len(t, views[0].Media, 1)
	assert.Equal(t, "http://shop.test/media/images/default.png", views[0].Media[0].ImageURL)

	assert.Equal(t, "SKU2", views[1].SKU)
	assert.Nil(t, views[1].PromotionPrice)
	assert.Empty(t, views[1].Media)

	none, err := svc.InventoryByWebID(ctx, "NOPE", "http://shop.test")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestCatalogService_AncestorsUnknownSlug(t *testing.T) {
	svc := newCatalogService(newFakeCatalog(), nil)
	_, err := svc.Ancestors(context.Background(), "missing")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

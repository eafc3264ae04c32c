package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/catalog_api/internal/models"
	"github.com/GTDGit/catalog_api/internal/repository"
	"github.com/GTDGit/catalog_api/internal/search"
)

// The interfaces below are the slices of the repositories each service uses.
// The repository types satisfy them; tests substitute in-memory fakes.

type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	Tree(ctx context.Context) ([]models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	Ancestors(ctx context.Context, c *models.Category) ([]models.Category, error)
	Descendants(ctx context.Context, c *models.Category) ([]models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	Move(ctx context.Context, id int64, parentID *int64) (*models.Category, error)
}

type ProductStore interface {
	ListByCategorySlug(ctx context.Context, slug string) ([]models.Product, error)
	GetByWebID(ctx context.Context, webID string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
}

type BrandStore interface {
	Create(ctx context.Context, b *models.Brand) error
	GetByName(ctx context.Context, name string) (*models.Brand, error)
}

type AttributeStore interface {
	CreateAttribute(ctx context.Context, a *models.ProductAttribute) error
	GetAttributeByName(ctx context.Context, name string) (*models.ProductAttribute, error)
	CreateValue(ctx context.Context, v *models.ProductAttributeValue) error
	FindValue(ctx context.Context, attribute, value string) (*models.ProductAttributeValue, error)
	CreateType(ctx context.Context, t *models.ProductType, attributeIDs []int64) error
	GetTypeByName(ctx context.Context, name string) (*models.ProductType, error)
	TypeAttributes(ctx context.Context, typeID int64) ([]models.ProductAttribute, error)
}

type InventoryStore interface {
	ListByWebID(ctx context.Context, webID string) ([]models.InventoryRow, error)
	ListAfter(ctx context.Context, afterID int64, limit int) ([]models.InventoryRow, error)
	GetBySKU(ctx context.Context, sku string) (*models.InventoryRow, error)
	MediaFor(ctx context.Context, inventoryIDs []int64) ([]models.Media, error)
	AttributesFor(ctx context.Context, inventoryIDs []int64) ([]models.InventoryAttribute, error)
	Create(ctx context.Context, inv *models.ProductInventory, attributeValueIDs []int64) error
	AddMedia(ctx context.Context, m *models.Media) error
	UpsertStock(ctx context.Context, s *models.Stock) error
	StockBySKU(ctx context.Context, sku string) (*models.Stock, error)
}

type PromotionStore interface {
	Create(ctx context.Context, p *models.Promotion, items []models.PromotionItem) error
	ActivePrices(ctx context.Context, inventoryIDs []int64, at time.Time) (map[int64]decimal.Decimal, error)
}

type EntityDeleter interface {
	Delete(ctx context.Context, entity models.Entity, id int64) (*repository.DeleteResult, error)
}

type AdminUserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	Create(ctx context.Context, user *models.AdminUser) error
	TouchLastLogin(ctx context.Context, id int64) error
}

// Searcher runs free-text searches; *search.Client implements it.
type Searcher interface {
	Search(ctx context.Context, query string, limit, offset int) (*search.Result, error)
}

// Indexer maintains the search index; *search.Client implements it.
type Indexer interface {
	EnsureIndex(ctx context.Context) (bool, error)
	BulkIndex(ctx context.Context, docs []search.Document) (search.BulkStats, error)
	DeleteIndexedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

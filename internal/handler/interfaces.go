package handler

import (
	"context"

	"github.com/GTDGit/catalog_api/internal/models"
	"github.com/GTDGit/catalog_api/internal/projection"
	"github.com/GTDGit/catalog_api/internal/service"
)

// CatalogReader serves the public catalog projections.
type CatalogReader interface {
	ListCategories(ctx context.Context) ([]projection.CategoryView, error)
	ProductsByCategory(ctx context.Context, slug string) ([]projection.ProductView, error)
	InventoryByWebID(ctx context.Context, webID, origin string) ([]projection.InventoryView, error)
}

// CatalogAdminReader serves the administrative catalog views.
type CatalogAdminReader interface {
	CategoryTree(ctx context.Context) ([]models.Category, error)
	Ancestors(ctx context.Context, slug string) ([]models.Category, error)
	Descendants(ctx context.Context, slug string) ([]models.Category, error)
	StockBySKU(ctx context.Context, sku string) (*models.Stock, error)
}

// ProductSearcher runs catalog searches.
type ProductSearcher interface {
	Search(ctx context.Context, query string, limit, offset int) (*service.Page, error)
}

// Authenticator logs admin users in.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

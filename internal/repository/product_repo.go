package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/catalog_api/internal/models"
)

const productColumns = `id, web_id, slug, name, description, category_id, is_active, created_at, updated_at`

// ProductRepository handles data access for products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ListByCategorySlug returns the products whose category has the given slug,
// ordered by name. An unknown slug yields an empty slice.
func (r *ProductRepository) ListByCategorySlug(ctx context.Context, slug string) ([]models.Product, error) {
	products := []models.Product{}
	const q = `
        SELECT p.id, p.web_id, p.slug, p.name, p.description, p.category_id, p.is_active, p.created_at, p.updated_at
        FROM products p
        JOIN categories c ON c.id = p.category_id
        WHERE c.slug = $1
        ORDER BY p.name, p.id`
	if err := r.db.SelectContext(ctx, &products, q, slug); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByWebID returns a single product by web_id.
func (r *ProductRepository) GetByWebID(ctx context.Context, webID string) (*models.Product, error) {
	var p models.Product
	q := `SELECT ` + productColumns + ` FROM products WHERE web_id = $1 LIMIT 1`
	if err := r.db.GetContext(ctx, &p, q, webID); err != nil {
		return nil, notFound(err, fmt.Sprintf("product %q", webID))
	}
	return &p, nil
}

// Create inserts a product. created_at and updated_at are assigned by the database.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	const q = `INSERT INTO products (web_id, slug, name, description, category_id, is_active)
              VALUES ($1, $2, $3, $4, $5, $6)
              RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, q,
		p.WebID,
		p.Slug,
		p.Name,
		p.Description,
		p.CategoryID,
		p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return writeError(err)
}

// BrandRepository handles data access for brands.
type BrandRepository struct {
	db *sqlx.DB
}

// NewBrandRepository creates a new BrandRepository.
func NewBrandRepository(db *sqlx.DB) *BrandRepository {
	return &BrandRepository{db: db}
}

// Create inserts a brand.
func (r *BrandRepository) Create(ctx context.Context, b *models.Brand) error {
	err := r.db.QueryRowxContext(ctx, `INSERT INTO brands (name) VALUES ($1) RETURNING id`, b.Name).Scan(&b.ID)
	return writeError(err)
}

// GetByName returns the brand with the given name.
func (r *BrandRepository) GetByName(ctx context.Context, name string) (*models.Brand, error) {
	var b models.Brand
	if err := r.db.GetContext(ctx, &b, `SELECT id, name FROM brands WHERE name = $1`, name); err != nil {
		return nil, notFound(err, fmt.Sprintf("brand %q", name))
	}
	return &b, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GTDGit/catalog_api/internal/models"
)

const inventoryRowSelect = `
        SELECT
            pi.id, pi.sku, pi.upc, pi.product_type_id, pi.product_id, pi.brand_id,
            pi.is_active, pi.is_default, pi.retail_price, pi.store_price, pi.is_digital,
            pi.weight, pi.created_at, pi.updated_at,
            p.name AS product_name,
            p.web_id AS product_web_id,
            b.name AS brand_name,
            pt.name AS product_type_name
        FROM product_inventory pi
        JOIN products p ON p.id = pi.product_id
        JOIN product_types pt ON pt.id = pi.product_type_id
        LEFT JOIN brands b ON b.id = pi.brand_id`

// InventoryRepository handles variants together with their attribute links,
// media and stock.
type InventoryRepository struct {
	db *sqlx.DB
}

// NewInventoryRepository creates a new InventoryRepository.
func NewInventoryRepository(db *sqlx.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// ListByWebID returns every variant of the product with the given web_id.
// An unknown web_id yields an empty slice.
func (r *InventoryRepository) ListByWebID(ctx context.Context, webID string) ([]models.InventoryRow, error) {
	rows := []models.InventoryRow{}
	q := inventoryRowSelect + `
        WHERE p.web_id = $1
        ORDER BY pi.id`
	if err := r.db.SelectContext(ctx, &rows, q, webID); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAfter pages through all variants by ascending id.
func (r *InventoryRepository) ListAfter(ctx context.Context, afterID int64, limit int) ([]models.InventoryRow, error) {
	rows := []models.InventoryRow{}
	q := inventoryRowSelect + `
        WHERE pi.id > $1
        ORDER BY pi.id
        LIMIT $2`
	if err := r.db.SelectContext(ctx, &rows, q, afterID, limit); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetBySKU returns a single variant by sku.
func (r *InventoryRepository) GetBySKU(ctx context.Context, sku string) (*models.InventoryRow, error) {
	var row models.InventoryRow
	q := inventoryRowSelect + `
        WHERE pi.sku = $1
        LIMIT 1`
	if err := r.db.GetContext(ctx, &row, q, sku); err != nil {
		return nil, notFound(err, fmt.Sprintf("inventory %q", sku))
	}
	return &row, nil
}

// MediaFor returns the media of the given variants, feature images first.
func (r *InventoryRepository) MediaFor(ctx context.Context, inventoryIDs []int64) ([]models.Media, error) {
	media := []models.Media{}
	if len(inventoryIDs) == 0 {
		return media, nil
	}
	const q = `
        SELECT id, product_inventory_id, img_url, alt_text, is_feature, created_at, updated_at
        FROM media
        WHERE product_inventory_id = ANY($1)
        ORDER BY product_inventory_id, is_feature DESC, id`
	if err := r.db.SelectContext(ctx, &media, q, pq.Array(inventoryIDs)); err != nil {
		return nil, err
	}
	return media, nil
}

// AttributesFor returns the attribute values linked to the given variants.
func (r *InventoryRepository) AttributesFor(ctx context.Context, inventoryIDs []int64) ([]models.InventoryAttribute, error) {
	attrs := []models.InventoryAttribute{}
	if len(inventoryIDs) == 0 {
		return attrs, nil
	}
	const q = `
        SELECT
            l.product_inventory_id,
            v.id AS attribute_value_id,
            v.attribute_value,
            a.id AS attribute_id,
            a.name AS attribute_name,
            a.description AS attribute_description
        FROM product_attribute_value_links l
        JOIN product_attribute_values v ON v.id = l.attribute_value_id
        JOIN product_attributes a ON a.id = v.product_attribute_id
        WHERE l.product_inventory_id = ANY($1)
        ORDER BY l.product_inventory_id, a.name, v.id`
	if err := r.db.SelectContext(ctx, &attrs, q, pq.Array(inventoryIDs)); err != nil {
		return nil, err
	}
	return attrs, nil
}

// Create inserts a variant and links its attribute values in one transaction.
func (r *InventoryRepository) Create(ctx context.Context, inv *models.ProductInventory, attributeValueIDs []int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const q = `INSERT INTO product_inventory
                (sku, upc, product_type_id, product_id, brand_id, is_active, is_default,
                 retail_price, store_price, is_digital, weight)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
              RETURNING id, created_at, updated_at`
		err := tx.QueryRowxContext(ctx, q,
			inv.SKU,
			inv.UPC,
			inv.ProductTypeID,
			inv.ProductID,
			inv.BrandID,
			inv.IsActive,
			inv.IsDefault,
			inv.RetailPrice,
			inv.StorePrice,
			inv.IsDigital,
			inv.Weight,
		).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
		if err != nil {
			return writeError(err)
		}

		const link = `INSERT INTO product_attribute_value_links (attribute_value_id, product_inventory_id) VALUES ($1, $2)`
		for _, valueID := range attributeValueIDs {
			if _, err := tx.ExecContext(ctx, link, valueID, inv.ID); err != nil {
				return writeError(err)
			}
		}
		return nil
	})
}

// AddMedia attaches an image to a variant.
func (r *InventoryRepository) AddMedia(ctx context.Context, m *models.Media) error {
	const q = `INSERT INTO media (product_inventory_id, img_url, alt_text, is_feature)
              VALUES ($1, $2, $3, $4)
              RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, q, m.ProductInventoryID, m.ImgURL, m.AltText, m.IsFeature).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	return writeError(err)
}

// UpsertStock creates or replaces the stock record of a variant.
func (r *InventoryRepository) UpsertStock(ctx context.Context, s *models.Stock) error {
	const q = `INSERT INTO stock (product_inventory_id, last_checked, units, units_sold)
              VALUES ($1, $2, $3, $4)
              ON CONFLICT (product_inventory_id) DO UPDATE SET
                  last_checked = EXCLUDED.last_checked,
                  units = EXCLUDED.units,
                  units_sold = EXCLUDED.units_sold
              RETURNING id`
	err := r.db.QueryRowxContext(ctx, q, s.ProductInventoryID, s.LastChecked, s.Units, s.UnitsSold).Scan(&s.ID)
	return writeError(err)
}

// StockBySKU returns the stock record of the variant with the given sku.
func (r *InventoryRepository) StockBySKU(ctx context.Context, sku string) (*models.Stock, error) {
	var s models.Stock
	const q = `
        SELECT s.id, s.product_inventory_id, s.last_checked, s.units, s.units_sold
        FROM stock s
        JOIN product_inventory pi ON pi.id = s.product_inventory_id
        WHERE pi.sku = $1`
	if err := r.db.GetContext(ctx, &s, q, sku); err != nil {
		return nil, notFound(err, fmt.Sprintf("stock for %q", sku))
	}
	return &s, nil
}

package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/catalog_api/internal/models"
)

// PromotionRepository handles promotions and their priced variants.
type PromotionRepository struct {
	db *sqlx.DB
}

// NewPromotionRepository creates a new PromotionRepository.
func NewPromotionRepository(db *sqlx.DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

// Create inserts a promotion with its items.
func (r *PromotionRepository) Create(ctx context.Context, p *models.Promotion, items []models.PromotionItem) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const q = `INSERT INTO promotions (name, is_active, promo_reduction, starts_at, ends_at)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING id, created_at`
		if err := tx.QueryRowxContext(ctx, q, p.Name, p.IsActive, p.PromoReduction, p.StartsAt, p.EndsAt).
			Scan(&p.ID, &p.CreatedAt); err != nil {
			return writeError(err)
		}
		const item = `INSERT INTO promotion_items (promotion_id, product_inventory_id, promo_price)
              VALUES ($1, $2, $3)
              RETURNING id`
		for i := range items {
			items[i].PromotionID = p.ID
			if err := tx.QueryRowxContext(ctx, item, p.ID, items[i].ProductInventoryID, items[i].PromoPrice).
				Scan(&items[i].ID); err != nil {
				return writeError(err)
			}
		}
		return nil
	})
}

type activePriceRow struct {
	ProductInventoryID int64           `db:"product_inventory_id"`
	PromoPrice         decimal.Decimal `db:"promo_price"`
}

// ActivePrices returns, per variant id, the lowest promo price among the
// promotions active at the given time. Variants without one are absent.
func (r *PromotionRepository) ActivePrices(ctx context.Context, inventoryIDs []int64, at time.Time) (map[int64]decimal.Decimal, error) {
	prices := make(map[int64]decimal.Decimal)
	if len(inventoryIDs) == 0 {
		return prices, nil
	}
	const q = `
        SELECT pi.product_inventory_id, MIN(pi.promo_price) AS promo_price
        FROM promotion_items pi
        JOIN promotions p ON p.id = pi.promotion_id
        WHERE pi.product_inventory_id = ANY($1)
          AND p.is_active
          AND (p.starts_at IS NULL OR p.starts_at <= $2)
          AND (p.ends_at IS NULL OR p.ends_at >= $2)
        GROUP BY pi.product_inventory_id`
	var rows []activePriceRow
	if err := r.db.SelectContext(ctx, &rows, q, pq.Array(inventoryIDs), at); err != nil {
		return nil, err
	}
	for _, row := range rows {
		prices[row.ProductInventoryID] = row.PromoPrice
	}
	return prices, nil
}

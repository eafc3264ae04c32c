package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/catalog_api/internal/utils"
)

var inventoryRowCols = []string{
	"id", "sku", "upc", "product_type_id", "product_id", "brand_id",
	"is_active", "is_default", "retail_price", "store_price", "is_digital",
	"weight", "created_at", "updated_at",
	"product_name", "product_web_id", "brand_name", "product_type_name",
}

func TestInventoryRepository_ListByWebID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInventoryRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.web_id = $1")).
		WithArgs("R100").
		WillReturnRows(sqlmock.NewRows(inventoryRowCols).
			AddRow(1, "SKU1", "UPC1", 1, 1, 3, true, true, "97.00", "92.00", false, 987.0, now, now, "Runner", "R100", "Acme", "shoe").
			AddRow(2, "SKU2", "UPC2", 1, 1, nil, true, false, "97.00", "90.50", false, 950.0, now, now, "Runner", "R100", nil, "shoe"))

	rows, err := repo.ListByWebID(context.Background(), "R100")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "SKU1", rows[0].SKU)
	assert.True(t, rows[0].StorePrice.Equal(decimal.RequireFromString("92")))
	require.NotNil(t, rows[0].BrandName)
	assert.Equal(t, "Acme", *rows[0].BrandName)
	assert.Nil(t, rows[1].BrandID)
	assert.Nil(t, rows[1].BrandName)
	assert.Equal(t, "R100", rows[1].ProductWebID)
}

func TestInventoryRepository_MediaForNoIDs(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewInventoryRepository(db)

	media, err := repo.MediaFor(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, media)
}

func TestInventoryRepository_StockBySKUNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInventoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE pi.sku = $1")).
		WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_inventory_id", "last_checked", "units", "units_sold"}))

	_, err := repo.StockBySKU(context.Background(), "NOPE")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestPromotionRepository_ActivePrices(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPromotionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY pi.product_inventory_id")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"product_inventory_id", "promo_price"}).AddRow(1, "46.00"))

	prices, err := repo.ActivePrices(context.Background(), []int64{1, 2}, time.Now())
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, "46", prices[1].String())
	_, ok := prices[2]
	assert.False(t, ok)
}

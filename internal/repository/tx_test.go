package repository

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/GTDGit/catalog_api/internal/utils"
)

func TestWriteError(t *testing.T) {
	unique := &pq.Error{Code: "23505", Constraint: "product_inventory_sku_key"}
	err := writeError(unique)
	assert.ErrorIs(t, err, utils.ErrConstraintViolation)
	assert.Contains(t, err.Error(), "product_inventory_sku_key")

	check := &pq.Error{Code: "23514", Constraint: "product_inventory_store_price_check"}
	assert.ErrorIs(t, writeError(check), utils.ErrConstraintViolation)

	fk := &pq.Error{Code: "23503", Constraint: "products_category_id_fkey"}
	assert.ErrorIs(t, writeError(fk), utils.ErrNotFound)

	assert.ErrorIs(t, writeError(sql.ErrNoRows), utils.ErrNotFound)
	assert.NoError(t, writeError(nil))

	other := errors.New("connection reset")
	assert.Equal(t, other, writeError(other))
}

func TestDeleteError(t *testing.T) {
	fk := &pq.Error{Code: "23503", Constraint: "product_inventory_product_type_id_fkey"}
	assert.ErrorIs(t, deleteError(fk), utils.ErrProtected)

	unique := &pq.Error{Code: "23505", Constraint: "x"}
	assert.ErrorIs(t, deleteError(unique), utils.ErrConstraintViolation)
}

package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/catalog_api/internal/models"
	"github.com/GTDGit/catalog_api/internal/utils"
)

// IntegrityRepository deletes catalog rows while applying the delete policy
// of every relationship that points at them (see models.Relations).
type IntegrityRepository struct {
	db *sqlx.DB
}

// NewIntegrityRepository creates a new IntegrityRepository.
func NewIntegrityRepository(db *sqlx.DB) *IntegrityRepository {
	return &IntegrityRepository{db: db}
}

// timestampedTables have an updated_at column that set-null rewrites bump.
var timestampedTables = map[string]bool{
	"products":          true,
	"product_inventory": true,
}

// DeleteResult reports what a delete did to dependents.
type DeleteResult struct {
	Entity   models.Entity
	ID       int64
	Nulled   map[string]int64 // "table.column" -> rows set to NULL
	Cascaded map[string]int64 // table -> rows deleted
}

// Delete removes entity id. Protect relations with dependents abort the
// delete with utils.ErrProtected before anything is modified; set-null
// relations null their column; cascade relations delete their rows.
// Deleting a category renumbers the tree in the same transaction.
func (r *IntegrityRepository) Delete(ctx context.Context, entity models.Entity, id int64) (*DeleteResult, error) {
	table := entity.Table()
	if table == "" {
		return nil, fmt.Errorf("%w: unknown entity %q", utils.ErrValidation, entity)
	}

	res := &DeleteResult{
		Entity:   entity,
		ID:       id,
		Nulled:   map[string]int64{},
		Cascaded: map[string]int64{},
	}
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if entity == models.EntityCategory {
			if err := lockCategories(ctx, tx); err != nil {
				return err
			}
		}

		for _, rel := range models.RelationsOf(entity) {
			switch rel.Policy {
			case models.Protect:
				var n int64
				q := fmt.Sprintf(`SELECT COUNT(1) FROM %s WHERE %s = $1`, rel.ChildTable, rel.Column)
				if err := tx.GetContext(ctx, &n, q, id); err != nil {
					return err
				}
				if n > 0 {
					return fmt.Errorf("%w: %d row(s) in %s.%s reference %s %d",
						utils.ErrProtected, n, rel.ChildTable, rel.Column, entity, id)
				}
			case models.SetNull:
				set := rel.Column + " = NULL"
				if timestampedTables[rel.ChildTable] {
					set += ", updated_at = NOW()"
				}
				q := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $1`, rel.ChildTable, set, rel.Column)
				n, err := execCount(ctx, tx, q, id)
				if err != nil {
					return err
				}
				res.Nulled[rel.ChildTable+"."+rel.Column] = n
			case models.Cascade:
				q := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, rel.ChildTable, rel.Column)
				n, err := execCount(ctx, tx, q, id)
				if err != nil {
					return deleteError(err)
				}
				res.Cascaded[rel.ChildTable] = n
			}
		}

		n, err := execCount(ctx, tx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
		if err != nil {
			return deleteError(err)
		}
		if n == 0 {
			return fmt.Errorf("%s %d: %w", entity, id, utils.ErrNotFound)
		}

		if entity == models.EntityCategory {
			return rebuildTree(ctx, tx)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("entity", string(entity)).
		Int64("id", id).
		Interface("nulled", res.Nulled).
		Interface("cascaded", res.Cascaded).
		Msg("catalog row deleted")
	return res, nil
}

func execCount(ctx context.Context, tx *sqlx.Tx, q string, args ...interface{}) (int64, error) {
	result, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/catalog_api/internal/models"
	"github.com/GTDGit/catalog_api/internal/tree"
	"github.com/GTDGit/catalog_api/internal/utils"
)

const categoryColumns = `id, name, slug, is_active, parent_id, tree_id, lft, rgt, depth`

// CategoryRepository handles data access for the category tree.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns every category ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	q := `SELECT ` + categoryColumns + ` FROM categories ORDER BY name, id`
	if err := r.db.SelectContext(ctx, &categories, q); err != nil {
		return nil, err
	}
	return categories, nil
}

// Tree returns every category in tree order: roots by name, each followed by
// its descendants depth-first.
func (r *CategoryRepository) Tree(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	q := `SELECT ` + categoryColumns + ` FROM categories ORDER BY tree_id, lft`
	if err := r.db.SelectContext(ctx, &categories, q); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetBySlug returns the category with the given slug.
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	q := `SELECT ` + categoryColumns + ` FROM categories WHERE slug = $1 LIMIT 1`
	if err := r.db.GetContext(ctx, &c, q, slug); err != nil {
		return nil, notFound(err, fmt.Sprintf("category %q", slug))
	}
	return &c, nil
}

// Ancestors returns the path from the root down to c's parent.
func (r *CategoryRepository) Ancestors(ctx context.Context, c *models.Category) ([]models.Category, error) {
	categories := []models.Category{}
	q := `SELECT ` + categoryColumns + ` FROM categories
        WHERE tree_id = $1 AND lft < $2 AND rgt > $3
        ORDER BY lft`
	if err := r.db.SelectContext(ctx, &categories, q, c.TreeID, c.Lft, c.Rgt); err != nil {
		return nil, err
	}
	return categories, nil
}

// Descendants returns every category below c in tree order.
func (r *CategoryRepository) Descendants(ctx context.Context, c *models.Category) ([]models.Category, error) {
	categories := []models.Category{}
	q := `SELECT ` + categoryColumns + ` FROM categories
        WHERE tree_id = $1 AND lft > $2 AND rgt < $3
        ORDER BY lft`
	if err := r.db.SelectContext(ctx, &categories, q, c.TreeID, c.Lft, c.Rgt); err != nil {
		return nil, err
	}
	return categories, nil
}

// Create inserts c and renumbers the tree. On return c carries its id and
// nested-set position.
func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := lockCategories(ctx, tx); err != nil {
			return err
		}
		const q = `INSERT INTO categories (name, slug, is_active, parent_id)
              VALUES ($1, $2, $3, $4)
              RETURNING id`
		if err := tx.QueryRowxContext(ctx, q, c.Name, c.Slug, c.IsActive, c.ParentID).Scan(&c.ID); err != nil {
			return writeError(err)
		}
		if err := rebuildTree(ctx, tx); err != nil {
			return err
		}
		return loadPosition(ctx, tx, c)
	})
}

// Move reparents the category id under parentID, or makes it a root when
// parentID is nil. Moving a category under itself or a descendant fails with
// utils.ErrCycle.
func (r *CategoryRepository) Move(ctx context.Context, id int64, parentID *int64) (*models.Category, error) {
	var moved models.Category
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := lockCategories(ctx, tx); err != nil {
			return err
		}
		nodes, _, err := loadNodes(ctx, tx)
		if err != nil {
			return err
		}
		if _, err := tree.Reparent(nodes, id, parentID); err != nil {
			return treeError(err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE categories SET parent_id = $2 WHERE id = $1`, id, parentID); err != nil {
			return writeError(err)
		}
		if err := rebuildTree(ctx, tx); err != nil {
			return err
		}
		moved.ID = id
		return loadPosition(ctx, tx, &moved)
	})
	if err != nil {
		return nil, err
	}
	return &moved, nil
}

// Rebuild recomputes every nested-set position from the parent pointers.
func (r *CategoryRepository) Rebuild(ctx context.Context) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := lockCategories(ctx, tx); err != nil {
			return err
		}
		return rebuildTree(ctx, tx)
	})
}

type categoryNodeRow struct {
	ID       int64  `db:"id"`
	ParentID *int64 `db:"parent_id"`
	Name     string `db:"name"`
	TreeID   int    `db:"tree_id"`
	Lft      int    `db:"lft"`
	Rgt      int    `db:"rgt"`
	Depth    int    `db:"depth"`
}

func lockCategories(ctx context.Context, tx *sqlx.Tx) error {
	_, err := tx.ExecContext(ctx, `LOCK TABLE categories IN SHARE ROW EXCLUSIVE MODE`)
	return err
}

func loadNodes(ctx context.Context, tx *sqlx.Tx) ([]tree.Node, map[int64]tree.Position, error) {
	var rows []categoryNodeRow
	q := `SELECT id, parent_id, name, tree_id, lft, rgt, depth FROM categories`
	if err := tx.SelectContext(ctx, &rows, q); err != nil {
		return nil, nil, err
	}
	nodes := make([]tree.Node, 0, len(rows))
	current := make(map[int64]tree.Position, len(rows))
	for _, row := range rows {
		nodes = append(nodes, tree.Node{ID: row.ID, ParentID: row.ParentID, Name: row.Name})
		current[row.ID] = tree.Position{TreeID: row.TreeID, Left: row.Lft, Right: row.Rgt, Depth: row.Depth}
	}
	return nodes, current, nil
}

// rebuildTree renumbers the whole category table and writes only the rows
// whose position changed. The caller holds the categories lock.
func rebuildTree(ctx context.Context, tx *sqlx.Tx) error {
	nodes, current, err := loadNodes(ctx, tx)
	if err != nil {
		return err
	}
	next, err := tree.Build(nodes)
	if err != nil {
		return treeError(err)
	}
	const q = `UPDATE categories SET tree_id = $2, lft = $3, rgt = $4, depth = $5 WHERE id = $1`
	for _, id := range tree.Changed(current, next) {
		p := next[id]
		if _, err := tx.ExecContext(ctx, q, id, p.TreeID, p.Left, p.Right, p.Depth); err != nil {
			return err
		}
	}
	return nil
}

func loadPosition(ctx context.Context, tx *sqlx.Tx, c *models.Category) error {
	q := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	if err := tx.GetContext(ctx, c, q, c.ID); err != nil {
		return notFound(err, fmt.Sprintf("category %d", c.ID))
	}
	return nil
}

func treeError(err error) error {
	switch {
	case errors.Is(err, tree.ErrCycle):
		return fmt.Errorf("%w: %v", utils.ErrCycle, err)
	case errors.Is(err, tree.ErrUnknownNode), errors.Is(err, tree.ErrUnknownParent):
		return fmt.Errorf("%w: %v", utils.ErrNotFound, err)
	default:
		return err
	}
}

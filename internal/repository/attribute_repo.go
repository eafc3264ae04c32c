package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/catalog_api/internal/models"
)

// AttributeRepository handles product attributes, their values and product
// types with their allowed attributes.
type AttributeRepository struct {
	db *sqlx.DB
}

// NewAttributeRepository creates a new AttributeRepository.
func NewAttributeRepository(db *sqlx.DB) *AttributeRepository {
	return &AttributeRepository{db: db}
}

// CreateAttribute inserts a product attribute.
func (r *AttributeRepository) CreateAttribute(ctx context.Context, a *models.ProductAttribute) error {
	const q = `INSERT INTO product_attributes (name, description) VALUES ($1, $2) RETURNING id`
	return writeError(r.db.QueryRowxContext(ctx, q, a.Name, a.Description).Scan(&a.ID))
}

// GetAttributeByName returns the attribute with the given name.
func (r *AttributeRepository) GetAttributeByName(ctx context.Context, name string) (*models.ProductAttribute, error) {
	var a models.ProductAttribute
	const q = `SELECT id, name, description FROM product_attributes WHERE name = $1`
	if err := r.db.GetContext(ctx, &a, q, name); err != nil {
		return nil, notFound(err, fmt.Sprintf("attribute %q", name))
	}
	return &a, nil
}

// CreateValue inserts a value of an existing attribute.
func (r *AttributeRepository) CreateValue(ctx context.Context, v *models.ProductAttributeValue) error {
	const q = `INSERT INTO product_attribute_values (product_attribute_id, attribute_value) VALUES ($1, $2) RETURNING id`
	return writeError(r.db.QueryRowxContext(ctx, q, v.ProductAttributeID, v.AttributeValue).Scan(&v.ID))
}

// FindValue returns the value row for (attribute name, value).
func (r *AttributeRepository) FindValue(ctx context.Context, attribute, value string) (*models.ProductAttributeValue, error) {
	var v models.ProductAttributeValue
	const q = `
        SELECT v.id, v.product_attribute_id, v.attribute_value
        FROM product_attribute_values v
        JOIN product_attributes a ON a.id = v.product_attribute_id
        WHERE a.name = $1 AND v.attribute_value = $2
        ORDER BY v.id
        LIMIT 1`
	if err := r.db.GetContext(ctx, &v, q, attribute, value); err != nil {
		return nil, notFound(err, fmt.Sprintf("attribute value %s=%s", attribute, value))
	}
	return &v, nil
}

// CreateType inserts a product type and links its allowed attributes.
func (r *AttributeRepository) CreateType(ctx context.Context, t *models.ProductType, attributeIDs []int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(ctx, `INSERT INTO product_types (name) VALUES ($1) RETURNING id`, t.Name).Scan(&t.ID); err != nil {
			return writeError(err)
		}
		const link = `INSERT INTO product_type_attributes (product_attribute_id, product_type_id) VALUES ($1, $2)`
		for _, attrID := range attributeIDs {
			if _, err := tx.ExecContext(ctx, link, attrID, t.ID); err != nil {
				return writeError(err)
			}
		}
		return nil
	})
}

// GetTypeByName returns the product type with the given name.
func (r *AttributeRepository) GetTypeByName(ctx context.Context, name string) (*models.ProductType, error) {
	var t models.ProductType
	if err := r.db.GetContext(ctx, &t, `SELECT id, name FROM product_types WHERE name = $1`, name); err != nil {
		return nil, notFound(err, fmt.Sprintf("product type %q", name))
	}
	return &t, nil
}

// TypeAttributes returns the attributes allowed for a product type, by name.
func (r *AttributeRepository) TypeAttributes(ctx context.Context, typeID int64) ([]models.ProductAttribute, error) {
	attrs := []models.ProductAttribute{}
	const q = `
        SELECT a.id, a.name, a.description
        FROM product_attributes a
        JOIN product_type_attributes ta ON ta.product_attribute_id = a.id
        WHERE ta.product_type_id = $1
        ORDER BY a.name`
	if err := r.db.SelectContext(ctx, &attrs, q, typeID); err != nil {
		return nil, err
	}
	return attrs, nil
}

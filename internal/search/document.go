package search

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/catalog_api/internal/models"
	"github.com/GTDGit/catalog_api/internal/projection"
)

// Document is the indexed form of a product inventory row.
type Document struct {
	ID         int64           `json:"id"`
	SKU        string          `json:"sku"`
	StorePrice decimal.Decimal `json:"store_price"`
	IsDefault  bool            `json:"is_default"`
	Product    DocumentProduct `json:"product"`
	Brand      *DocumentBrand  `json:"brand"`
	IndexedAt  time.Time       `json:"indexed_at"`
}

// DocumentProduct is the product part of a Document.
type DocumentProduct struct {
	Name  string `json:"name"`
	WebID string `json:"web_id"`
}

// DocumentBrand is the brand part of a Document.
type DocumentBrand struct {
	Name string `json:"name"`
}

// NewDocument builds the document of an inventory row.
func NewDocument(row models.InventoryRow, indexedAt time.Time) Document {
	doc := Document{
		ID:         row.ID,
		SKU:        row.SKU,
		StorePrice: row.StorePrice,
		IsDefault:  row.IsDefault,
		Product:    DocumentProduct{Name: row.ProductName, WebID: row.ProductWebID},
		IndexedAt:  indexedAt.UTC(),
	}
	if row.BrandName != nil {
		doc.Brand = &DocumentBrand{Name: *row.BrandName}
	}
	return doc
}

// DocumentID is the index _id of the document.
func (d Document) DocumentID() string {
	return strconv.FormatInt(d.ID, 10)
}

// View projects the document into the search result shape.
func (d Document) View() projection.InventorySearchView {
	var brandName *string
	if d.Brand != nil {
		name := d.Brand.Name
		brandName = &name
	}
	return projection.InventorySearch(
		d.ID,
		d.SKU,
		d.StorePrice,
		d.IsDefault,
		projection.ProductView{Name: d.Product.Name, WebID: d.Product.WebID},
		brandName,
	)
}

// indexMapping is the body used to create the index.
var indexMapping = map[string]interface{}{
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"id":          map[string]interface{}{"type": "long"},
			"sku":         map[string]interface{}{"type": "keyword"},
			"store_price": map[string]interface{}{"type": "scaled_float", "scaling_factor": 100},
			"is_default":  map[string]interface{}{"type": "boolean"},
			"indexed_at":  map[string]interface{}{"type": "date"},
			"product": map[string]interface{}{
				"properties": map[string]interface{}{
					"name":   map[string]interface{}{"type": "text"},
					"web_id": map[string]interface{}{"type": "text"},
				},
			},
			"brand": map[string]interface{}{
				"properties": map[string]interface{}{
					"name": map[string]interface{}{"type": "text"},
				},
			},
		},
	},
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MinPrice is the lowest accepted retail, store or promotion price.
var MinPrice = decimal.RequireFromString("0.01")

// ProductInventory is a purchasable variant of a Product.
type ProductInventory struct {
	ID            int64           `db:"id" json:"id"`
	SKU           string          `db:"sku" json:"sku"`
	UPC           string          `db:"upc" json:"upc"`
	ProductTypeID int64           `db:"product_type_id" json:"productTypeId"`
	ProductID     int64           `db:"product_id" json:"productId"`
	BrandID       *int64          `db:"brand_id" json:"brandId"`
	IsActive      bool            `db:"is_active" json:"isActive"`
	IsDefault     bool            `db:"is_default" json:"isDefault"`
	RetailPrice   decimal.Decimal `db:"retail_price" json:"retailPrice"`
	StorePrice    decimal.Decimal `db:"store_price" json:"storePrice"`
	IsDigital     bool            `db:"is_digital" json:"isDigital"`
	Weight        float64         `db:"weight" json:"weight"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

// InventoryRow is a variant joined with the product, brand and type fields the
// read projections need.
type InventoryRow struct {
	ProductInventory
	ProductName     string  `db:"product_name"`
	ProductWebID    string  `db:"product_web_id"`
	BrandName       *string `db:"brand_name"`
	ProductTypeName string  `db:"product_type_name"`
}

// Media is an image attached to a variant. ImgURL is a storage-relative path.
type Media struct {
	ID                 int64     `db:"id" json:"id"`
	ProductInventoryID int64     `db:"product_inventory_id" json:"productInventoryId"`
	ImgURL             string    `db:"img_url" json:"imgUrl"`
	AltText            string    `db:"alt_text" json:"altText"`
	IsFeature          bool      `db:"is_feature" json:"isFeature"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `db:"updated_at" json:"updatedAt"`
}

// Stock tracks the units of one variant.
type Stock struct {
	ID                 int64      `db:"id" json:"id"`
	ProductInventoryID int64      `db:"product_inventory_id" json:"productInventoryId"`
	LastChecked        *time.Time `db:"last_checked" json:"lastChecked"`
	Units              int        `db:"units" json:"units"`
	UnitsSold          int        `db:"units_sold" json:"unitsSold"`
}

package service

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/catalog_api/internal/utils"
)

// Fixture is a catalog data set loaded by ManagementService.Load. Entities
// reference each other by natural key: category slug, brand name, attribute
// name, product type name and sku.
type Fixture struct {
	Categories   []CategoryFixture    `json:"categories"`
	Brands       []string             `json:"brands"`
	Attributes   []AttributeFixture   `json:"attributes"`
	ProductTypes []ProductTypeFixture `json:"productTypes"`
	Products     []ProductFixture     `json:"products"`
	Promotions   []PromotionFixture   `json:"promotions"`
}

type CategoryFixture struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	IsActive bool   `json:"isActive"`
	Parent   string `json:"parent"` // parent slug, empty for a root
}

type AttributeFixture struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Values      []string `json:"values"`
}

type ProductTypeFixture struct {
	Name       string   `json:"name"`
	Attributes []string `json:"attributes"`
}

type ProductFixture struct {
	WebID       string             `json:"webId"`
	Slug        string             `json:"slug"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Category    string             `json:"category"` // category slug, optional
	IsActive    bool               `json:"isActive"`
	Inventory   []InventoryFixture `json:"inventory"`
}

type InventoryFixture struct {
	SKU         string            `json:"sku"`
	UPC         string            `json:"upc"`
	ProductType string            `json:"productType"`
	Brand       string            `json:"brand"` // optional
	IsActive    bool              `json:"isActive"`
	IsDefault   bool              `json:"isDefault"`
	RetailPrice decimal.Decimal   `json:"retailPrice"`
	StorePrice  decimal.Decimal   `json:"storePrice"`
	IsDigital   bool              `json:"isDigital"`
	Weight      float64           `json:"weight"`
	Attributes  map[string]string `json:"attributes"` // attribute name -> value
	Media       []MediaFixture    `json:"media"`
	Stock       *StockFixture     `json:"stock"`
}

type MediaFixture struct {
	ImgURL    string `json:"imgUrl"`
	AltText   string `json:"altText"`
	IsFeature bool   `json:"isFeature"`
}

type StockFixture struct {
	Units       int        `json:"units"`
	UnitsSold   int        `json:"unitsSold"`
	LastChecked *time.Time `json:"lastChecked"`
}

type PromotionFixture struct {
	Name           string                 `json:"name"`
	IsActive       bool                   `json:"isActive"`
	PromoReduction int                    `json:"promoReduction"`
	StartsAt       *time.Time             `json:"startsAt"`
	EndsAt         *time.Time             `json:"endsAt"`
	Items          []PromotionItemFixture `json:"items"`
}

type PromotionItemFixture struct {
	SKU        string          `json:"sku"`
	PromoPrice decimal.Decimal `json:"promoPrice"`
}

// DecodeFixture reads a JSON fixture, rejecting unknown fields.
func DecodeFixture(r io.Reader) (*Fixture, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var f Fixture
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: decode fixture: %v", utils.ErrValidation, err)
	}
	return &f, nil
}

// LoadStats counts the rows created by a fixture load.
type LoadStats struct {
	Categories     int
	Brands         int
	Attributes     int
	Values         int
	ProductTypes   int
	Products       int
	Inventory      int
	Media          int
	Stock          int
	Promotions     int
	PromotionItems int
}

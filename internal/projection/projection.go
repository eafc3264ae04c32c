// Package projection shapes stored catalog rows into the response records of
// the public API. Every function is pure: derived fields such as absolute
// media URLs and promotion prices come from an explicit Context.
package projection

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/catalog_api/internal/models"
)

// Context carries the request-scoped inputs of the inventory projection.
type Context struct {
	// Origin is the scheme and host of the current request, e.g. "https://shop.example".
	Origin string
	// MediaPrefix is the public path media files are served under.
	MediaPrefix string
	// PromotionPrices maps inventory ids to their active promotion price.
	PromotionPrices map[int64]decimal.Decimal
}

// CategoryView is the public category record.
type CategoryView struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	IsActive bool   `json:"is_active"`
}

// ProductView is the public product record.
type ProductView struct {
	Name  string `json:"name"`
	WebID string `json:"web_id"`
}

// BrandView is the public brand record.
type BrandView struct {
	Name string `json:"name"`
}

// MediaView is an image with its absolute URL.
type MediaView struct {
	ImageURL string `json:"image_url"`
	AltText  string `json:"alt_text"`
}

// AttributeView is the attribute an attribute value belongs to.
type AttributeView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AttributeValueView is one attribute value of a variant.
type AttributeValueView struct {
	ProductAttribute AttributeView `json:"product_attribute"`
	AttributeValue   string        `json:"attribute_value"`
}

// InventoryView is the full variant record served by the inventory endpoint.
type InventoryView struct {
	ID             int64                `json:"id"`
	SKU            string               `json:"sku"`
	StorePrice     string               `json:"store_price"`
	IsDefault      bool                 `json:"is_default"`
	Brand          *BrandView           `json:"brand"`
	Product        ProductView          `json:"product"`
	Weight         float64              `json:"weight"`
	Media          []MediaView          `json:"media"`
	Attributes     []AttributeValueView `json:"attributes"`
	ProductType    int64                `json:"product_type"`
	PromotionPrice *string              `json:"promotion_price"`
}

// InventorySearchView is the reduced variant record served by search.
type InventorySearchView struct {
	ID         int64       `json:"id"`
	SKU        string      `json:"sku"`
	StorePrice string      `json:"store_price"`
	IsDefault  bool        `json:"is_default"`
	Product    ProductView `json:"product"`
	Brand      *BrandView  `json:"brand"`
}

// Category projects a category row.
func Category(c models.Category) CategoryView {
	return CategoryView{Name: c.Name, Slug: c.Slug, IsActive: c.IsActive}
}

// Categories projects a list of category rows, keeping their order.
func Categories(rows []models.Category) []CategoryView {
	out := make([]CategoryView, 0, len(rows))
	for _, c := range rows {
		out = append(out, Category(c))
	}
	return out
}

// ProductSummary projects a product row.
func ProductSummary(p models.Product) ProductView {
	return ProductView{Name: p.Name, WebID: p.WebID}
}

// ProductSummaries projects a list of product rows, keeping their order.
func ProductSummaries(rows []models.Product) []ProductView {
	out := make([]ProductView, 0, len(rows))
	for _, p := range rows {
		out = append(out, ProductSummary(p))
	}
	return out
}

// Price renders a stored price the way the API exposes money: a decimal
// string with two places.
func Price(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Inventory projects one variant. media and attrs may contain entries of
// other variants; only those linked to row are used.
func Inventory(row models.InventoryRow, media []models.Media, attrs []models.InventoryAttribute, ctx Context) InventoryView {
	v := InventoryView{
		ID:          row.ID,
		SKU:         row.SKU,
		StorePrice:  Price(row.StorePrice),
		IsDefault:   row.IsDefault,
		Brand:       brand(row.BrandName),
		Product:     ProductView{Name: row.ProductName, WebID: row.ProductWebID},
		Weight:      row.Weight,
		Media:       []MediaView{},
		Attributes:  []AttributeValueView{},
		ProductType: row.ProductTypeID,
	}
	for _, m := range media {
		if m.ProductInventoryID != row.ID {
			continue
		}
		v.Media = append(v.Media, MediaView{
			ImageURL: MediaURL(ctx.Origin, ctx.MediaPrefix, m.ImgURL),
			AltText:  m.AltText,
		})
	}
	for _, a := range attrs {
		if a.ProductInventoryID != row.ID {
			continue
		}
		v.Attributes = append(v.Attributes, AttributeValueView{
			ProductAttribute: AttributeView{ID: a.AttributeID, Name: a.AttributeName, Description: a.AttributeDescription},
			AttributeValue:   a.AttributeValue,
		})
	}
	if price, ok := ctx.PromotionPrices[row.ID]; ok {
		s := Price(price)
		v.PromotionPrice = &s
	}
	return v
}

// Inventories projects every row, keeping their order.
func Inventories(rows []models.InventoryRow, media []models.Media, attrs []models.InventoryAttribute, ctx Context) []InventoryView {
	out := make([]InventoryView, 0, len(rows))
	for _, row := range rows {
		out = append(out, Inventory(row, media, attrs, ctx))
	}
	return out
}

// InventorySearch projects a variant into the search result shape.
func InventorySearch(id int64, sku string, storePrice decimal.Decimal, isDefault bool, product ProductView, brandName *string) InventorySearchView {
	return InventorySearchView{
		ID:         id,
		SKU:        sku,
		StorePrice: Price(storePrice),
		IsDefault:  isDefault,
		Product:    product,
		Brand:      brand(brandName),
	}
}

func brand(name *string) *BrandView {
	if name == nil {
		return nil
	}
	return &BrandView{Name: *name}
}

// MediaURL turns a stored media path into an absolute URL under origin and
// prefix. Paths that already carry a scheme are returned unchanged.
func MediaURL(origin, prefix, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "//") {
		return path
	}
	if prefix == "" {
		prefix = "/"
	}
	if !strings.HasPrefix(prefix, "/") && !strings.Contains(prefix, "://") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	rel := strings.TrimLeft(path, "/")
	if strings.Contains(prefix, "://") {
		return prefix + rel
	}
	return strings.TrimRight(origin, "/") + prefix + rel
}

// Origin returns the scheme and host the request was addressed to. When
// trustForwarded is set, X-Forwarded-Proto and X-Forwarded-Host win over the
// connection state; enable it only behind a proxy that overwrites them.
func Origin(r *http.Request, trustForwarded bool) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if !trustForwarded {
		return scheme + "://" + r.Host
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return scheme + "://" + host
}

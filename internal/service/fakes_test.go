package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/catalog_api/internal/models"
	"github.com/GTDGit/catalog_api/internal/repository"
	"github.com/GTDGit/catalog_api/internal/search"
	"github.com/GTDGit/catalog_api/internal/utils"
)

// fakeCatalog is an in-memory catalog implementing every store interface.
type fakeCatalog struct {
	nextID int64

	categories []models.Category
	products   []models.Product
	brands     []models.Brand
	attrs      []models.ProductAttribute
	values     []models.ProductAttributeValue
	types      map[int64][]int64 // type id -> attribute ids
	typeRows   []models.ProductType
	inventory  []models.ProductInventory
	links      map[int64][]int64 // inventory id -> value ids
	media      []models.Media
	stock      []models.Stock
	promoItems []models.PromotionItem
	promotions []models.Promotion

	listCalls    int
	productCalls int
	deleted      []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{types: map[int64][]int64{}, links: map[int64][]int64{}}
}

func (f *fakeCatalog) id() int64 {
	f.nextID++
	return f.nextID
}

// CategoryStore

func (f *fakeCatalog) List(ctx context.Context) ([]models.Category, error) {
	f.listCalls++
	out := append([]models.Category(nil), f.categories...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCatalog) Tree(ctx context.Context) ([]models.Category, error) {
	return append([]models.Category(nil), f.categories...), nil
}

func (f *fakeCatalog) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	for i := range f.categories {
		if f.categories[i].Slug == slug {
			c := f.categories[i]
			return &c, nil
		}
	}
	return nil, fmt.Errorf("category %q: %w", slug, utils.ErrNotFound)
}

func (f *fakeCatalog) Ancestors(ctx context.Context, c *models.Category) ([]models.Category, error) {
	var out []models.Category
	for parent := c.ParentID; parent != nil; {
		var found *models.Category
		for i := range f.categories {
			if f.categories[i].ID == *parent {
				found = &f.categories[i]
			}
		}
		if found == nil {
			break
		}
		out = append([]models.Category{*found}, out...)
		parent = found.ParentID
	}
	return out, nil
}

func (f *fakeCatalog) Descendants(ctx context.Context, c *models.Category) ([]models.Category, error) {
	var out []models.Category
	for _, child := range f.categories {
		if child.ParentID != nil && *child.ParentID == c.ID {
			out = append(out, child)
		}
	}
	return out, nil
}

func (f *fakeCatalog) Create(ctx context.Context, c *models.Category) error {
	for _, existing := range f.categories {
		if existing.Slug == c.Slug {
			return fmt.Errorf("%w: categories_slug_key", utils.ErrConstraintViolation)
		}
	}
	c.ID = f.id()
	f.categories = append(f.categories, *c)
	return nil
}

func (f *fakeCatalog) Move(ctx context.Context, id int64, parentID *int64) (*models.Category, error) {
	for i := range f.categories {
		if f.categories[i].ID == id {
			f.categories[i].ParentID = parentID
			c := f.categories[i]
			return &c, nil
		}
	}
	return nil, utils.ErrNotFound
}

// products is a ProductStore view of the fake.
type fakeProducts struct{ *fakeCatalog }

func (f fakeProducts) ListByCategorySlug(ctx context.Context, slug string) ([]models.Product, error) {
	f.productCalls++
	out := []models.Product{}
	c, err := f.GetBySlug(ctx, slug)
	if err != nil {
		return out, nil
	}
	for _, p := range f.products {
		if p.CategoryID != nil && *p.CategoryID == c.ID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeProducts) GetByWebID(ctx context.Context, webID string) (*models.Product, error) {
	for i := range f.products {
		if f.products[i].WebID == webID {
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f fakeProducts) Create(ctx context.Context, p *models.Product) error {
	for _, existing := range f.products {
		if existing.WebID == p.WebID {
			return fmt.Errorf("%w: products_web_id_key", utils.ErrConstraintViolation)
		}
	}
	p.ID = f.id()
	f.products = append(f.products, *p)
	return nil
}

type fakeBrands struct{ *fakeCatalog }

func (f fakeBrands) Create(ctx context.Context, b *models.Brand) error {
	b.ID = f.id()
	f.brands = append(f.brands, *b)
	return nil
}

func (f fakeBrands) GetByName(ctx context.Context, name string) (*models.Brand, error) {
	for i := range f.brands {
		if f.brands[i].Name == name {
			b := f.brands[i]
			return &b, nil
		}
	}
	return nil, fmt.Errorf("brand %q: %w", name, utils.ErrNotFound)
}

// AttributeStore

func (f *fakeCatalog) CreateAttribute(ctx context.Context, a *models.ProductAttribute) error {
	a.ID = f.id()
	f.attrs = append(f.attrs, *a)
	return nil
}

func (f *fakeCatalog) GetAttributeByName(ctx context.Context, name string) (*models.ProductAttribute, error) {
	for i := range f.attrs {
		if f.attrs[i].Name == name {
			a := f.attrs[i]
			return &a, nil
		}
	}
	return nil, fmt.Errorf("attribute %q: %w", name, utils.ErrNotFound)
}

func (f *fakeCatalog) CreateValue(ctx context.Context, v *models.ProductAttributeValue) error {
	v.ID = f.id()
	f.values = append(f.values, *v)
	return nil
}

func (f *fakeCatalog) FindValue(ctx context.Context, attribute, value string) (*models.ProductAttributeValue, error) {
	a, err := f.GetAttributeByName(ctx, attribute)
	if err != nil {
		return nil, err
	}
	for i := range f.values {
		if f.values[i].ProductAttributeID == a.ID && f.values[i].AttributeValue == value {
			v := f.values[i]
			return &v, nil
		}
	}
	return nil, fmt.Errorf("attribute value %s=%s: %w", attribute, value, utils.ErrNotFound)
}

func (f *fakeCatalog) CreateType(ctx context.Context, t *models.ProductType, attributeIDs []int64) error {
	t.ID = f.id()
	f.typeRows = append(f.typeRows, *t)
	f.types[t.ID] = attributeIDs
	return nil
}

func (f *fakeCatalog) GetTypeByName(ctx context.Context, name string) (*models.ProductType, error) {
	for i := range f.typeRows {
		if f.typeRows[i].Name == name {
			t := f.typeRows[i]
			return &t, nil
		}
	}
	return nil, fmt.Errorf("product type %q: %w", name, utils.ErrNotFound)
}

func (f *fakeCatalog) TypeAttributes(ctx context.Context, typeID int64) ([]models.ProductAttribute, error) {
	var out []models.ProductAttribute
	for _, id := range f.types[typeID] {
		for _, a := range f.attrs {
			if a.ID == id {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

type fakeInventory struct{ *fakeCatalog }

func (f fakeInventory) row(inv models.ProductInventory) models.InventoryRow {
	row := models.InventoryRow{ProductInventory: inv}
	for _, p := range f.products {
		if p.ID == inv.ProductID {
			row.ProductName = p.Name
			row.ProductWebID = p.WebID
		}
	}
	if inv.BrandID != nil {
		for _, b := range f.brands {
			if b.ID == *inv.BrandID {
				name := b.Name
				row.BrandName = &name
			}
		}
	}
	return row
}

func (f fakeInventory) ListByWebID(ctx context.Context, webID string) ([]models.InventoryRow, error) {
	out := []models.InventoryRow{}
	for _, inv := range f.inventory {
		if row := f.row(inv); row.ProductWebID == webID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f fakeInventory) ListAfter(ctx context.Context, afterID int64, limit int) ([]models.InventoryRow, error) {
	out := []models.InventoryRow{}
	for _, inv := range f.inventory {
		if inv.ID > afterID && len(out) < limit {
			out = append(out, f.row(inv))
		}
	}
	return out, nil
}

func (f fakeInventory) GetBySKU(ctx context.Context, sku string) (*models.InventoryRow, error) {
	for _, inv := range f.inventory {
		if inv.SKU == sku {
			row := f.row(inv)
			return &row, nil
		}
	}
	return nil, fmt.Errorf("inventory %q: %w", sku, utils.ErrNotFound)
}

func (f fakeInventory) MediaFor(ctx context.Context, ids []int64) ([]models.Media, error) {
	return append([]models.Media(nil), f.media...), nil
}

func (f fakeInventory) AttributesFor(ctx context.Context, ids []int64) ([]models.InventoryAttribute, error) {
	var out []models.InventoryAttribute
	for invID, valueIDs := range f.links {
		for _, vid := range valueIDs {
			for _, v := range f.values {
				if v.ID != vid {
					continue
				}
				for _, a := range f.attrs {
					if a.ID == v.ProductAttributeID {
						out = append(out, models.InventoryAttribute{
							ProductInventoryID: invID, AttributeValueID: v.ID, AttributeValue: v.AttributeValue,
							AttributeID: a.ID, AttributeName: a.Name, AttributeDescription: a.Description,
						})
					}
				}
			}
		}
	}
	return out, nil
}

func (f fakeInventory) Create(ctx context.Context, inv *models.ProductInventory, valueIDs []int64) error {
	for _, existing := range f.inventory {
		if existing.SKU == inv.SKU {
			return fmt.Errorf("%w: product_inventory_sku_key", utils.ErrConstraintViolation)
		}
	}
	inv.ID = f.id()
	f.inventory = append(f.inventory, *inv)
	f.links[inv.ID] = valueIDs
	return nil
}

func (f fakeInventory) AddMedia(ctx context.Context, m *models.Media) error {
	m.ID = f.id()
	f.media = append(f.media, *m)
	return nil
}

func (f fakeInventory) UpsertStock(ctx context.Context, s *models.Stock) error {
	s.ID = f.id()
	f.stock = append(f.stock, *s)
	return nil
}

func (f fakeInventory) StockBySKU(ctx context.Context, sku string) (*models.Stock, error) {
	row, err := f.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	for _, s := range f.stock {
		if s.ProductInventoryID == row.ID {
			out := s
			return &out, nil
		}
	}
	return nil, utils.ErrNotFound
}

type fakePromotions struct{ *fakeCatalog }

func (f fakePromotions) Create(ctx context.Context, p *models.Promotion, items []models.PromotionItem) error {
	p.ID = f.id()
	f.promotions = append(f.promotions, *p)
	for _, item := range items {
		item.PromotionID = p.ID
		f.promoItems = append(f.promoItems, item)
	}
	return nil
}

func (f fakePromotions) ActivePrices(ctx context.Context, ids []int64, at time.Time) (map[int64]decimal.Decimal, error) {
	prices := map[int64]decimal.Decimal{}
	for _, item := range f.promoItems {
		for _, p := range f.promotions {
			if p.ID != item.PromotionID || !p.ActiveAt(at) {
				continue
			}
			if cur, ok := prices[item.ProductInventoryID]; !ok || item.PromoPrice.LessThan(cur) {
				prices[item.ProductInventoryID] = item.PromoPrice
			}
		}
	}
	return prices, nil
}

type fakeDeleter struct{ *fakeCatalog }

func (f fakeDeleter) Delete(ctx context.Context, entity models.Entity, id int64) (*repository.DeleteResult, error) {
	f.deleted = append(f.deleted, fmt.Sprintf("%s:%d", entity, id))
	return &repository.DeleteResult{Entity: entity, ID: id}, nil
}

type fakeSearcher struct {
	limit, offset int
	err           error
}

func (f *fakeSearcher) Search(ctx context.Context, query string, limit, offset int) (*search.Result, error) {
	f.limit, f.offset = limit, offset
	if f.err != nil {
		return nil, f.err
	}
	return &search.Result{Total: 1}, nil
}

type fakeIndexer struct {
	created  bool
	batches  [][]search.Document
	failEach uint64
	cutoff   time.Time
	removed  int64
}

func (f *fakeIndexer) EnsureIndex(ctx context.Context) (bool, error) {
	f.created = true
	return true, nil
}

func (f *fakeIndexer) BulkIndex(ctx context.Context, docs []search.Document) (search.BulkStats, error) {
	f.batches = append(f.batches, docs)
	return search.BulkStats{Indexed: uint64(len(docs)) - f.failEach, Failed: f.failEach}, nil
}

func (f *fakeIndexer) DeleteIndexedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.removed, nil
}

func (f *fakeCatalog) management() *ManagementService {
	return NewManagementService(f, fakeBrands{f}, f, fakeProducts{f}, fakeInventory{f}, fakePromotions{f}, fakeDeleter{f}, nil)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/catalog_api/internal/cache"
	"github.com/GTDGit/catalog_api/internal/models"
	"github.com/GTDGit/catalog_api/internal/repository"
	"github.com/GTDGit/catalog_api/internal/utils"
)

// ManagementService performs the catalog mutations. It is only reachable
// from the management CLI; the HTTP API is read-only.
type ManagementService struct {
	categories CategoryStore
	brands     BrandStore
	attributes AttributeStore
	products   ProductStore
	inventory  InventoryStore
	promotions PromotionStore
	deleter    EntityDeleter
	cache      *cache.CatalogCache
}

// NewManagementService constructs a ManagementService. cache may be nil.
func NewManagementService(
	categories CategoryStore,
	brands BrandStore,
	attributes AttributeStore,
	products ProductStore,
	inventory InventoryStore,
	promotions PromotionStore,
	deleter EntityDeleter,
	cache *cache.CatalogCache,
) *ManagementService {
	return &ManagementService{
		categories: categories,
		brands:     brands,
		attributes: attributes,
		products:   products,
		inventory:  inventory,
		promotions: promotions,
		deleter:    deleter,
		cache:      cache,
	}
}

// ValidatePrice rejects prices below models.MinPrice.
func ValidatePrice(field string, price decimal.Decimal) error {
	if price.LessThan(models.MinPrice) {
		return fmt.Errorf("%w: %s %s is below %s", utils.ErrValidation, field, price.String(), models.MinPrice.String())
	}
	return nil
}

// Load creates every entity of f in dependency order: categories (parents
// before children), brands, attributes and values, product types, products,
// inventory with attribute values, media and stock, then promotions. Rows
// are created individually; a failure stops the load and reports the entity
// that failed.
func (s *ManagementService) Load(ctx context.Context, f *Fixture) (*LoadStats, error) {
	if err := validateFixture(f); err != nil {
		return nil, err
	}
	stats := &LoadStats{}
	defer s.invalidate(ctx)

	if err := s.loadCategories(ctx, f.Categories, stats); err != nil {
		return stats, err
	}
	for _, name := range f.Brands {
		if err := s.brands.Create(ctx, &models.Brand{Name: name}); err != nil {
			return stats, fmt.Errorf("brand %q: %w", name, err)
		}
		stats.Brands++
	}
	for _, a := range f.Attributes {
		attr := &models.ProductAttribute{Name: a.Name, Description: a.Description}
		if err := s.attributes.CreateAttribute(ctx, attr); err != nil {
			return stats, fmt.Errorf("attribute %q: %w", a.Name, err)
		}
		stats.Attributes++
		for _, v := range a.Values {
			if err := s.attributes.CreateValue(ctx, &models.ProductAttributeValue{ProductAttributeID: attr.ID, AttributeValue: v}); err != nil {
				return stats, fmt.Errorf("attribute value %s=%s: %w", a.Name, v, err)
			}
			stats.Values++
		}
	}
	for _, t := range f.ProductTypes {
		ids := make([]int64, 0, len(t.Attributes))
		for _, name := range t.Attributes {
			attr, err := s.attributes.GetAttributeByName(ctx, name)
			if err != nil {
				return stats, fmt.Errorf("product type %q: %w", t.Name, err)
			}
			ids = append(ids, attr.ID)
		}
		if err := s.attributes.CreateType(ctx, &models.ProductType{Name: t.Name}, ids); err != nil {
			return stats, fmt.Errorf("product type %q: %w", t.Name, err)
		}
		stats.ProductTypes++
	}
	for _, p := range f.Products {
		if err := s.loadProduct(ctx, p, stats); err != nil {
			return stats, err
		}
	}
	for _, p := range f.Promotions {
		if err := s.loadPromotion(ctx, p, stats); err != nil {
			return stats, err
		}
	}

	log.Info().Interface("stats", stats).Msg("fixture loaded")
	return stats, nil
}

// loadCategories creates categories so that every parent exists before its
// children. Parents may also be categories already stored.
func (s *ManagementService) loadCategories(ctx context.Context, categories []CategoryFixture, stats *LoadStats) error {
	ids := make(map[string]int64, len(categories))
	pending := append([]CategoryFixture(nil), categories...)
	for len(pending) > 0 {
		var next []CategoryFixture
		for _, c := range pending {
			var parentID *int64
			if c.Parent != "" {
				id, ok := ids[c.Parent]
				if !ok {
					if inFixture(pending, c.Parent) {
						next = append(next, c)
						continue
					}
					parent, err := s.categories.GetBySlug(ctx, c.Parent)
					if err != nil {
						return fmt.Errorf("category %q parent %q: %w", c.Slug, c.Parent, err)
					}
					id = parent.ID
				}
				parentID = &id
			}
			row := &models.Category{Name: c.Name, Slug: c.Slug, IsActive: c.IsActive, ParentID: parentID}
			if err := s.categories.Create(ctx, row); err != nil {
				return fmt.Errorf("category %q: %w", c.Slug, err)
			}
			ids[c.Slug] = row.ID
			stats.Categories++
		}
		if len(next) == len(pending) {
			return fmt.Errorf("%w: categories %s form a cycle", utils.ErrCycle, slugs(next))
		}
		pending = next
	}
	return nil
}

func (s *ManagementService) loadProduct(ctx context.Context, p ProductFixture, stats *LoadStats) error {
	product := &models.Product{
		WebID:       p.WebID,
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		IsActive:    p.IsActive,
	}
	if p.Category != "" {
		c, err := s.categories.GetBySlug(ctx, p.Category)
		if err != nil {
			return fmt.Errorf("product %q category %q: %w", p.WebID, p.Category, err)
		}
		product.CategoryID = &c.ID
	}
	if err := s.products.Create(ctx, product); err != nil {
		return fmt.Errorf("product %q: %w", p.WebID, err)
	}
	stats.Products++

	for _, inv := range p.Inventory {
		if err := s.loadInventory(ctx, product, inv, stats); err != nil {
			return err
		}
	}
	return nil
}

func (s *ManagementService) loadInventory(ctx context.Context, product *models.Product, inv InventoryFixture, stats *LoadStats) error {
	productType, err := s.attributes.GetTypeByName(ctx, inv.ProductType)
	if err != nil {
		return fmt.Errorf("inventory %q: %w", inv.SKU, err)
	}
	row := &models.ProductInventory{
		SKU:           inv.SKU,
		UPC:           inv.UPC,
		ProductTypeID: productType.ID,
		ProductID:     product.ID,
		IsActive:      inv.IsActive,
		IsDefault:     inv.IsDefault,
		RetailPrice:   inv.RetailPrice,
		StorePrice:    inv.StorePrice,
		IsDigital:     inv.IsDigital,
		Weight:        inv.Weight,
	}
	if inv.Brand != "" {
		b, err := s.brands.GetByName(ctx, inv.Brand)
		if err != nil {
			return fmt.Errorf("inventory %q brand: %w", inv.SKU, err)
		}
		row.BrandID = &b.ID
	}

	valueIDs, err := s.attributeValues(ctx, productType, inv)
	if err != nil {
		return err
	}
	if err := s.inventory.Create(ctx, row, valueIDs); err != nil {
		return fmt.Errorf("inventory %q: %w", inv.SKU, err)
	}
	stats.Inventory++

	for _, m := range inv.Media {
		media := &models.Media{ProductInventoryID: row.ID, ImgURL: m.ImgURL, AltText: m.AltText, IsFeature: m.IsFeature}
		if err := s.inventory.AddMedia(ctx, media); err != nil {
			return fmt.Errorf("inventory %q media: %w", inv.SKU, err)
		}
		stats.Media++
	}
	if inv.Stock != nil {
		stock := &models.Stock{
			ProductInventoryID: row.ID,
			LastChecked:        inv.Stock.LastChecked,
			Units:              inv.Stock.Units,
			UnitsSold:          inv.Stock.UnitsSold,
		}
		if err := s.inventory.UpsertStock(ctx, stock); err != nil {
			return fmt.Errorf("inventory %q stock: %w", inv.SKU, err)
		}
		stats.Stock++
	}
	return nil
}

// attributeValues resolves the attribute values of a variant, checking that
// each attribute is allowed by the product type.
func (s *ManagementService) attributeValues(ctx context.Context, productType *models.ProductType, inv InventoryFixture) ([]int64, error) {
	if len(inv.Attributes) == 0 {
		return nil, nil
	}
	allowed, err := s.attributes.TypeAttributes(ctx, productType.ID)
	if err != nil {
		return nil, err
	}
	allowedNames := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		allowedNames[a.Name] = true
	}

	names := make([]string, 0, len(inv.Attributes))
	for name := range inv.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	ids := make([]int64, 0, len(names))
	for _, name := range names {
		if !allowedNames[name] {
			return nil, fmt.Errorf("%w: inventory %q: attribute %q not allowed for product type %q",
				utils.ErrValidation, inv.SKU, name, productType.Name)
		}
		v, err := s.attributes.FindValue(ctx, name, inv.Attributes[name])
		if err != nil {
			return nil, fmt.Errorf("inventory %q: %w", inv.SKU, err)
		}
		ids = append(ids, v.ID)
	}
	return ids, nil
}

func (s *ManagementService) loadPromotion(ctx context.Context, p PromotionFixture, stats *LoadStats) error {
	promo := &models.Promotion{
		Name:           p.Name,
		IsActive:       p.IsActive,
		PromoReduction: p.PromoReduction,
		StartsAt:       p.StartsAt,
		EndsAt:         p.EndsAt,
	}
	items := make([]models.PromotionItem, 0, len(p.Items))
	for _, item := range p.Items {
		inv, err := s.inventory.GetBySKU(ctx, item.SKU)
		if err != nil {
			return fmt.Errorf("promotion %q: %w", p.Name, err)
		}
		items = append(items, models.PromotionItem{ProductInventoryID: inv.ID, PromoPrice: item.PromoPrice})
	}
	if err := s.promotions.Create(ctx, promo, items); err != nil {
		return fmt.Errorf("promotion %q: %w", p.Name, err)
	}
	stats.Promotions++
	stats.PromotionItems += len(items)
	return nil
}

// Delete removes an entity by id, applying the delete policy of every
// relationship that references it.
func (s *ManagementService) Delete(ctx context.Context, entity string, id int64) (*repository.DeleteResult, error) {
	e, err := models.ParseEntity(entity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrValidation, err)
	}
	res, err := s.deleter.Delete(ctx, e, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return res, nil
}

// MoveCategory reparents the category slug under parentSlug, or makes it a
// root when parentSlug is empty.
func (s *ManagementService) MoveCategory(ctx context.Context, slug, parentSlug string) (*models.Category, error) {
	c, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	var parentID *int64
	if parentSlug != "" {
		parent, err := s.categories.GetBySlug(ctx, parentSlug)
		if err != nil {
			return nil, fmt.Errorf("parent: %w", err)
		}
		parentID = &parent.ID
	}
	moved, err := s.categories.Move(ctx, c.ID, parentID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return moved, nil
}

func (s *ManagementService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate catalog cache")
	}
}

func validateFixture(f *Fixture) error {
	var errs []error
	for _, c := range f.Categories {
		if c.Slug == "" || c.Name == "" {
			errs = append(errs, fmt.Errorf("category %q: name and slug are required", c.Name))
		}
	}
	for _, p := range f.Products {
		if p.WebID == "" || p.Name == "" {
			errs = append(errs, fmt.Errorf("product %q: web id and name are required", p.Name))
		}
		defaults := 0
		for _, inv := range p.Inventory {
			if inv.SKU == "" || inv.ProductType == "" {
				errs = append(errs, fmt.Errorf("product %q: inventory needs sku and product type", p.WebID))
			}
			if err := ValidatePrice("inventory "+inv.SKU+" retail price", inv.RetailPrice); err != nil {
				errs = append(errs, err)
			}
			if err := ValidatePrice("inventory "+inv.SKU+" store price", inv.StorePrice); err != nil {
				errs = append(errs, err)
			}
			if inv.IsDefault {
				defaults++
			}
		}
		if defaults > 1 {
			errs = append(errs, fmt.Errorf("product %q: %d default variants, at most one allowed", p.WebID, defaults))
		}
	}
	for _, p := range f.Promotions {
		for _, item := range p.Items {
			if err := ValidatePrice("promotion "+p.Name+" price for "+item.SKU, item.PromoPrice); err != nil {
				errs = append(errs, err)
			}
		}
		if p.StartsAt != nil && p.EndsAt != nil && p.EndsAt.Before(*p.StartsAt) {
			errs = append(errs, fmt.Errorf("promotion %q ends before it starts", p.Name))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %v", utils.ErrValidation, errors.Join(errs...))
}

func inFixture(categories []CategoryFixture, slug string) bool {
	for _, c := range categories {
		if c.Slug == slug {
			return true
		}
	}
	return false
}

func slugs(categories []CategoryFixture) string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.Slug)
	}
	return strings.Join(out, ", ")
}

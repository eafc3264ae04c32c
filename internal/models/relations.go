package models

import "fmt"

// Entity names a catalog table that can be deleted through the store.
type Entity string

const (
	EntityCategory              Entity = "category"
	EntityProduct               Entity = "product"
	EntityBrand                 Entity = "brand"
	EntityProductAttribute      Entity = "product_attribute"
	EntityProductAttributeValue Entity = "product_attribute_value"
	EntityProductType           Entity = "product_type"
	EntityProductInventory      Entity = "product_inventory"
	EntityMedia                 Entity = "media"
	EntityStock                 Entity = "stock"
	EntityPromotion             Entity = "promotion"
)

var entityTables = map[Entity]string{
	EntityCategory:              "categories",
	EntityProduct:               "products",
	EntityBrand:                 "brands",
	EntityProductAttribute:      "product_attributes",
	EntityProductAttributeValue: "product_attribute_values",
	EntityProductType:           "product_types",
	EntityProductInventory:      "product_inventory",
	EntityMedia:                 "media",
	EntityStock:                 "stock",
	EntityPromotion:             "promotions",
}

// Table returns the SQL table backing e.
func (e Entity) Table() string {
	return entityTables[e]
}

// ParseEntity validates a user supplied entity name.
func ParseEntity(s string) (Entity, error) {
	e := Entity(s)
	if _, ok := entityTables[e]; !ok {
		return "", fmt.Errorf("unknown entity %q", s)
	}
	return e, nil
}

// Entities lists every deletable entity.
func Entities() []Entity {
	return []Entity{
		EntityCategory, EntityProduct, EntityBrand, EntityProductAttribute,
		EntityProductAttributeValue, EntityProductType, EntityProductInventory,
		EntityMedia, EntityStock, EntityPromotion,
	}
}

// DeletePolicy is what happens to dependents when a referenced row is deleted.
type DeletePolicy int

const (
	// Protect rejects the delete while dependents exist.
	Protect DeletePolicy = iota
	// SetNull nulls the dependent's reference.
	SetNull
	// Cascade deletes the dependents.
	Cascade
)

func (p DeletePolicy) String() string {
	switch p {
	case Protect:
		return "protect"
	case SetNull:
		return "set-null"
	case Cascade:
		return "cascade"
	default:
		return fmt.Sprintf("DeletePolicy(%d)", int(p))
	}
}

// Relation is a foreign key from ChildTable.Column to Parent.
type Relation struct {
	ChildTable string
	Column     string
	Parent     Entity
	Policy     DeletePolicy
}

func (r Relation) String() string {
	return fmt.Sprintf("%s.%s -> %s (%s)", r.ChildTable, r.Column, r.Parent, r.Policy)
}

// Relations is the complete list of catalog foreign keys with their delete
// policy. The migrations declare the same policies on the SQL constraints.
var Relations = []Relation{
	{ChildTable: "categories", Column: "parent_id", Parent: EntityCategory, Policy: Protect},
	{ChildTable: "products", Column: "category_id", Parent: EntityCategory, Policy: SetNull},
	{ChildTable: "product_attribute_values", Column: "product_attribute_id", Parent: EntityProductAttribute, Policy: Protect},
	{ChildTable: "product_type_attributes", Column: "product_attribute_id", Parent: EntityProductAttribute, Policy: Protect},
	{ChildTable: "product_type_attributes", Column: "product_type_id", Parent: EntityProductType, Policy: Protect},
	{ChildTable: "product_inventory", Column: "product_type_id", Parent: EntityProductType, Policy: Protect},
	{ChildTable: "product_inventory", Column: "product_id", Parent: EntityProduct, Policy: Protect},
	{ChildTable: "product_inventory", Column: "brand_id", Parent: EntityBrand, Policy: SetNull},
	{ChildTable: "product_attribute_value_links", Column: "attribute_value_id", Parent: EntityProductAttributeValue, Policy: Protect},
	{ChildTable: "product_attribute_value_links", Column: "product_inventory_id", Parent: EntityProductInventory, Policy: Protect},
	{ChildTable: "media", Column: "product_inventory_id", Parent: EntityProductInventory, Policy: Protect},
	{ChildTable: "stock", Column: "product_inventory_id", Parent: EntityProductInventory, Policy: Protect},
	{ChildTable: "promotion_items", Column: "product_inventory_id", Parent: EntityProductInventory, Policy: Protect},
	{ChildTable: "promotion_items", Column: "promotion_id", Parent: EntityPromotion, Policy: Cascade},
}

// RelationsOf returns the relations whose parent is e, protect relations
// first so a rejected delete leaves nothing modified.
func RelationsOf(e Entity) []Relation {
	var protect, rest []Relation
	for _, r := range Relations {
		if r.Parent != e {
			continue
		}
		if r.Policy == Protect {
			protect = append(protect, r)
		} else {
			rest = append(rest, r)
		}
	}
	return append(protect, rest...)
}

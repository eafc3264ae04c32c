package models

// ProductAttribute defines an axis of variation such as "shoe size".
type ProductAttribute struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

// ProductAttributeValue is one concrete value of a ProductAttribute.
type ProductAttributeValue struct {
	ID                 int64  `db:"id" json:"id"`
	ProductAttributeID int64  `db:"product_attribute_id" json:"productAttributeId"`
	AttributeValue     string `db:"attribute_value" json:"attributeValue"`
}

// ProductType groups the attributes a variant of that type may carry.
type ProductType struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// InventoryAttribute is an attribute value joined with its attribute, keyed
// by the variant it is linked to.
type InventoryAttribute struct {
	ProductInventoryID   int64  `db:"product_inventory_id"`
	AttributeValueID     int64  `db:"attribute_value_id"`
	AttributeValue       string `db:"attribute_value"`
	AttributeID          int64  `db:"attribute_id"`
	AttributeName        string `db:"attribute_name"`
	AttributeDescription string `db:"attribute_description"`
}

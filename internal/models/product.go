package models

import "time"

// Product is the catalog-level product; purchasable variants live in
// ProductInventory.
type Product struct {
	ID          int64     `db:"id" json:"id"`
	WebID       string    `db:"web_id" json:"webId"`
	Slug        string    `db:"slug" json:"slug"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CategoryID  *int64    `db:"category_id" json:"categoryId"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Brand is a product brand.
type Brand struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

package models

// Category is a node of the category tree. TreeID, Lft, Rgt and Depth are the
// nested-set position maintained by the repository; they are never written by
// callers.
type Category struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Slug     string `db:"slug" json:"slug"`
	IsActive bool   `db:"is_active" json:"isActive"`
	ParentID *int64 `db:"parent_id" json:"parentId"`
	TreeID   int    `db:"tree_id" json:"treeId"`
	Lft      int    `db:"lft" json:"lft"`
	Rgt      int    `db:"rgt" json:"rgt"`
	Depth    int    `db:"depth" json:"depth"`
}

// IsLeaf reports whether the category has no children.
func (c *Category) IsLeaf() bool {
	return c.Rgt-c.Lft == 1
}

// DescendantCount returns the number of categories below c.
func (c *Category) DescendantCount() int {
	return (c.Rgt - c.Lft - 1) / 2
}

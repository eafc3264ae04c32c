package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/catalog_api/internal/utils"
)

// AdminHandler serves the read-only administrative catalog views.
type AdminHandler struct {
	catalog CatalogAdminReader
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(catalog CatalogAdminReader) *AdminHandler {
	return &AdminHandler{catalog: catalog}
}

// CategoryTree returns every category in tree order with its depth.
func (h *AdminHandler) CategoryTree(c *gin.Context) {
	categories, err := h.catalog.CategoryTree(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, 200, "Category tree retrieved successfully", gin.H{
		"categories": categories,
	})
}

// Ancestors returns the root path of a category.
func (h *AdminHandler) Ancestors(c *gin.Context) {
	categories, err := h.catalog.Ancestors(c.Request.Context(), c.Param("slug"))
	if err != nil {
		_ = c.Error(err)
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, 200, "Ancestors retrieved successfully", gin.H{
		"categories": categories,
	})
}

// Descendants returns the subtree below a category.
func (h *AdminHandler) Descendants(c *gin.Context) {
	categories, err := h.catalog.Descendants(c.Request.Context(), c.Param("slug"))
	if err != nil {
		_ = c.Error(err)
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, 200, "Descendants retrieved successfully", gin.H{
		"categories": categories,
	})
}

// Stock returns the stock record of a variant.
func (h *AdminHandler) Stock(c *gin.Context) {
	stock, err := h.catalog.StockBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		_ = c.Error(err)
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, 200, "Stock retrieved successfully", stock)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/catalog_api/internal/projection"
	"github.com/GTDGit/catalog_api/internal/utils"
)

// CatalogHandler serves the public, read-only catalog endpoints. Successful
// responses are bare JSON lists.
type CatalogHandler struct {
	catalog        CatalogReader
	trustForwarded bool
}

// NewCatalogHandler constructs a CatalogHandler. trustForwarded makes media
// URLs follow the X-Forwarded-Proto and X-Forwarded-Host headers.
func NewCatalogHandler(catalog CatalogReader, trustForwarded bool) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, trustForwarded: trustForwarded}
}

// ListCategories handles GET /api/inventory/category/all.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		utils.ErrorFrom(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// ProductsByCategory handles GET /api/inventory/products/category/:slug/.
func (h *CatalogHandler) ProductsByCategory(c *gin.Context) {
	products, err := h.catalog.ProductsByCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		_ = c.Error(err)
		utils.ErrorFrom(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// InventoryByWebID handles GET /api/inventory/products/:web_id/.
func (h *CatalogHandler) InventoryByWebID(c *gin.Context) {
	origin := projection.Origin(c.Request, h.trustForwarded)
	inventory, err := h.catalog.InventoryByWebID(c.Request.Context(), c.Param("web_id"), origin)
	if err != nil {
		_ = c.Error(err)
		utils.ErrorFrom(c, err)
		return
	}
	c.JSON(http.StatusOK, inventory)
}

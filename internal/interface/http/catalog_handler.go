package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shopeasy/shopeasy-engine/internal/application"
	"github.com/shopeasy/shopeasy-engine/internal/catalog"
	"github.com/shopeasy/shopeasy-engine/pkg/response"
)

type CatalogHandler struct {
	Catalog  *catalog.Catalog
	Wishlist *application.WishlistService
	Logger   *logrus.Logger
}

func NewCatalogHandler(cat *catalog.Catalog, wishlist *application.WishlistService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{Catalog: cat, Wishlist: wishlist, Logger: logger}
}

func (h *CatalogHandler) List(c *gin.Context) {
	products, err := h.Catalog.Search(c.Request.Context(), c.Query("category"), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, products, "products", map[string]any{"count": len(products)})
}

func (h *CatalogHandler) Get(c *gin.Context) {
	product, err := h.Catalog.ByID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"product":          product,
		"discount_percent": catalog.DiscountPercent(product),
		"wished":           h.Wishlist.Contains(product.ID),
	}, "product", nil)
}

func (h *CatalogHandler) WishlistItems(c *gin.Context) {
	ids := h.Wishlist.Items()
	items := make([]gin.H, 0, len(ids))
	for _, id := range ids {
		if p, err := h.Catalog.ByID(id); err == nil {
			items = append(items, gin.H{"product": p, "discount_percent": catalog.DiscountPercent(p)})
		}
	}
	response.Success(c, http.StatusOK, items, "wishlist", map[string]any{"count": len(items)})
}

// ToggleWishlist flips membership for the product id and reports the new state.
func (h *CatalogHandler) ToggleWishlist(c *gin.Context) {
	product, err := h.Catalog.ByID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	wished, err := h.Wishlist.Toggle(c.Request.Context(), product.ID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"product_id": product.ID, "wished": wished}, "wishlist updated", nil)
}

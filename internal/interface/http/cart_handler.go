package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shopeasy/shopeasy-engine/internal/application"
	"github.com/shopeasy/shopeasy-engine/internal/catalog"
	"github.com/shopeasy/shopeasy-engine/pkg/response"
	"github.com/shopeasy/shopeasy-engine/pkg/validation"
)

type CartHandler struct {
	Cart    *application.CartService
	Catalog *catalog.Catalog
	Logger  *logrus.Logger
}

func NewCartHandler(cart *application.CartService, cat *catalog.Catalog, logger *logrus.Logger) *CartHandler {
	return &CartHandler{Cart: cart, Catalog: cat, Logger: logger}
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// Delta is a pointer so an explicit zero binds instead of failing required
// validation; zero is a legal no-op for the engine.
type updateQuantityRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

func (h *CartHandler) summary() gin.H {
	return gin.H{
		"items":    h.Cart.Items(),
		"count":    h.Cart.Count(),
		"subtotal": h.Cart.Subtotal(),
		"shipping": h.Cart.Shipping(),
		"total":    h.Cart.Total(),
	}
}

func (h *CartHandler) Get(c *gin.Context) {
	response.Success(c, http.StatusOK, h.summary(), "cart", nil)
}

// AddItem resolves the product from the catalog and adds one unit. The price
// captured on the line is the catalog price at add time.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	product, err := h.Catalog.ByID(req.ProductID)
	if err != nil {
		fail(c, err)
		return
	}
	if _, err := h.Cart.AddItem(c.Request.Context(), product.ID, product.Name, product.Price); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.summary(), "item added", nil)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	if err := h.Cart.RemoveItem(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.summary(), "item removed", nil)
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Cart.UpdateQuantity(c.Request.Context(), c.Param("id"), *req.Delta); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.summary(), "quantity updated", nil)
}

func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.Cart.Clear(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.summary(), "cart cleared", nil)
}

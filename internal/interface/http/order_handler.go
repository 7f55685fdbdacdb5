package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shopeasy/shopeasy-engine/internal/application"
	"github.com/shopeasy/shopeasy-engine/pkg/response"
)

type OrderHandler struct {
	Orders *application.OrderService
	Logger *logrus.Logger
}

func NewOrderHandler(orders *application.OrderService, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{Orders: orders, Logger: logger}
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	order, err := h.Orders.Checkout(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, order, "order placed", nil)
}

func (h *OrderHandler) History(c *gin.Context) {
	orders, err := h.Orders.History(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, orders, "order history", map[string]any{"count": len(orders)})
}

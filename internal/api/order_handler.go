package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"instacampus/internal/entity"
	"instacampus/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateFromCart places an order from the category's cart --> POST /order/from-cart/:category
func (h *OrderHandler) CreateFromCart(c echo.Context) error {
	category := c.Param("category")
	if !entity.ValidCategory(category) {
		return c.JSON(400, map[string]string{"error": "unknown category"})
	}

	order, err := h.orderService.CreateFromCart(c.Request().Context(), CurrentUser(c).ID, category)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(201, order)
}

// ListOrders lists the caller's orders --> GET /order
func (h *OrderHandler) ListOrders(c echo.Context) error {
	orders, err := h.orderService.ListUserOrders(c.Request().Context(), CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, orders)
}

// GetOrder fetches one of the caller's orders --> GET /order/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	order, err := h.orderService.GetOrderForUser(c.Request().Context(), id, CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, order)
}

// CancelOrder --> PATCH /order/cancel/:id
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	order, err := h.orderService.Cancel(c.Request().Context(), id, CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, map[string]interface{}{"order": order, "message": "order cancelled"})
}

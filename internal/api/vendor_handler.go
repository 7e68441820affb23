package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"instacampus/internal/service"
)

// VendorHandler serves the vendor dashboard: their inventory and the orders
// containing their products.
type VendorHandler struct {
	orderService     *service.OrderService
	inventoryService *service.InventoryService
}

func NewVendorHandler(orderService *service.OrderService, inventoryService *service.InventoryService) *VendorHandler {
	return &VendorHandler{
		orderService:     orderService,
		inventoryService: inventoryService,
	}
}

// ListOrders --> GET /vendor/orders
func (h *VendorHandler) ListOrders(c echo.Context) error {
	orders, err := h.orderService.ListVendorOrders(c.Request().Context(), CurrentUser(c).ID, false)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, map[string]interface{}{"orders": orders})
}

// ListRecentOrders --> GET /vendor/recent/orders, active statuses only.
func (h *VendorHandler) ListRecentOrders(c echo.Context) error {
	orders, err := h.orderService.ListVendorOrders(c.Request().Context(), CurrentUser(c).ID, true)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, map[string]interface{}{"orders": orders})
}

// UpdateOrderStatus --> PATCH /vendor/order/:status/:id
func (h *VendorHandler) UpdateOrderStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	order, err := h.orderService.VendorUpdateStatus(c.Request().Context(), id, c.Param("status"), CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, map[string]interface{}{"order": order, "message": "status updated"})
}

// ListInventory --> GET /inventory
func (h *VendorHandler) ListInventory(c echo.Context) error {
	items, err := h.inventoryService.ListVendorInventory(c.Request().Context(), CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, map[string]interface{}{"products": items})
}

// StockHistory --> GET /vendor/product/:id/logs
func (h *VendorHandler) StockHistory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	logs, err := h.inventoryService.StockHistory(c.Request().Context(), CurrentUser(c).ID, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, map[string]interface{}{"logs": logs})
}

// Restock --> PATCH /inventory/:id/restock
func (h *VendorHandler) Restock(c echo.Context) error {
	return h.adjustInventory(c, true)
}

// Deduct --> PATCH /inventory/:id/deduct
func (h *VendorHandler) Deduct(c echo.Context) error {
	return h.adjustInventory(c, false)
}

func (h *VendorHandler) adjustInventory(c echo.Context, restock bool) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	req := struct {
		Quantity int `json:"quantity"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	vendorID := CurrentUser(c).ID
	if restock {
		item, err := h.inventoryService.Restock(c.Request().Context(), vendorID, id, req.Quantity)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(200, map[string]interface{}{"item": item, "message": "stock added"})
	}

	item, err := h.inventoryService.Deduct(c.Request().Context(), vendorID, id, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(200, map[string]interface{}{"item": item, "message": "stock deducted"})
}

package api

import (
	"github.com/labstack/echo/v4"

	"instacampus/internal/service"
)

type CartHandler struct {
	cartService *service.CartService
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// AddItem puts a product into the user's cart --> POST /cart/add
func (h *CartHandler) AddItem(c echo.Context) error {
	req := struct {
		ProductID int `json:"product_id"`
		Quantity  int `json:"quantity"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	cart, err := h.cartService.AddItem(c.Request().Context(), CurrentUser(c).ID, req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, cart)
}

// GetCart --> GET /cart/:category. An absent or emptied cart is a 404.
func (h *CartHandler) GetCart(c echo.Context) error {
	cart, err := h.cartService.GetCart(c.Request().Context(), CurrentUser(c).ID, c.Param("category"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, cart)
}

// ClearCart --> POST /cart/clear/:category
func (h *CartHandler) ClearCart(c echo.Context) error {
	err := h.cartService.ClearCart(c.Request().Context(), CurrentUser(c).ID, c.Param("category"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, map[string]string{"message": "cart cleared"})
}

// UpdateItem sets a line's quantity --> PUT /cart/update-item
func (h *CartHandler) UpdateItem(c echo.Context) error {
	req := struct {
		ProductID int    `json:"product_id"`
		Quantity  int    `json:"quantity"`
		Category  string `json:"category"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	cart, err := h.cartService.UpdateItemQuantity(c.Request().Context(), CurrentUser(c).ID,
		req.ProductID, req.Quantity, req.Category)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, cart)
}

// RemoveItem drops a line --> DELETE /cart/remove-item
func (h *CartHandler) RemoveItem(c echo.Context) error {
	req := struct {
		ProductID int    `json:"product_id"`
		Category  string `json:"category"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	cart, err := h.cartService.RemoveItem(c.Request().Context(), CurrentUser(c).ID, req.ProductID, req.Category)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, cart)
}

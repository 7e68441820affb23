package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"instacampus/internal/entity"
	"instacampus/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

type productRequest struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Category          string  `json:"category"`
	Price             float64 `json:"price"`
	ImgURL            string  `json:"img_url"`
	LowStockThreshold int     `json:"low_stock_threshold"`
	InitialStock      int     `json:"initial_stock"`
}

// CreateProduct adds a product to the calling vendor's catalog --> POST /product
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	req := productRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	vendor := CurrentUser(c)
	category, ok := entity.VendorRoleCategory[vendor.Role]
	if !ok || (req.Category != "" && req.Category != category) {
		return c.JSON(403, map[string]string{"error": "category does not match vendor role"})
	}

	product := &entity.Product{
		VendorID:          vendor.ID,
		Name:              req.Name,
		Description:       req.Description,
		Category:          category,
		Price:             req.Price,
		ImgURL:            req.ImgURL,
		LowStockThreshold: req.LowStockThreshold,
	}

	created, err := h.productService.CreateProduct(c.Request().Context(), product, req.InitialStock)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(201, created)
}

// UpdateProduct edits one of the vendor's own products --> PUT /product/:id
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	req := productRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	product := &entity.Product{
		ID:                id,
		Name:              req.Name,
		Description:       req.Description,
		Price:             req.Price,
		ImgURL:            req.ImgURL,
		LowStockThreshold: req.LowStockThreshold,
	}

	updated, err := h.productService.UpdateProduct(c.Request().Context(), CurrentUser(c).ID, product)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, updated)
}

// DeleteProduct removes one of the vendor's own products --> DELETE /product/:id
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	if err := h.productService.DeleteProduct(c.Request().Context(), CurrentUser(c).ID, id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, map[string]string{"message": "product deleted"})
}

// GetProduct fetches one product --> GET /product/:id
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	product, err := h.productService.GetProduct(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, product)
}

// ListProducts lists the catalog --> GET /products
func (h *ProductHandler) ListProducts(c echo.Context) error {
	products, err := h.productService.ListProducts(c.Request().Context(), "")
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, products)
}

// ListVendorProducts lists the calling vendor's own catalog --> GET /vendor/products
func (h *ProductHandler) ListVendorProducts(c echo.Context) error {
	products, err := h.productService.ListVendorProducts(c.Request().Context(), CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(200, map[string]interface{}{"products": products})
}

// ListProductsByCategory --> GET /products/category/:category
func (h *ProductHandler) ListProductsByCategory(c echo.Context) error {
	products, err := h.productService.ListProducts(c.Request().Context(), c.Param("category"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, products)
}

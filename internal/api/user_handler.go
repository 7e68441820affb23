package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"instacampus/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile returns the authenticated user --> GET /user
func (h *UserHandler) GetProfile(c echo.Context) error {
	return c.JSON(200, CurrentUser(c))
}

// UpdateProfile updates name/password and forces a re-login --> PATCH /user
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	req := struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), CurrentUser(c).ID, req.Name, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	clearSessionCookie(c)
	return c.JSON(200, user)
}

// ListVendors lists vendor accounts of a role --> GET /user/vendor/:role
func (h *UserHandler) ListVendors(c echo.Context) error {
	vendors, err := h.userService.ListVendorsByRole(c.Request().Context(), c.Param("role"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, map[string]interface{}{"filteruser": vendors})
}

// CreateVendorCode issues a one-time registration code --> POST /admin/vendor-code
func (h *UserHandler) CreateVendorCode(c echo.Context) error {
	req := struct {
		VendorType string `json:"vendor_type"`
		TTLHours   int    `json:"ttl_hours"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	code, err := h.userService.CreateVendorCode(c.Request().Context(), CurrentUser(c).ID,
		req.VendorType, time.Duration(req.TTLHours)*time.Hour)
	if err != nil {
		return c.JSON(400, map[string]string{"error": err.Error()})
	}

	return c.JSON(201, code)
}

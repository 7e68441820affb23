package api

import (
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"instacampus/internal/service"
)

type AuthHandler struct {
	userService *service.UserService
}

func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// Signup registers a user --> POST /auth/signup
func (h *AuthHandler) Signup(c echo.Context) error {
	req := struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Password   string `json:"password"`
		Role       string `json:"role"`
		VendorCode string `json:"vendor_code"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return c.JSON(400, map[string]string{"error": "name, email, password and role are required"})
	}

	user, err := h.userService.Signup(c.Request().Context(), req.Name, req.Email, req.Password, req.Role, req.VendorCode)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(201, user)
}

// Login checks credentials and sets the session cookie --> POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	user, token, err := h.userService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	setSessionCookie(c, token)
	return c.JSON(200, user)
}

// Logout revokes the session and clears the cookie --> POST /auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	if user := CurrentUser(c); user != nil {
		if err := h.userService.Logout(c.Request().Context(), user.ID); err != nil {
			return respondError(c, err)
		}
	}

	clearSessionCookie(c)
	return c.JSON(200, map[string]string{"message": "logged out"})
}

func setSessionCookie(c echo.Context, token string) {
	c.SetCookie(sessionCookie(token, 24*time.Hour))
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(sessionCookie("", -time.Hour))
}

func sessionCookie(token string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if os.Getenv("ENV") == "production" {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}

package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	"instacampus/internal/repository"
	"instacampus/internal/service"
)

// respondError maps service/repository errors to JSON responses. Unexpected
// errors surface as 500 with the raw message, matching the rest of the API's
// {"error": ...} shape.
func respondError(c echo.Context, err error) error {
	status := 500
	switch {
	case errors.Is(err, repository.ErrNotFound):
		status = 404
	case errors.Is(err, service.ErrItemNotInCart):
		status = 404
	case errors.Is(err, service.ErrNotOwner):
		status = 403
	case errors.Is(err, service.ErrWrongCredentials):
		status = 401
	case errors.Is(err, repository.ErrInsufficientStock),
		errors.Is(err, repository.ErrDuplicateEmail),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrVendorMismatch),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrOrderFinalized),
		errors.Is(err, service.ErrTerminalStatus),
		errors.Is(err, service.ErrInvalidVendorCode):
		status = 400
	}

	return c.JSON(status, map[string]string{"error": err.Error()})
}

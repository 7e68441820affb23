package service

import "errors"

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrVendorMismatch    = errors.New("cart holds items from another vendor, clear the cart first")
	ErrItemNotInCart     = errors.New("item not in cart")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrOrderFinalized    = errors.New("order can no longer be cancelled")
	ErrTerminalStatus    = errors.New("order status is terminal")
	ErrNotOwner          = errors.New("not the owner")
	ErrWrongCredentials  = errors.New("wrong email or password")
	ErrInvalidVendorCode = errors.New("vendor code invalid, used or expired")
)

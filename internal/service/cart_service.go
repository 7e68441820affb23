package service

import (
	"context"
	"errors"

	"instacampus/internal/entity"
	"instacampus/internal/repository"
)

type CartRepository interface {
	GetCart(ctx context.Context, userID int, category string) (*entity.Cart, error)
	SaveCart(ctx context.Context, cart *entity.Cart) error
	ClearCart(ctx context.Context, cartID int) error
}

type InventoryReader interface {
	GetInventoryByProductID(ctx context.Context, productID int) (*entity.Inventory, error)
}

// CartService keeps one cart per (user, category) and enforces the
// single-vendor invariant. Inventory is only checked here, never reserved;
// deduction happens at order placement.
type CartService struct {
	cartRepo    CartRepository
	productRepo ProductRepository
	inventory   InventoryReader
}

func NewCartService(cartRepo CartRepository, productRepo ProductRepository, inventory InventoryReader) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		inventory:   inventory,
	}
}

// AddItem puts quantity of the product into the user's cart for the product's
// category. A cart bound to another vendor rejects the add untouched. Adding
// a product already in the cart sums the quantities, re-validated against the
// current stock.
func (s *CartService) AddItem(ctx context.Context, userID, productID, quantity int) (*entity.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	inv, err := s.inventory.GetInventoryByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetCart(ctx, userID, product.Category)
	if errors.Is(err, repository.ErrNotFound) {
		cart = &entity.Cart{UserID: userID, Category: product.Category}
	} else if err != nil {
		return nil, err
	}

	if cart.VendorID != nil && *cart.VendorID != product.VendorID {
		return nil, ErrVendorMismatch
	}

	requested := quantity
	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			requested += cart.Items[i].Quantity
			cart.Items[i].Quantity = requested
			found = true
			break
		}
	}

	if requested > inv.QuantityAvailable {
		return nil, repository.ErrInsufficientStock
	}

	if !found {
		cart.Items = append(cart.Items, entity.CartItem{ProductID: productID, Quantity: quantity})
	}
	if cart.VendorID == nil {
		vendorID := product.VendorID
		cart.VendorID = &vendorID
	}

	if err := s.cartRepo.SaveCart(ctx, cart); err != nil {
		logger.Error().Err(err).Msgf("Error saving cart for user %d", userID)
		return nil, err
	}

	return s.cartRepo.GetCart(ctx, userID, product.Category)
}

// GetCart reports not-found both when no cart row exists and when the cart
// has zero items; callers treat the two identically.
func (s *CartService) GetCart(ctx context.Context, userID int, category string) (*entity.Cart, error) {
	cart, err := s.cartRepo.GetCart(ctx, userID, category)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, repository.ErrNotFound
	}

	return cart, nil
}

func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, productID, quantity int, category string) (*entity.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.cartRepo.GetCart(ctx, userID, category)
	if err != nil {
		return nil, err
	}

	inv, err := s.inventory.GetInventoryByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > inv.QuantityAvailable {
		return nil, repository.ErrInsufficientStock
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, ErrItemNotInCart
	}

	if err := s.cartRepo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}

	return s.cartRepo.GetCart(ctx, userID, category)
}

// RemoveItem drops the line; removing the last item unbinds the vendor so a
// later add may pick any vendor again.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID int, category string) (*entity.Cart, error) {
	cart, err := s.cartRepo.GetCart(ctx, userID, category)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	removed := false
	for _, item := range cart.Items {
		if item.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return nil, ErrItemNotInCart
	}

	cart.Items = kept
	if len(cart.Items) == 0 {
		cart.VendorID = nil
	}

	if err := s.cartRepo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}

	return s.cartRepo.GetCart(ctx, userID, category)
}

func (s *CartService) ClearCart(ctx context.Context, userID int, category string) error {
	cart, err := s.cartRepo.GetCart(ctx, userID, category)
	if err != nil {
		return err
	}
	return s.cartRepo.ClearCart(ctx, cart.ID)
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/segmentio/kafka-go"

	"instacampus/internal/entity"
	"instacampus/internal/repository"
)

type OrderRepository interface {
	CreateOrderFromCart(ctx context.Context, order *entity.Order, cartID int) (*entity.Order, error)
	GetOrderByID(ctx context.Context, id int) (*entity.Order, error)
	ListOrdersByUser(ctx context.Context, userID int) ([]*entity.Order, error)
	ListVendorOrders(ctx context.Context, vendorID int, activeOnly bool) ([]*entity.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status string) error
	CancelOrder(ctx context.Context, order *entity.Order) error
}

// OrderService drives the order lifecycle: creation from a cart snapshot,
// customer cancellation and vendor status transitions.
type OrderService struct {
	orderRepo   OrderRepository
	cartRepo    CartRepository
	productRepo ProductRepository
	inventory   InventoryReader
	orderWriter *kafka.Writer
}

func NewOrderService(orderRepo OrderRepository, cartRepo CartRepository, productRepo ProductRepository, inventory InventoryReader, orderWriter *kafka.Writer) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		inventory:   inventory,
		orderWriter: orderWriter,
	}
}

// CreateFromCart snapshots the cart into an order. Each line's price is read
// once here and frozen into the order. Inventory deduction, order insert and
// cart clearing commit together in the repository transaction.
func (s *OrderService) CreateFromCart(ctx context.Context, userID int, category string) (*entity.Order, error) {
	cart, err := s.cartRepo.GetCart(ctx, userID, category)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	order := &entity.Order{
		UserID:        userID,
		OrderStatus:   entity.StatusPending,
		PaymentStatus: entity.StatusPending,
	}

	for _, line := range cart.Items {
		product, err := s.productRepo.GetProductByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}

		inv, err := s.inventory.GetInventoryByProductID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if inv.QuantityAvailable < line.Quantity {
			return nil, repository.ErrInsufficientStock
		}

		order.Items = append(order.Items, entity.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
		order.TotalAmount += product.Price * float64(line.Quantity)
	}

	created, err := s.orderRepo.CreateOrderFromCart(ctx, order, cart.ID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error creating order for user %d", userID)
		return nil, err
	}

	s.publishOrderEvent(ctx, created, "created")
	return created, nil
}

// Cancel lets the placing customer cancel an order that is not yet ready,
// completed or already cancelled. Item quantities flow back to inventory.
func (s *OrderService) Cancel(ctx context.Context, orderID, userID int) (*entity.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotOwner
	}
	switch order.OrderStatus {
	case entity.StatusReady, entity.StatusCompleted, entity.StatusCancelled:
		return nil, ErrOrderFinalized
	}

	if err := s.orderRepo.CancelOrder(ctx, order); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrOrderFinalized
		}
		logger.Error().Err(err).Msgf("Error cancelling order %d", orderID)
		return nil, err
	}

	order.OrderStatus = entity.StatusCancelled
	s.publishOrderEvent(ctx, order, "cancelled")
	return order, nil
}

// VendorUpdateStatus applies a vendor-side transition. The vendor's category
// comes from the explicit role map and every item in the order must belong to
// it; completed and cancelled are terminal.
func (s *OrderService) VendorUpdateStatus(ctx context.Context, orderID int, newStatus string, vendor *entity.User) (*entity.Order, error) {
	if !entity.ValidOrderStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	category, ok := entity.VendorRoleCategory[vendor.Role]
	if !ok {
		return nil, ErrNotOwner
	}

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	for _, item := range order.Items {
		if item.Category != category {
			return nil, ErrNotOwner
		}
	}

	if entity.TerminalOrderStatus(order.OrderStatus) {
		return nil, ErrTerminalStatus
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, newStatus); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrTerminalStatus
		}
		logger.Error().Err(err).Msgf("Error updating status of order %d", orderID)
		return nil, err
	}

	order.OrderStatus = newStatus
	s.publishOrderEvent(ctx, order, "status")
	return order, nil
}

func (s *OrderService) GetOrderForUser(ctx context.Context, orderID, userID int) (*entity.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotOwner
	}

	return order, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID int) ([]*entity.Order, error) {
	return s.orderRepo.ListOrdersByUser(ctx, userID)
}

// ListVendorOrders returns the vendor's view of orders: items filtered to the
// vendor, orders without a matching item dropped. The recent variant keeps
// only active statuses.
func (s *OrderService) ListVendorOrders(ctx context.Context, vendorID int, recentOnly bool) ([]*entity.Order, error) {
	orders, err := s.orderRepo.ListVendorOrders(ctx, vendorID, recentOnly)
	if err != nil {
		return nil, err
	}

	kept := orders[:0]
	for _, order := range orders {
		if len(order.Items) > 0 {
			kept = append(kept, order)
		}
	}

	return kept, nil
}

func (s *OrderService) publishOrderEvent(ctx context.Context, order *entity.Order, key string) {
	if os.Getenv("ENV") == "test" || s.orderWriter == nil {
		return
	}

	data, err := json.Marshal(order)
	if err != nil {
		logger.Error().Err(err).Msg("Error marshalling order event")
		return
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order.%s.%d", key, order.ID)),
		Value: data,
	}
	if err := s.orderWriter.WriteMessages(ctx, msg); err != nil {
		logger.Error().Err(err).Msgf("Error publishing order event for order %d", order.ID)
	}
}

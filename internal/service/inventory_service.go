package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/segmentio/kafka-go"

	"instacampus/internal/entity"
)

type InventoryRepository interface {
	GetInventoryByID(ctx context.Context, id int) (*entity.Inventory, error)
	GetInventoryByProductID(ctx context.Context, productID int) (*entity.Inventory, error)
	Restock(ctx context.Context, id, quantity int) error
	Deduct(ctx context.Context, id, quantity int) error
	ListVendorInventory(ctx context.Context, vendorID int) ([]*entity.InventoryItem, error)
}

type InventoryLogReader interface {
	ListLogsByProduct(ctx context.Context, productID int) ([]*entity.InventoryLog, error)
}

// InventoryService is the vendor-facing stock ledger. Mutations are scoped to
// the calling vendor's own products and publish a change event for the audit
// log consumer; the history read serves the log back.
type InventoryService struct {
	inventoryRepo InventoryRepository
	productRepo   ProductRepository
	logRepo       InventoryLogReader
	invWriter     *kafka.Writer
}

func NewInventoryService(inventoryRepo InventoryRepository, productRepo ProductRepository, logRepo InventoryLogReader, invWriter *kafka.Writer) *InventoryService {
	return &InventoryService{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		logRepo:       logRepo,
		invWriter:     invWriter,
	}
}

func (s *InventoryService) Restock(ctx context.Context, vendorID, inventoryID, quantity int) (*entity.Inventory, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	inv, err := s.checkOwnership(ctx, vendorID, inventoryID)
	if err != nil {
		return nil, err
	}

	if err := s.inventoryRepo.Restock(ctx, inventoryID, quantity); err != nil {
		logger.Error().Err(err).Msgf("Error restocking inventory %d", inventoryID)
		return nil, err
	}

	s.publishInventoryEvent(ctx, &entity.InventoryEvent{
		ProductID: inv.ProductID,
		Delta:     quantity,
		Reason:    entity.InventoryReasonRestock,
		ActorID:   vendorID,
	})

	return s.inventoryRepo.GetInventoryByID(ctx, inventoryID)
}

func (s *InventoryService) Deduct(ctx context.Context, vendorID, inventoryID, quantity int) (*entity.Inventory, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	inv, err := s.checkOwnership(ctx, vendorID, inventoryID)
	if err != nil {
		return nil, err
	}

	if err := s.inventoryRepo.Deduct(ctx, inventoryID, quantity); err != nil {
		return nil, err
	}

	s.publishInventoryEvent(ctx, &entity.InventoryEvent{
		ProductID: inv.ProductID,
		Delta:     -quantity,
		Reason:    entity.InventoryReasonDeduct,
		ActorID:   vendorID,
	})

	return s.inventoryRepo.GetInventoryByID(ctx, inventoryID)
}

func (s *InventoryService) ListVendorInventory(ctx context.Context, vendorID int) ([]*entity.InventoryItem, error) {
	return s.inventoryRepo.ListVendorInventory(ctx, vendorID)
}

// StockHistory returns the audit log of one of the vendor's own products,
// newest first.
func (s *InventoryService) StockHistory(ctx context.Context, vendorID, productID int) ([]*entity.InventoryLog, error) {
	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.VendorID != vendorID {
		return nil, ErrNotOwner
	}

	return s.logRepo.ListLogsByProduct(ctx, productID)
}

func (s *InventoryService) checkOwnership(ctx context.Context, vendorID, inventoryID int) (*entity.Inventory, error) {
	inv, err := s.inventoryRepo.GetInventoryByID(ctx, inventoryID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetProductByID(ctx, inv.ProductID)
	if err != nil {
		return nil, err
	}
	if product.VendorID != vendorID {
		return nil, ErrNotOwner
	}

	return inv, nil
}

func (s *InventoryService) publishInventoryEvent(ctx context.Context, event *entity.InventoryEvent) {
	if os.Getenv("ENV") == "test" || s.invWriter == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("Error marshalling inventory event")
		return
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("inventory.%s.%d", event.Reason, event.ProductID)),
		Value: data,
	}
	if err := s.invWriter.WriteMessages(ctx, msg); err != nil {
		logger.Error().Err(err).Msgf("Error publishing inventory event for product %d", event.ProductID)
	}
}

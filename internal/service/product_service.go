package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"

	"instacampus/internal/entity"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *entity.Product, initialStock int) (*entity.Product, error)
	GetProductByID(ctx context.Context, id int) (*entity.Product, error)
	UpdateProduct(ctx context.Context, product *entity.Product) error
	DeleteProduct(ctx context.Context, id int) error
	ListProducts(ctx context.Context, category string) ([]*entity.Product, error)
	ListProductsByVendor(ctx context.Context, vendorID int) ([]*entity.Product, error)
}

// ProductService is the vendor-facing catalog. Single-product reads go
// through the redis cache; writes invalidate it.
type ProductService struct {
	productRepo ProductRepository
	rdb         *redis.Client
}

func NewProductService(productRepo ProductRepository, rdb *redis.Client) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		rdb:         rdb,
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, product *entity.Product, initialStock int) (*entity.Product, error) {
	if !entity.ValidCategory(product.Category) {
		return nil, fmt.Errorf("unknown category %q", product.Category)
	}
	if product.Price < 1 {
		return nil, fmt.Errorf("price must be at least 1")
	}
	if initialStock < 0 {
		return nil, fmt.Errorf("initial stock cannot be negative")
	}

	created, err := s.productRepo.CreateProduct(ctx, product, initialStock)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating product")
		return nil, err
	}

	return created, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id int) (*entity.Product, error) {
	key := productKey(id)
	if os.Getenv("ENV") != "test" {
		cached, err := s.rdb.Get(ctx, key).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			logger.Error().Err(err).Msgf("Error getting product %d from cache", id)
		}
		if cached != "" {
			product := &entity.Product{}
			if err := json.Unmarshal([]byte(cached), product); err == nil {
				return product, nil
			}
		}
	}

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if os.Getenv("ENV") != "test" {
		data, err := json.Marshal(product)
		if err == nil {
			if err := s.rdb.Set(ctx, key, data, 0).Err(); err != nil {
				logger.Error().Err(err).Msgf("Error setting product %d in cache", id)
			}
		}
	}

	return product, nil
}

// UpdateProduct applies vendor edits. Category is immutable, it binds the
// product to carts downstream.
func (s *ProductService) UpdateProduct(ctx context.Context, vendorID int, product *entity.Product) (*entity.Product, error) {
	existing, err := s.productRepo.GetProductByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	if existing.VendorID != vendorID {
		return nil, ErrNotOwner
	}
	if product.Price < 1 {
		return nil, fmt.Errorf("price must be at least 1")
	}

	existing.Name = product.Name
	existing.Description = product.Description
	existing.Price = product.Price
	existing.ImgURL = product.ImgURL
	existing.LowStockThreshold = product.LowStockThreshold

	if err := s.productRepo.UpdateProduct(ctx, existing); err != nil {
		logger.Error().Err(err).Msgf("Error updating product %d", product.ID)
		return nil, err
	}

	s.invalidate(ctx, product.ID)
	return existing, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, vendorID, productID int) error {
	existing, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		return err
	}
	if existing.VendorID != vendorID {
		return ErrNotOwner
	}

	if err := s.productRepo.DeleteProduct(ctx, productID); err != nil {
		return err
	}

	s.invalidate(ctx, productID)
	return nil
}

func (s *ProductService) ListProducts(ctx context.Context, category string) ([]*entity.Product, error) {
	if category != "" && !entity.ValidCategory(category) {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	return s.productRepo.ListProducts(ctx, category)
}

func (s *ProductService) ListVendorProducts(ctx context.Context, vendorID int) ([]*entity.Product, error) {
	return s.productRepo.ListProductsByVendor(ctx, vendorID)
}

func (s *ProductService) invalidate(ctx context.Context, productID int) {
	if os.Getenv("ENV") == "test" {
		return
	}
	if err := s.rdb.Del(ctx, productKey(productID)).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error deleting product %d from cache", productID)
	}
}

func productKey(id int) string {
	return fmt.Sprintf("product:%d", id)
}

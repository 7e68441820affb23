package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"instacampus/internal/entity"
)

func newProductFixture(t *testing.T) (*ProductService, *fakeProductRepo) {
	t.Setenv("ENV", "test")
	products := newFakeProductRepo()
	return NewProductService(products, nil), products
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newProductFixture(t)

	_, err := svc.CreateProduct(context.Background(), &entity.Product{Category: "groceries", Price: 10}, 0)
	require.Error(t, err)
	_, err = svc.CreateProduct(context.Background(), &entity.Product{Category: entity.CategoryCanteen, Price: 0}, 0)
	require.Error(t, err)
	_, err = svc.CreateProduct(context.Background(), &entity.Product{Category: entity.CategoryCanteen, Price: 10}, -1)
	require.Error(t, err)

	created, err := svc.CreateProduct(context.Background(), &entity.Product{Category: entity.CategoryCanteen, Price: 10}, 5)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
}

func TestUpdateProductOwnership(t *testing.T) {
	svc, products := newProductFixture(t)
	created, err := products.CreateProduct(context.Background(), &entity.Product{
		VendorID: 10, Name: "nasi goreng", Category: entity.CategoryCanteen, Price: 15,
	}, 5)
	require.NoError(t, err)

	_, err = svc.UpdateProduct(context.Background(), 99, &entity.Product{ID: created.ID, Name: "taken over", Price: 20})
	require.ErrorIs(t, err, ErrNotOwner)

	updated, err := svc.UpdateProduct(context.Background(), 10, &entity.Product{ID: created.ID, Name: "nasi goreng spesial", Price: 20})
	require.NoError(t, err)
	require.Equal(t, "nasi goreng spesial", updated.Name)
	require.Equal(t, entity.CategoryCanteen, updated.Category)
}

func TestDeleteProductOwnership(t *testing.T) {
	svc, products := newProductFixture(t)
	created, err := products.CreateProduct(context.Background(), &entity.Product{
		VendorID: 10, Category: entity.CategoryCanteen, Price: 15,
	}, 5)
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeleteProduct(context.Background(), 99, created.ID), ErrNotOwner)
	require.NoError(t, svc.DeleteProduct(context.Background(), 10, created.ID))
}

func TestListVendorProducts(t *testing.T) {
	svc, products := newProductFixture(t)
	_, err := products.CreateProduct(context.Background(), &entity.Product{
		VendorID: 10, Name: "nasi goreng", Category: entity.CategoryCanteen, Price: 15,
	}, 5)
	require.NoError(t, err)
	_, err = products.CreateProduct(context.Background(), &entity.Product{
		VendorID: 20, Name: "notebook", Category: entity.CategoryStationary, Price: 3,
	}, 5)
	require.NoError(t, err)

	mine, err := svc.ListVendorProducts(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "nasi goreng", mine[0].Name)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"instacampus/internal/entity"
	"instacampus/internal/repository"
)

type inventoryFixture struct {
	svc       *InventoryService
	products  *fakeProductRepo
	inventory *fakeInventoryRepo
	logs      *fakeLogRepo
}

func newInventoryFixture(t *testing.T) *inventoryFixture {
	t.Setenv("ENV", "test")
	products := newFakeProductRepo()
	inventory := newFakeInventoryRepo(products)
	logs := newFakeLogRepo()
	return &inventoryFixture{
		svc:       NewInventoryService(inventory, products, logs, nil),
		products:  products,
		inventory: inventory,
		logs:      logs,
	}
}

func (f *inventoryFixture) addProduct(t *testing.T, vendorID int, stock int) (*entity.Product, *entity.Inventory) {
	t.Helper()
	product, err := f.products.CreateProduct(context.Background(), &entity.Product{
		VendorID: vendorID,
		Name:     "item",
		Category: entity.CategoryCanteen,
		Price:    25,
	}, stock)
	require.NoError(t, err)
	inv := f.inventory.add(product.ID, stock)
	return product, inv
}

func TestRestock(t *testing.T) {
	f := newInventoryFixture(t)
	_, inv := f.addProduct(t, 10, 3)

	got, err := f.svc.Restock(context.Background(), 10, inv.ID, 7)
	require.NoError(t, err)
	require.Equal(t, 10, got.QuantityAvailable)
	require.False(t, got.LastStockedAt.IsZero())
}

func TestDeduct(t *testing.T) {
	f := newInventoryFixture(t)
	_, inv := f.addProduct(t, 10, 5)

	got, err := f.svc.Deduct(context.Background(), 10, inv.ID, 3)
	require.NoError(t, err)
	require.Equal(t, 2, got.QuantityAvailable)
}

func TestDeductBelowZero(t *testing.T) {
	f := newInventoryFixture(t)
	_, inv := f.addProduct(t, 10, 2)

	_, err := f.svc.Deduct(context.Background(), 10, inv.ID, 3)
	require.ErrorIs(t, err, repository.ErrInsufficientStock)

	got, err := f.inventory.GetInventoryByID(context.Background(), inv.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.QuantityAvailable)
}

func TestInventoryOwnership(t *testing.T) {
	f := newInventoryFixture(t)
	_, inv := f.addProduct(t, 10, 5)

	_, err := f.svc.Restock(context.Background(), 99, inv.ID, 1)
	require.ErrorIs(t, err, ErrNotOwner)
	_, err = f.svc.Deduct(context.Background(), 99, inv.ID, 1)
	require.ErrorIs(t, err, ErrNotOwner)

	got, err := f.inventory.GetInventoryByID(context.Background(), inv.ID)
	require.NoError(t, err)
	require.Equal(t, 5, got.QuantityAvailable)
}

func TestInventoryQuantityValidation(t *testing.T) {
	f := newInventoryFixture(t)
	_, inv := f.addProduct(t, 10, 5)

	for _, quantity := range []int{0, -4} {
		_, err := f.svc.Restock(context.Background(), 10, inv.ID, quantity)
		require.ErrorIs(t, err, ErrInvalidQuantity)
		_, err = f.svc.Deduct(context.Background(), 10, inv.ID, quantity)
		require.ErrorIs(t, err, ErrInvalidQuantity)
	}
}

func TestInventoryUnknownID(t *testing.T) {
	f := newInventoryFixture(t)

	_, err := f.svc.Restock(context.Background(), 10, 404, 1)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStockHistory(t *testing.T) {
	f := newInventoryFixture(t)
	mine, _ := f.addProduct(t, 10, 5)
	f.logs.append(mine.ID, 5, entity.InventoryReasonRestock, 10)
	f.logs.append(mine.ID, -2, entity.InventoryReasonOrderPlaced, 1)

	logs, err := f.svc.StockHistory(context.Background(), 10, mine.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, 5, logs[0].Delta)
	require.Equal(t, -2, logs[1].Delta)

	// another vendor cannot read it
	_, err = f.svc.StockHistory(context.Background(), 99, mine.ID)
	require.ErrorIs(t, err, ErrNotOwner)
}

func TestListVendorInventory(t *testing.T) {
	f := newInventoryFixture(t)
	mine, _ := f.addProduct(t, 10, 5)
	f.addProduct(t, 20, 3)

	items, err := f.svc.ListVendorInventory(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, mine.ID, items[0].ProductID)
	require.Equal(t, mine.Name, items[0].ProductName)
}

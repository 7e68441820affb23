package service

import (
	"context"
	"time"

	"instacampus/internal/entity"
	"instacampus/internal/repository"
)

// In-memory repository fakes. They copy values on the way in and out the way
// the SQL layer does, so a service mutating a loaded struct cannot leak state
// back without an explicit save.

type cartKey struct {
	userID   int
	category string
}

type fakeCartRepo struct {
	carts  map[cartKey]*entity.Cart
	nextID int
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[cartKey]*entity.Cart{}}
}

func copyCart(cart *entity.Cart) *entity.Cart {
	dup := *cart
	dup.Items = append([]entity.CartItem(nil), cart.Items...)
	if cart.VendorID != nil {
		v := *cart.VendorID
		dup.VendorID = &v
	}
	return &dup
}

func (r *fakeCartRepo) GetCart(ctx context.Context, userID int, category string) (*entity.Cart, error) {
	cart, ok := r.carts[cartKey{userID, category}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyCart(cart), nil
}

func (r *fakeCartRepo) SaveCart(ctx context.Context, cart *entity.Cart) error {
	if cart.ID == 0 {
		r.nextID++
		cart.ID = r.nextID
	}
	r.carts[cartKey{cart.UserID, cart.Category}] = copyCart(cart)
	return nil
}

func (r *fakeCartRepo) ClearCart(ctx context.Context, cartID int) error {
	for _, cart := range r.carts {
		if cart.ID == cartID {
			cart.Items = nil
			cart.VendorID = nil
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeProductRepo struct {
	products map[int]*entity.Product
	nextID   int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[int]*entity.Product{}}
}

func (r *fakeProductRepo) CreateProduct(ctx context.Context, product *entity.Product, initialStock int) (*entity.Product, error) {
	r.nextID++
	product.ID = r.nextID
	dup := *product
	r.products[product.ID] = &dup
	return product, nil
}

func (r *fakeProductRepo) GetProductByID(ctx context.Context, id int) (*entity.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	dup := *product
	return &dup, nil
}

func (r *fakeProductRepo) UpdateProduct(ctx context.Context, product *entity.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return repository.ErrNotFound
	}
	dup := *product
	r.products[product.ID] = &dup
	return nil
}

func (r *fakeProductRepo) DeleteProduct(ctx context.Context, id int) error {
	if _, ok := r.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) ListProducts(ctx context.Context, category string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, product := range r.products {
		if category == "" || product.Category == category {
			dup := *product
			out = append(out, &dup)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ListProductsByVendor(ctx context.Context, vendorID int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, product := range r.products {
		if product.VendorID == vendorID {
			dup := *product
			out = append(out, &dup)
		}
	}
	return out, nil
}

type fakeInventoryRepo struct {
	byProduct map[int]*entity.Inventory
	products  *fakeProductRepo
	nextID    int
}

func newFakeInventoryRepo(products *fakeProductRepo) *fakeInventoryRepo {
	return &fakeInventoryRepo{byProduct: map[int]*entity.Inventory{}, products: products}
}

func (r *fakeInventoryRepo) add(productID, quantity int) *entity.Inventory {
	r.nextID++
	inv := &entity.Inventory{ID: r.nextID, ProductID: productID, QuantityAvailable: quantity}
	r.byProduct[productID] = inv
	return inv
}

func (r *fakeInventoryRepo) GetInventoryByID(ctx context.Context, id int) (*entity.Inventory, error) {
	for _, inv := range r.byProduct {
		if inv.ID == id {
			dup := *inv
			return &dup, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeInventoryRepo) GetInventoryByProductID(ctx context.Context, productID int) (*entity.Inventory, error) {
	inv, ok := r.byProduct[productID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	dup := *inv
	return &dup, nil
}

func (r *fakeInventoryRepo) Restock(ctx context.Context, id, quantity int) error {
	for _, inv := range r.byProduct {
		if inv.ID == id {
			inv.QuantityAvailable += quantity
			inv.LastStockedAt = time.Now()
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeInventoryRepo) Deduct(ctx context.Context, id, quantity int) error {
	for _, inv := range r.byProduct {
		if inv.ID == id {
			if inv.QuantityAvailable < quantity {
				return repository.ErrInsufficientStock
			}
			inv.QuantityAvailable -= quantity
			inv.LastStockedAt = time.Now()
			return nil
		}
	}
	return repository.ErrInsufficientStock
}

func (r *fakeInventoryRepo) ListVendorInventory(ctx context.Context, vendorID int) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	for _, inv := range r.byProduct {
		product, ok := r.products.products[inv.ProductID]
		if !ok || product.VendorID != vendorID {
			continue
		}
		out = append(out, &entity.InventoryItem{
			Inventory:   *inv,
			ProductName: product.Name,
			Category:    product.Category,
			Price:       product.Price,
		})
	}
	return out, nil
}

type fakeOrderRepo struct {
	orders    map[int]*entity.Order
	inventory *fakeInventoryRepo
	carts     *fakeCartRepo
	products  *fakeProductRepo
	nextID    int
}

func newFakeOrderRepo(inventory *fakeInventoryRepo, carts *fakeCartRepo, products *fakeProductRepo) *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:    map[int]*entity.Order{},
		inventory: inventory,
		carts:     carts,
		products:  products,
	}
}

func copyOrder(order *entity.Order) *entity.Order {
	dup := *order
	dup.Items = append([]entity.OrderItem(nil), order.Items...)
	return &dup
}

// CreateOrderFromCart mimics the SQL transaction: all stock checks pass or
// nothing is applied.
func (r *fakeOrderRepo) CreateOrderFromCart(ctx context.Context, order *entity.Order, cartID int) (*entity.Order, error) {
	for _, item := range order.Items {
		inv, ok := r.inventory.byProduct[item.ProductID]
		if !ok || inv.QuantityAvailable < item.Quantity {
			return nil, repository.ErrInsufficientStock
		}
	}
	for _, item := range order.Items {
		r.inventory.byProduct[item.ProductID].QuantityAvailable -= item.Quantity
	}

	r.nextID++
	order.ID = r.nextID
	r.orders[order.ID] = copyOrder(order)
	r.carts.ClearCart(ctx, cartID)
	return order, nil
}

func (r *fakeOrderRepo) GetOrderByID(ctx context.Context, id int) (*entity.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	dup := copyOrder(order)
	for i := range dup.Items {
		if product, ok := r.products.products[dup.Items[i].ProductID]; ok {
			dup.Items[i].ProductName = product.Name
			dup.Items[i].Category = product.Category
			dup.Items[i].VendorID = product.VendorID
		}
	}
	return dup, nil
}

func (r *fakeOrderRepo) ListOrdersByUser(ctx context.Context, userID int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			out = append(out, copyOrder(order))
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListVendorOrders(ctx context.Context, vendorID int, activeOnly bool) ([]*entity.Order, error) {
	var out []*entity.Order
	for id := range r.orders {
		order, _ := r.GetOrderByID(ctx, id)
		if activeOnly && entity.TerminalOrderStatus(order.OrderStatus) {
			continue
		}
		var items []entity.OrderItem
		for _, item := range order.Items {
			if item.VendorID == vendorID {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			continue
		}
		order.Items = items
		out = append(out, order)
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateOrderStatus(ctx context.Context, id int, status string) error {
	order, ok := r.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	if entity.TerminalOrderStatus(order.OrderStatus) {
		return repository.ErrStaleStatus
	}
	order.OrderStatus = status
	return nil
}

// CancelOrder applies the same stored-status guard as the SQL WHERE clause:
// a second cancel, or one racing a ready/completed transition, restores
// nothing.
func (r *fakeOrderRepo) CancelOrder(ctx context.Context, order *entity.Order) error {
	stored, ok := r.orders[order.ID]
	if !ok {
		return repository.ErrNotFound
	}
	switch stored.OrderStatus {
	case entity.StatusReady, entity.StatusCompleted, entity.StatusCancelled:
		return repository.ErrStaleStatus
	}
	stored.OrderStatus = entity.StatusCancelled
	for _, item := range stored.Items {
		if inv, ok := r.inventory.byProduct[item.ProductID]; ok {
			inv.QuantityAvailable += item.Quantity
		}
	}
	return nil
}

type fakeLogRepo struct {
	logs   map[int][]*entity.InventoryLog
	nextID int
}

func newFakeLogRepo() *fakeLogRepo {
	return &fakeLogRepo{logs: map[int][]*entity.InventoryLog{}}
}

func (r *fakeLogRepo) append(productID, delta int, reason string, actorID int) {
	r.nextID++
	r.logs[productID] = append(r.logs[productID], &entity.InventoryLog{
		ID:        r.nextID,
		ProductID: productID,
		Delta:     delta,
		Reason:    reason,
		ActorID:   actorID,
		CreatedAt: time.Now(),
	})
}

func (r *fakeLogRepo) ListLogsByProduct(ctx context.Context, productID int) ([]*entity.InventoryLog, error) {
	out := append([]*entity.InventoryLog(nil), r.logs[productID]...)
	return out, nil
}

type fakeUserRepo struct {
	users  map[int]*entity.User
	codes  *fakeCodeRepo
	nextID int
}

func newFakeUserRepo(codes *fakeCodeRepo) *fakeUserRepo {
	return &fakeUserRepo{users: map[int]*entity.User{}, codes: codes}
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, repository.ErrDuplicateEmail
		}
	}
	r.nextID++
	user.ID = r.nextID
	dup := *user
	r.users[user.ID] = &dup
	return user, nil
}

// CreateVendorUser mimics the SQL transaction: either the account lands and
// the code is consumed, or neither happens.
func (r *fakeUserRepo) CreateVendorUser(ctx context.Context, user *entity.User, codeID int) (*entity.User, error) {
	if !r.codes.consumable(codeID) {
		return nil, repository.ErrNotFound
	}
	created, err := r.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	r.codes.consume(codeID, created.ID)
	return created, nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	dup := *user
	return &dup, nil
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			dup := *user
			return &dup, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) UpdateUser(ctx context.Context, user *entity.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	dup := *user
	r.users[user.ID] = &dup
	return nil
}

func (r *fakeUserRepo) ListUsersByRole(ctx context.Context, role string) ([]*entity.User, error) {
	var out []*entity.User
	for _, user := range r.users {
		if user.Role == role {
			dup := *user
			out = append(out, &dup)
		}
	}
	return out, nil
}

type fakeCodeRepo struct {
	codes  map[int]*entity.VendorCode
	nextID int
}

func newFakeCodeRepo() *fakeCodeRepo {
	return &fakeCodeRepo{codes: map[int]*entity.VendorCode{}}
}

func (r *fakeCodeRepo) CreateCode(ctx context.Context, code *entity.VendorCode) (*entity.VendorCode, error) {
	r.nextID++
	code.ID = r.nextID
	code.IsActive = true
	dup := *code
	r.codes[code.ID] = &dup
	return code, nil
}

func (r *fakeCodeRepo) GetCode(ctx context.Context, code string) (*entity.VendorCode, error) {
	for _, vc := range r.codes {
		if vc.Code == code {
			dup := *vc
			return &dup, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCodeRepo) consumable(codeID int) bool {
	vc, ok := r.codes[codeID]
	return ok && !vc.Used && vc.IsActive && time.Now().Before(vc.ExpiresAt)
}

func (r *fakeCodeRepo) consume(codeID, userID int) {
	vc := r.codes[codeID]
	now := time.Now()
	vc.Used = true
	vc.UsedBy = &userID
	vc.UsedAt = &now
	vc.IsActive = false
}

package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	catalogdomain "github.com/wyfcoding/autopartsmall/internal/catalog/domain"
	"github.com/wyfcoding/autopartsmall/internal/cart/domain"
)

type fakeCartRepo struct {
	carts  map[uint]*domain.Cart
	nextID uint
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[uint]*domain.Cart{}, nextID: 1}
}

func (r *fakeCartRepo) GetByUserID(ctx context.Context, userID uint) (*domain.Cart, error) {
	cart, ok := r.carts[userID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return cart, nil
}

func (r *fakeCartRepo) GetOrCreate(ctx context.Context, userID uint) (*domain.Cart, error) {
	if cart, ok := r.carts[userID]; ok {
		return cart, nil
	}
	cart := &domain.Cart{UserID: userID}
	cart.ID = r.nextID
	r.nextID++
	r.carts[userID] = cart
	return cart, nil
}

func (r *fakeCartRepo) Save(ctx context.Context, cart *domain.Cart) error {
	for i := range cart.Items {
		if cart.Items[i].ID == 0 {
			cart.Items[i].ID = r.nextID
			r.nextID++
		}
		cart.Items[i].CartID = cart.ID
	}
	r.carts[cart.UserID] = cart
	return nil
}

func (r *fakeCartRepo) SaveItem(ctx context.Context, item *domain.CartItem) error {
	return nil
}

func (r *fakeCartRepo) DeleteItem(ctx context.Context, cartID, itemID uint) error {
	for _, cart := range r.carts {
		if cart.ID != cartID {
			continue
		}
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
				return nil
			}
		}
	}
	return domain.ErrCartItemNotFound
}

func (r *fakeCartRepo) ClearItems(ctx context.Context, cartID uint) error {
	for _, cart := range r.carts {
		if cart.ID == cartID {
			cart.Items = nil
		}
	}
	return nil
}

func (r *fakeCartRepo) ReplaceItems(ctx context.Context, userID uint, items []domain.CartItem) (*domain.Cart, error) {
	cart, err := r.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Items = nil
	for i := range items {
		items[i].ID = r.nextID
		r.nextID++
		items[i].CartID = cart.ID
	}
	cart.Items = items
	return cart, nil
}

type fakeProducts struct {
	known map[uint]bool
}

func (p *fakeProducts) GetProduct(ctx context.Context, id uint) (*catalogdomain.Product, error) {
	if !p.known[id] {
		return nil, catalogdomain.ErrProductNotFound
	}
	product := &catalogdomain.Product{Name: "part", Price: decimal.RequireFromString("10.00"), Stock: 100}
	product.ID = id
	return product, nil
}

func newTestCartService() (*CartService, *fakeCartRepo) {
	repo := newFakeCartRepo()
	products := &fakeProducts{known: map[uint]bool{1: true, 2: true, 3: true}}
	return NewCartService(repo, products, nil), repo
}

func TestGetCartLazy(t *testing.T) {
	svc, repo := newTestCartService()

	cart, err := svc.GetCart(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if cart.UserID != 7 || !cart.Empty() {
		t.Errorf("expected empty cart for new user, got %+v", cart)
	}
	// 懒创建：纯读取不落库
	if len(repo.carts) != 0 {
		t.Error("GetCart persisted a cart")
	}
}

func TestAddItemIncrementsExisting(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, 7, 1, 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	cart, err := svc.AddItem(ctx, 7, 1, 3)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Errorf("quantity = %d, want 5", cart.Items[0].Quantity)
	}
}

func TestAddItemValidation(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, 7, 1, 0); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := svc.AddItem(ctx, 7, 99, 1); !errors.Is(err, catalogdomain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestUpdateQuantityOverwrites(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, 7, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	itemID := cart.Items[0].ID

	updated, err := svc.UpdateQuantity(ctx, 7, itemID, 9)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if updated.Items[0].Quantity != 9 {
		t.Errorf("quantity = %d, want 9 (overwrite, not increment)", updated.Items[0].Quantity)
	}
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, 7, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	itemID := cart.Items[0].ID

	updated, err := svc.UpdateQuantity(ctx, 7, itemID, 0)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if !updated.Empty() {
		t.Errorf("qty 0 should remove item, got %+v", updated.Items)
	}
}

func TestUpdateQuantityUnknownItem(t *testing.T) {
	svc, _ := newTestCartService()
	if _, err := svc.UpdateQuantity(context.Background(), 7, 99, 1); !errors.Is(err, domain.ErrCartItemNotFound) {
		t.Errorf("expected ErrCartItemNotFound, got %v", err)
	}
}

func TestRemoveItem(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, 7, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	itemID := cart.Items[0].ID

	updated, err := svc.RemoveItem(ctx, 7, itemID)
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if !updated.Empty() {
		t.Errorf("item not removed: %+v", updated.Items)
	}

	if _, err := svc.RemoveItem(ctx, 7, itemID); !errors.Is(err, domain.ErrCartItemNotFound) {
		t.Errorf("expected ErrCartItemNotFound, got %v", err)
	}
}

func TestClear(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, 7, 1, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddItem(ctx, 7, 2, 1); err != nil {
		t.Fatal(err)
	}

	if err := svc.Clear(ctx, 7); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	cart, _ := svc.GetCart(ctx, 7)
	if !cart.Empty() {
		t.Errorf("cart not cleared: %+v", cart.Items)
	}

	// 清空不存在的购物车是幂等的
	if err := svc.Clear(ctx, 8); err != nil {
		t.Errorf("Clear on missing cart: %v", err)
	}
}

func TestSyncReplacesServerCart(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, 7, 1, 5); err != nil {
		t.Fatal(err)
	}

	snapshot := []SyncItem{
		{ProductID: 2, Quantity: 1},
		{ProductID: 3, Quantity: 4},
	}
	cart, err := svc.Sync(ctx, 7, snapshot)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 items after sync, got %d", len(cart.Items))
	}
	for _, item := range cart.Items {
		if item.ProductID == 1 {
			t.Error("stale server item survived sync")
		}
	}

	// 幂等：重复同步同一快照结果不变
	again, err := svc.Sync(ctx, 7, snapshot)
	if err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	if len(again.Items) != 2 {
		t.Errorf("sync not idempotent, items=%d", len(again.Items))
	}
}

func TestSyncMergesDuplicateProducts(t *testing.T) {
	svc, _ := newTestCartService()

	cart, err := svc.Sync(context.Background(), 7, []SyncItem{
		{ProductID: 1, Quantity: 2},
		{ProductID: 1, Quantity: 3},
	})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 5 {
		t.Errorf("duplicate products not merged: %+v", cart.Items)
	}
}

func TestSyncFailsWholeCallOnBadItem(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, 7, 1, 1); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Sync(ctx, 7, []SyncItem{
		{ProductID: 2, Quantity: 1},
		{ProductID: 99, Quantity: 1}, // 不存在的商品
	})
	if !errors.Is(err, catalogdomain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	// 失败调用不得部分生效
	cart, _ := svc.GetCart(ctx, 7)
	if len(cart.Items) != 1 || cart.Items[0].ProductID != 1 {
		t.Errorf("failed sync mutated cart: %+v", cart.Items)
	}

	if _, err := svc.Sync(ctx, 7, []SyncItem{{ProductID: 2, Quantity: 0}}); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestSyncEmptySnapshotClearsCart(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, 7, 1, 2); err != nil {
		t.Fatal(err)
	}
	cart, err := svc.Sync(ctx, 7, nil)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if !cart.Empty() {
		t.Errorf("empty snapshot should clear cart: %+v", cart.Items)
	}
}

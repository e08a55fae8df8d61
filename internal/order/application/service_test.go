package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	addressdomain "github.com/wyfcoding/autopartsmall/internal/address/domain"
	"github.com/wyfcoding/autopartsmall/internal/order/domain"
	"github.com/wyfcoding/autopartsmall/pkg/utils"
)

// fakeCheckoutStore 内存结算存储，语义与 MySQL 实现一致：
// 单入口互斥，购物车内容被一次性原子消费。
type fakeCheckoutStore struct {
	mu        sync.Mutex
	lines     []domain.CheckoutLine
	orders    []*domain.Order
	publisher domain.EventPublisher
}

func (s *fakeCheckoutStore) Checkout(ctx context.Context, userID uint, build func(lines []domain.CheckoutLine) (*domain.Order, error)) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := build(s.lines)
	if err != nil {
		return nil, err
	}

	order.ID = uint(len(s.orders) + 1)
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	s.orders = append(s.orders, order)
	s.lines = nil

	event := domain.OrderCreatedEvent{
		OrderID:       order.ID,
		OrderNo:       order.OrderNo,
		UserID:        order.UserID,
		CustomerEmail: order.CustomerEmail,
		Total:         order.Total.StringFixed(2),
		ItemCount:     len(order.Items),
	}
	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		return nil, err
	}
	return order, nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uint]*domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uint]*domain.Order{}}
}

func (r *fakeOrderRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *fakeOrderRepo) Save(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID == 0 {
		order.ID = uint(len(r.orders) + 1)
	}
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *order
	return &cp, nil
}

func (r *fakeOrderRepo) ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]*domain.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) ListAll(ctx context.Context, status domain.OrderStatus, offset, limit int) ([]*domain.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Order
	for _, o := range r.orders {
		if status == "" || o.Status == status {
			out = append(out, o)
		}
	}
	return out, int64(len(out)), nil
}

type fakePublisher struct {
	mu      sync.Mutex
	created []domain.OrderCreatedEvent
	changed []domain.OrderStatusChangedEvent
}

func (p *fakePublisher) PublishOrderCreated(ctx context.Context, event domain.OrderCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, event)
	return nil
}

func (p *fakePublisher) PublishOrderStatusChanged(ctx context.Context, event domain.OrderStatusChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changed = append(p.changed, event)
	return nil
}

type fakeAddressReader struct {
	addresses map[uint]*addressdomain.Address
}

func (r *fakeAddressReader) Get(ctx context.Context, userID, addressID uint) (*addressdomain.Address, error) {
	addr, ok := r.addresses[addressID]
	if !ok || addr.UserID != userID {
		return nil, addressdomain.ErrAddressNotFound
	}
	return addr, nil
}

func testLines() []domain.CheckoutLine {
	return []domain.CheckoutLine{
		{ProductID: 1, ProductName: "Brake pad set", Price: decimal.RequireFromString("49.90"), Quantity: 2},
		{ProductID: 2, ProductName: "Oil filter", Price: decimal.RequireFromString("9.95"), Quantity: 1},
		{ProductID: 3, ProductName: "Spark plug", Price: decimal.RequireFromString("4.05"), Quantity: 4},
	}
}

func newTestService(lines []domain.CheckoutLine) (*OrderService, *fakeCheckoutStore, *fakeOrderRepo, *fakePublisher) {
	publisher := &fakePublisher{}
	store := &fakeCheckoutStore{lines: lines, publisher: publisher}
	repo := newFakeOrderRepo()
	addresses := &fakeAddressReader{addresses: map[uint]*addressdomain.Address{
		10: {UserID: 7, Street: "1 Main St", City: "Springfield", State: "IL", Country: "US", PostalCode: "62701"},
	}}
	addresses.addresses[10].ID = 10
	svc := NewOrderService(store, repo, publisher, addresses, utils.NewSnowflakeID(1), nil)
	return svc, store, repo, publisher
}

func TestCreateFromCart(t *testing.T) {
	svc, store, _, publisher := newTestService(testLines())

	order, err := svc.CreateFromCart(context.Background(), 7, "jo@example.com", 10, "555-0101")
	if err != nil {
		t.Fatalf("CreateFromCart: %v", err)
	}

	if len(order.Items) != 3 {
		t.Fatalf("expected 3 order items, got %d", len(order.Items))
	}
	want := decimal.RequireFromString("126.05") // 49.90*2 + 9.95 + 4.05*4
	if !order.Total.Equal(want) {
		t.Errorf("total = %s, want %s", order.Total, want)
	}
	if order.Status != domain.StatusPending {
		t.Errorf("status = %s, want PENDING", order.Status)
	}
	if order.OrderNo == "" {
		t.Error("order number not assigned")
	}
	if order.ShipStreet != "1 Main St" || order.ShipCity != "Springfield" || order.ShipPostalCode != "62701" {
		t.Errorf("address snapshot missing: %+v", order)
	}
	if order.CustomerEmail != "jo@example.com" || order.PhoneNumber != "555-0101" {
		t.Errorf("contact snapshot missing: %+v", order)
	}

	if len(store.lines) != 0 {
		t.Error("cart not consumed by checkout")
	}
	if len(publisher.created) != 1 {
		t.Fatalf("expected 1 OrderCreated event, got %d", len(publisher.created))
	}
	if publisher.created[0].Total != "126.05" {
		t.Errorf("event total = %s, want 126.05", publisher.created[0].Total)
	}
}

func TestCreateFromCartSnapshotsPrices(t *testing.T) {
	lines := testLines()
	svc, _, repo, _ := newTestService(lines)

	order, err := svc.CreateFromCart(context.Background(), 7, "jo@example.com", 10, "555-0101")
	if err != nil {
		t.Fatalf("CreateFromCart: %v", err)
	}

	// 商品价格事后变化不影响已生成订单
	lines[0].Price = decimal.RequireFromString("999.99")

	stored := order
	if got, err := repo.GetByID(context.Background(), order.ID); err == nil {
		stored = got
	}
	if !stored.Items[0].Price.Equal(decimal.RequireFromString("49.90")) {
		t.Errorf("item price not snapshotted: %s", stored.Items[0].Price)
	}
	if !stored.Total.Equal(decimal.RequireFromString("126.05")) {
		t.Errorf("total changed after price update: %s", stored.Total)
	}
}

func TestCreateFromCartEmptyCart(t *testing.T) {
	svc, store, _, publisher := newTestService(nil)

	_, err := svc.CreateFromCart(context.Background(), 7, "jo@example.com", 10, "555-0101")
	if !errors.Is(err, domain.ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
	if len(store.orders) != 0 {
		t.Error("order created from empty cart")
	}
	if len(publisher.created) != 0 {
		t.Error("event published for rejected checkout")
	}
}

func TestCreateFromCartValidation(t *testing.T) {
	svc, _, _, _ := newTestService(testLines())
	ctx := context.Background()

	if _, err := svc.CreateFromCart(ctx, 7, "jo@example.com", 0, "555-0101"); !errors.Is(err, domain.ErrMissingAddress) {
		t.Errorf("expected ErrMissingAddress, got %v", err)
	}
	if _, err := svc.CreateFromCart(ctx, 7, "jo@example.com", 10, ""); !errors.Is(err, domain.ErrMissingPhone) {
		t.Errorf("expected ErrMissingPhone, got %v", err)
	}
	if _, err := svc.CreateFromCart(ctx, 7, "jo@example.com", 99, "555-0101"); !errors.Is(err, addressdomain.ErrAddressNotFound) {
		t.Errorf("expected ErrAddressNotFound, got %v", err)
	}
	// 他人地址按不存在处理
	if _, err := svc.CreateFromCart(ctx, 8, "mx@example.com", 10, "555-0102"); !errors.Is(err, addressdomain.ErrAddressNotFound) {
		t.Errorf("expected ErrAddressNotFound for foreign address, got %v", err)
	}
}

func TestConcurrentCheckoutCreatesSingleOrder(t *testing.T) {
	svc, store, _, publisher := newTestService(testLines())

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateFromCart(context.Background(), 7, "jo@example.com", 10, "555-0101")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, empty int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrCartEmpty):
			empty++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || empty != 1 {
		t.Fatalf("expected exactly one success and one empty-cart rejection, got ok=%d empty=%d", ok, empty)
	}
	if len(store.orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(store.orders))
	}
	if len(publisher.created) != 1 {
		t.Fatalf("expected 1 event, got %d", len(publisher.created))
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, _, repo, publisher := newTestService(nil)

	order := &domain.Order{OrderNo: "1001", UserID: 7, Status: domain.StatusPending, CustomerEmail: "jo@example.com"}
	if err := repo.Save(context.Background(), order); err != nil {
		t.Fatal(err)
	}

	updated, err := svc.UpdateStatus(context.Background(), order.ID, domain.StatusProcessing)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != domain.StatusProcessing {
		t.Errorf("status = %s, want PROCESSING", updated.Status)
	}

	if len(publisher.changed) != 1 {
		t.Fatalf("expected 1 status event, got %d", len(publisher.changed))
	}
	ev := publisher.changed[0]
	if ev.OldStatus != domain.StatusPending || ev.NewStatus != domain.StatusProcessing {
		t.Errorf("event statuses = %s -> %s", ev.OldStatus, ev.NewStatus)
	}
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	svc, _, repo, publisher := newTestService(nil)

	order := &domain.Order{OrderNo: "1002", UserID: 7, Status: domain.StatusPending}
	if err := repo.Save(context.Background(), order); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.UpdateStatus(context.Background(), order.ID, domain.StatusDelivered); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), order.ID)
	if stored.Status != domain.StatusPending {
		t.Errorf("status changed despite rejection: %s", stored.Status)
	}
	if len(publisher.changed) != 0 {
		t.Error("event published for rejected transition")
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	svc, _, repo, _ := newTestService(nil)

	order := &domain.Order{OrderNo: "1003", UserID: 7, Status: domain.StatusPending}
	if err := repo.Save(context.Background(), order); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Get(context.Background(), order.ID, 8, false); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("expected not-found for foreign order, got %v", err)
	}
	if _, err := svc.Get(context.Background(), order.ID, 8, true); err != nil {
		t.Errorf("privileged access rejected: %v", err)
	}
	if _, err := svc.Get(context.Background(), order.ID, 7, false); err != nil {
		t.Errorf("owner access rejected: %v", err)
	}
}

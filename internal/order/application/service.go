// Package application 提供订单模块的应用服务
package application

import (
	"context"
	"fmt"
	"time"

	addressdomain "github.com/wyfcoding/autopartsmall/internal/address/domain"
	"github.com/wyfcoding/autopartsmall/internal/order/domain"
	"github.com/wyfcoding/autopartsmall/pkg/logger"
	"github.com/wyfcoding/autopartsmall/pkg/metrics"
	"github.com/wyfcoding/autopartsmall/pkg/utils"
)

// AddressReader 地址读取接口，由地址模块实现；Get 校验归属
type AddressReader interface {
	Get(ctx context.Context, userID, addressID uint) (*addressdomain.Address, error)
}

// OrderService 订单应用服务
type OrderService struct {
	store     domain.CheckoutStore
	repo      domain.OrderRepository
	publisher domain.EventPublisher
	addresses AddressReader
	idgen     *utils.SnowflakeID
	metrics   *metrics.Metrics
}

// NewOrderService 创建订单应用服务
func NewOrderService(
	store domain.CheckoutStore,
	repo domain.OrderRepository,
	publisher domain.EventPublisher,
	addresses AddressReader,
	idgen *utils.SnowflakeID,
	m *metrics.Metrics,
) *OrderService {
	return &OrderService{
		store:     store,
		repo:      repo,
		publisher: publisher,
		addresses: addresses,
		idgen:     idgen,
		metrics:   m,
	}
}

// CreateFromCart 从购物车结算下单。整个结算在 CheckoutStore 的单事务内完成：
// 空购物车拒绝，总价按商品当前价格精确求和并连同商品名、收货地址一起快照。
func (s *OrderService) CreateFromCart(ctx context.Context, userID uint, email string, addressID uint, phone string) (*domain.Order, error) {
	if addressID == 0 {
		return nil, domain.ErrMissingAddress
	}
	if phone == "" {
		return nil, domain.ErrMissingPhone
	}

	address, err := s.addresses.Get(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	order, err := s.store.Checkout(ctx, userID, func(lines []domain.CheckoutLine) (*domain.Order, error) {
		if len(lines) == 0 {
			return nil, domain.ErrCartEmpty
		}

		items := make([]domain.OrderItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, domain.OrderItem{
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
				Price:       line.Price,
				Quantity:    line.Quantity,
			})
		}

		order := &domain.Order{
			OrderNo:        fmt.Sprintf("%d", s.idgen.Generate()),
			UserID:         userID,
			CustomerEmail:  email,
			AddressID:      addressID,
			PhoneNumber:    phone,
			Status:         domain.StatusPending,
			ShipStreet:     address.Street,
			ShipCity:       address.City,
			ShipState:      address.State,
			ShipCountry:    address.Country,
			ShipPostalCode: address.PostalCode,
			Items:          items,
		}
		order.Total = order.ComputeTotal()
		return order, nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.OrdersTotal.Inc()
		s.metrics.OrderAmountTotal.Add(order.Total.InexactFloat64())
	}
	logger.Info(ctx, "Order created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", userID,
		"total", order.Total.StringFixed(2),
		"items", len(order.Items),
	)
	return order, nil
}

// UpdateStatus 变更订单状态（后台操作）。严格状态机校验，
// 状态变更与 outbox 写入在同一事务内。
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, next domain.OrderStatus) (*domain.Order, error) {
	var updated *domain.Order

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetByID(txCtx, orderID)
		if err != nil {
			return err
		}

		old := order.Status
		if err := order.TransitionTo(next); err != nil {
			return err
		}
		if err := s.repo.Save(txCtx, order); err != nil {
			return err
		}

		event := domain.OrderStatusChangedEvent{
			OrderID:       order.ID,
			OrderNo:       order.OrderNo,
			UserID:        order.UserID,
			CustomerEmail: order.CustomerEmail,
			OldStatus:     old,
			NewStatus:     next,
			ChangedAt:     time.Now(),
		}
		if err := s.publisher.PublishOrderStatusChanged(txCtx, event); err != nil {
			return fmt.Errorf("failed to write outbox: %w", err)
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Order status changed", "order_id", orderID, "status", next)
	return updated, nil
}

// ListMine 查询用户自己的订单，按创建时间倒序分页
func (s *OrderService) ListMine(ctx context.Context, userID uint, page, pageSize int) ([]*domain.Order, *utils.Pagination, error) {
	p := utils.NewPagination(page, pageSize, 0)
	orders, total, err := s.repo.ListByUserID(ctx, userID, p.Offset(), p.Limit())
	if err != nil {
		return nil, nil, err
	}
	return orders, utils.NewPagination(page, pageSize, total), nil
}

// Get 查询单个订单；非本人且非后台角色按不存在处理
func (s *OrderService) Get(ctx context.Context, orderID, requesterID uint, privileged bool) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != requesterID && !privileged {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// ListAll 查询全部订单（后台操作），可按状态过滤
func (s *OrderService) ListAll(ctx context.Context, status domain.OrderStatus, page, pageSize int) ([]*domain.Order, *utils.Pagination, error) {
	if status != "" && !status.Valid() {
		return nil, nil, domain.ErrInvalidStatus
	}

	p := utils.NewPagination(page, pageSize, 0)
	orders, total, err := s.repo.ListAll(ctx, status, p.Offset(), p.Limit())
	if err != nil {
		return nil, nil, err
	}
	return orders, utils.NewPagination(page, pageSize, total), nil
}

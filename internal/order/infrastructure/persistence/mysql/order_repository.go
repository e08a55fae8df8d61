// Package mysql 提供订单仓储与结算存储的 MySQL 实现
package mysql

import (
	"context"
	"errors"
	"fmt"

	cartdomain "github.com/wyfcoding/autopartsmall/internal/cart/domain"
	"github.com/wyfcoding/autopartsmall/internal/order/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository 订单仓储的 MySQL 实现
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := contextx.GetTx(ctx); tx != nil {
		if db, ok := tx.(*gorm.DB); ok {
			return db
		}
	}
	return r.db.WithContext(ctx)
}

// WithTx 在事务中执行 fn
func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(contextx.WithTx(ctx, tx))
	})
}

// Save 保存订单（不级联条目，条目在创建时一次性写入）
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	return r.getDB(ctx).Omit("Items").Save(order).Error
}

// GetByID 查询订单（含条目）
func (r *OrderRepository) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	var order domain.Order
	if err := r.getDB(ctx).Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ListByUserID 查询用户订单，按创建时间倒序分页
func (r *OrderRepository) ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]*domain.Order, int64, error) {
	db := r.getDB(ctx).Model(&domain.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []*domain.Order
	err := db.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListAll 查询全部订单（后台），可按状态过滤
func (r *OrderRepository) ListAll(ctx context.Context, status domain.OrderStatus, offset, limit int) ([]*domain.Order, int64, error) {
	db := r.getDB(ctx).Model(&domain.Order{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []*domain.Order
	err := db.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// CheckoutStore 结算存储的 MySQL 实现
type CheckoutStore struct {
	db        *gorm.DB
	publisher domain.EventPublisher
}

// NewCheckoutStore 创建结算存储
func NewCheckoutStore(db *gorm.DB, publisher domain.EventPublisher) *CheckoutStore {
	return &CheckoutStore{db: db, publisher: publisher}
}

// Checkout 单事务结算。购物车行 FOR UPDATE 锁串行化同一用户的并发结算；
// 事务内装载商品快照、落库订单、清空购物车并写 outbox，整体原子。
func (s *CheckoutStore) Checkout(ctx context.Context, userID uint, build func(lines []domain.CheckoutLine) (*domain.Order, error)) (*domain.Order, error) {
	var order *domain.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart cartdomain.Cart
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&cart).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCartEmpty
			}
			return err
		}

		var lines []domain.CheckoutLine
		err = tx.Table("cart_items").
			Select("cart_items.product_id AS product_id, products.name AS product_name, products.price AS price, cart_items.quantity AS quantity").
			Joins("JOIN products ON products.id = cart_items.product_id AND products.deleted_at IS NULL").
			Where("cart_items.cart_id = ? AND cart_items.deleted_at IS NULL", cart.ID).
			Scan(&lines).Error
		if err != nil {
			return fmt.Errorf("failed to load checkout lines: %w", err)
		}

		built, err := build(lines)
		if err != nil {
			return err
		}

		if err := tx.Create(built).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&cartdomain.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		event := domain.OrderCreatedEvent{
			OrderID:       built.ID,
			OrderNo:       built.OrderNo,
			UserID:        built.UserID,
			CustomerEmail: built.CustomerEmail,
			Total:         built.Total.StringFixed(2),
			ItemCount:     len(built.Items),
			CreatedAt:     built.CreatedAt,
		}
		if err := s.publisher.PublishOrderCreated(contextx.WithTx(ctx, tx), event); err != nil {
			return fmt.Errorf("failed to write outbox: %w", err)
		}

		order = built
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

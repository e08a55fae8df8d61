package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// CheckoutLine 结算时从购物车与商品表装载出的一行
type CheckoutLine struct {
	ProductID   uint
	ProductName string
	Price       decimal.Decimal
	Quantity    int
}

// CheckoutStore 结算存储。Checkout 在单个事务内：
// 锁定用户购物车行（串行化同一用户的并发结算）、装载条目与商品快照、
// 调用 build 组装订单、落库订单与条目、清空购物车、写入 OrderCreated outbox。
// 整体要么全部生效要么全部回滚；并发结算中后到者看到空购物车。
type CheckoutStore interface {
	Checkout(ctx context.Context, userID uint, build func(lines []CheckoutLine) (*Order, error)) (*Order, error)
}

// OrderRepository 订单仓储
type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Save(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id uint) (*Order, error)
	ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]*Order, int64, error)
	ListAll(ctx context.Context, status OrderStatus, offset, limit int) ([]*Order, int64, error)
}

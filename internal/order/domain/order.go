// Package domain 定义订单领域模型与状态机
package domain

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrCartEmpty         = errors.New("cart is empty")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrMissingAddress    = errors.New("address is required")
	ErrMissingPhone      = errors.New("phone number is required")
)

// OrderStatus 订单状态
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// Valid 校验状态取值
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal 是否为终态
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// transitions 严格前向状态机；CANCELLED 可从任意非终态进入
var transitions = map[OrderStatus]OrderStatus{
	StatusPending:    StatusProcessing,
	StatusProcessing: StatusShipped,
	StatusShipped:    StatusDelivered,
}

// CanTransition 当前状态能否迁移到 next
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if !next.Valid() {
		return false
	}
	if next == StatusCancelled {
		return !s.Terminal()
	}
	return transitions[s] == next
}

// Order 订单；金额、商品名、收货地址与联系方式均为下单时刻的快照
type Order struct {
	gorm.Model
	OrderNo       string          `gorm:"column:order_no;type:varchar(32);uniqueIndex;not null" json:"order_no"`
	UserID        uint            `gorm:"column:user_id;index;not null" json:"user_id"`
	CustomerEmail string          `gorm:"column:customer_email;type:varchar(255)" json:"customer_email"`
	AddressID     uint            `gorm:"column:address_id;not null" json:"address_id"`
	PhoneNumber   string          `gorm:"column:phone_number;type:varchar(20);not null" json:"phone_number"`
	Total         decimal.Decimal `gorm:"column:total;type:decimal(12,2);not null" json:"total"`
	Status        OrderStatus     `gorm:"column:status;type:varchar(20);not null;index" json:"status"`

	// 收货地址快照
	ShipStreet     string `gorm:"column:ship_street;type:varchar(255)" json:"ship_street"`
	ShipCity       string `gorm:"column:ship_city;type:varchar(100)" json:"ship_city"`
	ShipState      string `gorm:"column:ship_state;type:varchar(100)" json:"ship_state"`
	ShipCountry    string `gorm:"column:ship_country;type:varchar(100)" json:"ship_country"`
	ShipPostalCode string `gorm:"column:ship_postal_code;type:varchar(20)" json:"ship_postal_code"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

func (Order) TableName() string { return "orders" }

// OrderItem 订单条目，商品名与单价为下单时刻快照
type OrderItem struct {
	gorm.Model
	OrderID     uint            `gorm:"column:order_id;index;not null" json:"order_id"`
	ProductID   uint            `gorm:"column:product_id;not null" json:"product_id"`
	ProductName string          `gorm:"column:product_name;type:varchar(255);not null" json:"product_name"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null" json:"price"`
	Quantity    int             `gorm:"column:quantity;not null" json:"quantity"`
}

func (OrderItem) TableName() string { return "order_items" }

// Subtotal 条目小计
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ComputeTotal 按条目快照精确求和
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Subtotal())
	}
	return total
}

// TransitionTo 执行状态迁移；非法迁移返回 ErrInvalidTransition
func (o *Order) TransitionTo(next OrderStatus) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}
	if !o.Status.CanTransition(next) {
		return ErrInvalidTransition
	}
	o.Status = next
	return nil
}

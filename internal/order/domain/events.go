package domain

import (
	"context"
	"time"
)

// Kafka topic 名称；server 端 outbox relay 与 notifier 消费端共用
const (
	TopicOrderCreated       = "shop.order.created"
	TopicOrderStatusChanged = "shop.order.status_changed"
)

// OrderCreatedEvent 订单创建事件
type OrderCreatedEvent struct {
	OrderID       uint      `json:"order_id"`
	OrderNo       string    `json:"order_no"`
	UserID        uint      `json:"user_id"`
	CustomerEmail string    `json:"customer_email"`
	Total         string    `json:"total"`
	ItemCount     int       `json:"item_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// OrderStatusChangedEvent 订单状态变更事件
type OrderStatusChangedEvent struct {
	OrderID       uint        `json:"order_id"`
	OrderNo       string      `json:"order_no"`
	UserID        uint        `json:"user_id"`
	CustomerEmail string      `json:"customer_email"`
	OldStatus     OrderStatus `json:"old_status"`
	NewStatus     OrderStatus `json:"new_status"`
	ChangedAt     time.Time   `json:"changed_at"`
}

// EventPublisher 订单事件发布接口；实现需与调用方事务共享 ctx
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event OrderStatusChangedEvent) error
}

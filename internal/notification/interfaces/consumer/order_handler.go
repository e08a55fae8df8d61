// Package consumer 消费订单事件并发送通知邮件
package consumer

import (
	"context"
	"fmt"

	"github.com/wyfcoding/autopartsmall/internal/notification/domain"
	orderdomain "github.com/wyfcoding/autopartsmall/internal/order/domain"
	"github.com/wyfcoding/autopartsmall/pkg/logger"
	"github.com/wyfcoding/autopartsmall/pkg/mq"
)

// OrderEventHandler 订单事件处理器
type OrderEventHandler struct {
	sender domain.Sender
	dlq    *mq.DeadLetterQueue
}

// NewOrderEventHandler 创建订单事件处理器
func NewOrderEventHandler(sender domain.Sender, dlq *mq.DeadLetterQueue) *OrderEventHandler {
	return &OrderEventHandler{sender: sender, dlq: dlq}
}

// Handle 按 topic 分发处理单条消息
func (h *OrderEventHandler) Handle(ctx context.Context, msg *mq.Message) error {
	switch msg.Topic {
	case orderdomain.TopicOrderCreated:
		return h.handleOrderCreated(ctx, msg)
	case orderdomain.TopicOrderStatusChanged:
		return h.handleStatusChanged(ctx, msg)
	default:
		logger.Warn(ctx, "Unknown topic, message skipped", "topic", msg.Topic)
		return nil
	}
}

func (h *OrderEventHandler) handleOrderCreated(ctx context.Context, msg *mq.Message) error {
	var event orderdomain.OrderCreatedEvent
	if err := msg.UnmarshalPayload(&event); err != nil {
		return h.toDeadLetter(ctx, msg, "malformed OrderCreatedEvent payload", err)
	}
	if event.CustomerEmail == "" {
		logger.Warn(ctx, "Order created event without customer email", "order_no", event.OrderNo)
		return nil
	}

	subject := fmt.Sprintf("Order %s confirmed", event.OrderNo)
	body := fmt.Sprintf(
		"Thank you for your order!\n\nOrder number: %s\nItems: %d\nTotal: %s\n\nWe will notify you when the order status changes.",
		event.OrderNo, event.ItemCount, event.Total,
	)

	if err := h.sender.Send(ctx, event.CustomerEmail, subject, body); err != nil {
		return h.toDeadLetter(ctx, msg, "email delivery failed", err)
	}
	return nil
}

func (h *OrderEventHandler) handleStatusChanged(ctx context.Context, msg *mq.Message) error {
	var event orderdomain.OrderStatusChangedEvent
	if err := msg.UnmarshalPayload(&event); err != nil {
		return h.toDeadLetter(ctx, msg, "malformed OrderStatusChangedEvent payload", err)
	}
	if event.CustomerEmail == "" {
		logger.Warn(ctx, "Order status event without customer email", "order_no", event.OrderNo)
		return nil
	}

	subject := fmt.Sprintf("Order %s is now %s", event.OrderNo, event.NewStatus)
	body := fmt.Sprintf(
		"Your order %s changed status: %s -> %s.",
		event.OrderNo, event.OldStatus, event.NewStatus,
	)

	if err := h.sender.Send(ctx, event.CustomerEmail, subject, body); err != nil {
		return h.toDeadLetter(ctx, msg, "email delivery failed", err)
	}
	return nil
}

func (h *OrderEventHandler) toDeadLetter(ctx context.Context, msg *mq.Message, reason string, cause error) error {
	logger.Error(ctx, "Order event processing failed",
		"topic", msg.Topic,
		"offset", msg.Offset,
		"reason", reason,
		"error", cause,
	)
	if h.dlq == nil {
		return cause
	}
	if err := h.dlq.Send(ctx, msg, reason, cause); err != nil {
		logger.Error(ctx, "Failed to forward message to dead letter queue", "error", err)
		return err
	}
	return nil
}

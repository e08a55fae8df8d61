// Package messaging 提供订单事件的 Outbox 发布与后台投递
package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/autopartsmall/internal/order/domain"
	"github.com/wyfcoding/autopartsmall/pkg/logger"
	"github.com/wyfcoding/autopartsmall/pkg/mq"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

const (
	statusPending = "pending"
	statusSent    = "sent"
)

// OutboxMessage 订单事件 outbox 行，与业务写入同事务落库
type OutboxMessage struct {
	ID         uint      `gorm:"primarykey"`
	EventID    string    `gorm:"column:event_id;type:varchar(36);index;not null"`
	Topic      string    `gorm:"column:topic;type:varchar(100);index;not null"`
	MessageKey string    `gorm:"column:message_key;type:varchar(100)"`
	Payload    string    `gorm:"column:payload;type:text;not null"`
	Status     string    `gorm:"column:status;type:varchar(20);index;default:'pending'"`
	RetryCount int       `gorm:"column:retry_count;not null;default:0"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

func (OutboxMessage) TableName() string { return "order_outbox_messages" }

// OutboxPublisher 实现 domain.EventPublisher，事务内写 outbox 行
type OutboxPublisher struct {
	db *gorm.DB
}

// NewOutboxPublisher 创建 outbox 发布器
func NewOutboxPublisher(db *gorm.DB) *OutboxPublisher {
	return &OutboxPublisher{db: db}
}

func (p *OutboxPublisher) getDB(ctx context.Context) *gorm.DB {
	if tx := contextx.GetTx(ctx); tx != nil {
		if db, ok := tx.(*gorm.DB); ok {
			return db
		}
	}
	return p.db.WithContext(ctx)
}

// PublishOrderCreated 发布订单创建事件
func (p *OutboxPublisher) PublishOrderCreated(ctx context.Context, event domain.OrderCreatedEvent) error {
	return p.publish(ctx, domain.TopicOrderCreated, event.OrderNo, event)
}

// PublishOrderStatusChanged 发布订单状态变更事件
func (p *OutboxPublisher) PublishOrderStatusChanged(ctx context.Context, event domain.OrderStatusChangedEvent) error {
	return p.publish(ctx, domain.TopicOrderStatusChanged, event.OrderNo, event)
}

func (p *OutboxPublisher) publish(ctx context.Context, topic, key string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	message := OutboxMessage{
		EventID:    uuid.NewString(),
		Topic:      topic,
		MessageKey: key,
		Payload:    string(payload),
		Status:     statusPending,
	}
	return p.getDB(ctx).Create(&message).Error
}

// Relay 轮询 outbox 并投递到 Kafka
type Relay struct {
	db           *gorm.DB
	producer     *mq.KafkaProducer
	pollInterval time.Duration
	batchSize    int
}

// NewRelay 创建 outbox 投递器
func NewRelay(db *gorm.DB, producer *mq.KafkaProducer, pollInterval time.Duration, batchSize int) *Relay {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Relay{
		db:           db,
		producer:     producer,
		pollInterval: pollInterval,
		batchSize:    batchSize,
	}
}

// Run 阻塞运行直到 ctx 取消
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	logger.Info(ctx, "Outbox relay started", "poll_interval", r.pollInterval, "batch_size", r.batchSize)

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Outbox relay stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := r.processBatch(ctx); err != nil {
				logger.Error(ctx, "Outbox batch processing failed", "error", err)
			}
		}
	}
}

// processBatch 按写入顺序投递一批待发送消息
func (r *Relay) processBatch(ctx context.Context) error {
	var messages []OutboxMessage
	err := r.db.WithContext(ctx).
		Where("status = ?", statusPending).
		Order("id ASC").
		Limit(r.batchSize).
		Find(&messages).Error
	if err != nil {
		return err
	}

	for i := range messages {
		msg := &messages[i]
		if err := r.producer.SendRaw(ctx, msg.Topic, msg.MessageKey, []byte(msg.Payload)); err != nil {
			// 保持 pending，下一轮重试
			r.db.WithContext(ctx).Model(msg).Update("retry_count", gorm.Expr("retry_count + 1"))
			logger.Warn(ctx, "Outbox delivery failed, will retry",
				"message_id", msg.ID,
				"topic", msg.Topic,
				"retry_count", msg.RetryCount+1,
				"error", err,
			)
			continue
		}
		if err := r.db.WithContext(ctx).Model(msg).Update("status", statusSent).Error; err != nil {
			return err
		}
	}
	return nil
}

// Cleanup 清理已投递的历史消息
func (r *Relay) Cleanup(ctx context.Context, before time.Time) error {
	return r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", statusSent, before).
		Delete(&OutboxMessage{}).Error
}

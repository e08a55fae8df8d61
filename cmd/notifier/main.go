package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/wyfcoding/autopartsmall/internal/notification/infrastructure/sender"
	"github.com/wyfcoding/autopartsmall/internal/notification/interfaces/consumer"
	orderdomain "github.com/wyfcoding/autopartsmall/internal/order/domain"
	"github.com/wyfcoding/autopartsmall/pkg/config"
	"github.com/wyfcoding/autopartsmall/pkg/logger"
	"github.com/wyfcoding/autopartsmall/pkg/metrics"
	"github.com/wyfcoding/autopartsmall/pkg/mq"
	"golang.org/x/sync/errgroup"
)

var configPath = flag.String("config", "configs/notifier/config.toml", "config file path")

const deadLetterTopic = "shop.notification.dlq"

func main() {
	flag.Parse()

	// 1. 配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. 指标
	m := metrics.New(cfg.ServiceName)
	if cfg.Metrics.Enabled {
		if err := m.Register(); err != nil {
			logger.Fatal(ctx, "Failed to register metrics", "error", err)
		}
		if err := metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Fatal(ctx, "Failed to start metrics server", "error", err)
		}
	}

	// 4. Kafka
	kafkaCfg := mq.KafkaConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.GroupID,
		SessionTimeout: cfg.Kafka.SessionTimeout,
		MaxRetries:     cfg.Kafka.MaxRetries,
		RetryBackoff:   cfg.Kafka.RetryBackoff,
	}

	producer, err := mq.NewProducer(kafkaCfg)
	if err != nil {
		logger.Fatal(ctx, "Failed to create kafka producer", "error", err)
	}
	defer producer.Close()
	dlq := mq.NewDeadLetterQueue(producer, deadLetterTopic)

	// 5. 发送器与事件处理器
	mailSender := sender.NewSMTPSender(
		cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password,
		cfg.SMTP.From, cfg.SMTP.MockSend, m,
	)
	handler := consumer.NewOrderEventHandler(mailSender, dlq)

	// 6. 消费循环，每个 topic 一个消费者
	topics := []string{
		orderdomain.TopicOrderCreated,
		orderdomain.TopicOrderStatusChanged,
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, topic := range topics {
		c, err := mq.NewConsumer(kafkaCfg, topic)
		if err != nil {
			logger.Fatal(ctx, "Failed to create kafka consumer", "topic", topic, "error", err)
		}
		defer c.Close()

		g.Go(func() error {
			for {
				msg, err := c.ReadMessage(gctx)
				if err != nil {
					if errors.Is(err, context.Canceled) || gctx.Err() != nil {
						return nil
					}
					logger.Error(gctx, "Failed to read kafka message", "topic", topic, "error", err)
					continue
				}
				if err := handler.Handle(gctx, msg); err != nil {
					logger.Error(gctx, "Message handling failed", "topic", msg.Topic, "offset", msg.Offset, "error", err)
				}
			}
		})
	}

	logger.Info(ctx, "Notifier started", "topics", topics)
	if err := g.Wait(); err != nil {
		logger.Error(ctx, "Notifier exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info(context.Background(), "Notifier stopped")
}

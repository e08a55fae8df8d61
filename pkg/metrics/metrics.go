// Package metrics 提供 Prometheus helper，包含常用 counter/gauge/histogram 模板
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wyfcoding/autopartsmall/pkg/logger"
)

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数
	HTTPRequestsTotal prometheus.Counter
	// HTTP 请求耗时
	HTTPRequestDuration prometheus.Histogram

	// 数据库查询计数
	DBQueriesTotal prometheus.Counter
	// 数据库查询耗时
	DBQueryDuration prometheus.Histogram

	// Redis 操作计数
	RedisOpsTotal prometheus.Counter

	// 业务指标
	OrdersTotal       prometheus.Counter
	OrderAmountTotal  prometheus.Counter
	CartItemsAdded    prometheus.Counter
	EmailsSentTotal   prometheus.Counter
	EmailsFailedTotal prometheus.Counter
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}),
		HTTPRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shop",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		DBQueriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: serviceName,
			Name:      "db_queries_total",
			Help:      "Total database queries",
		}),
		DBQueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shop",
			Subsystem: serviceName,
			Name:      "db_query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		RedisOpsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: serviceName,
			Name:      "redis_ops_total",
			Help:      "Total Redis operations",
		}),
		OrdersTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: serviceName,
			Name:      "orders_total",
			Help:      "Total orders created",
		}),
		OrderAmountTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: serviceName,
			Name:      "order_amount_total",
			Help:      "Cumulative order amount",
		}),
		CartItemsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: serviceName,
			Name:      "cart_items_added_total",
			Help:      "Total cart item additions",
		}),
		EmailsSentTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: serviceName,
			Name:      "emails_sent_total",
			Help:      "Total e-mails sent",
		}),
		EmailsFailedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: serviceName,
			Name:      "emails_failed_total",
			Help:      "Total e-mail send failures",
		}),
	}
}

// Register 注册所有指标
func (m *Metrics) Register() error {
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueriesTotal,
		m.DBQueryDuration,
		m.RedisOpsTotal,
		m.OrdersTotal,
		m.OrderAmountTotal,
		m.CartItemsAdded,
		m.EmailsSentTotal,
		m.EmailsFailedTotal,
	}

	for _, collector := range collectors {
		if err := prometheus.DefaultRegisterer.Register(collector); err != nil {
			logger.Error(context.Background(), "Failed to register metric", "error", err)
			return err
		}
	}

	return nil
}

// ObserveHTTPRequest 记录一次 HTTP 请求指标
func (m *Metrics) ObserveHTTPRequest(durationSeconds float64) {
	m.HTTPRequestsTotal.Inc()
	m.HTTPRequestDuration.Observe(durationSeconds)
}

// StartHTTPServer 启动 Prometheus HTTP 服务器
func StartHTTPServer(port int, path string) error {
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info(context.Background(), "Starting Prometheus HTTP server", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error(context.Background(), "Prometheus HTTP server stopped", "error", err)
		}
	}()

	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	addressapp "github.com/wyfcoding/autopartsmall/internal/address/application"
	addressdomain "github.com/wyfcoding/autopartsmall/internal/address/domain"
	addresshttp "github.com/wyfcoding/autopartsmall/internal/address/interfaces/http"
	addressmysql "github.com/wyfcoding/autopartsmall/internal/address/infrastructure/persistence/mysql"
	cartapp "github.com/wyfcoding/autopartsmall/internal/cart/application"
	cartdomain "github.com/wyfcoding/autopartsmall/internal/cart/domain"
	carthttp "github.com/wyfcoding/autopartsmall/internal/cart/interfaces/http"
	cartmysql "github.com/wyfcoding/autopartsmall/internal/cart/infrastructure/persistence/mysql"
	catalogapp "github.com/wyfcoding/autopartsmall/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/autopartsmall/internal/catalog/domain"
	cataloghttp "github.com/wyfcoding/autopartsmall/internal/catalog/interfaces/http"
	catalogmysql "github.com/wyfcoding/autopartsmall/internal/catalog/infrastructure/persistence/mysql"
	"github.com/wyfcoding/autopartsmall/internal/notification/infrastructure/sender"
	orderapp "github.com/wyfcoding/autopartsmall/internal/order/application"
	orderdomain "github.com/wyfcoding/autopartsmall/internal/order/domain"
	"github.com/wyfcoding/autopartsmall/internal/order/infrastructure/messaging"
	orderhttp "github.com/wyfcoding/autopartsmall/internal/order/interfaces/http"
	ordermysql "github.com/wyfcoding/autopartsmall/internal/order/infrastructure/persistence/mysql"
	userapp "github.com/wyfcoding/autopartsmall/internal/user/application"
	userdomain "github.com/wyfcoding/autopartsmall/internal/user/domain"
	userhttp "github.com/wyfcoding/autopartsmall/internal/user/interfaces/http"
	usermysql "github.com/wyfcoding/autopartsmall/internal/user/infrastructure/persistence/mysql"
	userredis "github.com/wyfcoding/autopartsmall/internal/user/infrastructure/persistence/redis"
	vehicleapp "github.com/wyfcoding/autopartsmall/internal/vehicle/application"
	vehicledomain "github.com/wyfcoding/autopartsmall/internal/vehicle/domain"
	vehiclehttp "github.com/wyfcoding/autopartsmall/internal/vehicle/interfaces/http"
	vehiclemysql "github.com/wyfcoding/autopartsmall/internal/vehicle/infrastructure/persistence/mysql"
	"github.com/wyfcoding/autopartsmall/pkg/cache"
	"github.com/wyfcoding/autopartsmall/pkg/config"
	"github.com/wyfcoding/autopartsmall/pkg/db"
	"github.com/wyfcoding/autopartsmall/pkg/logger"
	"github.com/wyfcoding/autopartsmall/pkg/metrics"
	"github.com/wyfcoding/autopartsmall/pkg/middleware"
	"github.com/wyfcoding/autopartsmall/pkg/mq"
	"github.com/wyfcoding/autopartsmall/pkg/utils"
	"golang.org/x/sync/errgroup"
)

var configPath = flag.String("config", "configs/server/config.toml", "config file path")

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
	ctx := context.Background()

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

	// 4. 数据库
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to connect database", "error", err)
	}
	defer database.Close()

	if cfg.Database.AutoMigrate {
		err := database.DB.AutoMigrate(
			&userdomain.User{},
			&catalogdomain.Product{},
			&catalogdomain.Category{},
			&catalogdomain.Brand{},
			&catalogdomain.Compatibility{},
			&vehicledomain.Vehicle{},
			&cartdomain.Cart{},
			&cartdomain.CartItem{},
			&addressdomain.Address{},
			&orderdomain.Order{},
			&orderdomain.OrderItem{},
			&messaging.OutboxMessage{},
		)
		if err != nil {
			logger.Fatal(ctx, "Failed to migrate database", "error", err)
		}
	}

	// 5. Redis
	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to connect redis", "error", err)
	}
	defer redisCache.Close()

	// 6. Kafka & Outbox relay
	producer, err := mq.NewProducer(mq.KafkaConfig{
		Brokers:      cfg.Kafka.Brokers,
		MaxRetries:   cfg.Kafka.MaxRetries,
		RetryBackoff: cfg.Kafka.RetryBackoff,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to create kafka producer", "error", err)
	}
	defer producer.Close()

	relay := messaging.NewRelay(
		database.DB,
		producer,
		time.Duration(cfg.Kafka.OutboxPollInterval)*time.Millisecond,
		cfg.Kafka.OutboxBatchSize,
	)

	// 7. 仓储
	userRepo := usermysql.NewUserRepository(database.DB)
	sessionRepo := userredis.NewSessionRepository(redisCache, time.Duration(cfg.Auth.SessionTTL)*time.Hour)
	codeRepo := userredis.NewVerifyCodeRepository(redisCache)
	productRepo := catalogmysql.NewProductRepository(database.DB)
	categoryRepo := catalogmysql.NewCategoryRepository(database.DB)
	brandRepo := catalogmysql.NewBrandRepository(database.DB)
	compatRepo := catalogmysql.NewCompatibilityRepository(database.DB)
	vehicleRepo := vehiclemysql.NewVehicleRepository(database.DB)
	cartRepo := cartmysql.NewCartRepository(database.DB)
	addressRepo := addressmysql.NewAddressRepository(database.DB)
	orderRepo := ordermysql.NewOrderRepository(database.DB)
	publisher := messaging.NewOutboxPublisher(database.DB)
	checkoutStore := ordermysql.NewCheckoutStore(database.DB, publisher)

	// 8. 应用服务
	mailSender := sender.NewSMTPSender(
		cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password,
		cfg.SMTP.From, cfg.SMTP.MockSend, m,
	)
	userCmd := userapp.NewUserCommandService(
		userRepo, sessionRepo, codeRepo, mailSender,
		cfg.Auth.BcryptCost,
		time.Duration(cfg.Auth.SessionTTL)*time.Hour,
		time.Duration(cfg.Auth.VerifyCodeTTL)*time.Minute,
	)
	userQuery := userapp.NewUserQueryService(userRepo)
	catalogSvc := catalogapp.NewCatalogService(productRepo, categoryRepo, brandRepo, compatRepo)
	vehicleSvc := vehicleapp.NewVehicleService(vehicleRepo)
	cartSvc := cartapp.NewCartService(cartRepo, catalogSvc, m)
	addressSvc := addressapp.NewAddressService(addressRepo)
	idgen := utils.NewSnowflakeID(1)
	orderSvc := orderapp.NewOrderService(checkoutStore, orderRepo, publisher, addressSvc, idgen, m)

	// 9. HTTP
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.GinRecoveryMiddleware())
	r.Use(middleware.GinLoggingMiddleware())
	r.Use(middleware.GinCORSMiddleware())
	if cfg.HTTP.RateLimitQPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitBurst, cfg.HTTP.RateLimitQPS)
		r.Use(middleware.GinRateLimitMiddleware(limiter))
	}
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveHTTPRequest(time.Since(start).Seconds())
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.ServiceName, "version": cfg.Version})
	})

	authn := userhttp.Authenticate(sessionRepo)
	staff := userhttp.RequireRole(userdomain.RoleManager, userdomain.RoleAdmin)

	api := r.Group("/api")
	userhttp.NewHandler(userCmd, userQuery).RegisterRoutes(api, authn)
	cataloghttp.NewHandler(catalogSvc).RegisterRoutes(api, authn, staff)
	vehiclehttp.NewHandler(vehicleSvc).RegisterRoutes(api, authn, staff)
	carthttp.NewHandler(cartSvc).RegisterRoutes(api, authn)
	addresshttp.NewHandler(addressSvc).RegisterRoutes(api, authn)
	orderhttp.NewHandler(orderSvc).RegisterRoutes(api, authn, staff)

	// 10. 启动
	g, gctx := errgroup.WithContext(ctx)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	g.Go(func() error {
		logger.Info(gctx, "HTTP server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := relay.Run(gctx); err != nil && err != context.Canceled {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := relay.Cleanup(gctx, time.Now().Add(-7*24*time.Hour)); err != nil {
					logger.Warn(gctx, "Outbox cleanup failed", "error", err)
				}
			}
		}
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			logger.Info(gctx, "Shutting down server...")
		case <-gctx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "Server exited with error", "error", err)
		os.Exit(1)
	}
}

// Package main is the entry point for the billing API.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitdesk/internal/config"
	"fitdesk/internal/handlers"
	applogger "fitdesk/internal/logger"
	"fitdesk/internal/metrics"
	"fitdesk/internal/middleware"
	"fitdesk/internal/repositories"
	"fitdesk/internal/repositories/cache"
	"fitdesk/internal/routes"
	"fitdesk/internal/services/payment"
	"fitdesk/internal/services/paymentmethod"
	"fitdesk/internal/services/tokenizer"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := applogger.New("billing-api", cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := repositories.OpenDB(cfg)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zlog.Fatal("failed to get database instance", zap.Error(err))
	}
	zlog.Info("connected to database", zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.Name))

	cacheService := cache.NewCacheService(cache.NewRedisClient(&cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}), cfg.Redis.TTL)
	if err := cacheService.HealthCheck(context.Background()); err != nil {
		zlog.Warn("redis unavailable at startup", zap.Error(err))
	}

	defer func() {
		if err := sqlDB.Close(); err != nil {
			zlog.Warn("failed to close database connection", zap.Error(err))
		}
		if err := cacheService.Close(); err != nil {
			zlog.Warn("failed to close redis connection", zap.Error(err))
		}
	}()

	// Periodic pool stats
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			stats := sqlDB.Stats()
			redisStats := cacheService.GetStats()
			zlog.Debug("pool stats",
				zap.Int("db_open", stats.OpenConnections),
				zap.Int("db_idle", stats.Idle),
				zap.Int("db_in_use", stats.InUse),
				zap.Int64("db_wait_count", stats.WaitCount),
				zap.Uint32("redis_total", redisStats.TotalConns),
				zap.Uint32("redis_idle", redisStats.IdleConns))
		}
	}()

	var (
		vault     tokenizer.Vault
		processor payment.Processor
	)
	if cfg.UseStripe() {
		vault = tokenizer.NewStripeVault(cfg.Billing.StripeKey)
		processor = payment.NewStripeProcessor(cfg.Billing.StripeKey)
		zlog.Info("using stripe for tokens and charges")
	} else {
		vault = tokenizer.NewTestVault()
		processor = payment.NewSandboxProcessor()
		zlog.Warn("STRIPE_SECRET_KEY not set, using sandbox processor")
	}

	service := paymentmethod.NewService(
		repositories.NewPaymentMethodRepository(db),
		repositories.NewPaymentRepository(db),
		cacheService,
		vault,
		processor,
		paymentmethod.Config{
			Currency:       cfg.Billing.Currency,
			IdempotencyTTL: cfg.Billing.IdempotencyTTL,
		},
		paymentmethod.WithMetrics(metrics.NewPrometheus()),
		paymentmethod.WithLogger(zlog.Named("paymentmethod")),
	)

	app := fiber.New(fiber.Config{
		AppName:               "fitdesk-billing",
		DisableStartupMessage: cfg.IsProduction(),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Use("/billing/payment-methods/process-payment", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	app.Get("/health", handlers.HealthCheck(map[string]handlers.Pinger{
		"database": dbPinger{db: db},
		"redis":    cacheService,
	}))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	routes.SetupRoutes(app,
		middleware.NewAuthMiddleware(cfg.JWTSecret, zlog.Named("auth")),
		handlers.NewPaymentMethodHandler(service, zlog.Named("http")),
	)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		zlog.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zlog.Error("shutdown failed", zap.Error(err))
		}
	}()

	zlog.Info("billing api listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Error("server stopped", zap.Error(err))
	}
}

type dbPinger struct {
	db *gorm.DB
}

func (p dbPinger) HealthCheck(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	return nil
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ms-checkout/internal/auth"
	"ms-checkout/internal/checkout"
	"ms-checkout/internal/checkout/affiliate"
	"ms-checkout/internal/checkout/api"
	"ms-checkout/internal/checkout/coupon"
	"ms-checkout/internal/checkout/db"
	"ms-checkout/internal/checkout/fees"
	"ms-checkout/internal/checkout/kafka"
	rediswrap "ms-checkout/internal/checkout/redis"
	"ms-checkout/internal/config"
	"ms-checkout/internal/gateway/pagbank"
	"ms-checkout/internal/logger"
	"ms-checkout/internal/tickets"
	"ms-checkout/internal/tickets/qr"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

func verifyConnections(ctx context.Context, cfg *config.Config, log *logger.Logger) (*bun.DB, *redis.Client) {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			log.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	log.Info("DATABASE", "✅ PostgreSQL connection successful")

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Redis.Addr))

	return bunDB, redisClient
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting Checkout Service initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	if cfg.Security.JWTSecret == "" {
		log.Fatal("CONFIG", "JWT_SECRET not set")
	}
	if cfg.Gateway.Token == "" {
		log.Warn("CONFIG", "PAGBANK_TOKEN not set, gateway calls will be rejected")
	}

	ctx := context.Background()

	log.Info("APP", "Verifying database connections")
	bunDB, redisClient := verifyConnections(ctx, cfg, log)
	defer bunDB.Close()
	defer redisClient.Close()

	if err := db.Migrate(ctx, bunDB, log); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Migration failed: %v", err))
	}

	var publisher checkout.Publisher
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = producer
		log.Info("KAFKA", fmt.Sprintf("Kafka producer initialized for topic %s", cfg.Kafka.Topic))
	} else {
		log.Warn("KAFKA", "Kafka disabled, payment events will not be published")
	}

	checkoutDB := &db.DB{Bun: bunDB}
	gatewayClient := pagbank.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.Token, cfg.Gateway.Timeout, log)
	couponValidator := coupon.NewValidator(checkoutDB, log)
	attributor := affiliate.NewAttributor(checkoutDB, log)
	idemGuard := rediswrap.NewGuard(redisClient, cfg.Redis.IdempotencyTTL)
	qrGenerator := qr.NewGenerator(cfg.Security.QRSecret)
	calculator := fees.NewCalculator(fees.PolicyTableFromConfig(cfg.Fees))

	checkoutService := checkout.NewService(
		checkoutDB,
		gatewayClient,
		couponValidator,
		attributor,
		publisher,
		idemGuard,
		qrGenerator,
		calculator,
		log,
	)

	ticketService := tickets.NewService(checkoutDB, qrGenerator, log)

	handler := api.NewHandler(checkoutService, ticketService, cfg.Gateway.WebhookToken)
	router := api.Routes(handler, auth.Middleware(cfg.Security.JWTSecret))
	log.Info("ROUTER", "Checkout routes registered under /api/v1")

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 Checkout Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "✅ Checkout Service shutdown complete")
	}
}

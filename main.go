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

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/auth"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/config"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/database/migrations"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/kafka"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/logger"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/notification"
	notificationdb "github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/notification/db"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/notification/notification_api"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/order"
	orderdb "github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/order/db"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/order/order_api"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/payment"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/payment/payment_api"
	paymentredis "github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/payment/redis"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/payment/storage"
)

func connectPostgres(cfg config.DatabaseConfig, log *logger.Logger) *bun.DB {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Connecting to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.DSN)
		if err == nil {
			err = sqldb.Ping()
		}
		if err == nil {
			break
		}
		log.Error("DATABASE", fmt.Sprintf("PostgreSQL connection failed: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

	log.Info("DATABASE", "PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New())
}

func connectRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("Redis connection successful to %s", cfg.Addr))
	return client
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting order core initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	}
	cfg := config.Load()

	ctx := context.Background()

	bunDB := connectPostgres(cfg.Database, log)
	defer bunDB.Close()

	if cfg.Database.AutoMigrate {
		runner := migrations.NewRunner(bunDB, migrations.DefaultOptions())
		if err := runner.Up(); err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
		}
		log.Info("DATABASE", "Migrations applied")
	}

	redisClient := connectRedis(ctx, cfg.Redis, log)
	defer redisClient.Close()

	kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer kafkaProducer.Close()
	if cfg.Kafka.Enabled {
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, kafka.RequiredTopics()); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		}
	}

	paymentStore, err := storage.NewPostgreSQLStoreWithDB(bunDB.DB, log)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Payment storage init failed: %v", err))
	}

	orderStore := &orderdb.DB{Bun: bunDB}
	notificationStore := &notificationdb.DB{Bun: bunDB}

	notificationService := notification.NewService(notificationStore, log)
	orderService := order.NewOrderService(orderStore, notificationService, kafkaProducer, log)

	gateway := payment.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, log)
	paymentLock := paymentredis.NewLock(redisClient, cfg.Redis.LockTTL)
	paymentService := payment.NewService(
		orderStore, paymentStore, gateway, paymentLock, kafkaProducer,
		cfg.Razorpay.KeyID, cfg.Razorpay.Currency, log,
	)

	orderHandler := &order_api.Handler{OrderService: orderService, Logger: log}
	paymentHandler := &payment_api.Handler{PaymentService: paymentService, Logger: log}
	notificationHandler := &notification_api.Handler{Service: notificationService, Logger: log}

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := paymentStore.HealthCheck(); err != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth.OIDCIssuer))

		r.Route("/api", func(r chi.Router) {
			r.Route("/orders", func(r chi.Router) {
				r.Get("/{orderId}", orderHandler.GetOrder)
				r.Post("/{orderId}/cancel", orderHandler.CancelOrder)
				r.Get("/{orderId}/history", orderHandler.GetOrderHistory)
				r.Patch("/{orderId}", orderHandler.AdminUpdateOrder)
			})

			r.Post("/payments/create", paymentHandler.CreatePayment)

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.ListNotifications)
				r.Patch("/read-all", notificationHandler.MarkAllRead)
				r.Patch("/{notificationId}/read", notificationHandler.MarkRead)
				r.Delete("/{notificationId}", notificationHandler.DeleteNotification)
			})
		})
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Order core running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	} else {
		log.Info("HTTP", "Order core shutdown complete")
	}
}

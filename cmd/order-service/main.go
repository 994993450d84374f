package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/commercekit/order-lifecycle/internal/discount"
	"github.com/commercekit/order-lifecycle/internal/httpx"
	"github.com/commercekit/order-lifecycle/internal/inventory"
	"github.com/commercekit/order-lifecycle/internal/notification"
	"github.com/commercekit/order-lifecycle/internal/order"
	auditsqlite "github.com/commercekit/order-lifecycle/internal/order/auditlog/sqlite"
	"github.com/commercekit/order-lifecycle/internal/order/ports"
	"github.com/commercekit/order-lifecycle/internal/payment"
	"github.com/commercekit/order-lifecycle/internal/pkg/cache"
	"github.com/commercekit/order-lifecycle/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "order-service"))
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	auditRepo, err := auditsqlite.Open(getEnv("AUDIT_DB_PATH", "./data/audit.db"))
	if err != nil {
		slog.Error("failed to open audit database", "error", err)
		os.Exit(1)
	}
	defer auditRepo.Close()

	// Surface the persisted trail on startup; the in-memory trail starts
	// empty on every run, the database does not.
	if prior, err := auditRepo.List(ctx); err != nil {
		slog.Warn("failed to read persisted audit trail", "error", err)
	} else {
		slog.Info("audit trail loaded", "persisted_entries", len(prior))
	}

	// Discount cache is optional; without Redis every lookup hits the
	// in-process catalog.
	var discountCache cache.Cache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		discountCache = cache.NewRedisCache(redisAddr, "order")
	}

	inv := inventory.NewService(map[string]int{
		"keyboard": 250,
		"monitor":  80,
		"webcam":   120,
	})
	pay := payment.NewProcessor(
		getEnvFloat("PAYMENT_DECLINE_ABOVE", 10_000),
		getEnvFloat("PAYMENT_REVIEW_ABOVE", 1_000),
	)
	disc := discount.NewResolver(discountCache, map[string]float64{
		"WELCOME10": 10,
		"SPRING25":  25,
	})

	var notifier ports.Notification = notification.NewLogNotifier()
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		kafkaNotifier := notification.NewKafkaNotifier(
			strings.Split(brokers, ","),
			getEnv("KAFKA_TOPIC", "order.events"),
		)
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
	}

	svc := order.NewService(inv, pay, notifier, disc, auditRepo)
	router := httpx.NewRouter(httpx.NewHandler(svc))

	addr := ":" + getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("order service running", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
	slog.Info("order service stopped")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		slog.Warn("invalid float in env, using fallback", "key", key, "value", value)
		return fallback
	}
	return f
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/icedepot/icedepot/internal/app"
	"github.com/icedepot/icedepot/internal/catalog/customers"
	"github.com/icedepot/icedepot/internal/catalog/products"
	"github.com/icedepot/icedepot/internal/dashboard"
	"github.com/icedepot/icedepot/internal/fleet"
	"github.com/icedepot/icedepot/internal/jobs"
	"github.com/icedepot/icedepot/internal/observability"
	"github.com/icedepot/icedepot/internal/orders"
	"github.com/icedepot/icedepot/internal/payments"
	"github.com/icedepot/icedepot/internal/platform/db"
	"github.com/icedepot/icedepot/internal/pod"
	"github.com/icedepot/icedepot/internal/rbac"
	"github.com/icedepot/icedepot/internal/runs"
	"github.com/icedepot/icedepot/internal/shared"
)

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	policy := rbac.NewPolicy()
	rbacMiddleware := rbac.Middleware{Policy: policy, Logger: logger}
	idempotencyStore := shared.NewIdempotencyStore(dbpool)

	customerRepo := customers.NewRepository(dbpool)
	customerService := customers.NewService(customerRepo)
	customerHandler := customers.NewHandler(logger, customerService, rbacMiddleware)

	productRepo := products.NewRepository(dbpool)
	productService := products.NewService(productRepo)
	productHandler := products.NewHandler(logger, productService, rbacMiddleware)

	fleetRepo := fleet.NewRepository(dbpool)
	fleetService := fleet.NewService(fleetRepo)
	fleetHandler := fleet.NewHandler(logger, fleetService, rbacMiddleware)

	orderRepo := orders.NewRepository(dbpool)
	orderService := orders.NewService(orderRepo, productRepo)
	orderHandler := orders.NewHandler(logger, orderService, rbacMiddleware)

	paymentRepo := payments.NewRepository(dbpool)
	paymentService := payments.NewService(logger, paymentRepo, orderRepo, idempotencyStore)
	paymentHandler := payments.NewHandler(logger, paymentService, rbacMiddleware)

	runRepo := runs.NewRepository(dbpool)
	runService := runs.NewService(runRepo, orderRepo)
	runHandler := runs.NewHandler(logger, runService, rbacMiddleware)

	podStorage := pod.NewFileStorage(cfg.PodRoot)
	podHandler := pod.NewHandler(logger, podStorage, rbacMiddleware)

	dashboardRepo := dashboard.NewRepository(dbpool)
	dashboardService := dashboard.NewService(logger, dashboardRepo, redisClient, cfg.DashboardCacheTTL)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService, rbacMiddleware)

	jobMetrics := jobs.NewMetrics(metrics.Registerer())
	jobManager := jobs.NewManager(logger, idempotencyStore, cfg.IdempotencyRetention, jobMetrics)
	if err := jobManager.Start(); err != nil {
		logger.Error("start job scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	defer jobManager.Stop()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Pool:             dbpool,
		CustomersHandler: customerHandler,
		ProductsHandler:  productHandler,
		FleetHandler:     fleetHandler,
		OrdersHandler:    orderHandler,
		PaymentsHandler:  paymentHandler,
		RunsHandler:      runHandler,
		PodHandler:       podHandler,
		DashboardHandler: dashboardHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pratm1304/FouShack/api/middleware"
	"github.com/pratm1304/FouShack/api/routes"
	"github.com/pratm1304/FouShack/internal/auth"
	"github.com/pratm1304/FouShack/internal/inventory"
	"github.com/pratm1304/FouShack/internal/orders"
	product "github.com/pratm1304/FouShack/internal/products"
	"github.com/pratm1304/FouShack/internal/users"
	"github.com/pratm1304/FouShack/pkg/auth/session"
	"github.com/pratm1304/FouShack/pkg/config"
	"github.com/pratm1304/FouShack/pkg/db"
	"github.com/pratm1304/FouShack/pkg/env"
	"github.com/pratm1304/FouShack/pkg/lock"
	"github.com/pratm1304/FouShack/pkg/logger"
	"github.com/pratm1304/FouShack/pkg/metrics"
	"github.com/pratm1304/FouShack/pkg/migrate"
	"github.com/pratm1304/FouShack/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
	})

	loc, err := cfg.App.Location()
	if err != nil {
		logg.Error(context.Background(), "failed to load business timezone", err)
		os.Exit(1)
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var (
		redisClient    *redis.Client
		sessionManager *session.Manager
		endDayLocker   lock.Locker = lock.NewLocalLocker()
	)
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()

		sessionManager, err = session.NewManager(redisClient, cfg.JWT)
		if err != nil {
			logg.Error(context.Background(), "failed to create session manager", err)
			os.Exit(1)
		}

		redisLocker, err := lock.NewRedisLocker(redisClient, cfg.Inventory.EndDayLockTTL)
		if err != nil {
			logg.Error(context.Background(), "failed to create end-day lock", err)
			os.Exit(1)
		}
		endDayLocker = redisLocker
	} else {
		logg.Warn(context.Background(), "redis not configured; using in-process lock and stateless sessions")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	inventoryMetrics := metrics.NewInventoryMetrics(registry)

	userRepo := users.NewRepository(dbClient.DB())
	authParams := auth.ServiceParams{UserRepo: userRepo, JWTConfig: cfg.JWT}
	if sessionManager != nil {
		authParams.SessionManager = sessionManager
	}
	authService, err := auth.NewService(authParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		UserRepo:       userRepo,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	productService, err := product.NewService(product.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventory.ServiceParams{
		Store:        inventory.NewRepository(dbClient.DB()),
		Catalog:      productService,
		Locker:       endDayLocker,
		IsPrivileged: middleware.IsAdmin,
		Logger:       logg,
		Metrics:      inventoryMetrics,
		Location:     loc,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	if !cfg.Payment.Enabled() {
		logg.Warn(context.Background(), "payment key secret not configured; payment confirmation disabled")
	}
	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:          orders.NewRepository(dbClient.DB()),
		Tx:            dbClient,
		Catalog:       productService,
		Logger:        logg,
		Metrics:       metrics.NewOrderMetrics(registry),
		PaymentSecret: cfg.Payment.KeySecret,
		Currency:      cfg.App.Currency,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	deps := routes.Dependencies{
		DB:               dbClient,
		RedisClient:      redisClient,
		Gatherer:         registry,
		AuthService:      authService,
		RegisterService:  registerService,
		ProductService:   productService,
		InventoryService: inventoryService,
		OrderService:     orderService,
	}
	if sessionManager != nil {
		deps.Sessions = sessionManager
	}

	addr := ":" + env.FirstOf(cfg.App.Port, "PORT")
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"timezone": loc.String(),
		"redis":    redisClient != nil,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logg.Info(ctx, "shutting down api server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

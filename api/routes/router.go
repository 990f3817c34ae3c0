package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pratm1304/FouShack/api/controllers"
	inventorycontrollers "github.com/pratm1304/FouShack/api/controllers/inventory"
	ordercontrollers "github.com/pratm1304/FouShack/api/controllers/orders"
	"github.com/pratm1304/FouShack/api/middleware"
	"github.com/pratm1304/FouShack/internal/auth"
	"github.com/pratm1304/FouShack/internal/inventory"
	"github.com/pratm1304/FouShack/internal/orders"
	product "github.com/pratm1304/FouShack/internal/products"
	"github.com/pratm1304/FouShack/pkg/auth/session"
	"github.com/pratm1304/FouShack/pkg/config"
	"github.com/pratm1304/FouShack/pkg/enums"
	"github.com/pratm1304/FouShack/pkg/logger"
	pkgredis "github.com/pratm1304/FouShack/pkg/redis"
)

type rateLimiterStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Dependencies are the collaborators the router hands to controllers.
// RedisClient and Sessions may be nil when the API runs without Redis.
type Dependencies struct {
	DB          controllers.Pinger
	RedisClient *pkgredis.Client
	Sessions    session.AccessSessionChecker
	Gatherer    prometheus.Gatherer

	AuthService      auth.Service
	RegisterService  auth.RegisterService
	ProductService   product.Service
	InventoryService inventory.Service
	OrderService     orders.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
	)

	// A nil *Client must not reach the middleware as a non-nil interface.
	var (
		redisPinger controllers.Pinger
		idemStore   pkgredis.IdempotencyStore
		rateStore   rateLimiterStore
	)
	if deps.RedisClient != nil {
		redisPinger = deps.RedisClient
		idemStore = deps.RedisClient
		rateStore = deps.RedisClient
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	orderPolicy := middleware.NewAuthRateLimitPolicy(
		"orders",
		cfg.AuthRateLimit.OrderWindow,
		cfg.AuthRateLimit.OrderIPLimit,
		0,
	)

	admin := string(enums.StaffRoleAdmin)
	staff := string(enums.StaffRoleStaff)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger))
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		if cfg.HTTP.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(cfg.HTTP.RequestTimeout))
		}

		r.Route("/api/v1/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
			r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
			r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
		})

		r.Route("/api/v1/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.ProductService, logg))
			r.Get("/{productId}", controllers.GetProduct(deps.ProductService, logg))
		})

		r.Route("/api/v1/orders", func(r chi.Router) {
			r.Use(middleware.Idempotency(idemStore, logg))
			r.With(middleware.AuthRateLimit(orderPolicy, rateStore, logg)).Post("/", ordercontrollers.PlaceOrder(deps.OrderService, logg))
			r.Post("/{orderId}/payment/confirm", ordercontrollers.ConfirmPayment(deps.OrderService, logg))
		})

		r.Route("/api/v1/inventory", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.RequireRole(logg, admin, staff))
			r.Use(middleware.Idempotency(idemStore, logg))
			r.Get("/today", inventorycontrollers.Today(deps.InventoryService, logg))
			r.Get("/yesterday", inventorycontrollers.Yesterday(deps.InventoryService, logg))
			r.Get("/summary", inventorycontrollers.Summary(deps.InventoryService, logg))
			r.Post("/save", inventorycontrollers.Save(deps.InventoryService, logg))
		})

		r.Route("/api/admin/v1", func(r chi.Router) {
			// registration stays open outside prod so the first admin can be created
			r.Group(func(r chi.Router) {
				if cfg.App.IsProd() {
					r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
					r.Use(middleware.RequireRole(logg, admin))
				}
				r.Use(middleware.Idempotency(idemStore, logg))
				r.Post("/auth/register", controllers.AuthRegister(deps.RegisterService, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
				r.Use(middleware.RequireRole(logg, admin))
				r.Use(middleware.Idempotency(idemStore, logg))

				r.Post("/inventory/end-day", inventorycontrollers.EndDay(deps.InventoryService, logg))

				r.Route("/products", func(r chi.Router) {
					r.Post("/", controllers.AdminCreateProduct(deps.ProductService, logg))
					r.Put("/{productId}", controllers.AdminUpdateProduct(deps.ProductService, logg))
					r.Patch("/{productId}", controllers.AdminUpdateProduct(deps.ProductService, logg))
					r.Delete("/{productId}", controllers.AdminDeleteProduct(deps.ProductService, logg))
				})

				r.Get("/orders", ordercontrollers.AdminListOrders(deps.OrderService, logg))
			})
		})
	})

	return r
}

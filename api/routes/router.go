package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/znforge/pos-backend/api/controllers"
	"github.com/znforge/pos-backend/api/middleware"
	"github.com/znforge/pos-backend/internal/auth"
	categorysvc "github.com/znforge/pos-backend/internal/categories"
	customersvc "github.com/znforge/pos-backend/internal/customers"
	productsvc "github.com/znforge/pos-backend/internal/products"
	reportingsvc "github.com/znforge/pos-backend/internal/reporting"
	salesvc "github.com/znforge/pos-backend/internal/sales"
	txnsvc "github.com/znforge/pos-backend/internal/transactions"
	"github.com/znforge/pos-backend/internal/users"
	"github.com/znforge/pos-backend/pkg/auth/session"
	"github.com/znforge/pos-backend/pkg/config"
	"github.com/znforge/pos-backend/pkg/db"
	"github.com/znforge/pos-backend/pkg/enums"
	"github.com/znforge/pos-backend/pkg/logger"
	"github.com/znforge/pos-backend/pkg/metrics"
	"github.com/znforge/pos-backend/pkg/redis"
)

// Deps collects everything the HTTP surface needs.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              db.Pinger
	Redis           *redis.Client
	SessionChecker  session.AccessSessionChecker
	AuthService     auth.Service
	RegisterService auth.RegisterService
	UsersRepo       *users.Repository
	Categories      categorysvc.Service
	Products        productsvc.Service
	Customers       customersvc.Service
	Transactions    txnsvc.Service
	Sales           salesvc.Service
	Reporting       reportingsvc.Service
	HTTPMetrics     *metrics.HTTPMetrics
	MetricsGatherer prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.RegisterService, deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

		r.Get("/auth/me", controllers.AuthMe(deps.UsersRepo, logg))

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/stats", controllers.DashboardStats(deps.Reporting, logg))
			r.Get("/recent-transactions", controllers.DashboardRecentTransactions(deps.Transactions, logg))
			r.Get("/top-products", controllers.DashboardTopProducts(deps.Reporting, logg))
			r.Get("/low-stock", controllers.DashboardLowStock(deps.Reporting, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(deps.Categories, logg))
			r.Post("/", controllers.CategoryCreate(deps.Categories, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Products, logg))
			r.Post("/", controllers.ProductCreate(deps.Products, logg))
			r.Get("/{productId}", controllers.ProductDetail(deps.Products, logg))
			r.Put("/{productId}", controllers.ProductUpdate(deps.Products, logg))
			r.With(middleware.RequireRole(string(enums.UserRoleAdmin), logg)).
				Delete("/{productId}", controllers.ProductDelete(deps.Products, logg))
			r.With(middleware.RequireAnyRole(logg, string(enums.UserRoleAdmin), string(enums.UserRoleManager))).
				Post("/{productId}/stock", controllers.ProductAdjustStock(deps.Products, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.CustomerList(deps.Customers, logg))
			r.Post("/", controllers.CustomerCreate(deps.Customers, logg))
			r.Get("/{customerId}", controllers.CustomerDetail(deps.Customers, logg))
			r.Put("/{customerId}", controllers.CustomerUpdate(deps.Customers, logg))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", controllers.TransactionList(deps.Transactions, logg))
			r.Post("/", controllers.TransactionCreate(deps.Sales, logg))
			r.Get("/{transactionId}", controllers.TransactionDetail(deps.Transactions, logg))
		})
	})

	return r
}

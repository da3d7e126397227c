package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/icedepot/icedepot/internal/catalog/customers"
	"github.com/icedepot/icedepot/internal/catalog/products"
	"github.com/icedepot/icedepot/internal/dashboard"
	"github.com/icedepot/icedepot/internal/fleet"
	"github.com/icedepot/icedepot/internal/observability"
	"github.com/icedepot/icedepot/internal/orders"
	"github.com/icedepot/icedepot/internal/payments"
	"github.com/icedepot/icedepot/internal/pod"
	"github.com/icedepot/icedepot/internal/runs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Pool             *pgxpool.Pool
	CustomersHandler *customers.Handler
	ProductsHandler  *products.Handler
	FleetHandler     *fleet.Handler
	OrdersHandler    *orders.Handler
	PaymentsHandler  *payments.Handler
	RunsHandler      *runs.Handler
	PodHandler       *pod.Handler
	DashboardHandler *dashboard.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Get("/metrics", params.Metrics.Handler().ServeHTTP)
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/customers", params.CustomersHandler.MountRoutes)
		api.Route("/products", params.ProductsHandler.MountRoutes)
		api.Route("/fleet", params.FleetHandler.MountRoutes)
		api.Route("/orders", params.OrdersHandler.MountRoutes)
		api.Route("/payments", params.PaymentsHandler.MountRoutes)
		api.Route("/runs", params.RunsHandler.MountRoutes)
		api.Route("/pod", params.PodHandler.MountRoutes)
		api.Route("/dashboard", params.DashboardHandler.MountRoutes)
	})

	return r
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keystonenotary/dispatch-backend/api/controllers"
	"github.com/keystonenotary/dispatch-backend/api/middleware"
	checkoutsvc "github.com/keystonenotary/dispatch-backend/internal/checkout"
	"github.com/keystonenotary/dispatch-backend/internal/dispatch"
	"github.com/keystonenotary/dispatch-backend/internal/distance"
	"github.com/keystonenotary/dispatch-backend/internal/kpi"
	"github.com/keystonenotary/dispatch-backend/internal/orders"
	"github.com/keystonenotary/dispatch-backend/internal/pricing"
	"github.com/keystonenotary/dispatch-backend/internal/vendors"
	"github.com/keystonenotary/dispatch-backend/pkg/config"
	"github.com/keystonenotary/dispatch-backend/pkg/logger"
	pkgredis "github.com/keystonenotary/dispatch-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. Nil entries degrade the
// affected endpoints rather than failing boot.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	ReadyChecks map[string]controllers.Pinger

	IdempotencyStore pkgredis.IdempotencyStore
	MetricsHandler   http.Handler

	PricingEngine    *pricing.Engine
	DistanceResolver *distance.Resolver
	OrdersService    orders.Service
	VendorsRepo      vendors.Repository
	DispatchService  dispatch.Service
	KPIService       *kpi.Service
	CheckoutService  *checkoutsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.ReadyChecks))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(deps.IdempotencyStore, logg))

		r.Post("/quotes", controllers.Quote(deps.PricingEngine, deps.DistanceResolver, logg))
		r.Post("/distance", controllers.Distance(deps.DistanceResolver, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(deps.OrdersService, logg))
			r.Get("/", controllers.ListOrders(deps.OrdersService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.OrdersService, logg))
			r.Post("/{orderId}/assign", controllers.AssignOrder(deps.DispatchService, logg))
			r.Get("/{orderId}/candidates", controllers.OrderCandidates(deps.DispatchService, logg))
			r.Post("/{orderId}/events", controllers.RecordOrderEvent(deps.DispatchService, logg))
		})

		r.Get("/vendors", controllers.ListVendors(deps.VendorsRepo, logg))
		r.Get("/kpi", controllers.KPISnapshot(deps.KPIService, logg))
		r.Post("/checkout", controllers.Checkout(deps.CheckoutService, logg))
	})

	return r
}

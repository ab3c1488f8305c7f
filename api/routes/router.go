package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rasoilink/rasoilink-backend/api/controllers"
	"github.com/rasoilink/rasoilink-backend/api/middleware"
	"github.com/rasoilink/rasoilink-backend/internal/grouporders"
	"github.com/rasoilink/rasoilink-backend/internal/inventory"
	"github.com/rasoilink/rasoilink-backend/internal/membership"
	"github.com/rasoilink/rasoilink-backend/internal/otp"
	"github.com/rasoilink/rasoilink-backend/internal/payments"
	"github.com/rasoilink/rasoilink-backend/internal/suppliers"
	"github.com/rasoilink/rasoilink-backend/internal/users"
	"github.com/rasoilink/rasoilink-backend/internal/vendors"
	"github.com/rasoilink/rasoilink-backend/internal/zones"
	"github.com/rasoilink/rasoilink-backend/pkg/config"
	"github.com/rasoilink/rasoilink-backend/pkg/logger"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Sessions middleware.SessionChecker

	Health map[string]controllers.Pinger

	OTP         otp.Service
	Zones       zones.Service
	Vendors     vendors.Service
	Suppliers   suppliers.Service
	Users       *users.Repository
	Inventory   inventory.Service
	GroupOrders grouporders.Service
	Membership  membership.Service
	Payments    payments.Service
	Media       controllers.MediaSigner

	MetricsRegistry *prometheus.Registry
}

// NewRouter assembles the HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Health))
	})

	if deps.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth/otp", func(r chi.Router) {
			r.Post("/request", controllers.OTPRequest(deps.OTP, logg))
			r.Post("/verify", controllers.OTPVerify(deps.OTP, logg))
		})

		r.Get("/zones", controllers.ZonesList(deps.Zones, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

			r.Route("/vendors", func(r chi.Router) {
				r.Post("/", controllers.VendorRegister(deps.Vendors, deps.Users, logg))
				r.Get("/me", controllers.VendorMe(deps.Vendors, logg))
				r.Patch("/me", controllers.VendorUpdate(deps.Vendors, logg))
			})

			r.Route("/suppliers", func(r chi.Router) {
				r.Post("/", controllers.SupplierRegister(deps.Suppliers, deps.Users, logg))
				r.Get("/me", controllers.SupplierMe(deps.Suppliers, logg))
				r.Patch("/me", controllers.SupplierUpdate(deps.Suppliers, logg))

				r.Route("/me/items", func(r chi.Router) {
					r.Use(middleware.RequireSupplier(logg))
					r.Get("/", controllers.ItemsList(deps.Inventory, deps.Suppliers, logg))
					r.Post("/", controllers.ItemCreate(deps.Inventory, deps.Suppliers, logg))
					r.Patch("/{itemId}", controllers.ItemUpdate(deps.Inventory, deps.Suppliers, logg))
				})

				r.With(middleware.RequireSupplier(logg)).
					Get("/me/group-orders", controllers.GroupOrdersMine(deps.GroupOrders, deps.Suppliers, logg))
			})

			r.Route("/group-orders", func(r chi.Router) {
				r.Get("/", controllers.GroupOrdersList(deps.GroupOrders, logg))
				r.With(middleware.RequireSupplier(logg)).
					Post("/", controllers.GroupOrderCreate(deps.GroupOrders, deps.Suppliers, logg))

				r.Route("/{orderId}", func(r chi.Router) {
					r.Get("/", controllers.GroupOrderGet(deps.GroupOrders, logg))
					r.Get("/proofs", controllers.GroupOrderProofs(deps.GroupOrders, logg))
					r.With(middleware.RequireVendor(logg)).
						Post("/join", controllers.GroupOrderJoin(deps.Membership, deps.Vendors, logg))
					r.With(middleware.RequireVendor(logg)).
						Get("/my-orders", controllers.GroupOrderMyOrders(deps.Membership, deps.Vendors, logg))
					r.With(middleware.RequireSupplier(logg)).
						Post("/status", controllers.GroupOrderStatus(deps.GroupOrders, deps.Suppliers, logg))
				})
			})

			r.Post("/cart/quote", controllers.CartQuote(deps.Membership, logg))
			r.With(middleware.RequireVendor(logg)).
				Post("/payments/simulate", controllers.PaymentSimulate(deps.Payments, deps.Vendors, logg))
			if deps.Media != nil {
				r.Post("/media/upload-url", controllers.MediaUploadURL(deps.Media, logg))
			}
		})
	})

	return r
}

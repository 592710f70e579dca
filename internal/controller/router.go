package controller

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/idrissabarry/vendgate/internal/infrastructure/config"
	"github.com/idrissabarry/vendgate/internal/infrastructure/observability"
	customMW "github.com/idrissabarry/vendgate/internal/middleware"
	"github.com/idrissabarry/vendgate/internal/service"
)

type RouterDeps struct {
	Pool           *pgxpool.Pool
	RedisClient    *redis.Client
	VendingService *service.VendingService
	Metrics        *observability.Metrics
	CORSConfig     config.CORSConfig
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(customMW.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	// The gateway itself is allowed 30s; leave headroom on top of that.
	r.Use(chimw.Timeout(45 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSConfig.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: deps.CORSConfig.AllowCredentials,
		MaxAge:           300,
	}))
	r.Use(customMW.Metrics(deps.Metrics))

	healthH := NewHealthController(deps.Pool, deps.RedisClient)
	vendingH := NewVendingController(deps.VendingService)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Agency account
		r.Get("/token", vendingH.TokenStatus)
		r.Get("/account", vendingH.AccountDetails)
		r.Post("/account/password", vendingH.ChangePassword)
		r.Post("/transfers", vendingH.Transfer)

		// Prepayment
		r.Get("/customers/{meter}", vendingH.CustomerDetails)
		r.Post("/sales", vendingH.SellPower)
		r.Get("/sales/{code}", vendingH.SaleDetails)
		r.Get("/customers/{meter}/sales", vendingH.SearchSales)
		r.Post("/arrears", vendingH.PayArrear)
		r.Get("/arrears/{code}", vendingH.ArrearDetails)
		r.Get("/customers/{meter}/arrears", vendingH.SearchArrears)

		// Postpayment
		r.Get("/customers/{meter}/bills", vendingH.CustomerBills)
		r.Get("/bills/{code}", vendingH.BillDetails)
		r.Post("/bill-payments", vendingH.PayBill)
		r.Get("/bill-payments/{code}", vendingH.BillPaymentDetails)
		r.Get("/customers/{meter}/bill-payments", vendingH.SearchBillPayments)
	})

	return r
}

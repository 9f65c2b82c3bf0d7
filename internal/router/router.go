// Package router assembles the chi route tree and middleware chain.
package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/josh-kwaku/securebank/internal/handler"
	"github.com/josh-kwaku/securebank/internal/middleware"
)

type Handlers struct {
	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	Account     *handler.AccountHandler
	Transaction *handler.TransactionHandler
	Loan        *handler.LoanHandler
	Investment  *handler.InvestmentHandler
}

type Config struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	RequestTimeout time.Duration
	OpenAPISpec    []byte
}

// New mounts the API under /api/v1. Authenticated routes run Auth before
// Idempotency so cached responses are scoped to the caller's account.
func New(cfg Config, h Handlers, authn func(http.Handler) http.Handler, idempotency func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Tracing)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Recovery)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Idempotent-Replayed"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(chimw.Timeout(cfg.RequestTimeout))

	r.Get("/health/live", h.Health.Liveness)
	r.Get("/health/ready", h.Health.Readiness)
	r.Get("/docs", handler.ServeDocs("SecureBank API Documentation", "/docs/openapi.yaml"))
	r.Get("/docs/openapi.yaml", handler.ServeSpec(cfg.OpenAPISpec))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/signup", h.Auth.Signup)
		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Use(idempotency)

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/user", func(r chi.Router) {
				r.Get("/profile", h.Account.GetProfile)
				r.Put("/profile", h.Account.UpdateProfile)
				r.Get("/balance", h.Account.GetBalance)
				r.Post("/balance/adjust", h.Account.AdjustBalance)
				r.Delete("/", h.Account.Deactivate)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Post("/send-money", h.Transaction.SendMoney)
				r.Post("/request-money", h.Transaction.RequestMoney)
				r.Get("/history", h.Transaction.History)
				r.Get("/recent", h.Transaction.Recent)
				r.Post("/qr-payment", h.Transaction.QRPayment)
				r.Post("/qr-codes", h.Transaction.IssueQRCode)
				r.Get("/payment-requests", h.Transaction.ListPaymentRequests)
				r.Post("/payment-requests/{id}/pay", h.Transaction.PayRequest)
				r.Post("/payment-requests/{id}/cancel", h.Transaction.CancelPaymentRequest)
			})

			r.Route("/loans", func(r chi.Router) {
				r.Get("/", h.Loan.List)
				r.Get("/calculator", h.Loan.Calculator)
				r.Post("/apply", h.Loan.Apply)
				r.Get("/{id}", h.Loan.Get)
				r.Get("/{id}/payments", h.Loan.Payments)
				r.Post("/{id}/pay-emi", h.Loan.PayEMI)
			})

			r.Route("/investments", func(r chi.Router) {
				r.Get("/", h.Investment.List)
				r.Post("/", h.Investment.Create)
				r.Get("/portfolio", h.Investment.Portfolio)
				r.Put("/{id}", h.Investment.Revalue)
				r.Delete("/{id}", h.Investment.Sell)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handler.RespondAppError(w, handler.ErrResourceNotFound, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handler.RespondAppError(w, handler.ErrMethodNotAllowed, nil)
	})

	return r
}

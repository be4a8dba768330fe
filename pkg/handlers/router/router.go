// Package router mounts the HTTP handlers on a chi router.
package router

import (
	"log/slog"
	"net/http"

	"github.com/chris/crypto-investments/pkg/handlers/accounts"
	"github.com/chris/crypto-investments/pkg/handlers/catalog"
	"github.com/chris/crypto-investments/pkg/handlers/investments"
	"github.com/chris/crypto-investments/pkg/handlers/withdrawals"
	"github.com/chris/crypto-investments/pkg/lifecycle"
	"github.com/chris/crypto-investments/pkg/metrics"
	"github.com/chris/crypto-investments/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Options configures New. Metrics and WebSocket are optional.
type Options struct {
	Service   *lifecycle.Service
	Logger    *slog.Logger
	Metrics   *metrics.MetricsCollector
	WebSocket http.Handler
}

// New builds the service router.
func New(opts Options) chi.Router {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	inv := investments.NewInvestmentsHandler(opts.Service)
	wd := withdrawals.NewWithdrawalsHandler(opts.Service)
	acct := accounts.NewAccountsHandler(opts.Service)
	cat := catalog.NewCatalogHandler(opts.Service)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Identity)
	r.Use(middleware.NewStructuredLogger(logger, opts.Metrics))

	r.Get("/plans", cat.ListPlans)
	r.Get("/cryptos", cat.ListCryptos)
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.GetHandler())
	}
	if opts.WebSocket != nil {
		r.Handle("/ws", opts.WebSocket)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)

		r.Post("/profiles", acct.RegisterProfile)
		r.Post("/investments", inv.CreateInvestment)
		r.Route("/investments/{id}", func(r chi.Router) {
			r.Get("/", inv.GetInvestment)
			r.Post("/withdraw", inv.Withdraw)
			r.Post("/withdraw-to-wallet", inv.WithdrawToWallet)
			r.Post("/reinvest", inv.Reinvest)
		})

		r.Post("/withdrawals", wd.RequestWithdrawal)

		r.Route("/users/{userId}", func(r chi.Router) {
			r.Get("/dashboard", acct.GetDashboard)
			r.Get("/ledger", acct.ListLedgerEntries)
			r.Get("/withdrawals", wd.ListUserWithdrawals)
			r.Post("/referral-earnings/transfer", acct.TransferReferralEarnings)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/investments", inv.ListInvestments)
			r.Post("/investments/{id}/approve", inv.ApproveInvestment)
			r.Post("/investments/{id}/deny", inv.DenyInvestment)
			r.Get("/withdrawals", wd.ListWithdrawals)
			r.Post("/withdrawals/{id}/approve", wd.ApproveWithdrawal)
			r.Post("/withdrawals/{id}/reject", wd.RejectWithdrawal)
			r.Post("/users/{userId}/bonus", acct.GiveBonus)
			r.Post("/users/{userId}/deduct", acct.DeductBalance)
			r.Put("/cryptos/{id}/address", cat.UpdateCryptoAddress)
		})
	})

	return r
}

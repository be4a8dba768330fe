package accounts

import (
	"context"
	"net/http"
	"strconv"

	"github.com/chris/crypto-investments/pkg/api"
	"github.com/chris/crypto-investments/pkg/handlers"
	"github.com/chris/crypto-investments/pkg/lifecycle"
	"github.com/chris/crypto-investments/pkg/mapping"
	"github.com/chris/crypto-investments/pkg/middleware"
	"github.com/chris/crypto-investments/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type Service interface {
	RegisterProfile(ctx context.Context, actor lifecycle.Actor, referredBy string) (*models.Profile, error)
	Dashboard(ctx context.Context, actor lifecycle.Actor, userID string) (*lifecycle.Dashboard, error)
	Ledger(ctx context.Context, actor lifecycle.Actor, userID string, limit int32) ([]models.LedgerEntry, error)
	TransferReferralEarnings(ctx context.Context, actor lifecycle.Actor, userID string) (decimal.Decimal, error)
	GiveBonus(ctx context.Context, actor lifecycle.Actor, userID string, amount decimal.Decimal, note string) error
	DeductBalance(ctx context.Context, actor lifecycle.Actor, userID string, amount decimal.Decimal, note string) error
}

// AccountsHandler serves a user's balances, dashboard and ledger.
type AccountsHandler struct {
	Service Service
}

func NewAccountsHandler(svc Service) *AccountsHandler {
	return &AccountsHandler{Service: svc}
}

// RegisterProfile handles POST /profiles.
func (h *AccountsHandler) RegisterProfile(w http.ResponseWriter, r *http.Request) {
	var body api.NewProfile
	if err := handlers.DecodeJSON(r, &body); err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	p, err := h.Service.RegisterProfile(r.Context(), middleware.ActorFrom(r.Context()), body.ReferredBy)
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusCreated, mapping.ToApiProfile(p))
}

// GetDashboard handles GET /users/{userId}/dashboard.
func (h *AccountsHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Service.Dashboard(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "userId"))
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, mapping.ToApiDashboard(d))
}

// ListLedgerEntries handles GET /users/{userId}/ledger?limit=.
func (h *AccountsHandler) ListLedgerEntries(w http.ResponseWriter, r *http.Request) {
	var limit int32
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n <= 0 {
			handlers.WriteError(w, r, &lifecycle.ValidationError{Field: "limit", Reason: "must be a positive integer"})
			return
		}
		limit = int32(n)
	}

	entries, err := h.Service.Ledger(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "userId"), limit)
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}

	apiEntries := make([]api.LedgerEntry, len(entries))
	for i := range entries {
		apiEntries[i] = mapping.ToApiLedgerEntry(&entries[i])
	}
	handlers.WriteJSON(w, http.StatusOK, apiEntries)
}

// TransferReferralEarnings handles POST /users/{userId}/referral-earnings/transfer.
func (h *AccountsHandler) TransferReferralEarnings(w http.ResponseWriter, r *http.Request) {
	amount, err := h.Service.TransferReferralEarnings(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "userId"))
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, api.ReferralTransfer{Amount: amount.String()})
}

// GiveBonus handles POST /admin/users/{userId}/bonus.
func (h *AccountsHandler) GiveBonus(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.Service.GiveBonus)
}

// DeductBalance handles POST /admin/users/{userId}/deduct.
func (h *AccountsHandler) DeductBalance(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.Service.DeductBalance)
}

func (h *AccountsHandler) adjust(w http.ResponseWriter, r *http.Request, op func(context.Context, lifecycle.Actor, string, decimal.Decimal, string) error) {
	var body api.BalanceAdjustment
	if err := handlers.DecodeJSON(r, &body); err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	amount, err := handlers.ParseAmount("amount", body.Amount)
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	if err := op(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "userId"), amount, body.Note); err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

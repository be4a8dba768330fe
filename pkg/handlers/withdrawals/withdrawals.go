package withdrawals

import (
	"context"
	"net/http"

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
	RequestWalletWithdrawal(ctx context.Context, actor lifecycle.Actor, amount decimal.Decimal, target lifecycle.WalletTarget) (*models.WithdrawalRequest, error)
	UserWithdrawals(ctx context.Context, actor lifecycle.Actor, userID string) ([]models.WithdrawalRequest, error)
	ListWithdrawals(ctx context.Context, actor lifecycle.Actor, status models.WithdrawalStatus) ([]models.WithdrawalRequest, error)
	ApproveWithdrawal(ctx context.Context, actor lifecycle.Actor, id string) (*models.WithdrawalRequest, error)
	RejectWithdrawal(ctx context.Context, actor lifecycle.Actor, id string) (*models.WithdrawalRequest, error)
}

// WithdrawalsHandler holds the dependencies for wallet withdrawal handlers.
type WithdrawalsHandler struct {
	Service Service
}

func NewWithdrawalsHandler(svc Service) *WithdrawalsHandler {
	return &WithdrawalsHandler{Service: svc}
}

// RequestWithdrawal handles POST /withdrawals.
func (h *WithdrawalsHandler) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	var body api.NewWithdrawal
	if err := handlers.DecodeJSON(r, &body); err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	amount, err := handlers.ParseAmount("amount", body.Amount)
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}

	req, err := h.Service.RequestWalletWithdrawal(r.Context(), middleware.ActorFrom(r.Context()), amount, lifecycle.WalletTarget{
		Crypto:  body.Crypto,
		Address: body.Address,
	})
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusCreated, mapping.ToApiWithdrawal(req))
}

// ListUserWithdrawals handles GET /users/{userId}/withdrawals.
func (h *WithdrawalsHandler) ListUserWithdrawals(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.Service.UserWithdrawals(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "userId"))
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, mapping.ToApiWithdrawals(reqs))
}

// ListWithdrawals handles GET /admin/withdrawals?status=.
func (h *WithdrawalsHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	status := models.WithdrawalStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = models.WithdrawalPending
	}
	reqs, err := h.Service.ListWithdrawals(r.Context(), middleware.ActorFrom(r.Context()), status)
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, mapping.ToApiWithdrawals(reqs))
}

// ApproveWithdrawal handles POST /admin/withdrawals/{id}/approve.
func (h *WithdrawalsHandler) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	req, err := h.Service.ApproveWithdrawal(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, mapping.ToApiWithdrawal(req))
}

// RejectWithdrawal handles POST /admin/withdrawals/{id}/reject.
func (h *WithdrawalsHandler) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	req, err := h.Service.RejectWithdrawal(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, mapping.ToApiWithdrawal(req))
}

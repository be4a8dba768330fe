package investments

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
)

// Service is the part of the lifecycle service these handlers use.
type Service interface {
	Create(ctx context.Context, actor lifecycle.Actor, req lifecycle.CreateRequest) (*models.Investment, error)
	GetInvestment(ctx context.Context, actor lifecycle.Actor, id string) (*lifecycle.InvestmentView, error)
	Withdraw(ctx context.Context, actor lifecycle.Actor, id string) (*models.Investment, error)
	WithdrawToWallet(ctx context.Context, actor lifecycle.Actor, id string, target lifecycle.WalletTarget) (*models.WithdrawalRequest, error)
	Reinvest(ctx context.Context, actor lifecycle.Actor, id string, req lifecycle.ReinvestRequest) (*lifecycle.ReinvestResult, error)
	Approve(ctx context.Context, actor lifecycle.Actor, id string) (*models.Investment, error)
	Deny(ctx context.Context, actor lifecycle.Actor, id string) (*models.Investment, error)
	ListInvestments(ctx context.Context, actor lifecycle.Actor, status models.InvestmentStatus) ([]lifecycle.InvestmentView, error)
}

// InvestmentsHandler holds the dependencies for investment-related handlers.
type InvestmentsHandler struct {
	Service Service
}

// NewInvestmentsHandler creates a new InvestmentsHandler.
func NewInvestmentsHandler(svc Service) *InvestmentsHandler {
	return &InvestmentsHandler{Service: svc}
}

// CreateInvestment handles POST /investments.
func (h *InvestmentsHandler) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	var body api.NewInvestment
	if err := handlers.DecodeJSON(r, &body); err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	amount, err := handlers.ParseAmount("amount", body.Amount)
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}

	inv, err := h.Service.Create(r.Context(), middleware.ActorFrom(r.Context()), lifecycle.CreateRequest{
		PlanName: body.Plan,
		Amount:   amount,
		Crypto:   body.Crypto,
	})
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusCreated, mapping.ToApiInvestment(inv, nil))
}

// GetInvestment handles GET /investments/{id}.
func (h *InvestmentsHandler) GetInvestment(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.GetInvestment(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, mapping.ToApiInvestmentView(view))
}

// Withdraw handles POST /investments/{id}/withdraw.
func (h *InvestmentsHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Service.Withdraw(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, mapping.ToApiInvestment(inv, nil))
}

// WithdrawToWallet handles POST /investments/{id}/withdraw-to-wallet.
func (h *InvestmentsHandler) WithdrawToWallet(w http.ResponseWriter, r *http.Request) {
	var body api.WalletTarget
	if err := handlers.DecodeJSON(r, &body); err != nil {
		handlers.WriteError(w, r, err)
		return
	}

	req, err := h.Service.WithdrawToWallet(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id"), lifecycle.WalletTarget{
		Crypto:  body.Crypto,
		Address: body.Address,
	})
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusCreated, mapping.ToApiWithdrawal(req))
}

// Reinvest handles POST /investments/{id}/reinvest.
func (h *InvestmentsHandler) Reinvest(w http.ResponseWriter, r *http.Request) {
	var body api.ReinvestRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	req := lifecycle.ReinvestRequest{All: body.All}
	if !body.All {
		amount, err := handlers.ParseAmount("amount", body.Amount)
		if err != nil {
			handlers.WriteError(w, r, err)
			return
		}
		req.Amount = amount
	}

	res, err := h.Service.Reinvest(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusCreated, mapping.ToApiReinvestResponse(res))
}

// ListInvestments handles GET /admin/investments?status=.
func (h *InvestmentsHandler) ListInvestments(w http.ResponseWriter, r *http.Request) {
	status := models.InvestmentStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = models.PENDING
	}

	views, err := h.Service.ListInvestments(r.Context(), middleware.ActorFrom(r.Context()), status)
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, mapping.ToApiInvestmentViews(views))
}

// ApproveInvestment handles POST /admin/investments/{id}/approve.
func (h *InvestmentsHandler) ApproveInvestment(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.Service.Approve)
}

// DenyInvestment handles POST /admin/investments/{id}/deny.
func (h *InvestmentsHandler) DenyInvestment(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.Service.Deny)
}

func (h *InvestmentsHandler) review(w http.ResponseWriter, r *http.Request, op func(context.Context, lifecycle.Actor, string) (*models.Investment, error)) {
	inv, err := op(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, mapping.ToApiInvestment(inv, nil))
}

package catalog

import (
	"context"
	"net/http"

	"github.com/chris/crypto-investments/pkg/api"
	"github.com/chris/crypto-investments/pkg/handlers"
	"github.com/chris/crypto-investments/pkg/lifecycle"
	"github.com/chris/crypto-investments/pkg/mapping"
	"github.com/chris/crypto-investments/pkg/middleware"
	"github.com/chris/crypto-investments/pkg/models"
	"github.com/chris/crypto-investments/pkg/plans"
	"github.com/go-chi/chi/v5"
)

type Service interface {
	Catalog() *plans.Catalog
	ListCryptos(ctx context.Context) ([]models.Crypto, error)
	UpdateCryptoAddress(ctx context.Context, actor lifecycle.Actor, id, address string) error
}

// CatalogHandler serves the plan and cryptocurrency catalogs.
type CatalogHandler struct {
	Service Service
}

func NewCatalogHandler(svc Service) *CatalogHandler {
	return &CatalogHandler{Service: svc}
}

// ListPlans handles GET /plans.
func (h *CatalogHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	all := h.Service.Catalog().All()
	out := make([]api.Plan, len(all))
	for i, p := range all {
		out[i] = mapping.ToApiPlan(p)
	}
	handlers.WriteJSON(w, http.StatusOK, out)
}

// ListCryptos handles GET /cryptos.
func (h *CatalogHandler) ListCryptos(w http.ResponseWriter, r *http.Request) {
	cryptos, err := h.Service.ListCryptos(r.Context())
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	out := make([]api.Crypto, len(cryptos))
	for i := range cryptos {
		out[i] = mapping.ToApiCrypto(&cryptos[i])
	}
	handlers.WriteJSON(w, http.StatusOK, out)
}

// UpdateCryptoAddress handles PUT /admin/cryptos/{id}/address.
func (h *CatalogHandler) UpdateCryptoAddress(w http.ResponseWriter, r *http.Request) {
	var body api.CryptoAddressUpdate
	if err := handlers.DecodeJSON(r, &body); err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	if err := h.Service.UpdateCryptoAddress(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id"), body.Address); err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

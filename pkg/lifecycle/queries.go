package lifecycle

import (
	"context"
	"strings"

	"github.com/chris/crypto-investments/pkg/accrual"
	"github.com/chris/crypto-investments/pkg/models"
	"github.com/shopspring/decimal"
)

// InvestmentView is an investment together with its accrual at read time.
type InvestmentView struct {
	Investment models.Investment
	Accrual    accrual.Snapshot
}

// Dashboard aggregates a user's investments and balances.
type Dashboard struct {
	Profile         models.Profile
	Investments     []InvestmentView
	ActiveCount     int
	ActivePrincipal decimal.Decimal
	AccruedEarnings decimal.Decimal
}

const defaultLedgerLimit = 50

func (s *Service) view(inv *models.Investment) InvestmentView {
	return InvestmentView{Investment: *inv, Accrual: accrual.Compute(inv, s.now())}
}

// GetInvestment returns one investment with its current accrual.
func (s *Service) GetInvestment(ctx context.Context, actor Actor, id string) (*InvestmentView, error) {
	inv, err := s.store.GetInvestment(ctx, id)
	if err != nil {
		return nil, fromStore("get investment", err)
	}
	if err := requireOwnerOrAdmin(actor, inv.UserId, "view investment"); err != nil {
		return nil, err
	}
	v := s.view(inv)
	return &v, nil
}

// Dashboard returns every investment of a user with its accrual, plus totals
// over the ACTIVE ones.
func (s *Service) Dashboard(ctx context.Context, actor Actor, userID string) (*Dashboard, error) {
	if err := requireOwnerOrAdmin(actor, userID, "view dashboard"); err != nil {
		return nil, err
	}
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fromStore("get profile", err)
	}
	investments, err := s.store.ListInvestmentsByUserID(ctx, userID)
	if err != nil {
		return nil, fromStore("list investments", err)
	}

	d := &Dashboard{
		Profile:         *profile,
		Investments:     make([]InvestmentView, 0, len(investments)),
		ActivePrincipal: decimal.Zero,
		AccruedEarnings: decimal.Zero,
	}
	for i := range investments {
		v := s.view(&investments[i])
		d.Investments = append(d.Investments, v)
		if v.Investment.Status == models.ACTIVE {
			d.ActiveCount++
			d.ActivePrincipal = d.ActivePrincipal.Add(v.Investment.Amount)
			d.AccruedEarnings = d.AccruedEarnings.Add(v.Accrual.AccruedProfit)
		}
	}
	return d, nil
}

// ListInvestments returns investments in a stored status for review.
func (s *Service) ListInvestments(ctx context.Context, actor Actor, status models.InvestmentStatus) ([]InvestmentView, error) {
	if err := requireAdmin(actor, "list investments"); err != nil {
		return nil, err
	}
	switch status {
	case models.PENDING, models.ACTIVE, models.WITHDRAWN, models.DENIED:
	default:
		return nil, invalid("status", "unknown investment status %q", status)
	}
	investments, err := s.store.ListInvestmentsByStatus(ctx, status)
	if err != nil {
		return nil, fromStore("list investments", err)
	}
	views := make([]InvestmentView, len(investments))
	for i := range investments {
		views[i] = s.view(&investments[i])
	}
	return views, nil
}

// Ledger returns a user's most recent ledger entries.
func (s *Service) Ledger(ctx context.Context, actor Actor, userID string, limit int32) ([]models.LedgerEntry, error) {
	if err := requireOwnerOrAdmin(actor, userID, "view ledger"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultLedgerLimit
	}
	entries, err := s.store.ListLedgerEntries(ctx, userID, limit)
	if err != nil {
		return nil, fromStore("list ledger entries", err)
	}
	return entries, nil
}

// UserWithdrawals returns a user's wallet withdrawal requests.
func (s *Service) UserWithdrawals(ctx context.Context, actor Actor, userID string) ([]models.WithdrawalRequest, error) {
	if err := requireOwnerOrAdmin(actor, userID, "view withdrawals"); err != nil {
		return nil, err
	}
	reqs, err := s.store.ListWithdrawalsByUserID(ctx, userID)
	if err != nil {
		return nil, fromStore("list withdrawals", err)
	}
	return reqs, nil
}

// ListWithdrawals returns withdrawal requests in a status for review.
func (s *Service) ListWithdrawals(ctx context.Context, actor Actor, status models.WithdrawalStatus) ([]models.WithdrawalRequest, error) {
	if err := requireAdmin(actor, "list withdrawals"); err != nil {
		return nil, err
	}
	switch status {
	case models.WithdrawalPending, models.WithdrawalApproved, models.WithdrawalRejected:
	default:
		return nil, invalid("status", "unknown withdrawal status %q", status)
	}
	reqs, err := s.store.ListWithdrawalsByStatus(ctx, status)
	if err != nil {
		return nil, fromStore("list withdrawals", err)
	}
	return reqs, nil
}

// ListCryptos returns the supported cryptocurrencies.
func (s *Service) ListCryptos(ctx context.Context) ([]models.Crypto, error) {
	cryptos, err := s.store.ListCryptos(ctx)
	if err != nil {
		return nil, fromStore("list cryptos", err)
	}
	return cryptos, nil
}

// UpdateCryptoAddress changes the deposit address for a cryptocurrency.
// Existing investments keep the address they were created with.
func (s *Service) UpdateCryptoAddress(ctx context.Context, actor Actor, id, address string) error {
	if err := requireAdmin(actor, "update crypto address"); err != nil {
		return err
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return invalid("address", "is required")
	}
	if err := s.store.UpdateCryptoAddress(ctx, id, address); err != nil {
		return fromStore("update crypto address", err)
	}
	s.logger.Info("crypto address updated", "crypto", id, "admin_id", actor.UserID)
	return nil
}

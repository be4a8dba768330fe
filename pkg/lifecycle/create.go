package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chris/crypto-investments/pkg/models"
	"github.com/chris/crypto-investments/pkg/storage"
	"github.com/chris/crypto-investments/pkg/websockets"
	"github.com/shopspring/decimal"
)

// CreateRequest is an investor's deposit into a plan.
type CreateRequest struct {
	PlanName string
	Amount   decimal.Decimal
	Crypto   string
}

// Create records a pending investment and its pending deposit entry. The
// investor's balances are not touched. On the investor's first investment the
// has_invested flag is set and any referral commission is paid in the same
// write.
func (s *Service) Create(ctx context.Context, actor Actor, req CreateRequest) (inv *models.Investment, err error) {
	defer s.observe("create", time.Now(), &err)

	if actor.UserID == "" {
		return nil, &forbiddenError{op: "create investment", reason: "no user"}
	}
	plan, err := s.catalog.Lookup(req.PlanName)
	if err != nil {
		return nil, invalid("plan", "unknown plan %q", req.PlanName)
	}
	if !req.Amount.IsPositive() {
		return nil, invalid("amount", "must be positive")
	}
	if !plan.Accepts(req.Amount) {
		return nil, invalid("amount", "%s is outside the %s range", req.Amount, plan.Name)
	}
	if strings.TrimSpace(req.Crypto) == "" {
		return nil, invalid("crypto", "is required")
	}

	crypto, err := s.store.GetCrypto(ctx, req.Crypto)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, invalid("crypto", "unsupported cryptocurrency %q", req.Crypto)
		}
		return nil, fromStore("get crypto", err)
	}
	profile, err := s.store.GetProfile(ctx, actor.UserID)
	if err != nil {
		return nil, fromStore("get profile", err)
	}

	now := s.now()
	inv = &models.Investment{
		Id:             s.newID(),
		UserId:         actor.UserID,
		PlanName:       plan.Name,
		Amount:         req.Amount,
		DailyRate:      plan.DailyRate,
		DurationDays:   plan.DurationDays,
		Crypto:         crypto.Id,
		DepositAddress: crypto.Address,
		Status:         models.PENDING,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	deposit := &models.LedgerEntry{
		EntryID:      s.newID(),
		UserId:       actor.UserID,
		Type:         models.DEPOSIT,
		Amount:       req.Amount,
		Status:       models.EntryPending,
		Description:  fmt.Sprintf("Investment in %s", plan.Name),
		Reference:    inv.Id,
		InvestmentID: inv.Id,
		Timestamp:    now,
	}

	first := s.referral.Evaluate(profile, inv)
	err = s.store.CreateInvestment(ctx, inv, deposit, first)
	if errors.Is(err, storage.ErrAlreadyInvested) {
		// A concurrent request recorded the first investment; this one is an
		// ordinary investment.
		s.logger.Info("first investment already recorded, creating without referral", "user_id", actor.UserID)
		first = nil
		err = s.store.CreateInvestment(ctx, inv, deposit, nil)
	}
	if err != nil {
		return nil, fromStore("create investment", err)
	}

	s.logger.Info("investment created", "investment_id", inv.Id, "user_id", inv.UserId, "plan", inv.PlanName, "amount", inv.Amount.String())
	if first.HasCommission() {
		s.logger.Info("referral commission credited", "referrer_id", first.ReferrerId, "investor_id", first.InvestorId, "commission", first.Commission.String())
		s.metrics.RecordCommission(first.Commission)
		s.metrics.RecordCredit(string(models.ReferralEarnings), "referral", first.Commission)
		s.publish(ctx, first.ReferrerId, websockets.BalanceUpdate(first.ReferrerId, string(models.ReferralEarnings), first.Commission, inv.Id))
	}
	s.publish(ctx, inv.UserId, websockets.InvestmentUpdate(inv.UserId, inv.Id, string(inv.Status), ""))

	return inv, nil
}

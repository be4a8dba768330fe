package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chris/crypto-investments/pkg/accrual"
	"github.com/chris/crypto-investments/pkg/models"
	"github.com/chris/crypto-investments/pkg/storage"
	"github.com/chris/crypto-investments/pkg/websockets"
	"github.com/shopspring/decimal"
)

// ReinvestRequest rolls matured proceeds into a new investment. When All is
// set, Amount is ignored and the full maturity value is reinvested.
type ReinvestRequest struct {
	Amount decimal.Decimal
	All    bool
}

// ReinvestResult is the outcome of a reinvestment.
type ReinvestResult struct {
	Original   *models.Investment
	Rollover   *models.Investment
	Remainder  decimal.Decimal
	TotalValue decimal.Decimal
}

// WalletTarget is the external wallet matured proceeds are paid out to.
type WalletTarget struct {
	Crypto  string
	Address string
}

// Withdraw closes a matured investment and credits principal plus profit to
// the investor's withdrawable balance.
func (s *Service) Withdraw(ctx context.Context, actor Actor, id string) (inv *models.Investment, err error) {
	defer s.observe("withdraw", time.Now(), &err)

	inv, err = s.matured(ctx, actor, "withdraw", id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	total := accrual.MaturityValue(inv)
	d := &models.Disposal{
		Investment:  inv,
		Disposition: models.Disposition{Kind: models.DispositionToBalance},
		Credit:      total,
		Entries: []models.LedgerEntry{{
			EntryID:      s.newID(),
			UserId:       inv.UserId,
			Type:         models.WITHDRAWAL,
			Subtype:      models.DispositionToBalance,
			Amount:       total,
			Status:       models.EntryCompleted,
			Description:  fmt.Sprintf("Withdrawal of matured %s investment to balance", inv.PlanName),
			Reference:    inv.Id,
			InvestmentID: inv.Id,
			Timestamp:    now,
		}},
		At: now,
	}
	if err := s.dispose(ctx, "withdraw", d); err != nil {
		return nil, err
	}

	s.logger.Info("investment withdrawn to balance", "investment_id", inv.Id, "user_id", inv.UserId, "credit", total.String())
	s.metrics.RecordCredit(string(models.WithdrawableBalance), "withdraw", total)
	s.publish(ctx, inv.UserId, websockets.BalanceUpdate(inv.UserId, string(models.WithdrawableBalance), total, inv.Id))
	return inv, nil
}

// Reinvest closes a matured investment and opens a new pending one in the
// same plan and crypto. Whatever is not reinvested is credited to the
// withdrawable balance, so the new amount plus the credit always equals the
// maturity value.
func (s *Service) Reinvest(ctx context.Context, actor Actor, id string, req ReinvestRequest) (res *ReinvestResult, err error) {
	defer s.observe("reinvest", time.Now(), &err)

	inv, err := s.matured(ctx, actor, "reinvest", id)
	if err != nil {
		return nil, err
	}

	total := accrual.MaturityValue(inv)
	amount := req.Amount
	if req.All {
		amount = total
	}
	if !amount.IsPositive() {
		return nil, invalid("amount", "must be positive")
	}
	if amount.GreaterThan(total) {
		return nil, invalid("amount", "%s exceeds the matured value %s", amount, total)
	}
	remainder := total.Sub(amount)

	now := s.now()
	rollover := &models.Investment{
		Id:             s.newID(),
		UserId:         inv.UserId,
		PlanName:       inv.PlanName,
		Amount:         amount,
		DailyRate:      inv.DailyRate,
		DurationDays:   inv.DurationDays,
		Crypto:         inv.Crypto,
		DepositAddress: inv.DepositAddress,
		Status:         models.PENDING,
		RolledFrom:     inv.Id,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	entries := []models.LedgerEntry{{
		EntryID:      s.newID(),
		UserId:       inv.UserId,
		Type:         models.DEPOSIT,
		Subtype:      models.DispositionRolledOver,
		Amount:       amount,
		Status:       models.EntryPending,
		Description:  fmt.Sprintf("Reinvestment of matured %s investment", inv.PlanName),
		Reference:    inv.Id,
		InvestmentID: rollover.Id,
		Timestamp:    now,
	}}
	if remainder.IsPositive() {
		entries = append(entries, models.LedgerEntry{
			EntryID:      s.newID(),
			UserId:       inv.UserId,
			Type:         models.WITHDRAWAL,
			Subtype:      models.DispositionToBalance,
			Amount:       remainder,
			Status:       models.EntryCompleted,
			Description:  "Reinvestment remainder to balance",
			Reference:    inv.Id,
			InvestmentID: inv.Id,
			Timestamp:    now,
		})
	}

	d := &models.Disposal{
		Investment:  inv,
		Disposition: models.Disposition{Kind: models.DispositionRolledOver, Into: rollover.Id},
		Credit:      remainder,
		Rollover:    rollover,
		Entries:     entries,
		At:          now,
	}
	if err := s.dispose(ctx, "reinvest", d); err != nil {
		return nil, err
	}
	inv.Reinvested = true

	s.logger.Info("investment reinvested", "investment_id", inv.Id, "rollover_id", rollover.Id, "amount", amount.String(), "remainder", remainder.String())
	s.publish(ctx, inv.UserId, websockets.InvestmentUpdate(inv.UserId, rollover.Id, string(rollover.Status), ""))
	if remainder.IsPositive() {
		s.metrics.RecordCredit(string(models.WithdrawableBalance), "reinvest_remainder", remainder)
		s.publish(ctx, inv.UserId, websockets.BalanceUpdate(inv.UserId, string(models.WithdrawableBalance), remainder, inv.Id))
	}

	return &ReinvestResult{Original: inv, Rollover: rollover, Remainder: remainder, TotalValue: total}, nil
}

// WithdrawToWallet closes a matured investment and files a pending wallet
// withdrawal request for its full value. The balance is not touched.
func (s *Service) WithdrawToWallet(ctx context.Context, actor Actor, id string, target WalletTarget) (req *models.WithdrawalRequest, err error) {
	defer s.observe("withdraw_to_wallet", time.Now(), &err)

	if err := s.validateTarget(ctx, target); err != nil {
		return nil, err
	}
	inv, err := s.matured(ctx, actor, "withdraw", id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	total := accrual.MaturityValue(inv)
	req = &models.WithdrawalRequest{
		Id:           s.newID(),
		UserId:       inv.UserId,
		Amount:       total,
		Crypto:       target.Crypto,
		Address:      strings.TrimSpace(target.Address),
		Source:       models.SourceInvestment,
		InvestmentID: inv.Id,
		Status:       models.WithdrawalPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	d := &models.Disposal{
		Investment:  inv,
		Disposition: models.Disposition{Kind: models.DispositionToWallet, Into: req.Id},
		Withdrawal:  req,
		Entries: []models.LedgerEntry{{
			EntryID:      models.WithdrawalEntryID(req.Id),
			UserId:       inv.UserId,
			Type:         models.WITHDRAWAL,
			Subtype:      models.DispositionToWallet,
			Amount:       total,
			Status:       models.EntryPending,
			Description:  fmt.Sprintf("Withdrawal of matured %s investment to %s wallet", inv.PlanName, target.Crypto),
			Reference:    req.Id,
			InvestmentID: inv.Id,
			Timestamp:    now,
		}},
		At: now,
	}
	if err := s.dispose(ctx, "withdraw", d); err != nil {
		return nil, err
	}

	s.logger.Info("investment withdrawn to wallet", "investment_id", inv.Id, "withdrawal_id", req.Id, "amount", total.String())
	return req, nil
}

// matured loads an investment and checks that the actor owns it and that it
// is ACTIVE with its full duration elapsed.
func (s *Service) matured(ctx context.Context, actor Actor, op, id string) (*models.Investment, error) {
	inv, err := s.store.GetInvestment(ctx, id)
	if err != nil {
		return nil, fromStore("get investment", err)
	}
	if err := requireOwner(actor, inv.UserId, op+" investment"); err != nil {
		return nil, err
	}
	if inv.Status != models.ACTIVE {
		return nil, &PreconditionError{Operation: op, ID: id, Current: string(inv.Status)}
	}
	now := s.now()
	if !accrual.IsMatured(inv, now) {
		snap := accrual.Compute(inv, now)
		return nil, &PreconditionError{
			Operation: op,
			ID:        id,
			Current:   string(snap.Status),
			Reason:    fmt.Sprintf("not matured, %d days remaining", snap.DaysRemaining),
		}
	}
	return inv, nil
}

func (s *Service) dispose(ctx context.Context, op string, d *models.Disposal) error {
	err := s.store.DisposeInvestment(ctx, d)
	if errors.Is(err, storage.ErrStatusConflict) {
		return s.conflict(ctx, op, d.Investment.Id)
	}
	if err != nil {
		return fromStore("dispose investment", err)
	}

	inv := d.Investment
	inv.Status = models.WITHDRAWN
	inv.Disposition = d.Disposition
	inv.UpdatedAt = d.At
	s.publish(ctx, inv.UserId, websockets.InvestmentUpdate(inv.UserId, inv.Id, string(inv.Status), string(d.Disposition.Kind)))
	return nil
}

package lifecycle

import (
	"context"
	"time"

	"github.com/chris/crypto-investments/pkg/models"
	"github.com/chris/crypto-investments/pkg/websockets"
	"github.com/shopspring/decimal"
)

// GiveBonus credits a bonus to a user's withdrawable balance.
func (s *Service) GiveBonus(ctx context.Context, actor Actor, userID string, amount decimal.Decimal, note string) (err error) {
	defer s.observe("bonus", time.Now(), &err)

	if err := requireAdmin(actor, "give bonus"); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return invalid("amount", "must be positive")
	}
	if note == "" {
		note = "Bonus"
	}
	if err := s.adjust(ctx, userID, models.BONUS, amount, note); err != nil {
		return err
	}
	s.metrics.RecordCredit(string(models.WithdrawableBalance), "bonus", amount)
	return nil
}

// DeductBalance removes amount from a user's withdrawable balance. The
// balance never goes negative.
func (s *Service) DeductBalance(ctx context.Context, actor Actor, userID string, amount decimal.Decimal, note string) (err error) {
	defer s.observe("deduct", time.Now(), &err)

	if err := requireAdmin(actor, "deduct balance"); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return invalid("amount", "must be positive")
	}
	if note == "" {
		note = "Balance deduction"
	}
	return s.adjust(ctx, userID, models.DEDUCTION, amount.Neg(), note)
}

func (s *Service) adjust(ctx context.Context, userID string, typ models.EntryType, delta decimal.Decimal, note string) error {
	now := s.now()
	entry := &models.LedgerEntry{
		EntryID:     s.newID(),
		UserId:      userID,
		Type:        typ,
		Amount:      delta.Abs(),
		Status:      models.EntryCompleted,
		Description: note,
		Timestamp:   now,
	}
	if err := s.store.CreditBalance(ctx, userID, models.WithdrawableBalance, delta, entry); err != nil {
		return fromStore("adjust balance", err)
	}
	s.logger.Info("balance adjusted", "user_id", userID, "type", typ, "delta", delta.String())
	s.publish(ctx, userID, websockets.BalanceUpdate(userID, string(models.WithdrawableBalance), delta, entry.EntryID))
	return nil
}

// TransferReferralEarnings moves all of a user's referral earnings into the
// withdrawable balance and returns the amount moved.
func (s *Service) TransferReferralEarnings(ctx context.Context, actor Actor, userID string) (amount decimal.Decimal, err error) {
	defer s.observe("transfer_referral", time.Now(), &err)

	if err := requireOwner(actor, userID, "transfer referral earnings"); err != nil {
		return decimal.Zero, err
	}
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return decimal.Zero, fromStore("get profile", err)
	}
	amount = profile.ReferralEarnings
	if !amount.IsPositive() {
		return decimal.Zero, invalid("referral_earnings", "nothing to transfer")
	}

	entry := &models.LedgerEntry{
		EntryID:     s.newID(),
		UserId:      userID,
		Type:        models.REFERRAL_PAYOUT,
		Amount:      amount,
		Status:      models.EntryCompleted,
		Description: "Referral earnings moved to balance",
		Timestamp:   s.now(),
	}
	if err := s.store.TransferReferralEarnings(ctx, userID, amount, entry); err != nil {
		return decimal.Zero, fromStore("transfer referral earnings", err)
	}

	s.logger.Info("referral earnings transferred", "user_id", userID, "amount", amount.String())
	s.metrics.RecordCredit(string(models.WithdrawableBalance), "referral_transfer", amount)
	s.publish(ctx, userID, websockets.BalanceUpdate(userID, string(models.ReferralEarnings), amount.Neg(), entry.EntryID))
	s.publish(ctx, userID, websockets.BalanceUpdate(userID, string(models.WithdrawableBalance), amount, entry.EntryID))
	return amount, nil
}

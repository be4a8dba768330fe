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

// RequestWalletWithdrawal debits amount from the withdrawable balance and
// files a pending request to pay it out to an external wallet.
func (s *Service) RequestWalletWithdrawal(ctx context.Context, actor Actor, amount decimal.Decimal, target WalletTarget) (req *models.WithdrawalRequest, err error) {
	defer s.observe("request_withdrawal", time.Now(), &err)

	if actor.UserID == "" {
		return nil, &forbiddenError{op: "request withdrawal", reason: "no user"}
	}
	if !amount.IsPositive() {
		return nil, invalid("amount", "must be positive")
	}
	if err := s.validateTarget(ctx, target); err != nil {
		return nil, err
	}

	now := s.now()
	req = &models.WithdrawalRequest{
		Id:        s.newID(),
		UserId:    actor.UserID,
		Amount:    amount,
		Crypto:    target.Crypto,
		Address:   strings.TrimSpace(target.Address),
		Source:    models.SourceBalance,
		Status:    models.WithdrawalPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	entry := &models.LedgerEntry{
		EntryID:     models.WithdrawalEntryID(req.Id),
		UserId:      actor.UserID,
		Type:        models.WITHDRAWAL,
		Subtype:     models.DispositionToWallet,
		Amount:      amount,
		Status:      models.EntryPending,
		Description: fmt.Sprintf("Withdrawal to %s wallet", target.Crypto),
		Reference:   req.Id,
		Timestamp:   now,
	}
	if err := s.store.RequestWithdrawal(ctx, req, entry); err != nil {
		return nil, fromStore("request withdrawal", err)
	}

	s.logger.Info("withdrawal requested", "withdrawal_id", req.Id, "user_id", req.UserId, "amount", amount.String())
	s.publish(ctx, req.UserId, websockets.BalanceUpdate(req.UserId, string(models.WithdrawableBalance), amount.Neg(), req.Id))
	return req, nil
}

// ApproveWithdrawal marks a pending request approved and schedules its
// receipt. A scheduling failure is left to the reconciler.
func (s *Service) ApproveWithdrawal(ctx context.Context, actor Actor, id string) (req *models.WithdrawalRequest, err error) {
	defer s.observe("approve_withdrawal", time.Now(), &err)

	if err := requireAdmin(actor, "approve withdrawal"); err != nil {
		return nil, err
	}
	req, err = s.pendingWithdrawal(ctx, "approve", id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.store.ApproveWithdrawal(ctx, id, now); err != nil {
		return nil, s.withdrawalWriteErr(ctx, "approve", id, err)
	}
	req.Status = models.WithdrawalApproved
	req.UpdatedAt = now
	s.logger.Info("withdrawal approved", "withdrawal_id", id, "admin_id", actor.UserID)

	if s.scheduler != nil {
		if err := s.scheduler.ScheduleReceipt(ctx, req); err != nil {
			s.logger.Error("withdrawal approved but receipt not scheduled", "withdrawal_id", id, "error", err)
		}
	}
	return req, nil
}

// RejectWithdrawal marks a pending request rejected and refunds its amount to
// the owner's withdrawable balance.
func (s *Service) RejectWithdrawal(ctx context.Context, actor Actor, id string) (req *models.WithdrawalRequest, err error) {
	defer s.observe("reject_withdrawal", time.Now(), &err)

	if err := requireAdmin(actor, "reject withdrawal"); err != nil {
		return nil, err
	}
	req, err = s.pendingWithdrawal(ctx, "reject", id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	refund := &models.LedgerEntry{
		EntryID:      "refund-" + req.Id,
		UserId:       req.UserId,
		Type:         models.WITHDRAWAL_REFUND,
		Amount:       req.Amount,
		Status:       models.EntryCompleted,
		Description:  "Refund of rejected withdrawal",
		Reference:    req.Id,
		InvestmentID: req.InvestmentID,
		Timestamp:    now,
	}
	if err := s.store.RejectWithdrawal(ctx, req, refund, now); err != nil {
		return nil, s.withdrawalWriteErr(ctx, "reject", id, err)
	}
	req.Status = models.WithdrawalRejected
	req.UpdatedAt = now

	s.logger.Info("withdrawal rejected", "withdrawal_id", id, "admin_id", actor.UserID, "refund", req.Amount.String())
	s.metrics.RecordCredit(string(models.WithdrawableBalance), "withdrawal_refund", req.Amount)
	s.publish(ctx, req.UserId, websockets.BalanceUpdate(req.UserId, string(models.WithdrawableBalance), req.Amount, req.Id))
	return req, nil
}

func (s *Service) pendingWithdrawal(ctx context.Context, op, id string) (*models.WithdrawalRequest, error) {
	req, err := s.store.GetWithdrawal(ctx, id)
	if err != nil {
		return nil, fromStore("get withdrawal", err)
	}
	if req.Status != models.WithdrawalPending {
		return nil, &PreconditionError{Operation: op, ID: id, Current: string(req.Status)}
	}
	return req, nil
}

func (s *Service) withdrawalWriteErr(ctx context.Context, op, id string, err error) error {
	if !errors.Is(err, storage.ErrStatusConflict) {
		return fromStore(op+" withdrawal", err)
	}
	current, getErr := s.store.GetWithdrawal(ctx, id)
	if getErr != nil {
		return fromStore("get withdrawal", getErr)
	}
	return &PreconditionError{Operation: op, ID: id, Current: string(current.Status), Reason: "changed concurrently"}
}

func (s *Service) validateTarget(ctx context.Context, target WalletTarget) error {
	if strings.TrimSpace(target.Address) == "" {
		return invalid("address", "is required")
	}
	if strings.TrimSpace(target.Crypto) == "" {
		return invalid("crypto", "is required")
	}
	if _, err := s.store.GetCrypto(ctx, target.Crypto); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return invalid("crypto", "unsupported cryptocurrency %q", target.Crypto)
		}
		return fromStore("get crypto", err)
	}
	return nil
}

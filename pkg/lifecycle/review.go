package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/chris/crypto-investments/pkg/models"
	"github.com/chris/crypto-investments/pkg/storage"
	"github.com/chris/crypto-investments/pkg/websockets"
)

// Approve activates a pending investment. Accrual starts at the approval time.
func (s *Service) Approve(ctx context.Context, actor Actor, id string) (inv *models.Investment, err error) {
	defer s.observe("approve", time.Now(), &err)

	if err := requireAdmin(actor, "approve investment"); err != nil {
		return nil, err
	}
	now := s.now()
	inv, err = s.review(ctx, "approve", id, models.ACTIVE, &now)
	if err != nil {
		return nil, err
	}
	inv.ApprovedAt = &now
	s.logger.Info("investment approved", "investment_id", id, "admin_id", actor.UserID)
	return inv, nil
}

// Deny rejects a pending investment. Denial is terminal.
func (s *Service) Deny(ctx context.Context, actor Actor, id string) (inv *models.Investment, err error) {
	defer s.observe("deny", time.Now(), &err)

	if err := requireAdmin(actor, "deny investment"); err != nil {
		return nil, err
	}
	inv, err = s.review(ctx, "deny", id, models.DENIED, nil)
	if err != nil {
		return nil, err
	}
	s.logger.Info("investment denied", "investment_id", id, "admin_id", actor.UserID)
	return inv, nil
}

func (s *Service) review(ctx context.Context, op, id string, to models.InvestmentStatus, approvedAt *time.Time) (*models.Investment, error) {
	inv, err := s.store.GetInvestment(ctx, id)
	if err != nil {
		return nil, fromStore("get investment", err)
	}
	if inv.Status != models.PENDING {
		return nil, &PreconditionError{Operation: op, ID: id, Current: string(inv.Status)}
	}

	err = s.store.SetInvestmentStatus(ctx, id, models.PENDING, to, approvedAt)
	if errors.Is(err, storage.ErrStatusConflict) {
		return nil, s.conflict(ctx, op, id)
	}
	if err != nil {
		return nil, fromStore("set investment status", err)
	}

	inv.Status = to
	inv.UpdatedAt = s.now()
	s.publish(ctx, inv.UserId, websockets.InvestmentUpdate(inv.UserId, inv.Id, string(to), ""))
	return inv, nil
}

// conflict re-reads an investment that lost a conditional write and reports
// the state it is actually in.
func (s *Service) conflict(ctx context.Context, op, id string) error {
	current, err := s.store.GetInvestment(ctx, id)
	if err != nil {
		return fromStore("get investment", err)
	}
	return &PreconditionError{Operation: op, ID: id, Current: string(current.Status), Reason: "changed concurrently"}
}

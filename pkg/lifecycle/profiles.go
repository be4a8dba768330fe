package lifecycle

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chris/crypto-investments/pkg/models"
	"github.com/chris/crypto-investments/pkg/storage"
	"github.com/shopspring/decimal"
)

// RegisterProfile creates the caller's profile with zero balances, recording
// who referred them. The referrer must already have a profile.
func (s *Service) RegisterProfile(ctx context.Context, actor Actor, referredBy string) (p *models.Profile, err error) {
	defer s.observe("register", time.Now(), &err)

	if actor.UserID == "" {
		return nil, &forbiddenError{op: "register profile", reason: "no user"}
	}
	referredBy = strings.TrimSpace(referredBy)
	if referredBy == actor.UserID {
		return nil, invalid("referred_by", "cannot refer yourself")
	}
	if referredBy != "" {
		if _, err := s.store.GetProfile(ctx, referredBy); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, invalid("referred_by", "unknown referrer %q", referredBy)
			}
			return nil, fromStore("get profile", err)
		}
	}

	p = &models.Profile{
		UserId:              actor.UserID,
		WithdrawableBalance: decimal.Zero,
		ReferralEarnings:    decimal.Zero,
		ReferredBy:          referredBy,
		CreatedAt:           s.now(),
	}
	if err := s.store.CreateProfile(ctx, p); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, &PreconditionError{Operation: "register", ID: actor.UserID, Current: "registered"}
		}
		return nil, fromStore("create profile", err)
	}
	s.logger.Info("profile registered", "user_id", p.UserId, "referred_by", referredBy)
	return p, nil
}

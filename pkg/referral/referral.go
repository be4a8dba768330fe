// Package referral computes the one-time commission owed to a referring user
// when the user they referred makes a first investment.
package referral

import (
	"fmt"

	"github.com/chris/crypto-investments/pkg/models"
	"github.com/shopspring/decimal"
)

// DefaultRate is the flat single-level commission rate.
var DefaultRate = decimal.RequireFromString("0.10")

// Engine evaluates first-investment side effects.
type Engine struct {
	Rate decimal.Decimal
}

// NewEngine returns an Engine paying rate, or DefaultRate when rate is not positive.
func NewEngine(rate decimal.Decimal) *Engine {
	if !rate.IsPositive() {
		rate = DefaultRate
	}
	return &Engine{Rate: rate}
}

// Commission is the amount owed to a referrer for an investment of amount.
func (e *Engine) Commission(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(e.Rate)
}

// Evaluate returns the first-investment side effects for inv, or nil when the
// investor has already invested. The commission entry is keyed by the
// investment id so the store can reject a second payment for it.
func (e *Engine) Evaluate(investor *models.Profile, inv *models.Investment) *models.FirstInvestment {
	if investor.HasInvested {
		return nil
	}

	first := &models.FirstInvestment{InvestorId: investor.UserId}
	if investor.ReferredBy == "" || investor.ReferredBy == investor.UserId {
		return first
	}

	commission := e.Commission(inv.Amount)
	if !commission.IsPositive() {
		return first
	}

	first.ReferrerId = investor.ReferredBy
	first.Commission = commission
	first.Entry = &models.LedgerEntry{
		EntryID:        models.CommissionEntryID(inv.Id),
		UserId:         investor.ReferredBy,
		Type:           models.REFERRAL,
		Amount:         commission,
		Status:         models.EntryCompleted,
		Description:    fmt.Sprintf("Referral commission from %s's first investment", investor.UserId),
		Reference:      inv.Id,
		InvestmentID:   inv.Id,
		ReferredUserID: investor.UserId,
		Timestamp:      inv.CreatedAt,
	}
	return first
}

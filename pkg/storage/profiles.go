package storage

import (
	"context"

	"github.com/chris/crypto-investments/pkg/models"
	"github.com/shopspring/decimal"
)

// ProfileStore defines access to the balance fields of user profiles.
// Balance arithmetic always happens in the store, never in the caller.
type ProfileStore interface {
	// GetProfile retrieves a user's profile.
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)

	// CreateProfile stores a new profile with zero balances.
	CreateProfile(ctx context.Context, profile *models.Profile) error

	// CreditBalance atomically adds delta to a balance field and records entry.
	// A negative delta fails with ErrInsufficientFunds if the field would go
	// below zero.
	CreditBalance(ctx context.Context, userID string, field models.BalanceField, delta decimal.Decimal, entry *models.LedgerEntry) error

	// TransferReferralEarnings moves amount from referral_earnings to
	// withdrawable_balance, failing with ErrInsufficientFunds if the earnings
	// are below amount.
	TransferReferralEarnings(ctx context.Context, userID string, amount decimal.Decimal, entry *models.LedgerEntry) error
}

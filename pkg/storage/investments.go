package storage

import (
	"context"
	"time"

	"github.com/chris/crypto-investments/pkg/models"
)

// InvestmentReader defines the interface for reading investments.
type InvestmentReader interface {
	// GetInvestment retrieves an investment by its ID.
	GetInvestment(ctx context.Context, id string) (*models.Investment, error)

	// ListInvestmentsByUserID retrieves all investments owned by a user.
	ListInvestmentsByUserID(ctx context.Context, userID string) ([]models.Investment, error)

	// ListInvestmentsByStatus retrieves all investments in the given stored status.
	ListInvestmentsByStatus(ctx context.Context, status models.InvestmentStatus) ([]models.Investment, error)
}

// InvestmentManager defines the state-changing investment operations. Each
// method is a single all-or-nothing write.
type InvestmentManager interface {
	// CreateInvestment writes a pending investment together with its deposit
	// ledger entry. When first is non-nil, the investor's has_invested flag is
	// flipped with a compare-and-set and any referral commission is recorded
	// and credited in the same write. ErrAlreadyInvested means the flag was
	// already set and nothing was written.
	CreateInvestment(ctx context.Context, inv *models.Investment, deposit *models.LedgerEntry, first *models.FirstInvestment) error

	// SetInvestmentStatus moves an investment from one status to another,
	// failing with ErrStatusConflict if the stored status is not from.
	// approvedAt is written when non-nil.
	SetInvestmentStatus(ctx context.Context, id string, from, to models.InvestmentStatus, approvedAt *time.Time) error

	// DisposeInvestment applies the disposition of a matured ACTIVE investment.
	DisposeInvestment(ctx context.Context, d *models.Disposal) error
}

// InvestmentStore combines the reader and manager interfaces.
type InvestmentStore interface {
	InvestmentReader
	InvestmentManager
}

package storage

import (
	"context"
	"time"

	"github.com/chris/crypto-investments/pkg/models"
)

// WithdrawalReader defines the interface for reading wallet withdrawal requests.
type WithdrawalReader interface {
	GetWithdrawal(ctx context.Context, id string) (*models.WithdrawalRequest, error)
	ListWithdrawalsByUserID(ctx context.Context, userID string) ([]models.WithdrawalRequest, error)
	ListWithdrawalsByStatus(ctx context.Context, status models.WithdrawalStatus) ([]models.WithdrawalRequest, error)
}

// WithdrawalManager defines the wallet withdrawal workflow writes.
type WithdrawalManager interface {
	// RequestWithdrawal debits the withdrawable balance and records a pending
	// request, or fails with ErrInsufficientFunds.
	RequestWithdrawal(ctx context.Context, req *models.WithdrawalRequest, entry *models.LedgerEntry) error

	// ApproveWithdrawal moves a request from pending to approved.
	ApproveWithdrawal(ctx context.Context, id string, at time.Time) error

	// RejectWithdrawal moves a request from pending to rejected and refunds
	// its amount to the owner's withdrawable balance.
	RejectWithdrawal(ctx context.Context, req *models.WithdrawalRequest, refund *models.LedgerEntry, at time.Time) error
}

// WithdrawalStore combines the reader and manager interfaces.
type WithdrawalStore interface {
	WithdrawalReader
	WithdrawalManager
}

// ReceiptStore is used by the receipt worker and the reconciler.
type ReceiptStore interface {
	GetWithdrawal(ctx context.Context, id string) (*models.WithdrawalRequest, error)

	// SetReceiptKey records where a receipt was stored. It is a no-op
	// returning ErrDuplicate if a receipt key is already present.
	SetReceiptKey(ctx context.Context, id, key string) error

	// GetApprovedWithoutReceipt lists approved requests older than maxAge
	// that still have no receipt.
	GetApprovedWithoutReceipt(ctx context.Context, maxAge time.Duration) ([]models.WithdrawalRequest, error)
}

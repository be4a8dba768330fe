package scheduler

import (
	"context"

	"github.com/chris/crypto-investments/pkg/models"
)

// Scheduler defines the interface for a component that schedules follow-up
// work for an approved withdrawal request.
type Scheduler interface {
	// ScheduleReceipt enqueues an approved withdrawal request for receipt generation.
	ScheduleReceipt(ctx context.Context, req *models.WithdrawalRequest) error
}

// ReceiptJob is the message body placed on the queue.
type ReceiptJob struct {
	Event        string `json:"event"`
	WithdrawalID string `json:"withdrawal_id"`
	UserID       string `json:"user_id"`
}

// EventWithdrawalApproved names the event carried by a ReceiptJob.
const EventWithdrawalApproved = "withdrawal.approved"

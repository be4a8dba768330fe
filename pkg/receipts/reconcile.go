package receipts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/crypto-investments/pkg/scheduler"
	"github.com/chris/crypto-investments/pkg/storage"
)

// Reconciler re-enqueues approved withdrawals whose receipt never arrived.
type Reconciler struct {
	Store     storage.ReceiptStore
	Scheduler scheduler.Scheduler
	MaxAge    time.Duration
}

// Run re-enqueues every approved request older than MaxAge without a
// receipt. One failed enqueue does not stop the rest. It returns the number
// of requests enqueued.
func (r *Reconciler) Run(ctx context.Context) (int, error) {
	slog.Info("Starting reconciliation of withdrawal receipts", "max_age", r.MaxAge.String())

	stuck, err := r.Store.GetApprovedWithoutReceipt(ctx, r.MaxAge)
	if err != nil {
		return 0, fmt.Errorf("failed to list approved withdrawals without receipt: %w", err)
	}
	if len(stuck) == 0 {
		slog.Info("No withdrawals missing a receipt")
		return 0, nil
	}

	enqueued := 0
	for i := range stuck {
		req := &stuck[i]
		if err := r.Scheduler.ScheduleReceipt(ctx, req); err != nil {
			slog.Error("failed to re-enqueue receipt", "withdrawal_id", req.Id, "error", err)
			continue
		}
		enqueued++
	}
	slog.Info("Reconciliation finished", "found", len(stuck), "enqueued", enqueued)
	return enqueued, nil
}

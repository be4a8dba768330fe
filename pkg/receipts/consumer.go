package receipts

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/crypto-investments/pkg/scheduler"
	"github.com/chris/crypto-investments/pkg/storage"
)

// ReceiptWriter is implemented by Writer.
type ReceiptWriter interface {
	Write(ctx context.Context, withdrawalID string) (string, error)
}

// Consumer turns queued receipt jobs into stored receipts.
type Consumer struct {
	Writer ReceiptWriter
}

// HandleSQSEvent processes a batch of receipt jobs. Messages that failed for
// a retryable reason are reported back so only they are redelivered.
// Malformed jobs and requests that cannot get a receipt are dropped.
func (c *Consumer) HandleSQSEvent(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	for _, message := range event.Records {
		var job scheduler.ReceiptJob
		if err := json.Unmarshal([]byte(message.Body), &job); err != nil || job.WithdrawalID == "" {
			slog.Error("dropping malformed receipt job", "messageId", message.MessageId, "error", err)
			continue
		}

		key, err := c.Writer.Write(ctx, job.WithdrawalID)
		switch {
		case err == nil:
			slog.Info("receipt job done", "messageId", message.MessageId, "withdrawal_id", job.WithdrawalID, "key", key)
		case errors.Is(err, ErrNotApproved), errors.Is(err, storage.ErrNotFound):
			slog.Warn("dropping receipt job", "messageId", message.MessageId, "withdrawal_id", job.WithdrawalID, "error", err)
		default:
			slog.Error("receipt job failed", "messageId", message.MessageId, "withdrawal_id", job.WithdrawalID, "error", err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
		}
	}
	return resp, nil
}

// Package receipts writes JSON receipts for approved wallet withdrawals to S3
// and records the object key on the request.
package receipts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chris/crypto-investments/pkg/metrics"
	"github.com/chris/crypto-investments/pkg/models"
	"github.com/chris/crypto-investments/pkg/storage"
	"github.com/shopspring/decimal"
)

// ErrNotApproved is returned for requests that are not in the approved
// state. Retrying does not help.
var ErrNotApproved = errors.New("withdrawal request is not approved")

// S3API defines the interface for the S3 client methods used by the Writer.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Receipt is the document stored for an approved withdrawal.
type Receipt struct {
	WithdrawalID string                  `json:"withdrawal_id"`
	UserID       string                  `json:"user_id"`
	Amount       decimal.Decimal         `json:"amount"`
	Crypto       string                  `json:"crypto"`
	Address      string                  `json:"address"`
	Source       models.WithdrawalSource `json:"source"`
	InvestmentID string                  `json:"investment_id,omitempty"`
	RequestedAt  time.Time               `json:"requested_at"`
	ApprovedAt   time.Time               `json:"approved_at"`
	IssuedAt     time.Time               `json:"issued_at"`
}

// Writer stores receipts.
type Writer struct {
	Client  S3API
	Bucket  string
	Store   storage.ReceiptStore
	Metrics *metrics.MetricsCollector
	Now     func() time.Time
}

func NewWriter(client S3API, bucket string, store storage.ReceiptStore, m *metrics.MetricsCollector) *Writer {
	return &Writer{Client: client, Bucket: bucket, Store: store, Metrics: m, Now: time.Now}
}

// Key is the object key of a request's receipt. It is stable, so a repeated
// upload overwrites the same object.
func Key(req *models.WithdrawalRequest) string {
	return fmt.Sprintf("receipts/%s/%s.json", req.UserId, req.Id)
}

// Write stores the receipt for an approved request and returns its key.
// Requests that already have a receipt are left alone.
func (w *Writer) Write(ctx context.Context, withdrawalID string) (string, error) {
	req, err := w.Store.GetWithdrawal(ctx, withdrawalID)
	if err != nil {
		return "", err
	}
	if req.ReceiptKey != "" {
		return req.ReceiptKey, nil
	}
	if req.Status != models.WithdrawalApproved {
		return "", fmt.Errorf("%s is %s: %w", withdrawalID, req.Status, ErrNotApproved)
	}

	body, err := json.Marshal(Receipt{
		WithdrawalID: req.Id,
		UserID:       req.UserId,
		Amount:       req.Amount,
		Crypto:       req.Crypto,
		Address:      req.Address,
		Source:       req.Source,
		InvestmentID: req.InvestmentID,
		RequestedAt:  req.CreatedAt.UTC(),
		ApprovedAt:   req.UpdatedAt.UTC(),
		IssuedAt:     w.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal receipt: %w", err)
	}

	key := Key(req)
	_, err = w.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(w.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload receipt %s: %w", key, err)
	}

	if err := w.Store.SetReceiptKey(ctx, req.Id, key); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			slog.Info("receipt already recorded", "withdrawal_id", req.Id)
			return key, nil
		}
		return "", fmt.Errorf("failed to record receipt key: %w", err)
	}

	w.Metrics.RecordReceipt()
	slog.Info("receipt written", "withdrawal_id", req.Id, "key", key)
	return key, nil
}

package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/crypto-investments/pkg/models"
	"github.com/chris/crypto-investments/pkg/storage"
)

// GetWithdrawal retrieves a withdrawal request by its ID.
func (s *Store) GetWithdrawal(ctx context.Context, id string) (*models.WithdrawalRequest, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.Withdrawals),
		Key:            map[string]types.AttributeValue{"id": stringAV(id)},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal request from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("withdrawal request with ID %s: %w", id, storage.ErrNotFound)
	}

	var item withdrawalItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal withdrawal request: %w", err)
	}
	return item.toModel()
}

// ListWithdrawalsByUserID retrieves all withdrawal requests made by a user.
func (s *Store) ListWithdrawalsByUserID(ctx context.Context, userID string) ([]models.WithdrawalRequest, error) {
	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Withdrawals),
		IndexName:              aws.String(userIDIndex),
		KeyConditionExpression: aws.String("user_id = :user_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":user_id": stringAV(userID),
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query withdrawal requests for user %s: %w", userID, err)
	}
	return unmarshalWithdrawals(items)
}

// ListWithdrawalsByStatus retrieves all withdrawal requests in a status, oldest first.
func (s *Store) ListWithdrawalsByStatus(ctx context.Context, status models.WithdrawalStatus) ([]models.WithdrawalRequest, error) {
	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Withdrawals),
		IndexName:              aws.String(statusCreatedAtIndex),
		KeyConditionExpression: aws.String("#status = :status"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": stringAV(string(status)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query withdrawal requests with status %s: %w", status, err)
	}
	return unmarshalWithdrawals(items)
}

// RequestWithdrawal debits the user's withdrawable balance, stores the
// pending request and records its ledger entry in one transaction.
func (s *Store) RequestWithdrawal(ctx context.Context, req *models.WithdrawalRequest, entry *models.LedgerEntry) error {
	reqAV, err := marshalWithdrawal(req)
	if err != nil {
		return err
	}
	entryAV, err := marshalLedgerEntry(entry)
	if err != nil {
		return err
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: &types.Update{
					TableName:           aws.String(s.Profiles),
					Key:                 map[string]types.AttributeValue{"user_id": stringAV(req.UserId)},
					UpdateExpression:    aws.String("ADD withdrawable_balance :debit"),
					ConditionExpression: aws.String("withdrawable_balance >= :amount"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":debit":  numberAV(req.Amount.Neg()),
						":amount": numberAV(req.Amount),
					},
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(s.Withdrawals),
					Item:                reqAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(s.Ledger),
					Item:                entryAV,
					ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
				},
			},
		},
	})
	if err != nil {
		if idx, ok := canceledAt(err); ok {
			if idx == 0 {
				return fmt.Errorf("withdrawable balance of user %s below %s: %w", req.UserId, req.Amount, storage.ErrInsufficientFunds)
			}
			return fmt.Errorf("withdrawal request %s: %w", req.Id, storage.ErrDuplicate)
		}
		return fmt.Errorf("failed to execute withdrawal request transaction: %w", err)
	}
	return nil
}

// ApproveWithdrawal moves a pending request to approved and completes its
// ledger entry.
func (s *Store) ApproveWithdrawal(ctx context.Context, id string, at time.Time) error {
	atAV, err := timeAV(at)
	if err != nil {
		return err
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			s.withdrawalStatusUpdate(id, models.WithdrawalApproved, atAV),
			s.withdrawalEntryUpdate(id, models.EntryCompleted),
		},
	})
	if err != nil {
		if idx, ok := canceledAt(err); ok {
			if idx == 0 {
				return fmt.Errorf("withdrawal request %s is not pending: %w", id, storage.ErrStatusConflict)
			}
			return fmt.Errorf("ledger entry for withdrawal request %s: %w", id, storage.ErrNotFound)
		}
		return fmt.Errorf("failed to execute withdrawal approval transaction: %w", err)
	}
	return nil
}

// RejectWithdrawal moves a pending request to rejected and returns its amount
// to the owner's withdrawable balance.
func (s *Store) RejectWithdrawal(ctx context.Context, req *models.WithdrawalRequest, refund *models.LedgerEntry, at time.Time) error {
	atAV, err := timeAV(at)
	if err != nil {
		return err
	}
	refundAV, err := marshalLedgerEntry(refund)
	if err != nil {
		return err
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			s.withdrawalStatusUpdate(req.Id, models.WithdrawalRejected, atAV),
			s.withdrawalEntryUpdate(req.Id, models.EntryRejected),
			{
				Update: &types.Update{
					TableName:           aws.String(s.Profiles),
					Key:                 map[string]types.AttributeValue{"user_id": stringAV(req.UserId)},
					UpdateExpression:    aws.String("ADD withdrawable_balance :amount"),
					ConditionExpression: aws.String("attribute_exists(user_id)"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount": numberAV(req.Amount),
					},
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(s.Ledger),
					Item:                refundAV,
					ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
				},
			},
		},
	})
	if err != nil {
		if idx, ok := canceledAt(err); ok {
			switch idx {
			case 0:
				return fmt.Errorf("withdrawal request %s is not pending: %w", req.Id, storage.ErrStatusConflict)
			case 3:
				return fmt.Errorf("refund entry %s: %w", refund.EntryID, storage.ErrDuplicate)
			default:
				return fmt.Errorf("records for withdrawal request %s: %w", req.Id, storage.ErrNotFound)
			}
		}
		return fmt.Errorf("failed to execute withdrawal rejection transaction: %w", err)
	}
	return nil
}

func (s *Store) withdrawalStatusUpdate(id string, to models.WithdrawalStatus, at types.AttributeValue) types.TransactWriteItem {
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName:           aws.String(s.Withdrawals),
			Key:                 map[string]types.AttributeValue{"id": stringAV(id)},
			UpdateExpression:    aws.String("SET #status = :to, updated_at = :at"),
			ConditionExpression: aws.String("#status = :pending"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":to":      stringAV(string(to)),
				":pending": stringAV(string(models.WithdrawalPending)),
				":at":      at,
			},
		},
	}
}

func (s *Store) withdrawalEntryUpdate(id string, to models.EntryStatus) types.TransactWriteItem {
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName:           aws.String(s.Ledger),
			Key:                 map[string]types.AttributeValue{"entry_id": stringAV(models.WithdrawalEntryID(id))},
			UpdateExpression:    aws.String("SET #status = :to"),
			ConditionExpression: aws.String("attribute_exists(entry_id)"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":to": stringAV(string(to)),
			},
		},
	}
}

// SetReceiptKey records the storage key of a withdrawal receipt. A key is
// written at most once.
func (s *Store) SetReceiptKey(ctx context.Context, id, key string) error {
	_, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.Withdrawals),
		Key:                 map[string]types.AttributeValue{"id": stringAV(id)},
		UpdateExpression:    aws.String("SET receipt_key = :key"),
		ConditionExpression: aws.String("attribute_not_exists(receipt_key) AND #status = :approved"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":key":      stringAV(key),
			":approved": stringAV(string(models.WithdrawalApproved)),
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("receipt for withdrawal request %s: %w", id, storage.ErrDuplicate)
		}
		return fmt.Errorf("failed to set receipt key: %w", err)
	}
	return nil
}

// GetApprovedWithoutReceipt retrieves approved withdrawal requests that were
// last updated more than maxAge ago and still have no receipt.
func (s *Store) GetApprovedWithoutReceipt(ctx context.Context, maxAge time.Duration) ([]models.WithdrawalRequest, error) {
	cutoff, err := timeAV(time.Now().Add(-maxAge))
	if err != nil {
		return nil, err
	}

	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Withdrawals),
		IndexName:              aws.String(statusCreatedAtIndex),
		KeyConditionExpression: aws.String("#status = :approved"),
		FilterExpression:       aws.String("attribute_not_exists(receipt_key) AND updated_at < :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":approved": stringAV(string(models.WithdrawalApproved)),
			":cutoff":   cutoff,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query approved withdrawal requests: %w", err)
	}
	return unmarshalWithdrawals(items)
}

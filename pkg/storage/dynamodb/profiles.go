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
	"github.com/shopspring/decimal"
)

// GetProfile retrieves a user's profile from DynamoDB by their user ID.
func (s *Store) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.Profiles),
		Key:            map[string]types.AttributeValue{"user_id": stringAV(userID)},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get profile from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("profile for user ID %s: %w", userID, storage.ErrNotFound)
	}

	var item profileItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return item.toModel()
}

// CreateProfile stores a new profile with zero balances.
func (s *Store) CreateProfile(ctx context.Context, profile *models.Profile) error {
	createdAt := profile.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	item, err := attributevalue.MarshalMap(profileItem{
		UserId:              profile.UserId,
		Email:               profile.Email,
		WithdrawableBalance: number(decimal.Zero),
		ReferralEarnings:    number(decimal.Zero),
		ReferredBy:          profile.ReferredBy,
		CreatedAt:           createdAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.Profiles),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(user_id)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("profile for user ID %s: %w", profile.UserId, storage.ErrDuplicate)
		}
		return fmt.Errorf("failed to put profile: %w", err)
	}
	return nil
}

// CreditBalance adds delta to a balance field and records the ledger entry
// in one transaction. Debits are conditioned on the field covering them.
func (s *Store) CreditBalance(ctx context.Context, userID string, field models.BalanceField, delta decimal.Decimal, entry *models.LedgerEntry) error {
	entryAV, err := marshalLedgerEntry(entry)
	if err != nil {
		return err
	}

	condition := "attribute_exists(user_id)"
	values := map[string]types.AttributeValue{
		":delta": numberAV(delta),
	}
	if delta.IsNegative() {
		condition += " AND #field >= :required"
		values[":required"] = numberAV(delta.Neg())
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: &types.Update{
					TableName:           aws.String(s.Profiles),
					Key:                 map[string]types.AttributeValue{"user_id": stringAV(userID)},
					UpdateExpression:    aws.String("ADD #field :delta"),
					ConditionExpression: aws.String(condition),
					ExpressionAttributeNames: map[string]string{
						"#field": string(field),
					},
					ExpressionAttributeValues: values,
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
			switch {
			case idx == 0 && delta.IsNegative():
				return fmt.Errorf("%s of user %s below %s: %w", field, userID, delta.Neg(), storage.ErrInsufficientFunds)
			case idx == 0:
				return fmt.Errorf("profile for user ID %s: %w", userID, storage.ErrNotFound)
			default:
				return fmt.Errorf("ledger entry %s: %w", entry.EntryID, storage.ErrDuplicate)
			}
		}
		return fmt.Errorf("failed to execute balance transaction: %w", err)
	}
	return nil
}

// TransferReferralEarnings moves amount from referral_earnings into
// withdrawable_balance. Both fields change in a single update expression.
func (s *Store) TransferReferralEarnings(ctx context.Context, userID string, amount decimal.Decimal, entry *models.LedgerEntry) error {
	entryAV, err := marshalLedgerEntry(entry)
	if err != nil {
		return err
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: &types.Update{
					TableName:           aws.String(s.Profiles),
					Key:                 map[string]types.AttributeValue{"user_id": stringAV(userID)},
					UpdateExpression:    aws.String("SET referral_earnings = referral_earnings - :amount, withdrawable_balance = if_not_exists(withdrawable_balance, :zero) + :amount"),
					ConditionExpression: aws.String("referral_earnings >= :amount"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount": numberAV(amount),
						":zero":   numberAV(decimal.Zero),
					},
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
				return fmt.Errorf("referral earnings of user %s below %s: %w", userID, amount, storage.ErrInsufficientFunds)
			}
			return fmt.Errorf("ledger entry %s: %w", entry.EntryID, storage.ErrDuplicate)
		}
		return fmt.Errorf("failed to execute referral transfer transaction: %w", err)
	}
	return nil
}

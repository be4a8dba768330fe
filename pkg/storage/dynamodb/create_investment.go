package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/crypto-investments/pkg/models"
	"github.com/chris/crypto-investments/pkg/storage"
)

// Positions of the items in the create transaction. The order matters for
// interpreting cancellation reasons.
const (
	createInvestmentItem = iota
	createDepositItem
	createFlagItem
	createCommissionItem
	createReferrerItem
)

// CreateInvestment writes a pending investment and its deposit entry. For a
// first investment the has_invested flag is flipped and the referral
// commission is recorded and credited in the same transaction, so the
// commission can only ever be paid once per referred user.
func (s *Store) CreateInvestment(ctx context.Context, inv *models.Investment, deposit *models.LedgerEntry, first *models.FirstInvestment) error {
	invAV, err := marshalInvestment(inv)
	if err != nil {
		return err
	}
	depositAV, err := marshalLedgerEntry(deposit)
	if err != nil {
		return err
	}

	items := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(s.Investments),
				Item:                invAV,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		},
		{
			Put: &types.Put{
				TableName:           aws.String(s.Ledger),
				Item:                depositAV,
				ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
			},
		},
	}

	if first != nil {
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName:           aws.String(s.Profiles),
				Key:                 map[string]types.AttributeValue{"user_id": stringAV(first.InvestorId)},
				UpdateExpression:    aws.String("SET has_invested = :true"),
				ConditionExpression: aws.String("attribute_exists(user_id) AND (attribute_not_exists(has_invested) OR has_invested = :false)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":true":  &types.AttributeValueMemberBOOL{Value: true},
					":false": &types.AttributeValueMemberBOOL{Value: false},
				},
			},
		})

		if first.HasCommission() {
			commissionAV, err := marshalLedgerEntry(first.Entry)
			if err != nil {
				return err
			}
			items = append(items,
				types.TransactWriteItem{
					Put: &types.Put{
						TableName:           aws.String(s.Ledger),
						Item:                commissionAV,
						ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
					},
				},
				types.TransactWriteItem{
					Update: &types.Update{
						TableName:           aws.String(s.Profiles),
						Key:                 map[string]types.AttributeValue{"user_id": stringAV(first.ReferrerId)},
						UpdateExpression:    aws.String("ADD referral_earnings :commission"),
						ConditionExpression: aws.String("attribute_exists(user_id)"),
						ExpressionAttributeValues: map[string]types.AttributeValue{
							":commission": numberAV(first.Commission),
						},
					},
				},
			)
		}
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		if idx, ok := canceledAt(err); ok {
			switch idx {
			case createFlagItem:
				return storage.ErrAlreadyInvested
			case createReferrerItem:
				return fmt.Errorf("referrer %s: %w", first.ReferrerId, storage.ErrNotFound)
			default:
				return fmt.Errorf("investment %s: %w", inv.Id, storage.ErrDuplicate)
			}
		}
		return fmt.Errorf("failed to execute create investment transaction: %w", err)
	}

	return nil
}

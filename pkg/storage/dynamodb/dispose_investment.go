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

// DisposeInvestment closes a matured ACTIVE investment and applies its
// disposition in one transaction: the status change, the optional balance
// credit, the optional rollover investment or withdrawal request, and the
// ledger entries. A concurrent disposition of the same investment loses on
// the status condition and nothing is written.
func (s *Store) DisposeInvestment(ctx context.Context, d *models.Disposal) error {
	at, err := timeAV(d.At)
	if err != nil {
		return err
	}

	update := "SET #status = :withdrawn, disposition = :kind, updated_at = :at"
	values := map[string]types.AttributeValue{
		":withdrawn": stringAV(string(models.WITHDRAWN)),
		":active":    stringAV(string(models.ACTIVE)),
		":kind":      stringAV(string(d.Disposition.Kind)),
		":at":        at,
	}
	if d.Disposition.Into != "" {
		update += ", disposition_into = :into"
		values[":into"] = stringAV(d.Disposition.Into)
	}
	if d.Disposition.Kind == models.DispositionRolledOver {
		update += ", reinvested = :true"
		values[":true"] = &types.AttributeValueMemberBOOL{Value: true}
	}

	// kinds records what each transaction item is, to attribute a cancellation.
	kinds := []string{"investment"}
	items := []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName:           aws.String(s.Investments),
				Key:                 map[string]types.AttributeValue{"id": stringAV(d.Investment.Id)},
				UpdateExpression:    aws.String(update),
				ConditionExpression: aws.String("#status = :active"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: values,
			},
		},
	}

	if d.Credit.IsPositive() {
		kinds = append(kinds, "profile")
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName:           aws.String(s.Profiles),
				Key:                 map[string]types.AttributeValue{"user_id": stringAV(d.Investment.UserId)},
				UpdateExpression:    aws.String("ADD withdrawable_balance :credit"),
				ConditionExpression: aws.String("attribute_exists(user_id)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":credit": numberAV(d.Credit),
				},
			},
		})
	}

	if d.Rollover != nil {
		rolloverAV, err := marshalInvestment(d.Rollover)
		if err != nil {
			return err
		}
		kinds = append(kinds, "rollover")
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(s.Investments),
				Item:                rolloverAV,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		})
	}

	if d.Withdrawal != nil {
		withdrawalAV, err := marshalWithdrawal(d.Withdrawal)
		if err != nil {
			return err
		}
		kinds = append(kinds, "withdrawal")
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(s.Withdrawals),
				Item:                withdrawalAV,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		})
	}

	for i := range d.Entries {
		entryAV, err := marshalLedgerEntry(&d.Entries[i])
		if err != nil {
			return err
		}
		kinds = append(kinds, "ledger")
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(s.Ledger),
				Item:                entryAV,
				ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
			},
		})
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		if idx, ok := canceledAt(err); ok && idx < len(kinds) {
			switch kinds[idx] {
			case "investment":
				return fmt.Errorf("investment %s is not active: %w", d.Investment.Id, storage.ErrStatusConflict)
			case "profile":
				return fmt.Errorf("profile for user ID %s: %w", d.Investment.UserId, storage.ErrNotFound)
			default:
				return fmt.Errorf("%s record for investment %s: %w", kinds[idx], d.Investment.Id, storage.ErrDuplicate)
			}
		}
		return fmt.Errorf("failed to execute disposal transaction: %w", err)
	}

	return nil
}

package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/crypto-investments/pkg/models"
	"github.com/chris/crypto-investments/pkg/storage"
)

// SetInvestmentStatus atomically moves an investment from one status to
// another. The write only succeeds if the stored status is still from.
func (s *Store) SetInvestmentStatus(ctx context.Context, id string, from, to models.InvestmentStatus, approvedAt *time.Time) error {
	now, err := timeAV(time.Now())
	if err != nil {
		return err
	}

	update := "SET #status = :to, updated_at = :now"
	values := map[string]types.AttributeValue{
		":to":   stringAV(string(to)),
		":from": stringAV(string(from)),
		":now":  now,
	}
	if approvedAt != nil {
		approved, err := timeAV(*approvedAt)
		if err != nil {
			return err
		}
		update += ", approved_at = :approved_at"
		values[":approved_at"] = approved
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.Investments),
		Key:                 map[string]types.AttributeValue{"id": stringAV(id)},
		UpdateExpression:    aws.String(update),
		ConditionExpression: aws.String("#status = :from"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: values,
	})
	if err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("investment %s is not %s: %w", id, from, storage.ErrStatusConflict)
		}
		return fmt.Errorf("failed to update investment status to %s: %w", to, err)
	}

	return nil
}

package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/crypto-investments/pkg/models"
	"github.com/chris/crypto-investments/pkg/storage"
)

// GetInvestment retrieves an investment from DynamoDB by its ID.
func (s *Store) GetInvestment(ctx context.Context, id string) (*models.Investment, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.Investments),
		Key:            map[string]types.AttributeValue{"id": stringAV(id)},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get investment from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("investment with ID %s: %w", id, storage.ErrNotFound)
	}

	var item investmentItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal investment: %w", err)
	}
	return item.toModel()
}

// ListInvestmentsByUserID retrieves all investments owned by a user, newest first.
func (s *Store) ListInvestmentsByUserID(ctx context.Context, userID string) ([]models.Investment, error) {
	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Investments),
		IndexName:              aws.String(userIDIndex),
		KeyConditionExpression: aws.String("user_id = :user_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":user_id": stringAV(userID),
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query investments for user %s: %w", userID, err)
	}
	return unmarshalInvestments(items)
}

// ListInvestmentsByStatus retrieves all investments in the given stored status, oldest first.
func (s *Store) ListInvestmentsByStatus(ctx context.Context, status models.InvestmentStatus) ([]models.Investment, error) {
	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Investments),
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
		return nil, fmt.Errorf("failed to query investments with status %s: %w", status, err)
	}
	return unmarshalInvestments(items)
}

// queryAll follows LastEvaluatedKey until the query is exhausted.
func (s *Store) queryAll(ctx context.Context, input *dynamodb.QueryInput) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	for {
		page, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
		if len(page.LastEvaluatedKey) == 0 {
			return items, nil
		}
		input.ExclusiveStartKey = page.LastEvaluatedKey
	}
}

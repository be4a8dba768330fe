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

type cryptoItem struct {
	Id      string `dynamodbav:"id"`
	Name    string `dynamodbav:"name"`
	Symbol  string `dynamodbav:"symbol"`
	Address string `dynamodbav:"address"`
}

// GetCrypto retrieves a supported cryptocurrency by its ID.
func (s *Store) GetCrypto(ctx context.Context, id string) (*models.Crypto, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.Cryptos),
		Key:       map[string]types.AttributeValue{"id": stringAV(id)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get crypto from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("crypto %s: %w", id, storage.ErrNotFound)
	}

	var item cryptoItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal crypto: %w", err)
	}
	c := models.Crypto(item)
	return &c, nil
}

// ListCryptos retrieves all supported cryptocurrencies.
func (s *Store) ListCryptos(ctx context.Context) ([]models.Crypto, error) {
	var items []map[string]types.AttributeValue
	input := &dynamodb.ScanInput{TableName: aws.String(s.Cryptos)}
	for {
		page, err := s.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cryptos table: %w", err)
		}
		items = append(items, page.Items...)
		if len(page.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = page.LastEvaluatedKey
	}

	var records []cryptoItem
	if err := attributevalue.UnmarshalListOfMaps(items, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cryptos: %w", err)
	}
	cryptos := make([]models.Crypto, len(records))
	for i, r := range records {
		cryptos[i] = models.Crypto(r)
	}
	return cryptos, nil
}

// UpdateCryptoAddress changes the deposit address of an existing cryptocurrency.
func (s *Store) UpdateCryptoAddress(ctx context.Context, id, address string) error {
	_, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.Cryptos),
		Key:                 map[string]types.AttributeValue{"id": stringAV(id)},
		UpdateExpression:    aws.String("SET address = :address"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":address": stringAV(address),
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("crypto %s: %w", id, storage.ErrNotFound)
		}
		return fmt.Errorf("failed to update crypto address: %w", err)
	}
	return nil
}

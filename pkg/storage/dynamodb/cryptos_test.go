package dynamodb

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/crypto-investments/pkg/storage"
	"github.com/chris/crypto-investments/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCryptos(t *testing.T) {
	btc, _ := attributevalue.MarshalMap(cryptoItem{Id: "btc", Name: "Bitcoin", Symbol: "BTC", Address: "bc1qexample"})

	t.Run("Get", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("GetItem", mock.Anything, mock.Anything).Once().Return(&dynamodb.GetItemOutput{Item: btc}, nil)

		c, err := store.GetCrypto(context.Background(), "btc")

		require.NoError(t, err)
		assert.Equal(t, "bc1qexample", c.Address)
		mockClient.AssertExpectations(t)
	})

	t.Run("List", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("Scan", mock.Anything, mock.Anything).Once().Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{btc}}, nil)

		cryptos, err := store.ListCryptos(context.Background())

		require.NoError(t, err)
		require.Len(t, cryptos, 1)
		assert.Equal(t, "BTC", cryptos[0].Symbol)
		mockClient.AssertExpectations(t)
	})

	t.Run("Update Unknown", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Once().Return(nil, &types.ConditionalCheckFailedException{})

		err := store.UpdateCryptoAddress(context.Background(), "doge", "D123")

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})
}

package dynamodb

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/crypto-investments/pkg/models"
	"github.com/chris/crypto-investments/pkg/storage"
	"github.com/chris/crypto-investments/pkg/storage/dynamodb/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDisposeInvestment(t *testing.T) {
	at := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)

	t.Run("Withdraw To Balance", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		d := &models.Disposal{
			Investment:  testInvestment(models.ACTIVE),
			Disposition: models.Disposition{Kind: models.DispositionToBalance},
			Credit:      decimal.NewFromInt(640),
			Entries:     []models.LedgerEntry{*testEntry("w-1", "user-1", models.WITHDRAWAL, 640)},
			At:          at,
		}

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			if len(in.TransactItems) != 3 {
				return false
			}
			credit := in.TransactItems[1].Update
			return *in.TransactItems[0].Update.ConditionExpression == "#status = :active" &&
				credit.ExpressionAttributeValues[":credit"].(*types.AttributeValueMemberN).Value == "640"
		})).Once().Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		err := store.DisposeInvestment(context.Background(), d)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Full Rollover Has No Credit", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		rollover := testInvestment(models.PENDING)
		rollover.Id = "inv-2"
		rollover.Amount = decimal.NewFromInt(640)
		d := &models.Disposal{
			Investment:  testInvestment(models.ACTIVE),
			Disposition: models.Disposition{Kind: models.DispositionRolledOver, Into: "inv-2"},
			Rollover:    rollover,
			Entries:     []models.LedgerEntry{*testEntry("r-1", "user-1", models.DEPOSIT, 640)},
			At:          at,
		}

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			if len(in.TransactItems) != 3 {
				return false
			}
			update := in.TransactItems[0].Update
			_, reinvested := update.ExpressionAttributeValues[":true"]
			return reinvested && in.TransactItems[1].Put != nil && *in.TransactItems[1].Put.TableName == "investments"
		})).Once().Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		err := store.DisposeInvestment(context.Background(), d)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Concurrent Disposal Loses", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		d := &models.Disposal{
			Investment:  testInvestment(models.ACTIVE),
			Disposition: models.Disposition{Kind: models.DispositionToBalance},
			Credit:      decimal.NewFromInt(640),
			At:          at,
		}

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Once().Return(nil, cancelledAt(2, 0))

		err := store.DisposeInvestment(context.Background(), d)

		assert.ErrorIs(t, err, storage.ErrStatusConflict)
		mockClient.AssertExpectations(t)
	})

	t.Run("Missing Profile", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		d := &models.Disposal{
			Investment:  testInvestment(models.ACTIVE),
			Disposition: models.Disposition{Kind: models.DispositionToBalance},
			Credit:      decimal.NewFromInt(640),
			At:          at,
		}

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Once().Return(nil, cancelledAt(2, 1))

		err := store.DisposeInvestment(context.Background(), d)

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})
}

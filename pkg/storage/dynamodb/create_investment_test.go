package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/crypto-investments/pkg/models"
	"github.com/chris/crypto-investments/pkg/storage"
	"github.com/chris/crypto-investments/pkg/storage/dynamodb/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateInvestment(t *testing.T) {
	inv := testInvestment(models.PENDING)
	deposit := testEntry("dep-1", "user-1", models.DEPOSIT, 500)
	first := &models.FirstInvestment{
		InvestorId: "user-1",
		ReferrerId: "referrer-1",
		Commission: decimal.NewFromInt(50),
		Entry:      testEntry(models.CommissionEntryID("inv-1"), "referrer-1", models.REFERRAL, 50),
	}

	transactLen := func(n int) interface{} {
		return mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			return len(in.TransactItems) == n
		})
	}

	t.Run("Repeat Investment", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, transactLen(2)).Once().Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		err := store.CreateInvestment(context.Background(), inv, deposit, nil)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("First Investment Without Referrer", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, transactLen(3)).Once().Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		err := store.CreateInvestment(context.Background(), inv, deposit, &models.FirstInvestment{InvestorId: "user-1"})

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("First Investment With Referrer", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			if len(in.TransactItems) != 5 {
				return false
			}
			flag := in.TransactItems[createFlagItem].Update
			referrer := in.TransactItems[createReferrerItem].Update
			return flag != nil && *flag.TableName == "profiles" &&
				referrer != nil && *referrer.UpdateExpression == "ADD referral_earnings :commission"
		})).Once().Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		err := store.CreateInvestment(context.Background(), inv, deposit, first)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Flag Already Set", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Once().Return(nil, cancelledAt(5, createFlagItem))

		err := store.CreateInvestment(context.Background(), inv, deposit, first)

		assert.ErrorIs(t, err, storage.ErrAlreadyInvested)
		mockClient.AssertExpectations(t)
	})

	t.Run("Missing Referrer", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Once().Return(nil, cancelledAt(5, createReferrerItem))

		err := store.CreateInvestment(context.Background(), inv, deposit, first)

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Duplicate Investment", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Once().Return(nil, cancelledAt(2, createInvestmentItem))

		err := store.CreateInvestment(context.Background(), inv, deposit, nil)

		assert.ErrorIs(t, err, storage.ErrDuplicate)
		mockClient.AssertExpectations(t)
	})

	t.Run("Transaction Fails", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Once().Return(nil, errors.New("throttled"))

		err := store.CreateInvestment(context.Background(), inv, deposit, nil)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to execute create investment transaction")
		mockClient.AssertExpectations(t)
	})
}

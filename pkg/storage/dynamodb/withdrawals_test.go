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
	"github.com/stretchr/testify/require"
)

func testWithdrawal(status models.WithdrawalStatus) *models.WithdrawalRequest {
	created := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	return &models.WithdrawalRequest{
		Id:        "wd-1",
		UserId:    "user-1",
		Amount:    decimal.NewFromInt(100),
		Crypto:    "btc",
		Address:   "bc1qexample",
		Source:    models.SourceBalance,
		Status:    status,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestRequestWithdrawal(t *testing.T) {
	entry := testEntry(models.WithdrawalEntryID("wd-1"), "user-1", models.WITHDRAWAL, 100)

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			debit := in.TransactItems[0].Update
			return len(in.TransactItems) == 3 &&
				debit.ExpressionAttributeValues[":debit"].(*types.AttributeValueMemberN).Value == "-100"
		})).Once().Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		err := store.RequestWithdrawal(context.Background(), testWithdrawal(models.WithdrawalPending), entry)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Insufficient Funds", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Once().Return(nil, cancelledAt(3, 0))

		err := store.RequestWithdrawal(context.Background(), testWithdrawal(models.WithdrawalPending), entry)

		assert.ErrorIs(t, err, storage.ErrInsufficientFunds)
		mockClient.AssertExpectations(t)
	})
}

func TestApproveWithdrawal(t *testing.T) {
	t.Run("Completes Ledger Entry", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			entry := in.TransactItems[1].Update
			return entry.Key["entry_id"].(*types.AttributeValueMemberS).Value == "withdrawal-wd-1" &&
				entry.ExpressionAttributeValues[":to"].(*types.AttributeValueMemberS).Value == "completed"
		})).Once().Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		err := store.ApproveWithdrawal(context.Background(), "wd-1", time.Now())

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Pending", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Once().Return(nil, cancelledAt(2, 0))

		err := store.ApproveWithdrawal(context.Background(), "wd-1", time.Now())

		assert.ErrorIs(t, err, storage.ErrStatusConflict)
		mockClient.AssertExpectations(t)
	})
}

func TestRejectWithdrawal(t *testing.T) {
	refund := testEntry("refund-wd-1", "user-1", models.WITHDRAWAL_REFUND, 100)

	t.Run("Refunds Balance", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			credit := in.TransactItems[2].Update
			return len(in.TransactItems) == 4 &&
				credit.ExpressionAttributeValues[":amount"].(*types.AttributeValueMemberN).Value == "100"
		})).Once().Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		err := store.RejectWithdrawal(context.Background(), testWithdrawal(models.WithdrawalPending), refund, time.Now())

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Already Decided", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Once().Return(nil, cancelledAt(4, 0))

		err := store.RejectWithdrawal(context.Background(), testWithdrawal(models.WithdrawalPending), refund, time.Now())

		assert.ErrorIs(t, err, storage.ErrStatusConflict)
		mockClient.AssertExpectations(t)
	})
}

func TestSetReceiptKey(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Once().Return(&dynamodb.UpdateItemOutput{}, nil)

		assert.NoError(t, store.SetReceiptKey(context.Background(), "wd-1", "receipts/wd-1.json"))
		mockClient.AssertExpectations(t)
	})

	t.Run("Already Set", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Once().Return(nil, &types.ConditionalCheckFailedException{})

		err := store.SetReceiptKey(context.Background(), "wd-1", "receipts/wd-1.json")

		assert.ErrorIs(t, err, storage.ErrDuplicate)
		mockClient.AssertExpectations(t)
	})
}

func TestGetApprovedWithoutReceipt(t *testing.T) {
	mockClient := new(mocks.DynamoDBAPI)
	store := newTestStore(mockClient)

	item, err := marshalWithdrawal(testWithdrawal(models.WithdrawalApproved))
	require.NoError(t, err)
	mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return *in.IndexName == statusCreatedAtIndex && in.FilterExpression != nil
	})).Once().Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{item}}, nil)

	got, err := store.GetApprovedWithoutReceipt(context.Background(), 20*time.Minute)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "wd-1", got[0].Id)
	assert.True(t, decimal.NewFromInt(100).Equal(got[0].Amount))
	mockClient.AssertExpectations(t)
}

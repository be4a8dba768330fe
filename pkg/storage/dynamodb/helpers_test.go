package dynamodb

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/crypto-investments/pkg/models"
	"github.com/chris/crypto-investments/pkg/storage/dynamodb/mocks"
	"github.com/shopspring/decimal"
)

var testTables = Tables{
	Investments: "investments",
	Profiles:    "profiles",
	Ledger:      "ledger",
	Withdrawals: "withdrawals",
	Cryptos:     "cryptos",
	Connections: "connections",
}

func newTestStore(client *mocks.DynamoDBAPI) *Store {
	return New(client, testTables)
}

// cancelledAt builds the error DynamoDB returns when item idx of an n-item
// transaction fails its condition.
func cancelledAt(n, idx int) error {
	reasons := make([]types.CancellationReason, n)
	for i := range reasons {
		reasons[i] = types.CancellationReason{Code: aws.String("None")}
	}
	reasons[idx] = types.CancellationReason{Code: aws.String("ConditionalCheckFailed")}
	return &types.TransactionCanceledException{CancellationReasons: reasons}
}

func testInvestment(status models.InvestmentStatus) *models.Investment {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := &models.Investment{
		Id:           "inv-1",
		UserId:       "user-1",
		PlanName:     "Starter",
		Amount:       decimal.NewFromInt(500),
		DailyRate:    decimal.RequireFromString("0.04"),
		DurationDays: 7,
		Crypto:       "btc",
		Status:       status,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	if status != models.PENDING && status != models.DENIED {
		approved := created.Add(time.Hour)
		inv.ApprovedAt = &approved
	}
	return inv
}

func testEntry(id, userID string, typ models.EntryType, amount int64) *models.LedgerEntry {
	return &models.LedgerEntry{
		EntryID:   id,
		UserId:    userID,
		Type:      typ,
		Amount:    decimal.NewFromInt(amount),
		Status:    models.EntryCompleted,
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

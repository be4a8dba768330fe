package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		for _, key := range []string{"HTTP_PORT", "STORAGE_BACKEND", "REFERRAL_COMMISSION_RATE", "RECEIPT_RECONCILE_AFTER", "METRICS_ENABLED"} {
			t.Setenv(key, "")
		}

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.HTTPPort)
		assert.Equal(t, BackendDynamoDB, cfg.StorageBackend)
		assert.True(t, decimal.RequireFromString("0.10").Equal(cfg.CommissionRate))
		assert.Equal(t, 20*time.Minute, cfg.ReceiptReconcileAge)
		assert.True(t, cfg.MetricsEnabled)
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "9090")
		t.Setenv("STORAGE_BACKEND", "Memory")
		t.Setenv("REFERRAL_COMMISSION_RATE", "0.05")
		t.Setenv("RECEIPT_RECONCILE_AFTER", "1h")
		t.Setenv("METRICS_ENABLED", "false")
		t.Setenv("DYNAMODB_LEDGER_TABLE_NAME", "ledger")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.HTTPPort)
		assert.Equal(t, BackendMemory, cfg.StorageBackend)
		assert.True(t, decimal.RequireFromString("0.05").Equal(cfg.CommissionRate))
		assert.Equal(t, time.Hour, cfg.ReceiptReconcileAge)
		assert.False(t, cfg.MetricsEnabled)
		assert.Equal(t, "ledger", cfg.Tables.Ledger)
	})

	t.Run("Invalid Values", func(t *testing.T) {
		t.Setenv("RECEIPT_RECONCILE_AFTER", "soon")
		_, err := Load()
		assert.ErrorContains(t, err, "RECEIPT_RECONCILE_AFTER")
	})

	t.Run("Invalid Rate", func(t *testing.T) {
		t.Setenv("REFERRAL_COMMISSION_RATE", "ten percent")
		_, err := Load()
		assert.ErrorContains(t, err, "REFERRAL_COMMISSION_RATE")
	})

	t.Run("Invalid Backend", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "postgres")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestRequireTables(t *testing.T) {
	cfg := &Config{Tables: Tables{Investments: "i", Profiles: "p", Ledger: "l", Withdrawals: "w", Cryptos: "c"}}

	err := cfg.RequireTables()
	assert.ErrorContains(t, err, "DYNAMODB_CONNECTIONS_TABLE_NAME")

	cfg.Tables.Connections = "ws"
	assert.NoError(t, cfg.RequireTables())
}

func TestRequire(t *testing.T) {
	assert.NoError(t, Require(map[string]string{"SQS_QUEUE_URL": "https://sqs"}))
	assert.EqualError(t, Require(map[string]string{"RECEIPTS_BUCKET": ""}), "RECEIPTS_BUCKET environment variable not set")
}

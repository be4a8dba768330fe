// Package config reads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Storage backends.
const (
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

type Tables struct {
	Investments string
	Profiles    string
	Ledger      string
	Withdrawals string
	Cryptos     string
	Connections string
}

type Config struct {
	HTTPPort             string
	StorageBackend       string
	Tables               Tables
	SQSQueueURL          string
	ReceiptsBucket       string
	WebSocketAPIEndpoint string
	PlansFile            string
	CommissionRate       decimal.Decimal
	ReceiptReconcileAge  time.Duration
	MetricsEnabled       bool
}

// LoadDotEnv loads .env if it exists. It reports whether a file was read.
func LoadDotEnv() bool {
	return godotenv.Load() == nil
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	reconcileAge, err := getEnvDuration("RECEIPT_RECONCILE_AFTER", 20*time.Minute)
	if err != nil {
		return nil, err
	}

	rate, err := getEnvDecimal("REFERRAL_COMMISSION_RATE", decimal.RequireFromString("0.10"))
	if err != nil {
		return nil, err
	}

	backend := strings.ToLower(getEnvString("STORAGE_BACKEND", BackendDynamoDB))
	if backend != BackendDynamoDB && backend != BackendMemory {
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q", backend)
	}

	return &Config{
		HTTPPort:       getEnvString("HTTP_PORT", "8080"),
		StorageBackend: backend,
		Tables: Tables{
			Investments: os.Getenv("DYNAMODB_INVESTMENTS_TABLE_NAME"),
			Profiles:    os.Getenv("DYNAMODB_PROFILES_TABLE_NAME"),
			Ledger:      os.Getenv("DYNAMODB_LEDGER_TABLE_NAME"),
			Withdrawals: os.Getenv("DYNAMODB_WITHDRAWALS_TABLE_NAME"),
			Cryptos:     os.Getenv("DYNAMODB_CRYPTOS_TABLE_NAME"),
			Connections: os.Getenv("DYNAMODB_CONNECTIONS_TABLE_NAME"),
		},
		SQSQueueURL:          os.Getenv("SQS_QUEUE_URL"),
		ReceiptsBucket:       os.Getenv("RECEIPTS_BUCKET"),
		WebSocketAPIEndpoint: os.Getenv("WEBSOCKET_API_ENDPOINT"),
		PlansFile:            os.Getenv("PLANS_FILE"),
		CommissionRate:       rate,
		ReceiptReconcileAge:  reconcileAge,
		MetricsEnabled:       getEnvBool("METRICS_ENABLED", true),
	}, nil
}

// RequireTables fails when any DynamoDB table name is unset.
func (c *Config) RequireTables() error {
	var missing []string
	for key, value := range map[string]string{
		"DYNAMODB_INVESTMENTS_TABLE_NAME": c.Tables.Investments,
		"DYNAMODB_PROFILES_TABLE_NAME":    c.Tables.Profiles,
		"DYNAMODB_LEDGER_TABLE_NAME":      c.Tables.Ledger,
		"DYNAMODB_WITHDRAWALS_TABLE_NAME": c.Tables.Withdrawals,
		"DYNAMODB_CRYPTOS_TABLE_NAME":     c.Tables.Cryptos,
		"DYNAMODB_CONNECTIONS_TABLE_NAME": c.Tables.Connections,
	} {
		if value == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("table name environment variables not set: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Require fails when any of the named settings is empty.
func Require(settings map[string]string) error {
	for key, value := range settings {
		if value == "" {
			return errors.New(key + " environment variable not set")
		}
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	if value := os.Getenv(key); value != "" {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid decimal for %s: %q (%w)", key, value, err)
		}
		return d, nil
	}
	return defaultValue, nil
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

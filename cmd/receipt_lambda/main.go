package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chris/crypto-investments/pkg/config"
	"github.com/chris/crypto-investments/pkg/metrics"
	"github.com/chris/crypto-investments/pkg/receipts"
	dydbstore "github.com/chris/crypto-investments/pkg/storage/dynamodb"
)

var consumer *receipts.Consumer

func init() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Useful for local testing.
	if !config.LoadDotEnv() {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("invalid configuration", err)
	}
	if err := config.Require(map[string]string{
		"DYNAMODB_WITHDRAWALS_TABLE_NAME": cfg.Tables.Withdrawals,
		"RECEIPTS_BUCKET":                 cfg.ReceiptsBucket,
	}); err != nil {
		fatal("missing configuration", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		fatal("unable to load SDK config", err)
	}

	var m *metrics.MetricsCollector
	if cfg.MetricsEnabled {
		m = metrics.NewMetricsCollector(slog.Default())
	}

	store := dydbstore.New(dynamodb.NewFromConfig(awsCfg), dydbstore.Tables(cfg.Tables))
	writer := receipts.NewWriter(s3.NewFromConfig(awsCfg), cfg.ReceiptsBucket, store, m)
	consumer = &receipts.Consumer{Writer: writer}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func main() {
	lambda.Start(consumer.HandleSQSEvent)
}

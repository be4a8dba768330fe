package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/crypto-investments/pkg/config"
	"github.com/chris/crypto-investments/pkg/receipts"
	"github.com/chris/crypto-investments/pkg/scheduler"
	dydbstore "github.com/chris/crypto-investments/pkg/storage/dynamodb"
)

var reconciler *receipts.Reconciler

func init() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		fatal("invalid configuration", err)
	}
	if err := config.Require(map[string]string{
		"DYNAMODB_WITHDRAWALS_TABLE_NAME": cfg.Tables.Withdrawals,
		"SQS_QUEUE_URL":                   cfg.SQSQueueURL,
	}); err != nil {
		fatal("missing configuration", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		fatal("unable to load SDK config", err)
	}

	reconciler = &receipts.Reconciler{
		Store:     dydbstore.New(dynamodb.NewFromConfig(awsCfg), dydbstore.Tables(cfg.Tables)),
		Scheduler: scheduler.NewSQSScheduler(sqs.NewFromConfig(awsCfg), cfg.SQSQueueURL),
		MaxAge:    cfg.ReceiptReconcileAge,
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

// HandleRequest is triggered by an EventBridge Schedule.
func HandleRequest(ctx context.Context) error {
	_, err := reconciler.Run(ctx)
	return err
}

func main() {
	lambda.Start(HandleRequest)
}

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/crypto-investments/pkg/config"
	"github.com/chris/crypto-investments/pkg/handlers/websockets"
	dydbstore "github.com/chris/crypto-investments/pkg/storage/dynamodb"
)

var handler *websockets.Handler

func init() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		fatal("invalid configuration", err)
	}
	if err := config.Require(map[string]string{
		"DYNAMODB_CONNECTIONS_TABLE_NAME": cfg.Tables.Connections,
	}); err != nil {
		fatal("missing configuration", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		fatal("unable to load SDK config", err)
	}

	store := dydbstore.New(dynamodb.NewFromConfig(awsCfg), dydbstore.Tables(cfg.Tables))
	handler = websockets.NewHandler(store)
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func main() {
	lambda.Start(handler.Route)
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/crypto-investments/pkg/config"
	"github.com/chris/crypto-investments/pkg/handlers/router"
	wshandler "github.com/chris/crypto-investments/pkg/handlers/websockets"
	"github.com/chris/crypto-investments/pkg/lifecycle"
	"github.com/chris/crypto-investments/pkg/metrics"
	"github.com/chris/crypto-investments/pkg/models"
	"github.com/chris/crypto-investments/pkg/plans"
	"github.com/chris/crypto-investments/pkg/referral"
	"github.com/chris/crypto-investments/pkg/scheduler"
	"github.com/chris/crypto-investments/pkg/storage"
	dydbstore "github.com/chris/crypto-investments/pkg/storage/dynamodb"
	"github.com/chris/crypto-investments/pkg/storage/memory"
	"github.com/chris/crypto-investments/pkg/websockets"
)

// Cryptos available when running against the in-memory backend.
var devCryptos = []models.Crypto{
	{Id: "btc", Name: "Bitcoin", Symbol: "BTC", Address: "bc1qdevdepositaddress"},
	{Id: "eth", Name: "Ethereum", Symbol: "ETH", Address: "0x000000000000000000000000000000000000dEaD"},
	{Id: "usdt", Name: "Tether", Symbol: "USDT", Address: "TDevDepositAddress"},
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if !config.LoadDotEnv() {
		logger.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(logger, "invalid configuration", err)
	}

	catalog := plans.Default()
	if cfg.PlansFile != "" {
		catalog, err = plans.Load(cfg.PlansFile)
		if err != nil {
			fatal(logger, "unable to load plan catalog", err)
		}
	}

	var m *metrics.MetricsCollector
	if cfg.MetricsEnabled {
		m = metrics.NewMetricsCollector(logger)
	}

	ctx := context.Background()
	var (
		store     storage.Storage
		publisher websockets.Publisher
		sched     scheduler.Scheduler
		wsHandler http.Handler
	)

	switch cfg.StorageBackend {
	case config.BackendMemory:
		mem := memory.New()
		for _, c := range devCryptos {
			mem.PutCrypto(c)
		}
		hub := websockets.NewHub()
		store, publisher = mem, hub
		wsHandler = wshandler.NewLocalHandler(hub)
		logger.Info("using in-memory storage")

	default:
		if err := cfg.RequireTables(); err != nil {
			fatal(logger, "missing table configuration", err)
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			fatal(logger, "unable to load SDK config", err)
		}
		dyStore := dydbstore.New(dynamodb.NewFromConfig(awsCfg), dydbstore.Tables(cfg.Tables))
		store = dyStore

		if cfg.SQSQueueURL != "" {
			sched = scheduler.NewSQSScheduler(sqs.NewFromConfig(awsCfg), cfg.SQSQueueURL)
		} else {
			logger.Warn("SQS_QUEUE_URL not set, receipts will only be produced by reconciliation")
		}

		if cfg.WebSocketAPIEndpoint != "" {
			pub, err := websockets.NewPublisher(ctx, dyStore, dyStore, cfg.WebSocketAPIEndpoint)
			if err != nil {
				fatal(logger, "unable to create websocket publisher", err)
			}
			publisher = pub
		} else {
			hub := websockets.NewHub()
			publisher = hub
			wsHandler = wshandler.NewLocalHandler(hub)
		}
	}

	svc := lifecycle.NewService(lifecycle.Dependencies{
		Store:     store,
		Catalog:   catalog,
		Referral:  referral.NewEngine(cfg.CommissionRate),
		Publisher: publisher,
		Scheduler: sched,
		Metrics:   m,
		Logger:    logger,
	})

	r := router.New(router.Options{
		Service:   svc,
		Logger:    logger,
		Metrics:   m,
		WebSocket: wsHandler,
	})

	logger.Info("Starting server", "port", cfg.HTTPPort, "backend", cfg.StorageBackend)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, r); err != nil {
		fatal(logger, "server stopped", err)
	}
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}

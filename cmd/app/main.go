package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/stablevault/custodial-wallet-ledger/pkg/config"
	"github.com/stablevault/custodial-wallet-ledger/pkg/handlers"
	"github.com/stablevault/custodial-wallet-ledger/pkg/handlers/sessions"
	"github.com/stablevault/custodial-wallet-ledger/pkg/ledger"
	"github.com/stablevault/custodial-wallet-ledger/pkg/middleware"
	"github.com/stablevault/custodial-wallet-ledger/pkg/notify"
	"github.com/stablevault/custodial-wallet-ledger/pkg/outbox"
	dydbstore "github.com/stablevault/custodial-wallet-ledger/pkg/storage/dynamodb"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// AWS Session
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(awsCfg)
	store := dydbstore.New(dbClient, dydbstore.Tables{
		Accounts:     cfg.AccountsTable,
		Deposits:     cfg.DepositsTable,
		Transactions: cfg.TransactionsTable,
		Payouts:      cfg.PayoutsTable,
		Reconcile:    cfg.ReconcileTable,
		Connections:  cfg.ConnectionsTable,
	})

	// SQS client carrying payout outbox references.
	var enqueuer outbox.Enqueuer
	if cfg.PayoutQueueURL != "" {
		sqsClient := sqs.NewFromConfig(awsCfg)
		enqueuer = outbox.NewSQSEnqueuer(sqsClient, cfg.PayoutQueueURL)
	} else {
		log.Println("SQS_PAYOUT_QUEUE_URL not set, payouts stay queued in the outbox table")
	}

	// Session notifications go through the API Gateway management endpoint
	// when one is configured.
	var notifier notify.Publisher = &notify.NoOpPublisher{}
	if cfg.NotifyEndpoint != "" {
		notifier, err = notify.NewPublisher(store, cfg.NotifyEndpoint)
		if err != nil {
			log.Fatalf("unable to create session publisher: %v", err)
		}
	}

	engine := ledger.New(store, enqueuer, notifier, ledger.Policy{
		FeeRate:       cfg.FeeRate,
		MinWithdrawal: cfg.MinWithdrawal,
		DepositTTL:    cfg.DepositTTL,
		MaxRetries:    cfg.MaxTransferRetries,
		Asset:         cfg.Asset,
	})

	handler := handlers.NewApiHandler(store, engine)
	sessionsHandler := sessions.NewHandler(store)

	router := chi.NewRouter()
	router.Use(middleware.NewStructuredLogger(logger))
	handler.Routes(router)
	router.Handle("/sessions", sessionsHandler)

	log.Printf("Starting server on port %s", cfg.HTTPPort)

	err = http.ListenAndServe(":"+cfg.HTTPPort, router)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/stablevault/custodial-wallet-ledger/pkg/config"
	"github.com/stablevault/custodial-wallet-ledger/pkg/exchange"
	"github.com/stablevault/custodial-wallet-ledger/pkg/ledger"
	"github.com/stablevault/custodial-wallet-ledger/pkg/notify"
	"github.com/stablevault/custodial-wallet-ledger/pkg/reconcile"
	dydbstore "github.com/stablevault/custodial-wallet-ledger/pkg/storage/dynamodb"
)

func main() {
	// Load environment variables from .env file (useful for local runs).
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

	var notifier notify.Publisher = &notify.NoOpPublisher{}
	if cfg.NotifyEndpoint != "" {
		notifier, err = notify.NewPublisher(store, cfg.NotifyEndpoint)
		if err != nil {
			log.Fatalf("unable to create session publisher: %v", err)
		}
	}

	// The reconciler only credits deposits; it never creates payouts, so no
	// enqueuer is wired.
	engine := ledger.New(store, nil, notifier, ledger.Policy{
		FeeRate:       cfg.FeeRate,
		MinWithdrawal: cfg.MinWithdrawal,
		DepositTTL:    cfg.DepositTTL,
		MaxRetries:    cfg.MaxTransferRetries,
		Asset:         cfg.Asset,
	})

	feed, err := exchange.NewPrimeClient(cfg.PrimePortfolio, cfg.PrimeWallet, cfg.Asset, cfg.AssetExponent)
	if err != nil {
		log.Fatalf("unable to create exchange client: %v", err)
	}

	reconciler := reconcile.New(store, engine, feed, reconcile.Options{
		Interval: cfg.ReconcileInterval,
		Timeout:  cfg.ReconcileTimeout,
		Backoff:  cfg.RateLimitBackoff,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting deposit reconciler", "interval", cfg.ReconcileInterval)

	if err := reconciler.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("reconciler stopped: %v", err)
	}
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	appconfig "github.com/stablevault/custodial-wallet-ledger/pkg/config"
	"github.com/stablevault/custodial-wallet-ledger/pkg/exchange"
	"github.com/stablevault/custodial-wallet-ledger/pkg/models"
	"github.com/stablevault/custodial-wallet-ledger/pkg/outbox"
	"github.com/stablevault/custodial-wallet-ledger/pkg/storage"
	dydbstore "github.com/stablevault/custodial-wallet-ledger/pkg/storage/dynamodb"
)

var (
	store       storage.PayoutStore
	submitter   exchange.Submitter
	maxAttempts int64
)

func init() {
	// Load environment variables from .env file (useful for local testing).
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := appconfig.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(awsCfg)
	store = dydbstore.New(dbClient, dydbstore.Tables{
		Accounts:     cfg.AccountsTable,
		Deposits:     cfg.DepositsTable,
		Transactions: cfg.TransactionsTable,
		Payouts:      cfg.PayoutsTable,
		Reconcile:    cfg.ReconcileTable,
		Connections:  cfg.ConnectionsTable,
	})

	submitter, err = exchange.NewPrimeClient(cfg.PrimePortfolio, cfg.PrimeWallet, cfg.Asset, cfg.AssetExponent)
	if err != nil {
		log.Fatalf("unable to create exchange client: %v", err)
	}

	maxAttempts = cfg.MaxPayoutAttempts
}

// HandleRequest processes SQS messages carrying payout outbox references and
// submits each payout to the custodial exchange.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) error {
	for _, message := range sqsEvent.Records {
		log.Printf("Processing message %s", message.MessageId)

		var ref outbox.PayoutMessage
		if err := json.Unmarshal([]byte(message.Body), &ref); err != nil {
			log.Printf("ERROR: failed to unmarshal payout reference from SQS message %s: %v", message.MessageId, err)
			// A malformed body never becomes parseable; drop it rather than
			// letting SQS redeliver forever.
			continue
		}

		if err := processPayout(ctx, ref.PayoutId); err != nil {
			// Returning an error makes SQS redeliver the message, which is
			// the retry mechanism here.
			return err
		}
	}

	return nil
}

// processPayout submits one payout. Acquisition increments the attempt
// counter atomically, so each delivery burns one attempt no matter how it
// ends.
func processPayout(ctx context.Context, payoutID string) error {
	payout, err := store.AcquirePayout(ctx, payoutID)
	if err != nil {
		if errors.Is(err, storage.ErrPayoutNotPending) {
			log.Printf("Payout %s already resolved, skipping", payoutID)
			return nil
		}
		log.Printf("ERROR: failed to acquire payout %s: %v", payoutID, err)
		return err
	}

	activityId, err := submitter.SubmitWithdrawal(ctx, exchange.WithdrawalRequest{
		Asset:           payout.Asset,
		Destination:     payout.Destination,
		DestinationKind: payout.DestinationKind,
		Amount:          payout.Amount,
		IdempotencyKey:  payout.IdempotencyKey,
	})
	if err != nil {
		if payout.Attempts >= maxAttempts {
			// Out of attempts. The account stays debited; the FAILED row is
			// the signal for manual compensation.
			log.Printf("ERROR: payout %s failed after %d attempts, marking FAILED: %v", payoutID, payout.Attempts, err)
			if rerr := store.ResolvePayout(ctx, payout, models.PayoutFailed); rerr != nil {
				log.Printf("ERROR: failed to mark payout %s FAILED: %v", payoutID, rerr)
				return rerr
			}
			return nil
		}
		log.Printf("ERROR: failed to submit payout %s (attempt %d): %v", payoutID, payout.Attempts, err)
		return err
	}

	log.Printf("Submitted payout %s, exchange activity %s", payoutID, activityId)

	if err := store.ResolvePayout(ctx, payout, models.PayoutSent); err != nil {
		log.Printf("ERROR: failed to mark payout %s SENT: %v", payoutID, err)
		// The next delivery will see the payout no longer PENDING and skip;
		// the submission itself is idempotent on the payout's key.
		return err
	}

	return nil
}

func main() {
	lambda.Start(HandleRequest)
}

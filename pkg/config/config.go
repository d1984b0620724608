package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds every tunable the service reads from the environment.
// Policy constants carry documented defaults so the ledger engine stays pure
// and testable; nothing reads the environment outside this package.
type Config struct {
	HTTPPort string

	// DynamoDB table names.
	AccountsTable     string
	DepositsTable     string
	TransactionsTable string
	PayoutsTable      string
	ReconcileTable    string
	ConnectionsTable  string

	// SQS queue carrying payout outbox references.
	PayoutQueueURL string

	// API Gateway management endpoint for session notifications.
	NotifyEndpoint string

	// FeeRate is the withdrawal fee rate. Default 0.05 (5%).
	FeeRate decimal.Decimal

	// MinWithdrawal is the smallest accepted withdrawal in minor units.
	// Default 6 whole tokens.
	MinWithdrawal int64

	// DepositTTL bounds how long a deposit intent stays matchable.
	DepositTTL time.Duration

	// MaxTransferRetries bounds optimistic-lock retries per operation.
	MaxTransferRetries int

	// MaxPayoutAttempts bounds exchange submissions before a payout is
	// marked FAILED for manual compensation.
	MaxPayoutAttempts int64

	// Reconciliation loop cadence and per-cycle bounds.
	ReconcileInterval time.Duration
	ReconcileTimeout  time.Duration
	RateLimitBackoff  time.Duration

	// Custodial exchange settings.
	Asset          string
	AssetExponent  int32
	PrimePortfolio string
	PrimeWallet    string
}

// AssetExponentDefault is the minor-unit exponent of the stable token
// (1 token = 10^6 minor units).
const AssetExponentDefault = 6

// Load reads configuration from the environment, applying defaults.
func Load() (*Config, error) {
	feeRate, err := getEnvDecimal("LEDGER_FEE_RATE", decimal.NewFromFloat(0.05))
	if err != nil {
		return nil, err
	}

	minWithdrawal, err := getEnvInt64("LEDGER_MIN_WITHDRAWAL", 6*pow10(AssetExponentDefault))
	if err != nil {
		return nil, err
	}

	depositTTL, err := getEnvDuration("DEPOSIT_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	reconcileInterval, err := getEnvDuration("RECONCILE_INTERVAL", 5*time.Second)
	if err != nil {
		return nil, err
	}

	reconcileTimeout, err := getEnvDuration("RECONCILE_TIMEOUT", 4*time.Second)
	if err != nil {
		return nil, err
	}

	rateLimitBackoff, err := getEnvDuration("RECONCILE_RATE_LIMIT_BACKOFF", 5*time.Second)
	if err != nil {
		return nil, err
	}

	maxPayoutAttempts, err := getEnvInt64("MAX_PAYOUT_ATTEMPTS", 5)
	if err != nil {
		return nil, err
	}

	return &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		AccountsTable:      getEnv("DYNAMODB_ACCOUNTS_TABLE_NAME", "accounts"),
		DepositsTable:      getEnv("DYNAMODB_DEPOSITS_TABLE_NAME", "pending_deposits"),
		TransactionsTable:  getEnv("DYNAMODB_TRANSACTIONS_TABLE_NAME", "transactions"),
		PayoutsTable:       getEnv("DYNAMODB_PAYOUTS_TABLE_NAME", "payouts"),
		ReconcileTable:     getEnv("DYNAMODB_RECONCILE_TABLE_NAME", "reconcile"),
		ConnectionsTable:   getEnv("DYNAMODB_CONNECTIONS_TABLE_NAME", "connections"),
		PayoutQueueURL:     getEnv("SQS_PAYOUT_QUEUE_URL", ""),
		NotifyEndpoint:     getEnv("WEBSOCKET_API_ENDPOINT", ""),
		FeeRate:            feeRate,
		MinWithdrawal:      minWithdrawal,
		DepositTTL:         depositTTL,
		MaxTransferRetries: 3,
		MaxPayoutAttempts:  maxPayoutAttempts,
		ReconcileInterval:  reconcileInterval,
		ReconcileTimeout:   reconcileTimeout,
		RateLimitBackoff:   rateLimitBackoff,
		Asset:              getEnv("CUSTODY_ASSET", "USDC"),
		AssetExponent:      AssetExponentDefault,
		PrimePortfolio:     getEnv("PRIME_PORTFOLIO_ID", ""),
		PrimeWallet:        getEnv("PRIME_WALLET_ID", ""),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getEnvDecimal(key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func pow10(exp int32) int64 {
	v := int64(1)
	for i := int32(0); i < exp; i++ {
		v *= 10
	}
	return v
}

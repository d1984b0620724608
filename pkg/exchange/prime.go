package exchange

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/coinbase-samples/prime-sdk-go/client"
	"github.com/coinbase-samples/prime-sdk-go/credentials"
	"github.com/coinbase-samples/prime-sdk-go/model"
	"github.com/coinbase-samples/prime-sdk-go/transactions"
	"golang.org/x/net/http2"
)

// depositCompletedStatus is the Prime transaction status meaning the inbound
// funds are final on the custodial account.
const depositCompletedStatus = "TRANSACTION_IMPORTED"

// PrimeClient implements Feed and Submitter against Coinbase Prime.
type PrimeClient struct {
	transactionsSvc transactions.TransactionsService
	portfolioId     string
	walletId        string
	symbol          string
	exponent        int32
}

// Make sure we conform to the interfaces
var (
	_ Feed      = (*PrimeClient)(nil)
	_ Submitter = (*PrimeClient)(nil)
)

// NewPrimeClient creates a PrimeClient from credentials in the environment.
func NewPrimeClient(portfolioId, walletId, symbol string, exponent int32) (*PrimeClient, error) {
	creds, err := loadPrimeCredentials()
	if err != nil {
		return nil, err
	}

	httpClient, err := newHttpClient()
	if err != nil {
		return nil, fmt.Errorf("unable to create http client: %w", err)
	}

	restClient := client.NewRestClient(creds, httpClient)

	return &PrimeClient{
		transactionsSvc: transactions.NewTransactionsService(restClient),
		portfolioId:     portfolioId,
		walletId:        walletId,
		symbol:          symbol,
		exponent:        exponent,
	}, nil
}

func loadPrimeCredentials() (*credentials.Credentials, error) {
	accessKey := os.Getenv("PRIME_ACCESS_KEY")
	passphrase := os.Getenv("PRIME_PASSPHRASE")
	signingKey := os.Getenv("PRIME_SIGNING_KEY")

	if accessKey == "" || passphrase == "" || signingKey == "" {
		return nil, fmt.Errorf("missing required Prime API credentials: PRIME_ACCESS_KEY, PRIME_PASSPHRASE, PRIME_SIGNING_KEY")
	}

	return &credentials.Credentials{
		AccessKey:  accessKey,
		Passphrase: passphrase,
		SigningKey: signingKey,
	}, nil
}

func newHttpClient() (http.Client, error) {
	tr := &http.Transport{
		ResponseHeaderTimeout: 30 * time.Second,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   15 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return http.Client{}, err
	}

	return http.Client{
		Transport: tr,
		Timeout:   60 * time.Second,
	}, nil
}

// ListDeposits returns completed inbound transactions on the custodial
// wallet since the high-water mark, oldest first.
func (c *PrimeClient) ListDeposits(ctx context.Context, since time.Time) ([]DepositEvent, error) {
	request := &transactions.ListWalletTransactionsRequest{
		PortfolioId: c.portfolioId,
		WalletId:    c.walletId,
		Start:       since,
		Types:       []string{"DEPOSIT"},
		Pagination: &model.PaginationParams{
			Limit: 500,
		},
	}

	response, err := c.transactionsSvc.ListWalletTransactions(ctx, request)
	if err != nil {
		return nil, classifyErr(err)
	}

	events := make([]DepositEvent, 0, len(response.Transactions))
	for _, tx := range response.Transactions {
		if tx.Status != depositCompletedStatus {
			continue
		}
		if !strings.EqualFold(tx.Symbol, c.symbol) {
			continue
		}

		amount, err := ToMinorUnits(tx.Amount, c.exponent)
		if err != nil {
			return nil, fmt.Errorf("deposit %s: %w", tx.Id, err)
		}

		var reference string
		if tx.TransferTo != nil {
			reference = tx.TransferTo.AccountIdentifier
		}

		events = append(events, DepositEvent{
			Id:        tx.Id,
			Amount:    amount,
			Reference: reference,
			Symbol:    tx.Symbol,
			CreatedAt: tx.Created,
		})
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})

	return events, nil
}

// SubmitWithdrawal submits a payout from the custodial wallet.
func (c *PrimeClient) SubmitWithdrawal(ctx context.Context, req WithdrawalRequest) (string, error) {
	request, err := c.buildWithdrawalRequest(req)
	if err != nil {
		return "", err
	}

	response, err := c.transactionsSvc.CreateWalletWithdrawal(ctx, request)
	if err != nil {
		return "", classifyErr(err)
	}

	return response.ActivityId, nil
}

// buildWithdrawalRequest routes the payout onto the destination surface its
// kind requires: chain payouts carry a blockchain address, off-platform
// payouts carry the payment identifier on the payment-method surface.
func (c *PrimeClient) buildWithdrawalRequest(req WithdrawalRequest) (*transactions.CreateWalletWithdrawalRequest, error) {
	request := &transactions.CreateWalletWithdrawalRequest{
		PortfolioId:    c.portfolioId,
		SourceWalletId: c.walletId,
		Amount:         FromMinorUnits(req.Amount, c.exponent),
		IdempotencyKey: req.IdempotencyKey,
		Symbol:         req.Asset,
	}

	switch req.DestinationKind {
	case DestinationKindChain:
		request.DestinationType = "DESTINATION_BLOCKCHAIN"
		request.BlockchainAddress = &model.BlockchainAddress{
			Address: req.Destination,
		}
	case DestinationKindOffPlatform:
		request.DestinationType = "DESTINATION_PAYMENT_METHOD"
		request.PaymentMethod = &transactions.CreateWalletWithdrawalPaymentMethod{
			Id: req.Destination,
		}
	default:
		return nil, fmt.Errorf("unsupported destination kind %q", req.DestinationKind)
	}

	return request, nil
}

// classifyErr maps exchange transport failures onto the package sentinels.
func classifyErr(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") || strings.Contains(msg, "too many requests") {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

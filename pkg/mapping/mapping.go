package mapping

import (
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/stablevault/custodial-wallet-ledger/pkg/api"
	"github.com/stablevault/custodial-wallet-ledger/pkg/models"
)

// ToApiAccount converts a domain Account model to an API Account model.
func ToApiAccount(acct *models.Account) *api.Account {
	return &api.Account{
		AccountId:     acct.AccountId,
		WalletId:      acct.WalletId,
		Balance:       acct.Balance,
		PayoutAddress: acct.PayoutAddress,
		CreatedAt:     acct.CreatedAt,
	}
}

// ToDomainNewAccount converts an API NewAccount model to a domain Account model.
// The wallet id is assigned here and is immutable thereafter.
func ToDomainNewAccount(newAcct *api.NewAccount) *models.Account {
	return &models.Account{
		AccountId:     newAcct.AccountId,
		WalletId:      uuid.New().String(),
		Balance:       0,
		PayoutAddress: newAcct.PayoutAddress,
		Version:       1,
		CreatedAt:     time.Now(),
	}
}

// ToApiTransaction converts a domain Transaction model to an API Transaction model.
func ToApiTransaction(tx *models.Transaction) *api.Transaction {
	id, err := uuid.Parse(tx.Id)
	if err != nil {
		id = uuid.Nil
	}
	return &api.Transaction{
		Id:           openapi_types.UUID(id),
		FromWalletId: tx.FromWalletId,
		ToWalletId:   tx.ToWalletId,
		Amount:       tx.Amount,
		Fee:          tx.Fee,
		Type:         string(tx.Type),
		PayoutStatus: string(tx.PayoutStatus),
		CreatedAt:    tx.CreatedAt,
	}
}

// ToApiDepositIntent converts a domain PendingDeposit to an API DepositIntent.
func ToApiDepositIntent(dep *models.PendingDeposit) *api.DepositIntent {
	return &api.DepositIntent{
		DepositId: dep.DepositId,
		Amount:    dep.RequestedAmount,
		Reference: dep.Reference,
		ExpiresAt: time.Unix(dep.TTL, 0),
	}
}

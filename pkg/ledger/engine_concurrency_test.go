package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stablevault/custodial-wallet-ledger/pkg/ledger"
	"github.com/stablevault/custodial-wallet-ledger/pkg/models"
	"github.com/stablevault/custodial-wallet-ledger/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory EngineStore enforcing the same version and
// balance conditions as the DynamoDB store, for exercising the engine's
// retry loop under real contention.
type memStore struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
	deposits map[string]*models.PendingDeposit
	txs      []*models.Transaction
	payouts  []*models.Payout
}

func newMemStore() *memStore {
	return &memStore{
		accounts: make(map[string]*models.Account),
		deposits: make(map[string]*models.PendingDeposit),
	}
}

func (s *memStore) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[accountID]
	if !ok {
		return nil, storage.ErrAccountNotFound
	}
	copy := *acct
	return &copy, nil
}

func (s *memStore) GetAccountByWalletID(ctx context.Context, walletID string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.accounts {
		if acct.WalletId == walletID {
			copy := *acct
			return &copy, nil
		}
	}
	return nil, storage.ErrAccountNotFound
}

func (s *memStore) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.AccountId]; ok {
		return nil, storage.ErrAccountExists
	}
	copy := *account
	s.accounts[account.AccountId] = &copy
	return account, nil
}

func (s *memStore) ListAccounts(ctx context.Context) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	accounts := make([]models.Account, 0, len(s.accounts))
	for _, acct := range s.accounts {
		accounts = append(accounts, *acct)
	}
	return accounts, nil
}

func (s *memStore) CreatePendingDeposit(ctx context.Context, dep *models.PendingDeposit) (*models.PendingDeposit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *dep
	s.deposits[dep.DepositId] = &copy
	return dep, nil
}

func (s *memStore) GetPendingDeposit(ctx context.Context, depositID string) (*models.PendingDeposit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dep, ok := s.deposits[depositID]
	if !ok {
		return nil, storage.ErrDepositNotFound
	}
	copy := *dep
	return &copy, nil
}

func (s *memStore) ListPendingDeposits(ctx context.Context) ([]models.PendingDeposit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deps []models.PendingDeposit
	for _, dep := range s.deposits {
		if dep.Status == models.DepositPending {
			deps = append(deps, *dep)
		}
	}
	return deps, nil
}

func (s *memStore) GetDepositByExternalTxID(ctx context.Context, externalTxID string) (*models.PendingDeposit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, dep := range s.deposits {
		if dep.ExternalTxId == externalTxID {
			copy := *dep
			return &copy, nil
		}
	}
	return nil, storage.ErrDepositNotFound
}

func (s *memStore) ExpireDeposit(ctx context.Context, depositID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	dep, ok := s.deposits[depositID]
	if !ok || dep.Status != models.DepositPending {
		return storage.ErrDepositNotPending
	}
	dep.Status = models.DepositExpired
	return nil
}

func (s *memStore) ExecuteTransfer(ctx context.Context, from, to *models.Account, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	curFrom := s.accounts[from.AccountId]
	curTo := s.accounts[to.AccountId]
	if curFrom.Version != from.Version || curTo.Version != to.Version {
		return storage.ErrConflict
	}
	if curFrom.Balance < tx.Amount {
		return storage.ErrConflict
	}

	curFrom.Balance -= tx.Amount
	curFrom.Version++
	curTo.Balance += tx.Amount
	curTo.Version++
	s.txs = append(s.txs, tx)
	return nil
}

func (s *memStore) ExecuteWithdrawal(ctx context.Context, account *models.Account, tx *models.Transaction, payout *models.Payout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.accounts[account.AccountId]
	gross := tx.Amount + tx.Fee
	if cur.Version != account.Version {
		return storage.ErrConflict
	}
	if cur.Balance < gross {
		return storage.ErrConflict
	}

	cur.Balance -= gross
	cur.Version++
	s.txs = append(s.txs, tx)
	s.payouts = append(s.payouts, payout)
	return nil
}

func (s *memStore) CreditDeposit(ctx context.Context, deposit *models.PendingDeposit, account *models.Account, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	curDep := s.deposits[deposit.DepositId]
	if curDep.Status != models.DepositPending {
		return storage.ErrDuplicateCredit
	}
	cur := s.accounts[account.AccountId]
	if cur.Version != account.Version {
		return storage.ErrConflict
	}

	curDep.Status = models.DepositMatched
	curDep.ExternalTxId = deposit.ExternalTxId
	cur.Balance += tx.Amount
	cur.Version++
	s.txs = append(s.txs, tx)
	return nil
}

// Two concurrent transfers that together overdraw the sender: exactly one
// commits, and the total moved equals the surviving balance delta.
func TestTransferConcurrentOverdraw(t *testing.T) {
	store := newMemStore()
	_, err := store.CreateAccount(context.Background(), &models.Account{AccountId: "acct-a", WalletId: "wallet-a", Balance: 100, Version: 1})
	require.NoError(t, err)
	_, err = store.CreateAccount(context.Background(), &models.Account{AccountId: "acct-b", WalletId: "wallet-b", Balance: 0, Version: 1})
	require.NoError(t, err)

	engine := ledger.New(store, nil, nil, testPolicy())

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, results[i] = engine.Transfer(context.Background(), "acct-a", "wallet-b", 60)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ledger.ErrInsufficientBalance)
		}
	}
	assert.Equal(t, 1, successes)

	from, _ := store.GetAccount(context.Background(), "acct-a")
	to, _ := store.GetAccount(context.Background(), "acct-b")
	assert.Equal(t, int64(40), from.Balance)
	assert.Equal(t, int64(60), to.Balance)
	assert.Len(t, store.txs, 1)
}

// Two concurrent credits of the same deposit: the balance moves exactly once.
func TestCreditDepositConcurrentDuplicate(t *testing.T) {
	store := newMemStore()
	_, err := store.CreateAccount(context.Background(), &models.Account{AccountId: "acct-a", WalletId: "wallet-a", Balance: 0, Version: 1})
	require.NoError(t, err)

	dep := &models.PendingDeposit{
		DepositId:       "dep-1",
		AccountId:       "acct-a",
		RequestedAmount: 50,
		Reference:       "DEP-AAAA111122",
		Status:          models.DepositPending,
		TTL:             time.Now().Add(time.Hour).Unix(),
	}
	_, err = store.CreatePendingDeposit(context.Background(), dep)
	require.NoError(t, err)

	engine := ledger.New(store, nil, nil, testPolicy())

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			local := *dep
			_, results[i] = engine.CreditDeposit(context.Background(), &local, 50, "ext-1")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, storage.ErrDuplicateCredit)
		}
	}
	assert.Equal(t, 1, successes)

	acct, _ := store.GetAccount(context.Background(), "acct-a")
	assert.Equal(t, int64(50), acct.Balance)

	stored, _ := store.GetPendingDeposit(context.Background(), "dep-1")
	assert.Equal(t, models.DepositMatched, stored.Status)
	assert.Equal(t, "ext-1", stored.ExternalTxId)
}

package storage

// ApiStore defines the complete set of non-privileged operations needed by
// the API. It composes other interfaces to provide a clear boundary for the
// API's data access.
type ApiStore interface {
	AccountStore
	DepositStore
	TransactionReader
}

// EngineStore is everything the ledger engine needs: reads plus the
// privileged atomic writes.
type EngineStore interface {
	AccountStore
	DepositStore
	LedgerStore
}

// Storage defines the root interface for the entire data layer.
// It composes all available storage operations. Components should depend on
// the more granular interfaces (ApiStore, LedgerStore, etc.) instead of this
// one.
type Storage interface {
	ApiStore
	LedgerStore
	PayoutStore
	ReconcileStore
	ConnectionStore
}

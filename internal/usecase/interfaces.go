package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/digitbank/bankledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, modifiedBy string, updatedAt time.Time) error
	ListByCustomer(ctx context.Context, customerID string) ([]*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// OperationRepository defines data access for the append-only operation log.
type OperationRepository interface {
	// Append stores the operation and returns it with its assigned ID.
	Append(ctx context.Context, tx Transaction, op *domain.Operation) (*domain.Operation, error)
	GetByAccount(ctx context.Context, accountID string) ([]*domain.Operation, error)
	// GetByAccountPaged returns one page ordered by operation date descending.
	GetByAccountPaged(ctx context.Context, accountID string, page, size int) ([]*domain.Operation, error)
	CountByAccount(ctx context.Context, accountID string) (int64, error)
}

// CustomerRepository defines the customer existence lookup consumed during
// account creation. Customer management is owned elsewhere.
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	// CheckConsistency verifies that every account balance equals its initial
	// balance plus the signed sum of its operations. It returns the number of
	// drifted accounts and the total absolute drift.
	CheckConsistency(ctx context.Context) (driftedAccounts int64, totalDrift decimal.Decimal, err error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient store failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique account IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

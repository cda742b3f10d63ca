package integration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	postgresRepo "github.com/digitbank/bankledger/internal/adapter/repository/postgres"
	"github.com/digitbank/bankledger/internal/domain"
	"github.com/digitbank/bankledger/internal/usecase"
	"github.com/digitbank/bankledger/tests/testutil"
)

func newLedgerUseCase(db *testutil.TestDB) *usecase.LedgerUseCase {
	return usecase.NewLedgerUseCase(
		postgresRepo.NewTxManager(db.Pool),
		postgresRepo.NewAccountRepository(db.Pool),
		postgresRepo.NewOperationRepository(db.Pool),
		postgresRepo.NewRetrier(),
	)
}

func TestLedgerIntegration_DebitCreditRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer db.Cleanup()

	ctx := context.Background()
	db.TruncateAll(ctx)

	customer := db.CreateTestCustomer(ctx, "Ada Lovelace", "ada@example.com")
	account := db.CreateTestAccount(ctx, customer.ID, decimal.NewFromInt(1000))

	uc := newLedgerUseCase(db)

	_, err := uc.Credit(ctx, usecase.CreditInput{AccountID: account.ID, Amount: decimal.NewFromInt(250)})
	if err != nil {
		t.Fatalf("credit failed: %v", err)
	}

	_, err = uc.Debit(ctx, usecase.DebitInput{AccountID: account.ID, Amount: decimal.NewFromInt(250)})
	if err != nil {
		t.Fatalf("debit failed: %v", err)
	}

	accountRepo := postgresRepo.NewAccountRepository(db.Pool)
	stored, err := accountRepo.GetByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("failed to reload account: %v", err)
	}
	if !stored.Balance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected balance restored to 1000, got %s", stored.Balance)
	}

	ops, err := postgresRepo.NewOperationRepository(db.Pool).GetByAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("failed to load operations: %v", err)
	}
	if len(ops) != 2 {
		t.Errorf("expected exactly two operations, got %d", len(ops))
	}
}

func TestLedgerIntegration_TransferAtomicity(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer db.Cleanup()

	ctx := context.Background()
	db.TruncateAll(ctx)

	customer := db.CreateTestCustomer(ctx, "Ada Lovelace", "ada@example.com")
	source := db.CreateTestAccount(ctx, customer.ID, decimal.NewFromInt(500))

	uc := newLedgerUseCase(db)

	// Missing destination: the source must stay untouched.
	err := uc.Transfer(ctx, usecase.TransferInput{
		SourceID:      source.ID,
		DestinationID: testutil.GenerateID(),
		Amount:        decimal.NewFromInt(100),
	})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	accountRepo := postgresRepo.NewAccountRepository(db.Pool)
	stored, _ := accountRepo.GetByID(ctx, source.ID)
	if !stored.Balance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("source was debited on failed transfer: %s", stored.Balance)
	}

	ops, _ := postgresRepo.NewOperationRepository(db.Pool).GetByAccount(ctx, source.ID)
	if len(ops) != 0 {
		t.Errorf("expected no operations after failed transfer, got %d", len(ops))
	}

	// A real destination: both legs commit together.
	destination := db.CreateTestAccount(ctx, customer.ID, decimal.NewFromInt(0))

	if err := uc.Transfer(ctx, usecase.TransferInput{
		SourceID:      source.ID,
		DestinationID: destination.ID,
		Amount:        decimal.NewFromInt(100),
	}); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	stored, _ = accountRepo.GetByID(ctx, source.ID)
	if !stored.Balance.Equal(decimal.NewFromInt(400)) {
		t.Errorf("expected source balance 400, got %s", stored.Balance)
	}

	storedDest, _ := accountRepo.GetByID(ctx, destination.ID)
	if !storedDest.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected destination balance 100, got %s", storedDest.Balance)
	}
}

func TestLedgerIntegration_ConcurrentDebits(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer db.Cleanup()

	ctx := context.Background()
	db.TruncateAll(ctx)

	customer := db.CreateTestCustomer(ctx, "Ada Lovelace", "ada@example.com")
	account := db.CreateTestAccount(ctx, customer.ID, decimal.NewFromInt(100))

	uc := newLedgerUseCase(db)

	var wg sync.WaitGroup

	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Debit(ctx, usecase.DebitInput{
				AccountID: account.ID,
				Amount:    decimal.NewFromInt(100),
			})
		}(i)
	}
	wg.Wait()

	var succeeded, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrInsufficientBalance):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 || insufficient != 1 {
		t.Fatalf("expected one success and one insufficient-balance failure, got %d and %d", succeeded, insufficient)
	}

	stored, _ := postgresRepo.NewAccountRepository(db.Pool).GetByID(ctx, account.ID)
	if stored.Balance.IsNegative() {
		t.Errorf("balance went negative: %s", stored.Balance)
	}
}

func TestLedgerIntegration_ConsistencyCheck(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer db.Cleanup()

	ctx := context.Background()
	db.TruncateAll(ctx)

	customer := db.CreateTestCustomer(ctx, "Ada Lovelace", "ada@example.com")
	account := db.CreateTestAccount(ctx, customer.ID, decimal.NewFromInt(1000))

	uc := newLedgerUseCase(db)

	for _, amount := range []int64{10, 20, 30} {
		if _, err := uc.Credit(ctx, usecase.CreditInput{AccountID: account.ID, Amount: decimal.NewFromInt(amount)}); err != nil {
			t.Fatalf("credit failed: %v", err)
		}
	}

	drifted, totalDrift, err := postgresRepo.NewLedgerRepository(db.Pool).CheckConsistency(ctx)
	if err != nil {
		t.Fatalf("consistency check failed: %v", err)
	}
	if drifted != 0 || !totalDrift.IsZero() {
		t.Errorf("expected consistent ledger, got %d drifted accounts with drift %s", drifted, totalDrift)
	}

	// Corrupt the stored balance and expect the check to catch it.
	if _, err := db.Pool.Exec(ctx, `UPDATE accounts SET balance = balance + 7 WHERE id = $1`, account.ID); err != nil {
		t.Fatalf("failed to corrupt balance: %v", err)
	}

	drifted, totalDrift, err = postgresRepo.NewLedgerRepository(db.Pool).CheckConsistency(ctx)
	if err != nil {
		t.Fatalf("consistency check failed: %v", err)
	}
	if drifted != 1 {
		t.Errorf("expected one drifted account, got %d", drifted)
	}
	if !totalDrift.Equal(decimal.NewFromInt(7)) {
		t.Errorf("expected total drift 7, got %s", totalDrift)
	}
}

func TestLedgerIntegration_HistoryPagination(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer db.Cleanup()

	ctx := context.Background()
	db.TruncateAll(ctx)

	customer := db.CreateTestCustomer(ctx, "Ada Lovelace", "ada@example.com")
	account := db.CreateTestAccount(ctx, customer.ID, decimal.NewFromInt(0))

	uc := newLedgerUseCase(db)

	for i := 0; i < 12; i++ {
		if _, err := uc.Credit(ctx, usecase.CreditInput{
			AccountID: account.ID,
			Amount:    decimal.NewFromInt(int64(i + 1)),
		}); err != nil {
			t.Fatalf("credit %d failed: %v", i, err)
		}
	}

	history, err := uc.History(ctx, account.ID, 0, 5)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}

	if len(history.Operations) != 5 || history.TotalPages != 3 {
		t.Fatalf("expected 5 operations over 3 pages, got %d over %d", len(history.Operations), history.TotalPages)
	}

	// Most recent first across page boundaries.
	lastPage, err := uc.History(ctx, account.ID, 2, 5)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(lastPage.Operations) != 2 {
		t.Fatalf("expected 2 operations on the last page, got %d", len(lastPage.Operations))
	}
	if history.Operations[0].ID < lastPage.Operations[0].ID {
		t.Errorf("expected first page to hold the newest operations")
	}
}

package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/digitbank/bankledger/internal/domain"
	"github.com/digitbank/bankledger/internal/usecase"
	"github.com/digitbank/bankledger/internal/usecase/mocks"
)

// serialTxManager serializes transactions the way row locks do in the real
// store: Begin blocks until the previous transaction commits or rolls back.
type serialTxManager struct {
	mu sync.Mutex
}

func (m *serialTxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	m.mu.Lock()
	return &serialTx{release: sync.OnceFunc(m.mu.Unlock)}, nil
}

type serialTx struct {
	release func()
}

func (t *serialTx) Commit(ctx context.Context) error {
	t.release()
	return nil
}

func (t *serialTx) Rollback(ctx context.Context) error {
	t.release()
	return nil
}

type ledgerFixture struct {
	uc      *usecase.LedgerUseCase
	accRepo *mocks.MockAccountRepository
	opRepo  *mocks.MockOperationRepository
}

func newLedgerFixture(accounts ...*domain.Account) *ledgerFixture {
	accRepo := mocks.NewMockAccountRepository()
	opRepo := mocks.NewMockOperationRepository()

	for _, a := range accounts {
		accRepo.Create(context.Background(), a)
	}

	return &ledgerFixture{
		uc:      usecase.NewLedgerUseCase(&serialTxManager{}, accRepo, opRepo, mocks.NewMockRetrier()),
		accRepo: accRepo,
		opRepo:  opRepo,
	}
}

func testAccount(id string, balance int64) *domain.Account {
	b := decimal.NewFromInt(balance)

	return &domain.Account{
		ID:             id,
		Kind:           domain.AccountKindCurrent,
		Balance:        b,
		InitialBalance: b,
		Currency:       "USD",
		Status:         domain.AccountStatusActivated,
		CustomerID:     "cust-1",
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
}

func TestLedgerUseCase_Debit(t *testing.T) {
	tests := []struct {
		name      string
		balance   int64
		accountID string
		amount    int64
		wantErr   error
	}{
		{
			name:      "successful debit",
			balance:   500,
			accountID: "acc-1",
			amount:    100,
		},
		{
			name:      "debit of exact balance is allowed",
			balance:   100,
			accountID: "acc-1",
			amount:    100,
		},
		{
			name:      "insufficient balance",
			balance:   50,
			accountID: "acc-1",
			amount:    100,
			wantErr:   domain.ErrInsufficientBalance,
		},
		{
			name:      "unknown account",
			balance:   500,
			accountID: "missing",
			amount:    100,
			wantErr:   domain.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLedgerFixture(testAccount("acc-1", tt.balance))

			op, err := f.uc.Debit(context.Background(), usecase.DebitInput{
				AccountID:   tt.accountID,
				Amount:      decimal.NewFromInt(tt.amount),
				Description: "withdrawal",
				Actor:       "teller-7",
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}

				// Failed debits must leave the account and the log untouched.
				account, _ := f.accRepo.GetByID(context.Background(), "acc-1")
				if !account.Balance.Equal(decimal.NewFromInt(tt.balance)) {
					t.Errorf("balance changed on failed debit: %s", account.Balance)
				}
				ops, _ := f.opRepo.GetByAccount(context.Background(), "acc-1")
				if len(ops) != 0 {
					t.Errorf("expected empty operation log, got %d operations", len(ops))
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if op.Type != domain.OperationDebit {
				t.Errorf("expected DEBIT operation, got %s", op.Type)
			}
			if op.CreatedBy != "teller-7" {
				t.Errorf("expected actor teller-7, got %s", op.CreatedBy)
			}

			account, _ := f.accRepo.GetByID(context.Background(), "acc-1")
			want := decimal.NewFromInt(tt.balance - tt.amount)
			if !account.Balance.Equal(want) {
				t.Errorf("expected balance %s, got %s", want, account.Balance)
			}
			if account.LastModifiedBy != "teller-7" {
				t.Errorf("expected last modifier teller-7, got %s", account.LastModifiedBy)
			}
		})
	}
}

func TestLedgerUseCase_Credit(t *testing.T) {
	f := newLedgerFixture(testAccount("acc-1", 100))

	op, err := f.uc.Credit(context.Background(), usecase.CreditInput{
		AccountID:   "acc-1",
		Amount:      decimal.NewFromInt(250),
		Description: "salary",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if op.Type != domain.OperationCredit {
		t.Errorf("expected CREDIT operation, got %s", op.Type)
	}
	if op.CreatedBy != domain.SystemActor {
		t.Errorf("expected system actor, got %s", op.CreatedBy)
	}

	account, _ := f.accRepo.GetByID(context.Background(), "acc-1")
	if !account.Balance.Equal(decimal.NewFromInt(350)) {
		t.Errorf("expected balance 350, got %s", account.Balance)
	}

	_, err = f.uc.Credit(context.Background(), usecase.CreditInput{
		AccountID: "missing",
		Amount:    decimal.NewFromInt(10),
	})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestLedgerUseCase_CreditThenDebitRestoresBalance(t *testing.T) {
	f := newLedgerFixture(testAccount("acc-1", 800))
	ctx := context.Background()
	amount := decimal.NewFromInt(125)

	if _, err := f.uc.Credit(ctx, usecase.CreditInput{AccountID: "acc-1", Amount: amount}); err != nil {
		t.Fatalf("credit failed: %v", err)
	}
	if _, err := f.uc.Debit(ctx, usecase.DebitInput{AccountID: "acc-1", Amount: amount}); err != nil {
		t.Fatalf("debit failed: %v", err)
	}

	account, _ := f.accRepo.GetByID(ctx, "acc-1")
	if !account.Balance.Equal(decimal.NewFromInt(800)) {
		t.Errorf("expected balance restored to 800, got %s", account.Balance)
	}

	ops, _ := f.opRepo.GetByAccount(ctx, "acc-1")
	if len(ops) != 2 {
		t.Errorf("expected exactly two operations, got %d", len(ops))
	}
}

func TestLedgerUseCase_Transfer(t *testing.T) {
	ctx := context.Background()

	t.Run("successful transfer moves amount and records both legs", func(t *testing.T) {
		f := newLedgerFixture(testAccount("acc-a", 1000), testAccount("acc-b", 200))

		err := f.uc.Transfer(ctx, usecase.TransferInput{
			SourceID:      "acc-a",
			DestinationID: "acc-b",
			Amount:        decimal.NewFromInt(300),
			Actor:         "teller-7",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		source, _ := f.accRepo.GetByID(ctx, "acc-a")
		destination, _ := f.accRepo.GetByID(ctx, "acc-b")

		if !source.Balance.Equal(decimal.NewFromInt(700)) {
			t.Errorf("expected source balance 700, got %s", source.Balance)
		}
		if !destination.Balance.Equal(decimal.NewFromInt(500)) {
			t.Errorf("expected destination balance 500, got %s", destination.Balance)
		}

		sourceOps, _ := f.opRepo.GetByAccount(ctx, "acc-a")
		destOps, _ := f.opRepo.GetByAccount(ctx, "acc-b")

		if len(sourceOps) != 1 || len(destOps) != 1 {
			t.Fatalf("expected one operation per account, got %d and %d", len(sourceOps), len(destOps))
		}
		if sourceOps[0].Type != domain.OperationDebit || sourceOps[0].Description != "Transfer to acc-b" {
			t.Errorf("unexpected source leg: %s %q", sourceOps[0].Type, sourceOps[0].Description)
		}
		if destOps[0].Type != domain.OperationCredit || destOps[0].Description != "Transfer from acc-a" {
			t.Errorf("unexpected destination leg: %s %q", destOps[0].Type, destOps[0].Description)
		}
	})

	t.Run("missing destination leaves source untouched", func(t *testing.T) {
		f := newLedgerFixture(testAccount("acc-a", 1000))

		err := f.uc.Transfer(ctx, usecase.TransferInput{
			SourceID:      "acc-a",
			DestinationID: "missing",
			Amount:        decimal.NewFromInt(300),
		})
		if !errors.Is(err, domain.ErrAccountNotFound) {
			t.Fatalf("expected ErrAccountNotFound, got %v", err)
		}

		source, _ := f.accRepo.GetByID(ctx, "acc-a")
		if !source.Balance.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("source was debited on failed transfer: %s", source.Balance)
		}

		ops, _ := f.opRepo.GetByAccount(ctx, "acc-a")
		if len(ops) != 0 {
			t.Errorf("expected no debit recorded, got %d operations", len(ops))
		}
	})

	t.Run("insufficient source balance rejects the whole transfer", func(t *testing.T) {
		f := newLedgerFixture(testAccount("acc-a", 100), testAccount("acc-b", 0))

		err := f.uc.Transfer(ctx, usecase.TransferInput{
			SourceID:      "acc-a",
			DestinationID: "acc-b",
			Amount:        decimal.NewFromInt(300),
		})
		if !errors.Is(err, domain.ErrInsufficientBalance) {
			t.Fatalf("expected ErrInsufficientBalance, got %v", err)
		}

		destination, _ := f.accRepo.GetByID(ctx, "acc-b")
		if !destination.Balance.IsZero() {
			t.Errorf("destination was credited on failed transfer: %s", destination.Balance)
		}
	})
}

func TestLedgerUseCase_ReplayReproducesBalance(t *testing.T) {
	f := newLedgerFixture(testAccount("acc-1", 1000))
	ctx := context.Background()

	steps := []struct {
		credit bool
		amount int64
	}{
		{credit: true, amount: 50},
		{credit: false, amount: 200},
		{credit: true, amount: 375},
		{credit: false, amount: 25},
		{credit: false, amount: 1100},
		{credit: true, amount: 10},
	}

	for _, s := range steps {
		if s.credit {
			f.uc.Credit(ctx, usecase.CreditInput{AccountID: "acc-1", Amount: decimal.NewFromInt(s.amount)})
		} else {
			f.uc.Debit(ctx, usecase.DebitInput{AccountID: "acc-1", Amount: decimal.NewFromInt(s.amount)})
		}
	}

	account, _ := f.accRepo.GetByID(ctx, "acc-1")
	ops, _ := f.opRepo.GetByAccount(ctx, "acc-1")

	replayed := account.InitialBalance
	for _, op := range ops {
		replayed = replayed.Add(op.SignedAmount())
	}

	if !replayed.Equal(account.Balance) {
		t.Errorf("replayed balance %s does not match stored balance %s", replayed, account.Balance)
	}
}

func TestLedgerUseCase_History(t *testing.T) {
	f := newLedgerFixture(testAccount("acc-1", 10000))
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := f.uc.Credit(ctx, usecase.CreditInput{
			AccountID:   "acc-1",
			Amount:      decimal.NewFromInt(int64(i + 1)),
			Description: "deposit",
		})
		if err != nil {
			t.Fatalf("credit %d failed: %v", i, err)
		}
	}

	history, err := f.uc.History(ctx, "acc-1", 0, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(history.Operations) != 5 {
		t.Errorf("expected 5 operations, got %d", len(history.Operations))
	}
	if history.TotalPages != 3 {
		t.Errorf("expected 3 total pages, got %d", history.TotalPages)
	}
	if history.PageSize != 5 {
		t.Errorf("expected page size 5, got %d", history.PageSize)
	}
	if history.CurrentPage != 0 {
		t.Errorf("expected current page 0, got %d", history.CurrentPage)
	}

	account, _ := f.accRepo.GetByID(ctx, "acc-1")
	if !history.Balance.Equal(account.Balance) {
		t.Errorf("history balance %s does not match account balance %s", history.Balance, account.Balance)
	}

	// Most recent first: the newest operation has the highest ID.
	for i := 1; i < len(history.Operations); i++ {
		if history.Operations[i].ID > history.Operations[i-1].ID {
			t.Errorf("operations not in descending order at index %d", i)
		}
	}

	t.Run("unknown account", func(t *testing.T) {
		_, err := f.uc.History(ctx, "missing", 0, 5)
		if !errors.Is(err, domain.ErrAccountNotFound) {
			t.Fatalf("expected ErrAccountNotFound, got %v", err)
		}
	})

	t.Run("negative page", func(t *testing.T) {
		_, err := f.uc.History(ctx, "acc-1", -1, 5)
		if !errors.Is(err, domain.ErrInvalidPage) {
			t.Fatalf("expected ErrInvalidPage, got %v", err)
		}
	})

	t.Run("zero size falls back to default", func(t *testing.T) {
		history, err := f.uc.History(ctx, "acc-1", 0, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if history.PageSize != domain.DefaultPageSize {
			t.Errorf("expected default page size, got %d", history.PageSize)
		}
	})
}

func TestLedgerUseCase_ConcurrentDebits(t *testing.T) {
	f := newLedgerFixture(testAccount("acc-1", 100))
	ctx := context.Background()

	var wg sync.WaitGroup

	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Debit(ctx, usecase.DebitInput{
				AccountID: "acc-1",
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

	account, _ := f.accRepo.GetByID(ctx, "acc-1")
	if account.Balance.IsNegative() {
		t.Errorf("balance went negative: %s", account.Balance)
	}
}

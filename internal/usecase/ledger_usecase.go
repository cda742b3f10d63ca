package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/digitbank/bankledger/internal/domain"
)

// LedgerUseCase applies balance-affecting operations to accounts and records
// them in the operation log. Each mutation runs as a single transaction: the
// operation append and the balance update commit together or not at all.
type LedgerUseCase struct {
	txManager     TransactionManager
	accountRepo   AccountRepository
	operationRepo OperationRepository
	retrier       Retrier
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	operationRepo OperationRepository,
	retrier Retrier,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:     txManager,
		accountRepo:   accountRepo,
		operationRepo: operationRepo,
		retrier:       retrier,
	}
}

// DebitInput represents input for debiting an account.
type DebitInput struct {
	AccountID   string
	Amount      decimal.Decimal
	Description string
	Actor       string
}

// CreditInput represents input for crediting an account.
type CreditInput struct {
	AccountID   string
	Amount      decimal.Decimal
	Description string
	Actor       string
}

// TransferInput represents input for a transfer between two accounts.
type TransferInput struct {
	SourceID      string
	DestinationID string
	Amount        decimal.Decimal
	Actor         string
}

// AccountHistory is a paginated, balance-annotated view of an account's
// operations, ordered by operation date descending.
type AccountHistory struct {
	AccountID   string
	Balance     decimal.Decimal
	CurrentPage int
	TotalPages  int
	PageSize    int
	Operations  []*domain.Operation
}

// Debit withdraws amount from an account. It fails with
// domain.ErrAccountNotFound if the account does not exist and
// domain.ErrInsufficientBalance if the balance is strictly less than amount.
func (uc *LedgerUseCase) Debit(ctx context.Context, input DebitInput) (*domain.Operation, error) {
	actor := resolveActor(input.Actor)

	var op *domain.Operation

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
		if err != nil {
			return err
		}

		if err := account.CanDebit(input.Amount); err != nil {
			return err
		}

		now := time.Now().UTC()

		op, err = uc.operationRepo.Append(ctx, tx, &domain.Operation{
			OperationDate: now,
			Amount:        input.Amount,
			Type:          domain.OperationDebit,
			Description:   input.Description,
			AccountID:     account.ID,
			CreatedBy:     actor,
		})
		if err != nil {
			return err
		}

		err = uc.accountRepo.UpdateBalance(ctx, tx, account.ID, account.ApplyDebit(input.Amount), actor, now)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return op, nil
}

// Credit deposits amount into an account. It fails with
// domain.ErrAccountNotFound if the account does not exist. There is no
// sufficiency check on credits.
func (uc *LedgerUseCase) Credit(ctx context.Context, input CreditInput) (*domain.Operation, error) {
	actor := resolveActor(input.Actor)

	var op *domain.Operation

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		op, err = uc.operationRepo.Append(ctx, tx, &domain.Operation{
			OperationDate: now,
			Amount:        input.Amount,
			Type:          domain.OperationCredit,
			Description:   input.Description,
			AccountID:     account.ID,
			CreatedBy:     actor,
		})
		if err != nil {
			return err
		}

		err = uc.accountRepo.UpdateBalance(ctx, tx, account.ID, account.ApplyCredit(input.Amount), actor, now)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return op, nil
}

// Transfer moves amount from the source account to the destination account.
// Both legs run inside one transaction: if either account is missing or the
// source balance is insufficient, nothing is written. Accounts are locked in
// sorted ID order so that crossing transfers cannot deadlock.
func (uc *LedgerUseCase) Transfer(ctx context.Context, input TransferInput) error {
	actor := resolveActor(input.Actor)

	ids := uniqueSortedIDs(input.SourceID, input.DestinationID)

	return uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, ids)
		if err != nil {
			return err
		}

		if len(accounts) != len(ids) {
			return domain.ErrAccountNotFound
		}

		byID := make(map[string]*domain.Account, len(accounts))
		for _, a := range accounts {
			byID[a.ID] = a
		}

		source := byID[input.SourceID]
		destination := byID[input.DestinationID]

		if source == nil || destination == nil {
			return domain.ErrAccountNotFound
		}

		if err := source.CanDebit(input.Amount); err != nil {
			return err
		}

		now := time.Now().UTC()

		_, err = uc.operationRepo.Append(ctx, tx, &domain.Operation{
			OperationDate: now,
			Amount:        input.Amount,
			Type:          domain.OperationDebit,
			Description:   "Transfer to " + input.DestinationID,
			AccountID:     source.ID,
			CreatedBy:     actor,
		})
		if err != nil {
			return err
		}

		source.Balance = source.ApplyDebit(input.Amount)

		err = uc.accountRepo.UpdateBalance(ctx, tx, source.ID, source.Balance, actor, now)
		if err != nil {
			return err
		}

		_, err = uc.operationRepo.Append(ctx, tx, &domain.Operation{
			OperationDate: now,
			Amount:        input.Amount,
			Type:          domain.OperationCredit,
			Description:   "Transfer from " + input.SourceID,
			AccountID:     destination.ID,
			CreatedBy:     actor,
		})
		if err != nil {
			return err
		}

		destination.Balance = destination.ApplyCredit(input.Amount)

		err = uc.accountRepo.UpdateBalance(ctx, tx, destination.ID, destination.Balance, actor, now)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
}

// OperationHistory returns all operations of an account in insertion order.
func (uc *LedgerUseCase) OperationHistory(ctx context.Context, accountID string) ([]*domain.Operation, error) {
	return uc.operationRepo.GetByAccount(ctx, accountID)
}

// History returns one page of an account's operations, most recent first,
// annotated with the current stored balance. It fails with
// domain.ErrAccountNotFound if the account does not exist.
func (uc *LedgerUseCase) History(ctx context.Context, accountID string, page, size int) (*AccountHistory, error) {
	if page < 0 {
		return nil, domain.ErrInvalidPage
	}

	size = domain.ClampPageSize(size)

	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	total, err := uc.operationRepo.CountByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	operations, err := uc.operationRepo.GetByAccountPaged(ctx, accountID, page, size)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(size) - 1) / int64(size))

	return &AccountHistory{
		AccountID:   account.ID,
		Balance:     account.Balance,
		CurrentPage: page,
		TotalPages:  totalPages,
		PageSize:    size,
		Operations:  operations,
	}, nil
}

func resolveActor(actor string) string {
	if actor == "" {
		return domain.SystemActor
	}
	return actor
}

func uniqueSortedIDs(ids ...string) []string {
	seen := make(map[string]bool, len(ids))

	var out []string
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	sort.Strings(out)

	return out
}

package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/digitbank/bankledger/internal/domain"
)

// AccountUseCase handles account creation and lookup. Balances created here
// are initial balances; every later change goes through the ledger.
type AccountUseCase struct {
	accountRepo  AccountRepository
	customerRepo CustomerRepository
	idGen        IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, customerRepo CustomerRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		accountRepo:  accountRepo,
		customerRepo: customerRepo,
		idGen:        idGen,
	}
}

// CreateCurrentAccountInput represents input for creating a current account.
type CreateCurrentAccountInput struct {
	CustomerID     string
	InitialBalance decimal.Decimal
	OverdraftLimit decimal.Decimal
	Currency       string
	Actor          string
}

// CreateSavingAccountInput represents input for creating a saving account.
type CreateSavingAccountInput struct {
	CustomerID     string
	InitialBalance decimal.Decimal
	InterestRate   decimal.Decimal
	Currency       string
	Actor          string
}

// CreateCurrentAccount creates a current account for an existing customer.
// It fails with domain.ErrCustomerNotFound if the owner is unknown.
func (uc *AccountUseCase) CreateCurrentAccount(ctx context.Context, input CreateCurrentAccountInput) (*domain.Account, error) {
	return uc.create(ctx, domain.AccountKindCurrent, input.CustomerID, input.InitialBalance, input.Currency, input.Actor, func(a *domain.Account) {
		a.OverdraftLimit = input.OverdraftLimit
	})
}

// CreateSavingAccount creates a saving account for an existing customer.
// It fails with domain.ErrCustomerNotFound if the owner is unknown.
func (uc *AccountUseCase) CreateSavingAccount(ctx context.Context, input CreateSavingAccountInput) (*domain.Account, error) {
	return uc.create(ctx, domain.AccountKindSaving, input.CustomerID, input.InitialBalance, input.Currency, input.Actor, func(a *domain.Account) {
		a.InterestRate = input.InterestRate
	})
}

func (uc *AccountUseCase) create(
	ctx context.Context,
	kind domain.AccountKind,
	customerID string,
	initialBalance decimal.Decimal,
	currency string,
	actor string,
	variant func(*domain.Account),
) (*domain.Account, error) {
	if err := domain.ValidateCurrency(currency); err != nil {
		return nil, err
	}

	customer, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	actor = resolveActor(actor)
	now := time.Now().UTC()

	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		Kind:           kind,
		Balance:        initialBalance,
		InitialBalance: initialBalance,
		Currency:       currency,
		Status:         domain.AccountStatusCreated,
		CustomerID:     customer.ID,
		CreatedBy:      actor,
		LastModifiedBy: actor,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	variant(account)

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListCustomerAccounts lists the accounts owned by a customer.
func (uc *AccountUseCase) ListCustomerAccounts(ctx context.Context, customerID string) ([]*domain.Account, error) {
	if _, err := uc.customerRepo.GetByID(ctx, customerID); err != nil {
		return nil, err
	}

	return uc.accountRepo.ListByCustomer(ctx, customerID)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	return uc.accountRepo.List(ctx, input.Limit, input.Offset)
}

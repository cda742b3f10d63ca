package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind discriminates the two account variants.
type AccountKind string

const (
	AccountKindCurrent AccountKind = "CURRENT"
	AccountKindSaving  AccountKind = "SAVING"
)

// IsValid checks if the kind is a known account kind.
func (k AccountKind) IsValid() bool {
	return k == AccountKindCurrent || k == AccountKindSaving
}

// AccountStatus represents the lifecycle state of an account.
type AccountStatus string

const (
	AccountStatusCreated   AccountStatus = "CREATED"
	AccountStatusActivated AccountStatus = "ACTIVATED"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
)

// Account represents a bank account holding a balance. The balance is never
// set directly by callers; it changes only through recorded operations.
// OverdraftLimit is meaningful for CURRENT accounts and InterestRate for
// SAVING accounts.
type Account struct {
	ID             string
	Kind           AccountKind
	Balance        decimal.Decimal
	InitialBalance decimal.Decimal
	Currency       string
	Status         AccountStatus
	CustomerID     string
	OverdraftLimit decimal.Decimal
	InterestRate   decimal.Decimal
	CreatedBy      string
	LastModifiedBy string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CanDebit checks the sufficiency rule: a debit must not exceed the current
// balance. Equality is allowed.
func (a *Account) CanDebit(amount decimal.Decimal) error {
	if a.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	return nil
}

// ApplyDebit returns the balance after a debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns the balance after a credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}

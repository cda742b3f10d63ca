package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationType discriminates credits from debits. The stored amount is
// always a positive magnitude; the sign is carried by the type.
type OperationType string

const (
	OperationCredit OperationType = "CREDIT"
	OperationDebit  OperationType = "DEBIT"
)

// Operation is an immutable ledger record of a single balance mutation.
// The ID is assigned monotonically by the operation log on append.
type Operation struct {
	ID            int64
	OperationDate time.Time
	Amount        decimal.Decimal
	Type          OperationType
	Description   string
	AccountID     string
	CreatedBy     string
}

// SignedAmount returns the amount with the sign implied by the operation
// type: positive for credits, negative for debits. Folding signed amounts
// over an account's initial balance reproduces its current balance.
func (o *Operation) SignedAmount() decimal.Decimal {
	if o.Type == OperationDebit {
		return o.Amount.Neg()
	}
	return o.Amount
}

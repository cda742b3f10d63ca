package dto

import (
	"github.com/shopspring/decimal"

	"github.com/digitbank/bankledger/internal/usecase"
)

// CreateCurrentAccountRequest represents a request to open a current account.
type CreateCurrentAccountRequest struct {
	CustomerID     string          `json:"customer_id"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	OverdraftLimit decimal.Decimal `json:"overdraft_limit"`
	Currency       string          `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCurrentAccountRequest) ToUseCaseInput(actor string) usecase.CreateCurrentAccountInput {
	return usecase.CreateCurrentAccountInput{
		CustomerID:     r.CustomerID,
		InitialBalance: r.InitialBalance,
		OverdraftLimit: r.OverdraftLimit,
		Currency:       r.Currency,
		Actor:          actor,
	}
}

// CreateSavingAccountRequest represents a request to open a saving account.
type CreateSavingAccountRequest struct {
	CustomerID     string          `json:"customer_id"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	Currency       string          `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateSavingAccountRequest) ToUseCaseInput(actor string) usecase.CreateSavingAccountInput {
	return usecase.CreateSavingAccountInput{
		CustomerID:     r.CustomerID,
		InitialBalance: r.InitialBalance,
		InterestRate:   r.InterestRate,
		Currency:       r.Currency,
		Actor:          actor,
	}
}

// MovementRequest represents a debit or credit request.
type MovementRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// TransferRequest represents a transfer between two accounts.
type TransferRequest struct {
	SourceAccountID      string          `json:"source_account_id"`
	DestinationAccountID string          `json:"destination_account_id"`
	Amount               decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput(actor string) usecase.TransferInput {
	return usecase.TransferInput{
		SourceID:      r.SourceAccountID,
		DestinationID: r.DestinationAccountID,
		Amount:        r.Amount,
		Actor:         actor,
	}
}

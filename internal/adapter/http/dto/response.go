package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/digitbank/bankledger/internal/domain"
	"github.com/digitbank/bankledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string          `json:"id"`
	Kind           string          `json:"kind"`
	Balance        decimal.Decimal `json:"balance"`
	Currency       string          `json:"currency"`
	Status         string          `json:"status"`
	CustomerID     string          `json:"customer_id"`
	OverdraftLimit decimal.Decimal `json:"overdraft_limit,omitempty"`
	InterestRate   decimal.Decimal `json:"interest_rate,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		Kind:           string(a.Kind),
		Balance:        a.Balance,
		Currency:       a.Currency,
		Status:         string(a.Status),
		CustomerID:     a.CustomerID,
		OverdraftLimit: a.OverdraftLimit,
		InterestRate:   a.InterestRate,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps a list of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// OperationResponse represents a ledger operation in API responses.
type OperationResponse struct {
	ID            int64           `json:"id"`
	OperationDate time.Time       `json:"operation_date"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Description   string          `json:"description"`
	AccountID     string          `json:"account_id"`
	CreatedBy     string          `json:"created_by"`
}

// OperationFromDomain converts a domain operation to a response.
func OperationFromDomain(op *domain.Operation) *OperationResponse {
	return &OperationResponse{
		ID:            op.ID,
		OperationDate: op.OperationDate,
		Amount:        op.Amount,
		Type:          string(op.Type),
		Description:   op.Description,
		AccountID:     op.AccountID,
		CreatedBy:     op.CreatedBy,
	}
}

// OperationsFromDomain converts domain operations to responses.
func OperationsFromDomain(operations []*domain.Operation) []*OperationResponse {
	result := make([]*OperationResponse, len(operations))
	for i, op := range operations {
		result[i] = OperationFromDomain(op)
	}
	return result
}

// AccountHistoryResponse represents one page of an account's operations,
// annotated with the current balance.
type AccountHistoryResponse struct {
	AccountID   string               `json:"account_id"`
	Balance     decimal.Decimal      `json:"balance"`
	CurrentPage int                  `json:"current_page"`
	TotalPages  int                  `json:"total_pages"`
	PageSize    int                  `json:"page_size"`
	Operations  []*OperationResponse `json:"operations"`
}

// AccountHistoryFromDomain converts a use case history to a response.
func AccountHistoryFromDomain(h *usecase.AccountHistory) *AccountHistoryResponse {
	return &AccountHistoryResponse{
		AccountID:   h.AccountID,
		Balance:     h.Balance,
		CurrentPage: h.CurrentPage,
		TotalPages:  h.TotalPages,
		PageSize:    h.PageSize,
		Operations:  OperationsFromDomain(h.Operations),
	}
}

// ConsistencyResponse represents the ledger-wide consistency check result.
type ConsistencyResponse struct {
	Consistent      bool            `json:"consistent"`
	DriftedAccounts int64           `json:"drifted_accounts"`
	TotalDrift      decimal.Decimal `json:"total_drift"`
	CheckedAt       time.Time       `json:"checked_at"`
}

// ReconciliationResponse represents a single-account replay check result.
type ReconciliationResponse struct {
	AccountID       string          `json:"account_id"`
	RecordedBalance decimal.Decimal `json:"recorded_balance"`
	ReplayedBalance decimal.Decimal `json:"replayed_balance"`
	Difference      decimal.Decimal `json:"difference"`
	Reconciled      bool            `json:"reconciled"`
	CheckedAt       time.Time       `json:"checked_at"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/digitbank/bankledger/internal/adapter/http/dto"
	"github.com/digitbank/bankledger/internal/adapter/http/middleware"
	"github.com/digitbank/bankledger/internal/domain"
	"github.com/digitbank/bankledger/internal/infrastructure/metrics"
	"github.com/digitbank/bankledger/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	Debit(ctx context.Context, input usecase.DebitInput) (*domain.Operation, error)
	Credit(ctx context.Context, input usecase.CreditInput) (*domain.Operation, error)
	Transfer(ctx context.Context, input usecase.TransferInput) error
	OperationHistory(ctx context.Context, accountID string) ([]*domain.Operation, error)
	History(ctx context.Context, accountID string, page, size int) (*usecase.AccountHistory, error)
}

// ReconciliationService defines the behavior needed for consistency checks.
type ReconciliationService interface {
	ReconcileAccount(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
	CheckLedgerConsistency(ctx context.Context) (*usecase.LedgerConsistency, error)
}

// LedgerHandler handles balance-affecting HTTP requests.
type LedgerHandler struct {
	ledgerUC LedgerService
	reconUC  ReconciliationService
	metrics  *metrics.Metrics
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService, reconUC ReconciliationService, m *metrics.Metrics) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC, reconUC: reconUC, metrics: m}
}

func (h *LedgerHandler) recordBooking(opType string, amount float64) {
	if h.metrics == nil {
		return
	}
	h.metrics.OperationsBooked.WithLabelValues(opType).Inc()
	h.metrics.OperationAmount.Observe(amount)
}

func (h *LedgerHandler) recordBookingError(err error) {
	if h.metrics == nil {
		return
	}
	h.metrics.BookingErrors.WithLabelValues(bookingErrorReason(err)).Inc()
}

// Debit withdraws an amount from an account.
func (h *LedgerHandler) Debit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.MovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	op, err := h.ledgerUC.Debit(r.Context(), usecase.DebitInput{
		AccountID:   id,
		Amount:      req.Amount,
		Description: req.Description,
		Actor:       middleware.ActorFromContext(r.Context()),
	})
	if err != nil {
		h.recordBookingError(err)
		writeError(w, mapDomainError(err), "failed to debit account", err.Error())
		return
	}

	h.recordBooking("DEBIT", req.Amount.InexactFloat64())
	writeJSON(w, http.StatusCreated, dto.OperationFromDomain(op))
}

// Credit deposits an amount into an account.
func (h *LedgerHandler) Credit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.MovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	op, err := h.ledgerUC.Credit(r.Context(), usecase.CreditInput{
		AccountID:   id,
		Amount:      req.Amount,
		Description: req.Description,
		Actor:       middleware.ActorFromContext(r.Context()),
	})
	if err != nil {
		h.recordBookingError(err)
		writeError(w, mapDomainError(err), "failed to credit account", err.Error())
		return
	}

	h.recordBooking("CREDIT", req.Amount.InexactFloat64())
	writeJSON(w, http.StatusCreated, dto.OperationFromDomain(op))
}

// Transfer moves an amount between two accounts.
func (h *LedgerHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	actor := middleware.ActorFromContext(r.Context())

	if err := h.ledgerUC.Transfer(r.Context(), req.ToUseCaseInput(actor)); err != nil {
		h.recordBookingError(err)
		writeError(w, mapDomainError(err), "failed to transfer", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.TransfersBooked.Inc()
	}

	w.WriteHeader(http.StatusNoContent)
}

// Operations returns all operations of an account in insertion order.
func (h *LedgerHandler) Operations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	operations, err := h.ledgerUC.OperationHistory(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list operations", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.OperationsFromDomain(operations))
}

// History returns one page of an account's operations, most recent first.
func (h *LedgerHandler) History(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	page := parseIntQuery(r, "page", 0)
	size := parseIntQuery(r, "size", domain.DefaultPageSize)

	history, err := h.ledgerUC.History(r.Context(), id, page, size)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountHistoryFromDomain(history))
}

// Reconcile replays one account's operations against its stored balance.
func (h *LedgerHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.reconUC.ReconcileAccount(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reconcile account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationResponse{
		AccountID:       result.AccountID,
		RecordedBalance: result.RecordedBalance,
		ReplayedBalance: result.ReplayedBalance,
		Difference:      result.Difference,
		Reconciled:      result.IsReconciled,
		CheckedAt:       result.CheckedAt,
	})
}

// Consistency runs the ledger-wide replay check.
func (h *LedgerHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	result, err := h.reconUC.CheckLedgerConsistency(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check ledger consistency", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.DriftedAccounts.Set(float64(result.DriftedAccounts))
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyResponse{
		Consistent:      result.Consistent,
		DriftedAccounts: result.DriftedAccounts,
		TotalDrift:      result.TotalDrift,
		CheckedAt:       result.CheckedAt,
	})
}

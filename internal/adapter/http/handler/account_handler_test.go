package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/digitbank/bankledger/internal/adapter/http/dto"
	"github.com/digitbank/bankledger/internal/domain"
	"github.com/digitbank/bankledger/internal/usecase"
)

type accountServiceStub struct {
	createCurrentFn  func(ctx context.Context, input usecase.CreateCurrentAccountInput) (*domain.Account, error)
	createSavingFn   func(ctx context.Context, input usecase.CreateSavingAccountInput) (*domain.Account, error)
	getFn            func(ctx context.Context, id string) (*domain.Account, error)
	listByCustomerFn func(ctx context.Context, customerID string) ([]*domain.Account, error)
	listFn           func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
}

func (s *accountServiceStub) CreateCurrentAccount(ctx context.Context, input usecase.CreateCurrentAccountInput) (*domain.Account, error) {
	return s.createCurrentFn(ctx, input)
}

func (s *accountServiceStub) CreateSavingAccount(ctx context.Context, input usecase.CreateSavingAccountInput) (*domain.Account, error) {
	return s.createSavingFn(ctx, input)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *accountServiceStub) ListCustomerAccounts(ctx context.Context, customerID string) ([]*domain.Account, error) {
	return s.listByCustomerFn(ctx, customerID)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
	return s.listFn(ctx, input)
}

func TestAccountHandler_CreateCurrent_Success(t *testing.T) {
	account := &domain.Account{
		ID:         "acc-1",
		Kind:       domain.AccountKindCurrent,
		Currency:   "USD",
		CustomerID: "cust-1",
	}

	var captured usecase.CreateCurrentAccountInput
	h := NewAccountHandler(&accountServiceStub{
		createCurrentFn: func(ctx context.Context, input usecase.CreateCurrentAccountInput) (*domain.Account, error) {
			captured = input
			return account, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.CreateCurrentAccountRequest{
		CustomerID:     "cust-1",
		InitialBalance: decimal.NewFromInt(1000),
		OverdraftLimit: decimal.NewFromInt(200),
		Currency:       "USD",
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts/current", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateCurrent(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.CustomerID != "cust-1" || !captured.InitialBalance.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "acc-1" || resp.Kind != string(domain.AccountKindCurrent) {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAccountHandler_CreateSaving_UnknownCustomer(t *testing.T) {
	h := NewAccountHandler(&accountServiceStub{
		createSavingFn: func(ctx context.Context, input usecase.CreateSavingAccountInput) (*domain.Account, error) {
			return nil, domain.ErrCustomerNotFound
		},
	}, nil)

	body, _ := json.Marshal(dto.CreateSavingAccountRequest{CustomerID: "ghost", Currency: "USD"})
	req := httptest.NewRequest(http.MethodPost, "/accounts/saving", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateSaving(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_CreateCurrent_InvalidJSON(t *testing.T) {
	h := NewAccountHandler(&accountServiceStub{
		createCurrentFn: func(ctx context.Context, input usecase.CreateCurrentAccountInput) (*domain.Account, error) {
			t.Fatal("CreateCurrentAccount should not be called for invalid payload")
			return nil, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/accounts/current", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	h.CreateCurrent(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	h := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/accounts/acc-1", nil)
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_ListByCustomer(t *testing.T) {
	h := NewAccountHandler(&accountServiceStub{
		listByCustomerFn: func(ctx context.Context, customerID string) ([]*domain.Account, error) {
			if customerID != "cust-1" {
				t.Fatalf("expected customer cust-1, got %s", customerID)
			}
			return []*domain.Account{{ID: "acc-1"}, {ID: "acc-2"}}, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/customers/cust-1/accounts", nil)
	req = setChiURLParam(req, "customerId", "cust-1")
	rec := httptest.NewRecorder()

	h.ListByCustomer(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListAccountsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(resp.Accounts))
	}
}

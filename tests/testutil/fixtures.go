package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	postgresRepo "github.com/digitbank/bankledger/internal/adapter/repository/postgres"
	"github.com/digitbank/bankledger/internal/domain"
	"github.com/digitbank/bankledger/internal/infrastructure/postgres"
)

// TestDB provides isolated test database connections. Tests using it are
// skipped unless DATABASE_URL is set.
type TestDB struct {
	Pool *pgxpool.Pool
	t    *testing.T
}

// NewTestDB creates a new test database connection.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	migrationsPath := "migrations"
	if _, err := os.Stat(migrationsPath); os.IsNotExist(err) {
		migrationsPath = "../../migrations"
	}

	if err := postgres.RunMigrations(dbURL, migrationsPath); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		t:    t,
	}
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all data from tables.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		TRUNCATE TABLE operations CASCADE;
		TRUNCATE TABLE accounts CASCADE;
		TRUNCATE TABLE customers CASCADE;
	`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// CreateTestCustomer inserts a customer row.
func (db *TestDB) CreateTestCustomer(ctx context.Context, name, email string) *domain.Customer {
	db.t.Helper()

	customer := &domain.Customer{
		ID:        GenerateID(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO customers (id, name, email, created_at)
		VALUES ($1, $2, $3, $4)`,
		customer.ID, customer.Name, customer.Email, customer.CreatedAt)
	if err != nil {
		db.t.Fatalf("failed to create test customer: %v", err)
	}

	return customer
}

// CreateTestAccount creates a current account for a customer with the given
// initial balance.
func (db *TestDB) CreateTestAccount(ctx context.Context, customerID string, balance decimal.Decimal) *domain.Account {
	db.t.Helper()

	now := time.Now().UTC()

	account := &domain.Account{
		ID:             GenerateID(),
		Kind:           domain.AccountKindCurrent,
		Balance:        balance,
		InitialBalance: balance,
		Currency:       "USD",
		Status:         domain.AccountStatusActivated,
		CustomerID:     customerID,
		CreatedBy:      domain.SystemActor,
		LastModifiedBy: domain.SystemActor,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	repo := postgresRepo.NewAccountRepository(db.Pool)
	if err := repo.Create(ctx, account); err != nil {
		db.t.Fatalf("failed to create test account: %v", err)
	}

	return account
}

// GenerateID generates a new ULID.
func GenerateID() string {
	return ulid.Make().String()
}

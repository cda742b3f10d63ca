package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopspring/decimal"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// CheckConsistency replays every account's operations in the database and
// reports accounts whose stored balance differs from the replayed one. The
// replayed balance is the initial balance plus credits minus debits.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (int64, decimal.Decimal, error) {
	var (
		drifted    int64
		totalDrift pgtype.Numeric
	)

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(ABS(drift)), 0)
		FROM (
			SELECT a.balance - a.initial_balance - COALESCE(SUM(
				CASE o.type WHEN 'CREDIT' THEN o.amount ELSE -o.amount END
			), 0) AS drift
			FROM accounts a
			LEFT JOIN operations o ON o.account_id = a.id
			GROUP BY a.id, a.balance, a.initial_balance
		) d
		WHERE d.drift <> 0`).Scan(&drifted, &totalDrift)
	if err != nil {
		return 0, decimal.Zero, err
	}

	return drifted, numericToDecimal(totalDrift), nil
}

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/digitbank/bankledger/internal/domain"
	"github.com/digitbank/bankledger/internal/usecase"
)

const operationColumns = `id, operation_date, amount, type, description, account_id, created_by`

// OperationRepository implements usecase.OperationRepository. The operations
// table is append-only; rows are never updated or deleted.
type OperationRepository struct {
	pool *pgxpool.Pool
}

// NewOperationRepository creates a new OperationRepository.
func NewOperationRepository(pool *pgxpool.Pool) *OperationRepository {
	return &OperationRepository{pool: pool}
}

// Append records an operation inside the given transaction and returns it
// with the database-assigned ID.
func (r *OperationRepository) Append(ctx context.Context, tx usecase.Transaction, op *domain.Operation) (*domain.Operation, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		INSERT INTO operations (operation_date, amount, type, description, account_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		timeToPgTimestamptz(op.OperationDate),
		decimalToNumeric(op.Amount),
		string(op.Type),
		op.Description,
		op.AccountID,
		op.CreatedBy,
	)

	stored := *op
	if err := row.Scan(&stored.ID); err != nil {
		return nil, err
	}

	return &stored, nil
}

// GetByAccount retrieves all operations of an account in insertion order.
func (r *OperationRepository) GetByAccount(ctx context.Context, accountID string) ([]*domain.Operation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+operationColumns+`
		FROM operations
		WHERE account_id = $1
		ORDER BY id`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOperations(rows)
}

// GetByAccountPaged retrieves one page of an account's operations, most
// recent first.
func (r *OperationRepository) GetByAccountPaged(ctx context.Context, accountID string, page, size int) ([]*domain.Operation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+operationColumns+`
		FROM operations
		WHERE account_id = $1
		ORDER BY operation_date DESC, id DESC
		LIMIT $2 OFFSET $3`, accountID, int32(size), int32(page*size))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOperations(rows)
}

// CountByAccount counts the operations of an account.
func (r *OperationRepository) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	var count int64

	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM operations WHERE account_id = $1`, accountID).Scan(&count)

	return count, err
}

func scanOperations(rows pgx.Rows) ([]*domain.Operation, error) {
	var operations []*domain.Operation

	for rows.Next() {
		var (
			op            domain.Operation
			opType        string
			amount        pgtype.Numeric
			operationDate pgtype.Timestamptz
		)

		err := rows.Scan(
			&op.ID,
			&operationDate,
			&amount,
			&opType,
			&op.Description,
			&op.AccountID,
			&op.CreatedBy,
		)
		if err != nil {
			return nil, err
		}

		op.Type = domain.OperationType(opType)
		op.Amount = numericToDecimal(amount)
		op.OperationDate = operationDate.Time

		operations = append(operations, &op)
	}

	return operations, rows.Err()
}

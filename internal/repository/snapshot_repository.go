package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SensanoJM/dcompc-cms/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// snapshotRepository implements SnapshotRepository backed by pgxpool.
type snapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository wires a snapshot repository backed by pgxpool.
func NewSnapshotRepository(pool *pgxpool.Pool) SnapshotRepository {
	return &snapshotRepository{pool: pool}
}

const snapshotColumns = `id, client_id, period, fixed_deposit, savings, loan_balance,
	arrears, fines, mortuary, uploaded_date, assigned_mediator, created_at, updated_at`

// Upsert writes the full field set for the (client, period) key. The unique
// constraint on (client_id, period) enforces the one-snapshot-per-pair
// invariant; a conflict overwrites every field rather than merging.
func (r *snapshotRepository) Upsert(ctx context.Context, clientID int64, period string, fields domain.SnapshotFields) (domain.FinancialSnapshot, error) {
	snapshot := domain.NewFinancialSnapshot(clientID, period, fields)

	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO financial_snapshots
		 (id, client_id, period, fixed_deposit, savings, loan_balance, arrears, fines, mortuary, uploaded_date, assigned_mediator)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (client_id, period) DO UPDATE SET
			fixed_deposit = EXCLUDED.fixed_deposit,
			savings = EXCLUDED.savings,
			loan_balance = EXCLUDED.loan_balance,
			arrears = EXCLUDED.arrears,
			fines = EXCLUDED.fines,
			mortuary = EXCLUDED.mortuary,
			uploaded_date = EXCLUDED.uploaded_date,
			assigned_mediator = EXCLUDED.assigned_mediator,
			updated_at = now()
		 RETURNING `+snapshotColumns,
		snapshot.ID,
		clientID,
		period,
		fields.FixedDeposit,
		fields.Savings,
		fields.LoanBalance,
		fields.Arrears,
		fields.Fines,
		fields.Mortuary,
		fields.UploadedDate,
		fields.AssignedMediator,
	).Scan(scanTargets(&snapshot)...)
	if err != nil {
		return domain.FinancialSnapshot{}, fmt.Errorf("failed to upsert snapshot (%d, %s): %w", clientID, period, err)
	}

	return snapshot, nil
}

// Get retrieves the snapshot for a (client, period) pair.
func (r *snapshotRepository) Get(ctx context.Context, clientID int64, period string) (domain.FinancialSnapshot, error) {
	var snapshot domain.FinancialSnapshot
	err := r.pool.QueryRow(
		ctx,
		`SELECT `+snapshotColumns+` FROM financial_snapshots WHERE client_id = $1 AND period = $2`,
		clientID,
		period,
	).Scan(scanTargets(&snapshot)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.FinancialSnapshot{}, domain.ErrSnapshotNotFound
		}
		return domain.FinancialSnapshot{}, fmt.Errorf("failed to get snapshot (%d, %s): %w", clientID, period, err)
	}
	return snapshot, nil
}

// ListByClient retrieves every snapshot for a client ordered by period.
func (r *snapshotRepository) ListByClient(ctx context.Context, clientID int64) ([]domain.FinancialSnapshot, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT `+snapshotColumns+` FROM financial_snapshots WHERE client_id = $1 ORDER BY period`,
		clientID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots for client %d: %w", clientID, err)
	}
	defer rows.Close()

	var snapshots []domain.FinancialSnapshot
	for rows.Next() {
		var snapshot domain.FinancialSnapshot
		if err := rows.Scan(scanTargets(&snapshot)...); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	return snapshots, nil
}

func scanTargets(snapshot *domain.FinancialSnapshot) []any {
	return []any{
		&snapshot.ID,
		&snapshot.ClientID,
		&snapshot.Period,
		&snapshot.FixedDeposit,
		&snapshot.Savings,
		&snapshot.LoanBalance,
		&snapshot.Arrears,
		&snapshot.Fines,
		&snapshot.Mortuary,
		&snapshot.UploadedDate,
		&snapshot.AssignedMediator,
		&snapshot.CreatedAt,
		&snapshot.UpdatedAt,
	}
}

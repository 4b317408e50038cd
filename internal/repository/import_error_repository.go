package repository

import (
	"context"
	"fmt"

	"github.com/SensanoJM/dcompc-cms/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type importErrorRepository struct {
	pool *pgxpool.Pool
}

// NewImportErrorRepository wires a repository backed by pgxpool.
func NewImportErrorRepository(pool *pgxpool.Pool) ImportErrorRepository {
	return &importErrorRepository{pool: pool}
}

func (r *importErrorRepository) Record(ctx context.Context, entry domain.ImportErrorEntry) error {
	if r.pool == nil {
		return fmt.Errorf("import error repository not initialized")
	}

	var rowNumber any
	if entry.RowNumber != nil {
		rowNumber = *entry.RowNumber
	}

	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO import_errors (batch_id, file_name, row_number, error_message)
		 VALUES ($1, $2, $3, $4)`,
		entry.BatchID,
		entry.FileName,
		rowNumber,
		entry.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to record import error: %w", err)
	}

	return nil
}

func (r *importErrorRepository) List(ctx context.Context, batchID uuid.UUID, limit, offset int) ([]domain.ImportErrorEntry, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("import error repository not initialized")
	}

	if limit <= 0 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT id, batch_id, file_name, row_number, error_message, created_at
		 FROM import_errors
		 WHERE batch_id = $1
		 ORDER BY row_number NULLS LAST, created_at
		 LIMIT $2 OFFSET $3`,
		batchID,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list import errors: %w", err)
	}
	defer rows.Close()

	var entries []domain.ImportErrorEntry
	for rows.Next() {
		var entry domain.ImportErrorEntry
		var rowNumber *int32
		if err := rows.Scan(&entry.ID, &entry.BatchID, &entry.FileName, &rowNumber, &entry.ErrorMessage, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import error: %w", err)
		}
		if rowNumber != nil {
			value := int(*rowNumber)
			entry.RowNumber = &value
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate import errors: %w", err)
	}

	return entries, nil
}

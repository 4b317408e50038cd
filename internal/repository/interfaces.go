package repository

import (
	"context"

	"github.com/SensanoJM/dcompc-cms/internal/domain"

	"github.com/google/uuid"
)

// ClientRepository defines the interface for client operations.
type ClientRepository interface {
	// Upsert creates the client on first sighting or overwrites its name
	// (last-write-wins). Identity is the external client number.
	Upsert(ctx context.Context, id int64, name string) (domain.Client, error)
	GetByID(ctx context.Context, id int64) (domain.Client, error)
	List(ctx context.Context, limit, offset int) ([]domain.Client, error)
}

// SnapshotRepository defines the interface for financial snapshot operations.
type SnapshotRepository interface {
	// Upsert writes the full field set for the (client, period) key,
	// overwriting any prior snapshot for the same pair.
	Upsert(ctx context.Context, clientID int64, period string, fields domain.SnapshotFields) (domain.FinancialSnapshot, error)
	Get(ctx context.Context, clientID int64, period string) (domain.FinancialSnapshot, error)
	ListByClient(ctx context.Context, clientID int64) ([]domain.FinancialSnapshot, error)
}

// ImportErrorRepository stores row-level import failures for observability.
type ImportErrorRepository interface {
	Record(ctx context.Context, entry domain.ImportErrorEntry) error
	List(ctx context.Context, batchID uuid.UUID, limit, offset int) ([]domain.ImportErrorEntry, error)
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SensanoJM/dcompc-cms/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// clientRepository implements ClientRepository backed by pgxpool.
type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository wires a client repository backed by pgxpool.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

// Upsert is a keyed put: insert on first sighting, otherwise overwrite the
// display name (last-write-wins). Modeled as a single statement so the
// semantics stay race-free if the store is ever driven concurrently.
func (r *clientRepository) Upsert(ctx context.Context, id int64, name string) (domain.Client, error) {
	var client domain.Client
	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO clients (id, name)
		 VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, updated_at = now()
		 RETURNING id, name, created_at, updated_at`,
		id,
		name,
	).Scan(&client.ID, &client.Name, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return domain.Client{}, fmt.Errorf("failed to upsert client %d: %w", id, err)
	}
	return client, nil
}

// GetByID retrieves a client by external identifier.
func (r *clientRepository) GetByID(ctx context.Context, id int64) (domain.Client, error) {
	var client domain.Client
	err := r.pool.QueryRow(
		ctx,
		`SELECT id, name, created_at, updated_at FROM clients WHERE id = $1`,
		id,
	).Scan(&client.ID, &client.Name, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Client{}, domain.ErrClientNotFound
		}
		return domain.Client{}, fmt.Errorf("failed to get client %d: %w", id, err)
	}
	return client, nil
}

// List retrieves clients ordered by identifier.
func (r *clientRepository) List(ctx context.Context, limit, offset int) ([]domain.Client, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT id, name, created_at, updated_at FROM clients ORDER BY id LIMIT $1 OFFSET $2`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(&client.ID, &client.Name, &client.CreatedAt, &client.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clients: %w", err)
	}

	return clients, nil
}

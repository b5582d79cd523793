// Package repository provides PostgreSQL persistence for clients. All
// queries are scoped to an owner ID.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invoicing_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const clientNotFoundMsg = "client not found"

// Client is the database model for a client
type Client struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Email     string
	Phone     string
	Address   string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListParams contains parameters for listing clients
type ListParams struct {
	OwnerID  uuid.UUID
	Search   string
	Page     int
	PageSize int
}

// ListResult contains the paginated result of listing clients
type ListResult struct {
	Items      []Client
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Repository provides database operations for clients
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new clients repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const clientColumns = `id, owner_id, name, email, phone, address, notes, created_at, updated_at`

// Create inserts a client.
func (r *Repository) Create(ctx context.Context, c *Client) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.OwnerID, c.Name, c.Email, c.Phone, c.Address, c.Notes, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}
	return nil
}

// GetByID retrieves a client by ID scoped to owner.
func (r *Repository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Client, error) {
	var c Client
	err := r.pool.QueryRow(ctx, `
		SELECT `+clientColumns+`
		FROM clients WHERE id = $1 AND owner_id = $2`, id, ownerID).
		Scan(&c.ID, &c.OwnerID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(clientNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &c, nil
}

// List retrieves clients with search and pagination.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}

	var searchParam interface{}
	if params.Search != "" {
		searchParam = "%" + params.Search + "%"
	}

	baseQuery := `
		FROM clients
		WHERE owner_id = $1
			AND ($2::text IS NULL OR name ILIKE $2 OR email ILIKE $2)
	`
	args := []interface{}{params.OwnerID, searchParam}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count clients: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	rows, err := r.pool.Query(ctx, `
		SELECT `+clientColumns+baseQuery+`
		ORDER BY name ASC
		LIMIT $3 OFFSET $4`, append(args, params.PageSize, offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var items []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clients: %w", err)
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// Update updates a client's fields.
func (r *Repository) Update(ctx context.Context, c *Client) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE clients
		SET name = $3, email = $4, phone = $5, address = $6, notes = $7, updated_at = $8
		WHERE id = $1 AND owner_id = $2`,
		c.ID, c.OwnerID, c.Name, c.Email, c.Phone, c.Address, c.Notes, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(clientNotFoundMsg)
	}
	return nil
}

// Delete removes a client. The documents tables reference clients with
// ON DELETE RESTRICT, so a referenced client surfaces as a conflict.
func (r *Repository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperr.Conflict("client is referenced by quotes or invoices")
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(clientNotFoundMsg)
	}
	return nil
}

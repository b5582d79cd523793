// Package repository provides PostgreSQL persistence for quotes and
// invoices. All queries are scoped to an owner ID; a row outside the
// caller's scope is indistinguishable from a missing one.
package repository

import (
	"errors"

	"invoicing_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	quoteNotFoundMsg   = "quote not found"
	invoiceNotFoundMsg = "invoice not found"
)

// Repository provides database operations for quotes and invoices
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new invoicing repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListParams contains parameters for listing documents
type ListParams struct {
	OwnerID  uuid.UUID
	ClientID *uuid.UUID
	Status   *string
	Search   string
	Page     int
	PageSize int
}

func (p *ListParams) normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// mapInsertError translates referential integrity failures on document
// inserts into typed errors.
func mapInsertError(err error) error {
	if isForeignKeyViolation(err) {
		return apperr.NotFound("client not found")
	}
	return err
}

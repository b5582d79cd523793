package repository

import (
	"context"
	"fmt"
	"time"

	"invoicing_backend/internal/invoicing/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// nextNumber atomically allocates the next sequence number for an owner,
// document type and year, and returns it formatted as PREFIX-YYYY-NNNN.
// The counter row upsert serializes concurrent allocations on the row
// lock, so two transactions never observe the same value.
func nextNumber(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID, docType domain.DocType, now time.Time) (string, error) {
	year := now.Year()

	var seq int64
	query := `
		INSERT INTO document_counters (owner_id, doc_type, year, last_number)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (owner_id, doc_type, year)
		DO UPDATE SET last_number = document_counters.last_number + 1
		RETURNING last_number`

	if err := tx.QueryRow(ctx, query, ownerID, string(docType), year).Scan(&seq); err != nil {
		return "", fmt.Errorf("failed to allocate %s number: %w", docType, err)
	}

	return domain.FormatNumber(docType, year, seq), nil
}

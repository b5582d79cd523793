package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invoicing_backend/internal/invoicing/domain"
	"invoicing_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// QuoteListResult contains the paginated result of listing quotes
type QuoteListResult struct {
	Items      []domain.Quote
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// CreateQuote inserts a quote and its line items in a single transaction,
// allocating the sequence number from the per-owner counter.
func (r *Repository) CreateQuote(ctx context.Context, q *domain.Quote) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	number, err := nextNumber(ctx, tx, q.OwnerID, domain.DocTypeQuote, q.IssueDate)
	if err != nil {
		return err
	}
	q.QuoteNumber = number

	query := `
		INSERT INTO quotes (
			id, owner_id, client_id, quote_number, status, title, notes, terms,
			issue_date, valid_until, tax_rate, subtotal, tax_amount, total_amount,
			sent_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	if _, err := tx.Exec(ctx, query,
		q.ID, q.OwnerID, q.ClientID, q.QuoteNumber, string(q.Status),
		q.Title, q.Notes, q.Terms, q.IssueDate, q.ValidUntil,
		q.TaxRate, q.Subtotal, q.TaxAmount, q.TotalAmount,
		q.SentAt, q.CreatedAt, q.UpdatedAt,
	); err != nil {
		return mapInsertError(fmt.Errorf("failed to insert quote: %w", err))
	}

	if err := insertQuoteItems(ctx, tx, q.ID, q.Items); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateQuote updates a quote's header and replaces its line items.
func (r *Repository) UpdateQuote(ctx context.Context, q *domain.Quote) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE quotes SET
			client_id = $3, title = $4, notes = $5, terms = $6,
			issue_date = $7, valid_until = $8, tax_rate = $9,
			subtotal = $10, tax_amount = $11, total_amount = $12, updated_at = $13
		WHERE id = $1 AND owner_id = $2`

	result, err := tx.Exec(ctx, query,
		q.ID, q.OwnerID, q.ClientID, q.Title, q.Notes, q.Terms,
		q.IssueDate, q.ValidUntil, q.TaxRate,
		q.Subtotal, q.TaxAmount, q.TotalAmount, q.UpdatedAt,
	)
	if err != nil {
		return mapInsertError(fmt.Errorf("failed to update quote: %w", err))
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMsg)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM quote_line_items WHERE quote_id = $1`, q.ID); err != nil {
		return fmt.Errorf("failed to delete old quote items: %w", err)
	}
	if err := insertQuoteItems(ctx, tx, q.ID, q.Items); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func insertQuoteItems(ctx context.Context, tx pgx.Tx, quoteID uuid.UUID, items []domain.LineItem) error {
	query := `
		INSERT INTO quote_line_items (id, quote_id, description, quantity, unit_price, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, li := range items {
		if _, err := tx.Exec(ctx, query,
			li.ID, quoteID, li.Description, li.Quantity, li.UnitPrice, li.SortOrder,
		); err != nil {
			return fmt.Errorf("failed to insert quote item: %w", err)
		}
	}
	return nil
}

// GetQuote retrieves a quote with its line items, scoped to owner.
func (r *Repository) GetQuote(ctx context.Context, ownerID, id uuid.UUID) (*domain.Quote, error) {
	q, err := scanQuoteRow(r.pool.QueryRow(ctx, `
		SELECT `+quoteColumns+`
		FROM quotes WHERE id = $1 AND owner_id = $2`, id, ownerID))
	if err != nil {
		return nil, err
	}

	items, err := r.quoteItems(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	q.Items = items
	return q, nil
}

const quoteColumns = `id, owner_id, client_id, quote_number, status, title, notes, terms,
	issue_date, valid_until, tax_rate, subtotal, tax_amount, total_amount,
	sent_at, created_at, updated_at`

func scanQuoteRow(row pgx.Row) (*domain.Quote, error) {
	var q domain.Quote
	var status string
	err := row.Scan(
		&q.ID, &q.OwnerID, &q.ClientID, &q.QuoteNumber, &status,
		&q.Title, &q.Notes, &q.Terms, &q.IssueDate, &q.ValidUntil,
		&q.TaxRate, &q.Subtotal, &q.TaxAmount, &q.TotalAmount,
		&q.SentAt, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(quoteNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	q.Status = domain.Status(status)
	return &q, nil
}

func (r *Repository) quoteItems(ctx context.Context, quoteID uuid.UUID) ([]domain.LineItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, description, quantity, unit_price, sort_order
		FROM quote_line_items WHERE quote_id = $1
		ORDER BY sort_order ASC, id ASC`, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quote items: %w", err)
	}
	defer rows.Close()

	var items []domain.LineItem
	for rows.Next() {
		var li domain.LineItem
		if err := rows.Scan(&li.ID, &li.Description, &li.Quantity, &li.UnitPrice, &li.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan quote item: %w", err)
		}
		items = append(items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quote items: %w", err)
	}
	return items, nil
}

// ListQuotes retrieves quote headers with filtering and pagination. Line
// items are not loaded for list views.
func (r *Repository) ListQuotes(ctx context.Context, params ListParams) (*QuoteListResult, error) {
	params.normalize()

	var statusParam interface{}
	if params.Status != nil {
		statusParam = *params.Status
	}
	var clientParam interface{}
	if params.ClientID != nil {
		clientParam = *params.ClientID
	}
	var searchParam interface{}
	if params.Search != "" {
		searchParam = "%" + params.Search + "%"
	}

	baseQuery := `
		FROM quotes
		WHERE owner_id = $1
			AND ($2::uuid IS NULL OR client_id = $2)
			AND ($3::text IS NULL OR status::text = $3)
			AND ($4::text IS NULL OR quote_number ILIKE $4 OR title ILIKE $4)
	`
	args := []interface{}{params.OwnerID, clientParam, statusParam, searchParam}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count quotes: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	rows, err := r.pool.Query(ctx, `
		SELECT `+quoteColumns+baseQuery+`
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6`, append(args, params.PageSize, offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer rows.Close()

	var items []domain.Quote
	for rows.Next() {
		q, err := scanQuoteRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quotes: %w", err)
	}

	return &QuoteListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateQuoteStatus updates a quote's status, optionally stamping
// sent_at.
func (r *Repository) UpdateQuoteStatus(ctx context.Context, ownerID, id uuid.UUID, status domain.Status, sentAt *time.Time) error {
	query := `
		UPDATE quotes
		SET status = $3, sent_at = COALESCE($4, sent_at), updated_at = $5
		WHERE id = $1 AND owner_id = $2`

	result, err := r.pool.Exec(ctx, query, id, ownerID, string(status), sentAt, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update quote status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMsg)
	}
	return nil
}

// DeleteQuote removes a quote (cascade deletes items).
func (r *Repository) DeleteQuote(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM quotes WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperr.Conflict("quote has been converted to an invoice")
		}
		return fmt.Errorf("failed to delete quote: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMsg)
	}
	return nil
}

// ExpireQuotes promotes sent quotes whose validity date has passed to
// expired, across all owners. Returns the promoted quotes.
func (r *Repository) ExpireQuotes(ctx context.Context, asOf time.Time) ([]domain.Quote, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE quotes
		SET status = 'expired', updated_at = $2
		WHERE status = 'sent' AND valid_until < $1::date
		RETURNING `+quoteColumns, asOf, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to expire quotes: %w", err)
	}
	defer rows.Close()

	var expired []domain.Quote
	for rows.Next() {
		q, err := scanQuoteRow(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expired quotes: %w", err)
	}
	return expired, nil
}

// ReminderRow is a document joined with its client contact details, used
// by the reminder sweeps.
type ReminderRow struct {
	DocumentID  uuid.UUID
	OwnerID     uuid.UUID
	ClientID    uuid.UUID
	Number      string
	ClientName  string
	ClientEmail string
	TotalAmount string
	Date        time.Time
}

// ListQuotesExpiringWithin returns sent quotes whose validity date falls
// within the next `days` days, joined with client contact details.
func (r *Repository) ListQuotesExpiringWithin(ctx context.Context, asOf time.Time, days int) ([]ReminderRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT q.id, q.owner_id, q.client_id, q.quote_number, c.name, c.email, q.total_amount::text, q.valid_until
		FROM quotes q
		JOIN clients c ON c.id = q.client_id
		WHERE q.status = 'sent'
			AND q.valid_until >= $1::date
			AND q.valid_until <= $1::date + $2 * INTERVAL '1 day'`, asOf, days)
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring quotes: %w", err)
	}
	defer rows.Close()

	return scanReminderRows(rows)
}

func scanReminderRows(rows pgx.Rows) ([]ReminderRow, error) {
	var out []ReminderRow
	for rows.Next() {
		var rr ReminderRow
		if err := rows.Scan(
			&rr.DocumentID, &rr.OwnerID, &rr.ClientID, &rr.Number,
			&rr.ClientName, &rr.ClientEmail, &rr.TotalAmount, &rr.Date,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reminder row: %w", err)
		}
		out = append(out, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminder rows: %w", err)
	}
	return out, nil
}

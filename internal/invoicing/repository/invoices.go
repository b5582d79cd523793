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

// sourceQuoteConstraint enforces at most one invoice per source quote.
const sourceQuoteConstraint = "invoices_source_quote_id_key"

// InvoiceListResult contains the paginated result of listing invoices
type InvoiceListResult struct {
	Items      []domain.Invoice
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// CreateInvoice inserts an invoice and its line items in a single
// transaction, allocating the sequence number from the per-owner
// counter. A duplicate source quote reference surfaces as a typed
// already-converted error.
func (r *Repository) CreateInvoice(ctx context.Context, inv *domain.Invoice) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	number, err := nextNumber(ctx, tx, inv.OwnerID, domain.DocTypeInvoice, inv.IssueDate)
	if err != nil {
		return err
	}
	inv.InvoiceNumber = number

	query := `
		INSERT INTO invoices (
			id, owner_id, client_id, invoice_number, status, title, notes, terms,
			issue_date, due_date, tax_rate, subtotal, tax_amount, total_amount,
			sent_at, paid_at, source_quote_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	if _, err := tx.Exec(ctx, query,
		inv.ID, inv.OwnerID, inv.ClientID, inv.InvoiceNumber, string(inv.Status),
		inv.Title, inv.Notes, inv.Terms, inv.IssueDate, inv.DueDate,
		inv.TaxRate, inv.Subtotal, inv.TaxAmount, inv.TotalAmount,
		inv.SentAt, inv.PaidAt, inv.SourceQuoteID, inv.CreatedAt, inv.UpdatedAt,
	); err != nil {
		if isUniqueViolation(err, sourceQuoteConstraint) {
			return apperr.AlreadyConverted("quote has already been converted to an invoice")
		}
		return mapInsertError(fmt.Errorf("failed to insert invoice: %w", err))
	}

	if err := insertInvoiceItems(ctx, tx, inv.ID, inv.Items); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateInvoice updates an invoice's header and replaces its line items.
func (r *Repository) UpdateInvoice(ctx context.Context, inv *domain.Invoice) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE invoices SET
			client_id = $3, title = $4, notes = $5, terms = $6,
			issue_date = $7, due_date = $8, tax_rate = $9,
			subtotal = $10, tax_amount = $11, total_amount = $12, updated_at = $13
		WHERE id = $1 AND owner_id = $2`

	result, err := tx.Exec(ctx, query,
		inv.ID, inv.OwnerID, inv.ClientID, inv.Title, inv.Notes, inv.Terms,
		inv.IssueDate, inv.DueDate, inv.TaxRate,
		inv.Subtotal, inv.TaxAmount, inv.TotalAmount, inv.UpdatedAt,
	)
	if err != nil {
		return mapInsertError(fmt.Errorf("failed to update invoice: %w", err))
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(invoiceNotFoundMsg)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_line_items WHERE invoice_id = $1`, inv.ID); err != nil {
		return fmt.Errorf("failed to delete old invoice items: %w", err)
	}
	if err := insertInvoiceItems(ctx, tx, inv.ID, inv.Items); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func insertInvoiceItems(ctx context.Context, tx pgx.Tx, invoiceID uuid.UUID, items []domain.LineItem) error {
	query := `
		INSERT INTO invoice_line_items (id, invoice_id, description, quantity, unit_price, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, li := range items {
		if _, err := tx.Exec(ctx, query,
			li.ID, invoiceID, li.Description, li.Quantity, li.UnitPrice, li.SortOrder,
		); err != nil {
			return fmt.Errorf("failed to insert invoice item: %w", err)
		}
	}
	return nil
}

const invoiceColumns = `id, owner_id, client_id, invoice_number, status, title, notes, terms,
	issue_date, due_date, tax_rate, subtotal, tax_amount, total_amount,
	sent_at, paid_at, source_quote_id, created_at, updated_at`

func scanInvoiceRow(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	var status string
	err := row.Scan(
		&inv.ID, &inv.OwnerID, &inv.ClientID, &inv.InvoiceNumber, &status,
		&inv.Title, &inv.Notes, &inv.Terms, &inv.IssueDate, &inv.DueDate,
		&inv.TaxRate, &inv.Subtotal, &inv.TaxAmount, &inv.TotalAmount,
		&inv.SentAt, &inv.PaidAt, &inv.SourceQuoteID, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(invoiceNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	inv.Status = domain.Status(status)
	return &inv, nil
}

// GetInvoice retrieves an invoice with its line items, scoped to owner.
func (r *Repository) GetInvoice(ctx context.Context, ownerID, id uuid.UUID) (*domain.Invoice, error) {
	inv, err := scanInvoiceRow(r.pool.QueryRow(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices WHERE id = $1 AND owner_id = $2`, id, ownerID))
	if err != nil {
		return nil, err
	}

	items, err := r.invoiceItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return inv, nil
}

func (r *Repository) invoiceItems(ctx context.Context, invoiceID uuid.UUID) ([]domain.LineItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, description, quantity, unit_price, sort_order
		FROM invoice_line_items WHERE invoice_id = $1
		ORDER BY sort_order ASC, id ASC`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice items: %w", err)
	}
	defer rows.Close()

	var items []domain.LineItem
	for rows.Next() {
		var li domain.LineItem
		if err := rows.Scan(&li.ID, &li.Description, &li.Quantity, &li.UnitPrice, &li.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}
		items = append(items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoice items: %w", err)
	}
	return items, nil
}

// ListInvoices retrieves invoice headers with filtering and pagination.
func (r *Repository) ListInvoices(ctx context.Context, params ListParams) (*InvoiceListResult, error) {
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
		FROM invoices
		WHERE owner_id = $1
			AND ($2::uuid IS NULL OR client_id = $2)
			AND ($3::text IS NULL OR status::text = $3)
			AND ($4::text IS NULL OR invoice_number ILIKE $4 OR title ILIKE $4)
	`
	args := []interface{}{params.OwnerID, clientParam, statusParam, searchParam}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count invoices: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	rows, err := r.pool.Query(ctx, `
		SELECT `+invoiceColumns+baseQuery+`
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6`, append(args, params.PageSize, offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var items []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoiceRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}

	return &InvoiceListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateInvoiceStatus updates an invoice's status, optionally stamping
// sent_at and paid_at.
func (r *Repository) UpdateInvoiceStatus(ctx context.Context, ownerID, id uuid.UUID, status domain.Status, sentAt, paidAt *time.Time) error {
	query := `
		UPDATE invoices
		SET status = $3, sent_at = COALESCE($4, sent_at), paid_at = COALESCE($5, paid_at), updated_at = $6
		WHERE id = $1 AND owner_id = $2`

	result, err := r.pool.Exec(ctx, query, id, ownerID, string(status), sentAt, paidAt, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update invoice status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(invoiceNotFoundMsg)
	}
	return nil
}

// DeleteInvoice removes an invoice (cascade deletes items).
func (r *Repository) DeleteInvoice(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(invoiceNotFoundMsg)
	}
	return nil
}

// InvoiceIDBySourceQuote returns the ID of the invoice converted from
// the given quote, or nil when no conversion exists.
func (r *Repository) InvoiceIDBySourceQuote(ctx context.Context, ownerID, quoteID uuid.UUID) (*uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT id FROM invoices WHERE source_quote_id = $1 AND owner_id = $2`, quoteID, ownerID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up conversion: %w", err)
	}
	return &id, nil
}

// MarkOverdueInvoices promotes awaiting-payment invoices whose due date
// has passed to overdue, across all owners. Returns the promoted
// invoices.
func (r *Repository) MarkOverdueInvoices(ctx context.Context, asOf time.Time) ([]domain.Invoice, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE invoices
		SET status = 'overdue', updated_at = $2
		WHERE status IN ('sent', 'viewed') AND due_date < $1::date
		RETURNING `+invoiceColumns, asOf, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to mark overdue invoices: %w", err)
	}
	defer rows.Close()

	var overdue []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoiceRow(rows)
		if err != nil {
			return nil, err
		}
		overdue = append(overdue, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate overdue invoices: %w", err)
	}
	return overdue, nil
}

// ListInvoicesDueWithin returns awaiting-payment invoices whose due date
// falls within the next `days` days, joined with client contact details.
func (r *Repository) ListInvoicesDueWithin(ctx context.Context, asOf time.Time, days int) ([]ReminderRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.owner_id, i.client_id, i.invoice_number, c.name, c.email, i.total_amount::text, i.due_date
		FROM invoices i
		JOIN clients c ON c.id = i.client_id
		WHERE i.status IN ('sent', 'viewed')
			AND i.due_date >= $1::date
			AND i.due_date <= $1::date + $2 * INTERVAL '1 day'`, asOf, days)
	if err != nil {
		return nil, fmt.Errorf("failed to list due invoices: %w", err)
	}
	defer rows.Close()

	return scanReminderRows(rows)
}

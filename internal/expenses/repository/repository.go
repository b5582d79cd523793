// Package repository provides PostgreSQL persistence for expenses.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invoicing_backend/platform/apperr"
	"invoicing_backend/platform/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Expense is the database model for an expense
type Expense struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Description string
	Category    string
	Amount      money.Amount
	ExpenseDate time.Time
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListParams contains parameters for listing expenses
type ListParams struct {
	OwnerID  uuid.UUID
	Category *string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// ListResult contains the paginated result of listing expenses
type ListResult struct {
	Items      []Expense
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// MonthlyTotal is one row of the monthly expense summary
type MonthlyTotal struct {
	Month int
	Total money.Amount
	Count int
}

// Repository provides database operations for expenses
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new expenses repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const expenseColumns = `id, owner_id, description, category, amount, expense_date, notes, created_at, updated_at`

// Create inserts an expense.
func (r *Repository) Create(ctx context.Context, e *Expense) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.OwnerID, e.Description, e.Category, e.Amount, e.ExpenseDate, e.Notes, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

// GetByID retrieves an expense scoped to owner.
func (r *Repository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Expense, error) {
	var e Expense
	err := r.pool.QueryRow(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses WHERE id = $1 AND owner_id = $2`, id, ownerID).
		Scan(&e.ID, &e.OwnerID, &e.Description, &e.Category, &e.Amount, &e.ExpenseDate, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("expense not found")
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return &e, nil
}

// List retrieves expenses with filters and pagination.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}

	baseQuery := `
		FROM expenses
		WHERE owner_id = $1
			AND ($2::text IS NULL OR category = $2)
			AND ($3::date IS NULL OR expense_date >= $3)
			AND ($4::date IS NULL OR expense_date <= $4)
	`
	args := []interface{}{params.OwnerID, params.Category, params.From, params.To}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count expenses: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	rows, err := r.pool.Query(ctx, `
		SELECT `+expenseColumns+baseQuery+`
		ORDER BY expense_date DESC, created_at DESC
		LIMIT $5 OFFSET $6`, append(args, params.PageSize, offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var items []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Description, &e.Category, &e.Amount, &e.ExpenseDate, &e.Notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// Update updates an expense's fields.
func (r *Repository) Update(ctx context.Context, e *Expense) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE expenses
		SET description = $3, category = $4, amount = $5, expense_date = $6, notes = $7, updated_at = $8
		WHERE id = $1 AND owner_id = $2`,
		e.ID, e.OwnerID, e.Description, e.Category, e.Amount, e.ExpenseDate, e.Notes, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("expense not found")
	}
	return nil
}

// Delete removes an expense.
func (r *Repository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("expense not found")
	}
	return nil
}

// MonthlySummary sums expenses per calendar month of a year.
func (r *Repository) MonthlySummary(ctx context.Context, ownerID uuid.UUID, year int) ([]MonthlyTotal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT EXTRACT(MONTH FROM expense_date)::int AS month,
			COALESCE(SUM(amount), 0) AS total,
			COUNT(*) AS count
		FROM expenses
		WHERE owner_id = $1 AND EXTRACT(YEAR FROM expense_date) = $2
		GROUP BY month
		ORDER BY month`, ownerID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize expenses: %w", err)
	}
	defer rows.Close()

	var totals []MonthlyTotal
	for rows.Next() {
		var mt MonthlyTotal
		if err := rows.Scan(&mt.Month, &mt.Total, &mt.Count); err != nil {
			return nil, fmt.Errorf("failed to scan expense summary: %w", err)
		}
		totals = append(totals, mt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense summary: %w", err)
	}
	return totals, nil
}

// Package service contains the business logic for expense tracking.
package service

import (
	"context"
	"strings"
	"time"

	"invoicing_backend/internal/expenses/repository"
	"invoicing_backend/internal/expenses/transport"
	"invoicing_backend/platform/apperr"
	"invoicing_backend/platform/logger"
	"invoicing_backend/platform/money"

	"github.com/google/uuid"
)

// Store abstracts expense persistence for the service.
type Store interface {
	Create(ctx context.Context, e *repository.Expense) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*repository.Expense, error)
	List(ctx context.Context, params repository.ListParams) (*repository.ListResult, error)
	Update(ctx context.Context, e *repository.Expense) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	MonthlySummary(ctx context.Context, ownerID uuid.UUID, year int) ([]repository.MonthlyTotal, error)
}

// Service handles expense operations
type Service struct {
	store Store
	log   *logger.Logger
	now   func() time.Time
}

// New creates a new expenses service
func New(store Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}

// Create records a new expense for the owner.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req transport.CreateExpenseRequest) (*repository.Expense, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	expenseDate := now.Truncate(24 * time.Hour)
	if req.ExpenseDate != "" {
		expenseDate, err = time.Parse(transport.DateFormat, req.ExpenseDate)
		if err != nil {
			return nil, apperr.Validation("invalid expense_date")
		}
	}

	expense := &repository.Expense{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Amount:      amount,
		ExpenseDate: expenseDate,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// Get retrieves a single expense.
func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*repository.Expense, error) {
	return s.store.GetByID(ctx, ownerID, id)
}

// List retrieves expenses with filters and pagination.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID, query transport.ListQuery) (*repository.ListResult, error) {
	params := repository.ListParams{
		OwnerID:  ownerID,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Category != "" {
		category := query.Category
		params.Category = &category
	}
	if query.From != "" {
		from, err := time.Parse(transport.DateFormat, query.From)
		if err != nil {
			return nil, apperr.Validation("invalid from date")
		}
		params.From = &from
	}
	if query.To != "" {
		to, err := time.Parse(transport.DateFormat, query.To)
		if err != nil {
			return nil, apperr.Validation("invalid to date")
		}
		params.To = &to
	}
	return s.store.List(ctx, params)
}

// Update replaces an expense's editable fields.
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, req transport.UpdateExpenseRequest) (*repository.Expense, error) {
	expense, err := s.store.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	expenseDate, err := time.Parse(transport.DateFormat, req.ExpenseDate)
	if err != nil {
		return nil, apperr.Validation("invalid expense_date")
	}

	expense.Description = strings.TrimSpace(req.Description)
	expense.Category = strings.TrimSpace(req.Category)
	expense.Amount = amount
	expense.ExpenseDate = expenseDate
	expense.Notes = req.Notes
	expense.UpdatedAt = s.now().UTC()

	if err := s.store.Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// Delete removes an expense.
func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.store.Delete(ctx, ownerID, id)
}

// Summary computes the monthly expense totals for a year.
func (s *Service) Summary(ctx context.Context, ownerID uuid.UUID, year int) (*transport.SummaryResponse, error) {
	if year < 2000 || year > 2200 {
		return nil, apperr.Validation("invalid year")
	}

	totals, err := s.store.MonthlySummary(ctx, ownerID, year)
	if err != nil {
		return nil, err
	}

	months := make([]transport.MonthlyTotalResponse, 0, len(totals))
	grand := money.Zero
	for _, mt := range totals {
		months = append(months, transport.MonthlyTotalResponse{
			Month: mt.Month,
			Total: mt.Total.StringFixed(2),
			Count: mt.Count,
		})
		grand = grand.Add(mt.Total)
	}

	return &transport.SummaryResponse{
		Year:   year,
		Months: months,
		Total:  grand.StringFixed(2),
	}, nil
}

func parseAmount(raw string) (money.Amount, error) {
	amount, err := money.Parse(strings.TrimSpace(raw))
	if err != nil {
		return money.Zero, apperr.Validation("invalid amount")
	}
	if amount.Sign() <= 0 {
		return money.Zero, apperr.Validation("amount must be positive")
	}
	if !amount.Equal(money.Round2(amount)) {
		return money.Zero, apperr.Validation("amount has more than two decimal places")
	}
	return amount, nil
}

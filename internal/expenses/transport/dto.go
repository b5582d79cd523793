// Package transport defines request and response DTOs for the expenses API.
package transport

import (
	"time"

	"invoicing_backend/internal/expenses/repository"
)

// DateFormat is the wire format for date-only fields.
const DateFormat = "2006-01-02"

// CreateExpenseRequest is the request body for recording an expense
type CreateExpenseRequest struct {
	Description string `json:"description" validate:"required,min=1,max=500"`
	Category    string `json:"category" validate:"required,min=1,max=100"`
	Amount      string `json:"amount" validate:"required"`
	ExpenseDate string `json:"expense_date" validate:"omitempty,datetime=2006-01-02"`
	Notes       string `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateExpenseRequest is the request body for updating an expense
type UpdateExpenseRequest struct {
	Description string `json:"description" validate:"required,min=1,max=500"`
	Category    string `json:"category" validate:"required,min=1,max=100"`
	Amount      string `json:"amount" validate:"required"`
	ExpenseDate string `json:"expense_date" validate:"required,datetime=2006-01-02"`
	Notes       string `json:"notes" validate:"omitempty,max=2000"`
}

// ListQuery holds query parameters for listing expenses
type ListQuery struct {
	Category string `form:"category"`
	From     string `form:"from"`
	To       string `form:"to"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// ExpenseResponse is the API representation of an expense
type ExpenseResponse struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Amount      string    `json:"amount"`
	ExpenseDate string    `json:"expense_date"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListResponse is a paginated list of expenses
type ListResponse struct {
	Items      []ExpenseResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// MonthlyTotalResponse is one month of the expense summary
type MonthlyTotalResponse struct {
	Month int    `json:"month"`
	Total string `json:"total"`
	Count int    `json:"count"`
}

// SummaryResponse is the yearly expense summary grouped by month
type SummaryResponse struct {
	Year   int                    `json:"year"`
	Months []MonthlyTotalResponse `json:"months"`
	Total  string                 `json:"total"`
}

// FromExpense converts a repository expense to its API representation
func FromExpense(e *repository.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID.String(),
		Description: e.Description,
		Category:    e.Category,
		Amount:      e.Amount.StringFixed(2),
		ExpenseDate: e.ExpenseDate.Format(DateFormat),
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

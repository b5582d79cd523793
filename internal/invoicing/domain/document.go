package domain

import (
	"time"

	"invoicing_backend/platform/money"

	"github.com/google/uuid"
)

// Quote is an offer to a client. Totals are derived from the line items
// and tax rate; callers never set them directly.
type Quote struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	ClientID    uuid.UUID
	QuoteNumber string
	Status      Status
	Title       string
	Notes       string
	Terms       string
	IssueDate   time.Time
	ValidUntil  time.Time
	TaxRate     money.Amount
	Subtotal    money.Amount
	TaxAmount   money.Amount
	TotalAmount money.Amount
	SentAt      *time.Time
	Items       []LineItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Invoice is a demand for payment, either drafted directly or converted
// from an approved quote. SourceQuoteID is set in the latter case and is
// unique per quote.
type Invoice struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	ClientID      uuid.UUID
	InvoiceNumber string
	Status        Status
	Title         string
	Notes         string
	Terms         string
	IssueDate     time.Time
	DueDate       time.Time
	TaxRate       money.Amount
	Subtotal      money.Amount
	TaxAmount     money.Amount
	TotalAmount   money.Amount
	SentAt        *time.Time
	PaidAt        *time.Time
	SourceQuoteID *uuid.UUID
	Items         []LineItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Recalculate derives the quote's totals from its current line items.
func (q *Quote) Recalculate() {
	t := CalculateTotals(q.Items, q.TaxRate)
	q.Subtotal = t.Subtotal
	q.TaxAmount = t.TaxAmount
	q.TotalAmount = t.TotalAmount
}

// Recalculate derives the invoice's totals from its current line items.
func (inv *Invoice) Recalculate() {
	t := CalculateTotals(inv.Items, inv.TaxRate)
	inv.Subtotal = t.Subtotal
	inv.TaxAmount = t.TaxAmount
	inv.TotalAmount = t.TotalAmount
}

// IsExpired reports whether the quote's validity date has passed.
func (q *Quote) IsExpired(asOf time.Time) bool {
	return q.ValidUntil.Before(truncateToDay(asOf))
}

// IsOverdue reports whether the invoice should be considered overdue as
// of the given time: it is awaiting payment and its due date has passed.
// This is a pure predicate; the status itself only changes through the
// overdue sweep or an explicit transition.
func (inv *Invoice) IsOverdue(asOf time.Time) bool {
	if inv.Status != InvoiceSent && inv.Status != InvoiceViewed {
		return false
	}
	return inv.DueDate.Before(truncateToDay(asOf))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"invoicing_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Auth Domain Events
// =============================================================================

// UserSignedUp is published when a new user successfully registers.
type UserSignedUp struct {
	BaseEvent
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
}

func (e UserSignedUp) EventName() string { return "auth.user.signed_up" }

// =============================================================================
// Quote Domain Events
// =============================================================================

// QuoteSent is published when a quote moves from draft to sent.
type QuoteSent struct {
	BaseEvent
	QuoteID     uuid.UUID `json:"quoteId"`
	OwnerID     uuid.UUID `json:"ownerId"`
	ClientID    uuid.UUID `json:"clientId"`
	QuoteNumber string    `json:"quoteNumber"`
	TotalAmount string    `json:"totalAmount"`
	ValidUntil  time.Time `json:"validUntil"`
}

func (e QuoteSent) EventName() string { return "quotes.quote.sent" }

// QuoteStatusChanged is published on every successful quote status
// transition. Handlers that only care about a specific transition should
// inspect NewStatus.
type QuoteStatusChanged struct {
	BaseEvent
	QuoteID     uuid.UUID `json:"quoteId"`
	OwnerID     uuid.UUID `json:"ownerId"`
	QuoteNumber string    `json:"quoteNumber"`
	OldStatus   string    `json:"oldStatus"`
	NewStatus   string    `json:"newStatus"`
}

func (e QuoteStatusChanged) EventName() string { return "quotes.quote.status_changed" }

// QuoteConverted is published when an approved quote is converted into an
// invoice.
type QuoteConverted struct {
	BaseEvent
	QuoteID       uuid.UUID `json:"quoteId"`
	InvoiceID     uuid.UUID `json:"invoiceId"`
	OwnerID       uuid.UUID `json:"ownerId"`
	QuoteNumber   string    `json:"quoteNumber"`
	InvoiceNumber string    `json:"invoiceNumber"`
	TotalAmount   string    `json:"totalAmount"`
}

func (e QuoteConverted) EventName() string { return "quotes.quote.converted" }

// =============================================================================
// Invoice Domain Events
// =============================================================================

// InvoiceSent is published when an invoice moves from draft to sent.
type InvoiceSent struct {
	BaseEvent
	InvoiceID     uuid.UUID `json:"invoiceId"`
	OwnerID       uuid.UUID `json:"ownerId"`
	ClientID      uuid.UUID `json:"clientId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	TotalAmount   string    `json:"totalAmount"`
	DueDate       time.Time `json:"dueDate"`
}

func (e InvoiceSent) EventName() string { return "invoices.invoice.sent" }

// InvoiceStatusChanged is published on every successful invoice status
// transition.
type InvoiceStatusChanged struct {
	BaseEvent
	InvoiceID     uuid.UUID `json:"invoiceId"`
	OwnerID       uuid.UUID `json:"ownerId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	OldStatus     string    `json:"oldStatus"`
	NewStatus     string    `json:"newStatus"`
}

func (e InvoiceStatusChanged) EventName() string { return "invoices.invoice.status_changed" }

// InvoicePaid is published when an invoice is marked paid.
type InvoicePaid struct {
	BaseEvent
	InvoiceID     uuid.UUID `json:"invoiceId"`
	OwnerID       uuid.UUID `json:"ownerId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	TotalAmount   string    `json:"totalAmount"`
	PaidAt        time.Time `json:"paidAt"`
}

func (e InvoicePaid) EventName() string { return "invoices.invoice.paid" }

// InvoiceOverdue is published by the overdue sweep for each invoice it
// promotes to overdue.
type InvoiceOverdue struct {
	BaseEvent
	InvoiceID     uuid.UUID `json:"invoiceId"`
	OwnerID       uuid.UUID `json:"ownerId"`
	ClientID      uuid.UUID `json:"clientId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	TotalAmount   string    `json:"totalAmount"`
	DueDate       time.Time `json:"dueDate"`
}

func (e InvoiceOverdue) EventName() string { return "invoices.invoice.overdue" }

// =============================================================================
// Reminder Domain Events
// =============================================================================

// InvoiceDueSoon is published by the scheduler for invoices approaching
// their due date.
type InvoiceDueSoon struct {
	BaseEvent
	InvoiceID     uuid.UUID `json:"invoiceId"`
	OwnerID       uuid.UUID `json:"ownerId"`
	ClientID      uuid.UUID `json:"clientId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	ClientEmail   string    `json:"clientEmail"`
	ClientName    string    `json:"clientName"`
	TotalAmount   string    `json:"totalAmount"`
	DueDate       time.Time `json:"dueDate"`
}

func (e InvoiceDueSoon) EventName() string { return "reminders.invoice.due_soon" }

// QuoteExpiringSoon is published by the scheduler for sent quotes
// approaching their validity date.
type QuoteExpiringSoon struct {
	BaseEvent
	QuoteID     uuid.UUID `json:"quoteId"`
	OwnerID     uuid.UUID `json:"ownerId"`
	ClientID    uuid.UUID `json:"clientId"`
	QuoteNumber string    `json:"quoteNumber"`
	ClientEmail string    `json:"clientEmail"`
	ClientName  string    `json:"clientName"`
	ValidUntil  time.Time `json:"validUntil"`
}

func (e QuoteExpiringSoon) EventName() string { return "reminders.quote.expiring_soon" }

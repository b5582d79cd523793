// Package domain holds the pure business rules of the invoicing module:
// document statuses and their transition tables, line-item validation,
// totals calculation, and sequence number formatting. It has no
// dependencies on storage or transport.
package domain

import (
	"fmt"

	"invoicing_backend/platform/apperr"
)

// DocType distinguishes the two document kinds sharing the lifecycle
// machinery.
type DocType string

const (
	DocTypeQuote   DocType = "quote"
	DocTypeInvoice DocType = "invoice"
)

// Status is a document lifecycle state. Quote and invoice statuses share
// the type; the transition tables keep the two state machines apart.
type Status string

// Quote statuses.
const (
	QuoteDraft    Status = "draft"
	QuoteSent     Status = "sent"
	QuoteApproved Status = "approved"
	QuoteDeclined Status = "declined"
	QuoteExpired  Status = "expired"
)

// Invoice statuses.
const (
	InvoiceDraft     Status = "draft"
	InvoiceSent      Status = "sent"
	InvoiceViewed    Status = "viewed"
	InvoicePaid      Status = "paid"
	InvoiceOverdue   Status = "overdue"
	InvoiceCancelled Status = "cancelled"
)

// quoteTransitions is the full quote state machine. A missing key or an
// empty slice means the state is terminal.
var quoteTransitions = map[Status][]Status{
	QuoteDraft:    {QuoteSent, QuoteDeclined},
	QuoteSent:     {QuoteApproved, QuoteDeclined, QuoteExpired},
	QuoteApproved: {QuoteDeclined},
	QuoteDeclined: {},
	QuoteExpired:  {QuoteSent},
}

// invoiceTransitions is the full invoice state machine.
var invoiceTransitions = map[Status][]Status{
	InvoiceDraft:     {InvoiceSent, InvoiceCancelled},
	InvoiceSent:      {InvoiceViewed, InvoicePaid, InvoiceOverdue, InvoiceCancelled},
	InvoiceViewed:    {InvoicePaid, InvoiceOverdue, InvoiceCancelled},
	InvoiceOverdue:   {InvoicePaid, InvoiceCancelled},
	InvoicePaid:      {},
	InvoiceCancelled: {},
}

func transitionTable(docType DocType) map[Status][]Status {
	if docType == DocTypeInvoice {
		return invoiceTransitions
	}
	return quoteTransitions
}

// ValidStatus reports whether s is a known status for the given document
// type.
func ValidStatus(docType DocType, s Status) bool {
	_, ok := transitionTable(docType)[s]
	return ok
}

// CanTransition reports whether a document of the given type may move
// from one status to another. Unknown statuses never transition.
func CanTransition(docType DocType, from, to Status) bool {
	for _, allowed := range transitionTable(docType)[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transitions returns the statuses reachable from the given one. The
// returned slice is a copy; callers may mutate it.
func Transitions(docType DocType, from Status) []Status {
	allowed := transitionTable(docType)[from]
	out := make([]Status, len(allowed))
	copy(out, allowed)
	return out
}

// IsTerminal reports whether no transition leaves the given status.
func IsTerminal(docType DocType, s Status) bool {
	return ValidStatus(docType, s) && len(transitionTable(docType)[s]) == 0
}

// CheckTransition validates a requested transition and returns a typed
// error naming both states when it is not allowed.
func CheckTransition(docType DocType, from, to Status) error {
	if !ValidStatus(docType, to) {
		return apperr.Validation(fmt.Sprintf("unknown %s status %q", docType, to))
	}
	if !CanTransition(docType, from, to) {
		return apperr.InvalidTransition(fmt.Sprintf("cannot transition %s from %q to %q", docType, from, to))
	}
	return nil
}

// CanEdit reports whether header fields and line items may be mutated.
// Both document kinds are editable only while in draft.
func CanEdit(s Status) bool {
	return s == QuoteDraft
}

// CanDeleteQuote reports whether a quote may be deleted. Draft quotes
// were never shared and declined quotes are dead ends, so both may go.
func CanDeleteQuote(s Status) bool {
	return s == QuoteDraft || s == QuoteDeclined
}

// CanDeleteInvoice reports whether an invoice may be deleted. Anything
// past draft is a financial record and must be cancelled instead.
func CanDeleteInvoice(s Status) bool {
	return s == InvoiceDraft
}

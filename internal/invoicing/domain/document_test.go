package domain

import (
	"testing"
	"time"

	"invoicing_backend/platform/money"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(DocTypeQuote, 2026, 42); got != "QT-2026-0042" {
		t.Fatalf("expected QT-2026-0042, got %s", got)
	}
	if got := FormatNumber(DocTypeInvoice, 2026, 1); got != "INV-2026-0001" {
		t.Fatalf("expected INV-2026-0001, got %s", got)
	}
	if got := FormatNumber(DocTypeInvoice, 2026, 12345); got != "INV-2026-12345" {
		t.Fatalf("sequence past 9999 must widen, got %s", got)
	}
}

func TestInvoiceIsOverdue(t *testing.T) {
	due := date(2026, time.March, 15)
	inv := Invoice{Status: InvoiceSent, DueDate: due}

	if inv.IsOverdue(date(2026, time.March, 15)) {
		t.Fatalf("invoice is not overdue on its due date")
	}
	if !inv.IsOverdue(date(2026, time.March, 16)) {
		t.Fatalf("invoice must be overdue the day after its due date")
	}
	// Time of day must not matter.
	if inv.IsOverdue(time.Date(2026, time.March, 15, 23, 59, 0, 0, time.UTC)) {
		t.Fatalf("invoice is not overdue before midnight of its due date")
	}

	inv.Status = InvoiceViewed
	if !inv.IsOverdue(date(2026, time.April, 1)) {
		t.Fatalf("viewed invoices are eligible for overdue")
	}

	for _, s := range []Status{InvoiceDraft, InvoicePaid, InvoiceOverdue, InvoiceCancelled} {
		inv.Status = s
		if inv.IsOverdue(date(2026, time.April, 1)) {
			t.Fatalf("status %s must never report overdue", s)
		}
	}
}

func TestQuoteIsExpired(t *testing.T) {
	q := Quote{ValidUntil: date(2026, time.June, 1)}

	if q.IsExpired(date(2026, time.June, 1)) {
		t.Fatalf("quote is valid through its validity date")
	}
	if !q.IsExpired(date(2026, time.June, 2)) {
		t.Fatalf("quote must be expired after its validity date")
	}
}

func TestRecalculate(t *testing.T) {
	q := Quote{
		TaxRate: money.FromInt(10),
		Items: []LineItem{
			item("a", "2", "50.00"),
			item("b", "1", "25.00"),
		},
	}
	q.Recalculate()

	if !q.Subtotal.Equal(money.MustParse("125.00")) ||
		!q.TaxAmount.Equal(money.MustParse("12.50")) ||
		!q.TotalAmount.Equal(money.MustParse("137.50")) {
		t.Fatalf("unexpected quote totals: %s/%s/%s", q.Subtotal, q.TaxAmount, q.TotalAmount)
	}

	inv := Invoice{TaxRate: q.TaxRate, Items: q.Items}
	inv.Recalculate()

	if !inv.TotalAmount.Equal(q.TotalAmount) {
		t.Fatalf("identical items and rate must produce identical totals")
	}
}

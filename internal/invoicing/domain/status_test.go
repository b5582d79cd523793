package domain

import "testing"

func TestQuoteTransitions_AllowedEdges(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{QuoteDraft, QuoteSent},
		{QuoteDraft, QuoteDeclined},
		{QuoteSent, QuoteApproved},
		{QuoteSent, QuoteDeclined},
		{QuoteSent, QuoteExpired},
		{QuoteApproved, QuoteDeclined},
		{QuoteExpired, QuoteSent},
	}

	for _, tc := range allowed {
		if !CanTransition(DocTypeQuote, tc.from, tc.to) {
			t.Fatalf("expected quote transition %s -> %s to be allowed", tc.from, tc.to)
		}
	}
}

func TestQuoteTransitions_OnlyAllowedEdges(t *testing.T) {
	allowed := map[Status]map[Status]bool{
		QuoteDraft:    {QuoteSent: true, QuoteDeclined: true},
		QuoteSent:     {QuoteApproved: true, QuoteDeclined: true, QuoteExpired: true},
		QuoteApproved: {QuoteDeclined: true},
		QuoteDeclined: {},
		QuoteExpired:  {QuoteSent: true},
	}
	all := []Status{QuoteDraft, QuoteSent, QuoteApproved, QuoteDeclined, QuoteExpired}

	for _, from := range all {
		for _, to := range all {
			got := CanTransition(DocTypeQuote, from, to)
			if got != allowed[from][to] {
				t.Fatalf("quote %s -> %s: got %v, want %v", from, to, got, allowed[from][to])
			}
		}
	}
}

func TestInvoiceTransitions_OnlyAllowedEdges(t *testing.T) {
	allowed := map[Status]map[Status]bool{
		InvoiceDraft:     {InvoiceSent: true, InvoiceCancelled: true},
		InvoiceSent:      {InvoiceViewed: true, InvoicePaid: true, InvoiceOverdue: true, InvoiceCancelled: true},
		InvoiceViewed:    {InvoicePaid: true, InvoiceOverdue: true, InvoiceCancelled: true},
		InvoiceOverdue:   {InvoicePaid: true, InvoiceCancelled: true},
		InvoicePaid:      {},
		InvoiceCancelled: {},
	}
	all := []Status{InvoiceDraft, InvoiceSent, InvoiceViewed, InvoicePaid, InvoiceOverdue, InvoiceCancelled}

	for _, from := range all {
		for _, to := range all {
			got := CanTransition(DocTypeInvoice, from, to)
			if got != allowed[from][to] {
				t.Fatalf("invoice %s -> %s: got %v, want %v", from, to, got, allowed[from][to])
			}
		}
	}
}

func TestTerminalStates(t *testing.T) {
	if !IsTerminal(DocTypeQuote, QuoteDeclined) {
		t.Fatalf("expected declined quote to be terminal")
	}
	if !IsTerminal(DocTypeInvoice, InvoicePaid) {
		t.Fatalf("expected paid invoice to be terminal")
	}
	if !IsTerminal(DocTypeInvoice, InvoiceCancelled) {
		t.Fatalf("expected cancelled invoice to be terminal")
	}
	if IsTerminal(DocTypeQuote, QuoteExpired) {
		t.Fatalf("expired quote can be resent, must not be terminal")
	}
	if IsTerminal(DocTypeInvoice, Status("bogus")) {
		t.Fatalf("unknown status must not be reported terminal")
	}
}

func TestCheckTransition_Errors(t *testing.T) {
	if err := CheckTransition(DocTypeQuote, QuoteDraft, QuoteSent); err != nil {
		t.Fatalf("expected draft -> sent to pass, got %v", err)
	}
	if err := CheckTransition(DocTypeQuote, QuoteDeclined, QuoteSent); err == nil {
		t.Fatalf("expected declined -> sent to fail")
	}
	if err := CheckTransition(DocTypeInvoice, InvoiceDraft, Status("bogus")); err == nil {
		t.Fatalf("expected unknown target status to fail")
	}
}

func TestEditAndDeleteGuards(t *testing.T) {
	if !CanEdit(QuoteDraft) {
		t.Fatalf("draft documents must be editable")
	}
	for _, s := range []Status{QuoteSent, QuoteApproved, QuoteDeclined, QuoteExpired} {
		if CanEdit(s) {
			t.Fatalf("status %s must not be editable", s)
		}
	}

	if !CanDeleteQuote(QuoteDraft) || !CanDeleteQuote(QuoteDeclined) {
		t.Fatalf("draft and declined quotes must be deletable")
	}
	for _, s := range []Status{QuoteSent, QuoteApproved, QuoteExpired} {
		if CanDeleteQuote(s) {
			t.Fatalf("quote in status %s must not be deletable", s)
		}
	}

	if !CanDeleteInvoice(InvoiceDraft) {
		t.Fatalf("draft invoices must be deletable")
	}
	for _, s := range []Status{InvoiceSent, InvoiceViewed, InvoicePaid, InvoiceOverdue, InvoiceCancelled} {
		if CanDeleteInvoice(s) {
			t.Fatalf("invoice in status %s must not be deletable", s)
		}
	}
}

func TestTransitionsReturnsCopy(t *testing.T) {
	got := Transitions(DocTypeQuote, QuoteSent)
	if len(got) != 3 {
		t.Fatalf("expected 3 transitions out of sent, got %d", len(got))
	}
	got[0] = Status("mutated")
	again := Transitions(DocTypeQuote, QuoteSent)
	if again[0] == Status("mutated") {
		t.Fatalf("Transitions must not expose the internal table")
	}
}

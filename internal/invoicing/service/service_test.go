package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"invoicing_backend/internal/invoicing/domain"
	"invoicing_backend/internal/invoicing/transport"
	"invoicing_backend/platform/apperr"
	"invoicing_backend/platform/money"

	"github.com/google/uuid"
)

type testConfig struct{}

func (testConfig) GetPaymentTermDays() int   { return 30 }
func (testConfig) GetQuoteValidityDays() int { return 30 }
func (testConfig) GetReminderLeadDays() int  { return 3 }

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	svc := New(store, nil, nil, testConfig{})
	return svc, store
}

func intPtr(v int) *int { return &v }

func quoteRequest() transport.CreateQuoteRequest {
	return transport.CreateQuoteRequest{
		ClientID: uuid.NewString(),
		Title:    "bathroom renovation",
		TaxRate:  "10",
		Items: []transport.LineItemRequest{
			{Description: "labor", Quantity: "2", UnitPrice: "50.00"},
			{Description: "materials", Quantity: "1", UnitPrice: "25.00", SortOrder: intPtr(1)},
		},
	}
}

func TestCreateQuote_Totals(t *testing.T) {
	svc, _ := newTestService()
	owner := uuid.New()

	q, err := svc.CreateQuote(context.Background(), owner, quoteRequest())
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}

	if q.Status != domain.QuoteDraft {
		t.Fatalf("expected draft status, got %s", q.Status)
	}
	if !q.Subtotal.Equal(money.MustParse("125.00")) {
		t.Fatalf("expected subtotal 125.00, got %s", q.Subtotal)
	}
	if !q.TaxAmount.Equal(money.MustParse("12.50")) {
		t.Fatalf("expected tax 12.50, got %s", q.TaxAmount)
	}
	if !q.TotalAmount.Equal(money.MustParse("137.50")) {
		t.Fatalf("expected total 137.50, got %s", q.TotalAmount)
	}
	if !q.ValidUntil.Equal(q.IssueDate.AddDate(0, 0, 30)) {
		t.Fatalf("expected default validity of 30 days, got %s", q.ValidUntil)
	}
}

func TestCreateQuote_RejectsBadInput(t *testing.T) {
	svc, _ := newTestService()
	owner := uuid.New()

	req := quoteRequest()
	req.TaxRate = "150"
	if _, err := svc.CreateQuote(context.Background(), owner, req); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for tax rate 150, got %v", err)
	}

	req = quoteRequest()
	req.Items[0].Quantity = "0"
	if _, err := svc.CreateQuote(context.Background(), owner, req); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for zero quantity, got %v", err)
	}

	req = quoteRequest()
	req.Items[1].Description = "  "
	if _, err := svc.CreateQuote(context.Background(), owner, req); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for blank description, got %v", err)
	}
}

func TestCreateQuote_ConcurrentNumbering(t *testing.T) {
	svc, _ := newTestService()
	owner := uuid.New()

	const n = 50
	numbers := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q, err := svc.CreateQuote(context.Background(), owner, quoteRequest())
			if err != nil {
				t.Errorf("create quote: %v", err)
				return
			}
			numbers[i] = q.QuoteNumber
		}(i)
	}
	wg.Wait()

	sort.Strings(numbers)
	year := time.Now().UTC().Year()
	for i := 0; i < n; i++ {
		want := fmt.Sprintf("QT-%d-%04d", year, i+1)
		if numbers[i] != want {
			t.Fatalf("expected contiguous distinct numbers, position %d is %q, want %q", i, numbers[i], want)
		}
	}
}

func TestUpdateQuote_GuardedByStatus(t *testing.T) {
	svc, store := newTestService()
	owner := uuid.New()
	ctx := context.Background()

	q, err := svc.CreateQuote(ctx, owner, quoteRequest())
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}
	if _, err := svc.TransitionQuote(ctx, owner, q.ID, domain.QuoteSent); err != nil {
		t.Fatalf("send quote: %v", err)
	}

	upd := transport.UpdateQuoteRequest{
		ClientID: q.ClientID.String(),
		Items:    []transport.LineItemRequest{{Description: "x", Quantity: "1", UnitPrice: "1.00"}},
	}
	if _, err := svc.UpdateQuote(ctx, owner, q.ID, upd); !apperr.IsKind(err, apperr.KindEditNotAllowed) {
		t.Fatalf("expected edit-not-allowed on sent quote, got %v", err)
	}
	if _, err := svc.AddQuoteItem(ctx, owner, q.ID, upd.Items[0]); !apperr.IsKind(err, apperr.KindEditNotAllowed) {
		t.Fatalf("expected edit-not-allowed for item add on sent quote, got %v", err)
	}

	// Verify the stored quote kept its totals.
	stored, _ := store.GetQuote(ctx, owner, q.ID)
	if !stored.TotalAmount.Equal(money.MustParse("137.50")) {
		t.Fatalf("sent quote must be untouched, got total %s", stored.TotalAmount)
	}
}

func TestQuoteItemMutations_Recompute(t *testing.T) {
	svc, _ := newTestService()
	owner := uuid.New()
	ctx := context.Background()

	q, err := svc.CreateQuote(ctx, owner, quoteRequest())
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}

	q, err = svc.AddQuoteItem(ctx, owner, q.ID, transport.LineItemRequest{
		Description: "extra", Quantity: "1", UnitPrice: "10.00",
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if !q.Subtotal.Equal(money.MustParse("135.00")) {
		t.Fatalf("expected subtotal 135.00 after add, got %s", q.Subtotal)
	}

	itemID := q.Items[len(q.Items)-1].ID
	q, err = svc.UpdateQuoteItem(ctx, owner, q.ID, itemID, transport.LineItemRequest{
		Description: "extra", Quantity: "2", UnitPrice: "10.00",
	})
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if !q.Subtotal.Equal(money.MustParse("145.00")) {
		t.Fatalf("expected subtotal 145.00 after update, got %s", q.Subtotal)
	}

	q, err = svc.DeleteQuoteItem(ctx, owner, q.ID, itemID)
	if err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if !q.Subtotal.Equal(money.MustParse("125.00")) {
		t.Fatalf("expected subtotal 125.00 after delete, got %s", q.Subtotal)
	}

	if _, err := svc.DeleteQuoteItem(ctx, owner, q.ID, uuid.New()); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found for unknown item, got %v", err)
	}
}

func TestQuoteItemSortOrder_ExplicitZero(t *testing.T) {
	svc, _ := newTestService()
	owner := uuid.New()
	ctx := context.Background()

	q, err := svc.CreateQuote(ctx, owner, quoteRequest())
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}

	// An explicit position 0 must be honored, not replaced with the
	// append default.
	q, err = svc.AddQuoteItem(ctx, owner, q.ID, transport.LineItemRequest{
		Description: "deposit", Quantity: "1", UnitPrice: "5.00", SortOrder: intPtr(0),
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	added := q.Items[len(q.Items)-1]
	if added.SortOrder != 0 {
		t.Fatalf("expected explicit sort order 0, got %d", added.SortOrder)
	}

	// Omitting the field defaults to appending after existing items.
	q, err = svc.AddQuoteItem(ctx, owner, q.ID, transport.LineItemRequest{
		Description: "cleanup", Quantity: "1", UnitPrice: "5.00",
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	appended := q.Items[len(q.Items)-1]
	if appended.SortOrder != 3 {
		t.Fatalf("expected defaulted sort order 3, got %d", appended.SortOrder)
	}

	// An update without the field keeps the item's position; with the
	// field it can move the item back to 0.
	q, err = svc.UpdateQuoteItem(ctx, owner, q.ID, appended.ID, transport.LineItemRequest{
		Description: "cleanup", Quantity: "2", UnitPrice: "5.00",
	})
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if q.Items[len(q.Items)-1].SortOrder != 3 {
		t.Fatalf("expected sort order retained on update, got %d", q.Items[len(q.Items)-1].SortOrder)
	}

	q, err = svc.UpdateQuoteItem(ctx, owner, q.ID, appended.ID, transport.LineItemRequest{
		Description: "cleanup", Quantity: "2", UnitPrice: "5.00", SortOrder: intPtr(0),
	})
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if q.Items[len(q.Items)-1].SortOrder != 0 {
		t.Fatalf("expected explicit sort order 0 on update, got %d", q.Items[len(q.Items)-1].SortOrder)
	}
}

func TestTransitionQuote_Rules(t *testing.T) {
	svc, _ := newTestService()
	owner := uuid.New()
	ctx := context.Background()

	q, err := svc.CreateQuote(ctx, owner, quoteRequest())
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}

	if _, err := svc.TransitionQuote(ctx, owner, q.ID, domain.QuoteApproved); !apperr.IsKind(err, apperr.KindInvalidTransition) {
		t.Fatalf("draft -> approved must fail, got %v", err)
	}

	q, err = svc.TransitionQuote(ctx, owner, q.ID, domain.QuoteSent)
	if err != nil {
		t.Fatalf("draft -> sent: %v", err)
	}
	if q.SentAt == nil {
		t.Fatalf("sending must stamp sent_at")
	}

	if _, err := svc.TransitionQuote(ctx, owner, q.ID, domain.QuoteApproved); err != nil {
		t.Fatalf("sent -> approved: %v", err)
	}
	if _, err := svc.TransitionQuote(ctx, owner, q.ID, domain.QuoteSent); !apperr.IsKind(err, apperr.KindInvalidTransition) {
		t.Fatalf("approved -> sent must fail cleanly, got %v", err)
	}
}

func TestCrossTenantAccessIsNotFound(t *testing.T) {
	svc, _ := newTestService()
	ownerA := uuid.New()
	ownerB := uuid.New()
	ctx := context.Background()

	q, err := svc.CreateQuote(ctx, ownerA, quoteRequest())
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}

	if _, err := svc.GetQuote(ctx, ownerB, q.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("cross-tenant read must look like not-found, got %v", err)
	}
	if _, err := svc.TransitionQuote(ctx, ownerB, q.ID, domain.QuoteSent); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("cross-tenant transition must look like not-found, got %v", err)
	}
	if _, err := svc.ConvertQuote(ctx, ownerB, q.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("cross-tenant conversion must look like not-found, got %v", err)
	}
}

func TestDeleteGuards(t *testing.T) {
	svc, _ := newTestService()
	owner := uuid.New()
	ctx := context.Background()

	q, err := svc.CreateQuote(ctx, owner, quoteRequest())
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}
	if _, err := svc.TransitionQuote(ctx, owner, q.ID, domain.QuoteSent); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := svc.DeleteQuote(ctx, owner, q.ID); !apperr.IsKind(err, apperr.KindInvalidState) {
		t.Fatalf("sent quote must not be deletable, got %v", err)
	}
	if _, err := svc.TransitionQuote(ctx, owner, q.ID, domain.QuoteDeclined); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if err := svc.DeleteQuote(ctx, owner, q.ID); err != nil {
		t.Fatalf("declined quote must be deletable: %v", err)
	}
}

func approvedQuote(t *testing.T, svc *Service, owner uuid.UUID) *domain.Quote {
	t.Helper()
	ctx := context.Background()
	q, err := svc.CreateQuote(ctx, owner, quoteRequest())
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}
	if _, err := svc.TransitionQuote(ctx, owner, q.ID, domain.QuoteSent); err != nil {
		t.Fatalf("send: %v", err)
	}
	q, err = svc.TransitionQuote(ctx, owner, q.ID, domain.QuoteApproved)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	return q
}

func TestConvertQuote_RoundTrip(t *testing.T) {
	svc, store := newTestService()
	owner := uuid.New()
	ctx := context.Background()

	q := approvedQuote(t, svc, owner)

	inv, err := svc.ConvertQuote(ctx, owner, q.ID)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	full, _ := store.GetQuote(ctx, owner, q.ID)
	if !inv.Subtotal.Equal(full.Subtotal) || !inv.TaxAmount.Equal(full.TaxAmount) || !inv.TotalAmount.Equal(full.TotalAmount) {
		t.Fatalf("invoice totals must equal quote totals: %s/%s/%s vs %s/%s/%s",
			inv.Subtotal, inv.TaxAmount, inv.TotalAmount, full.Subtotal, full.TaxAmount, full.TotalAmount)
	}
	if len(inv.Items) != len(full.Items) {
		t.Fatalf("expected %d items, got %d", len(full.Items), len(inv.Items))
	}
	for i := range inv.Items {
		src := full.Items[i]
		dst := inv.Items[i]
		if dst.Description != src.Description || !dst.Quantity.Equal(src.Quantity) ||
			!dst.UnitPrice.Equal(src.UnitPrice) || dst.SortOrder != src.SortOrder {
			t.Fatalf("item %d not copied verbatim: %+v vs %+v", i, dst, src)
		}
		if dst.ID == src.ID {
			t.Fatalf("copied items must have fresh identifiers")
		}
	}

	if inv.Status != domain.InvoiceDraft {
		t.Fatalf("converted invoice must start in draft, got %s", inv.Status)
	}
	if inv.SourceQuoteID == nil || *inv.SourceQuoteID != q.ID {
		t.Fatalf("invoice must reference its source quote")
	}
	if !inv.DueDate.Equal(inv.IssueDate.AddDate(0, 0, 30)) {
		t.Fatalf("expected default payment term of 30 days, got %s", inv.DueDate)
	}

	// Conversion leaves the quote's status alone.
	if full.Status != domain.QuoteApproved {
		t.Fatalf("conversion must not change quote status, got %s", full.Status)
	}
}

func TestConvertQuote_Preconditions(t *testing.T) {
	svc, _ := newTestService()
	owner := uuid.New()
	ctx := context.Background()

	// Declined quote cannot convert.
	q, err := svc.CreateQuote(ctx, owner, quoteRequest())
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}
	if _, err := svc.TransitionQuote(ctx, owner, q.ID, domain.QuoteDeclined); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if _, err := svc.ConvertQuote(ctx, owner, q.ID); !apperr.IsKind(err, apperr.KindInvalidState) {
		t.Fatalf("expected invalid-state for declined quote, got %v", err)
	}

	// Second conversion fails with already-converted.
	q2 := approvedQuote(t, svc, owner)
	if _, err := svc.ConvertQuote(ctx, owner, q2.ID); err != nil {
		t.Fatalf("first conversion: %v", err)
	}
	if _, err := svc.ConvertQuote(ctx, owner, q2.ID); !apperr.IsKind(err, apperr.KindAlreadyConverted) {
		t.Fatalf("expected already-converted, got %v", err)
	}
}

func TestTransitionInvoice_StampsPaidAt(t *testing.T) {
	svc, _ := newTestService()
	owner := uuid.New()
	ctx := context.Background()

	q := approvedQuote(t, svc, owner)
	inv, err := svc.ConvertQuote(ctx, owner, q.ID)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	inv, err = svc.TransitionInvoice(ctx, owner, inv.ID, domain.InvoiceSent)
	if err != nil {
		t.Fatalf("send invoice: %v", err)
	}
	if inv.SentAt == nil {
		t.Fatalf("sending must stamp sent_at")
	}

	inv, err = svc.TransitionInvoice(ctx, owner, inv.ID, domain.InvoicePaid)
	if err != nil {
		t.Fatalf("pay invoice: %v", err)
	}
	if inv.PaidAt == nil {
		t.Fatalf("paying must stamp paid_at")
	}

	if _, err := svc.TransitionInvoice(ctx, owner, inv.ID, domain.InvoiceCancelled); !apperr.IsKind(err, apperr.KindInvalidTransition) {
		t.Fatalf("paid is terminal, got %v", err)
	}
}

func TestSweeps(t *testing.T) {
	svc, store := newTestService()
	owner := uuid.New()
	ctx := context.Background()

	// An invoice due long ago, sent.
	q := approvedQuote(t, svc, owner)
	inv, err := svc.ConvertQuote(ctx, owner, q.ID)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if _, err := svc.TransitionInvoice(ctx, owner, inv.ID, domain.InvoiceSent); err != nil {
		t.Fatalf("send invoice: %v", err)
	}

	// Pretend the sweep runs well past the due date.
	svc.now = func() time.Time { return inv.DueDate.AddDate(0, 2, 0) }

	n, err := svc.SweepOverdueInvoices(ctx)
	if err != nil {
		t.Fatalf("sweep overdue: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 invoice marked overdue, got %d", n)
	}
	got, _ := store.GetInvoice(ctx, owner, inv.ID)
	if got.Status != domain.InvoiceOverdue {
		t.Fatalf("expected overdue status, got %s", got.Status)
	}

	// Overdue invoices can still be paid.
	if _, err := svc.TransitionInvoice(ctx, owner, inv.ID, domain.InvoicePaid); err != nil {
		t.Fatalf("pay overdue invoice: %v", err)
	}

	// Sent quote past validity expires.
	q2, err := svc.CreateQuote(ctx, owner, quoteRequest())
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}
	if _, err := svc.TransitionQuote(ctx, owner, q2.ID, domain.QuoteSent); err != nil {
		t.Fatalf("send quote: %v", err)
	}
	svc.now = func() time.Time { return q2.ValidUntil.AddDate(0, 1, 0) }

	n, err = svc.SweepExpiredQuotes(ctx)
	if err != nil {
		t.Fatalf("sweep expired: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 quote expired, got %d", n)
	}
	gotQ, _ := store.GetQuote(ctx, owner, q2.ID)
	if gotQ.Status != domain.QuoteExpired {
		t.Fatalf("expected expired status, got %s", gotQ.Status)
	}

	// Expired quotes can be resent.
	if _, err := svc.TransitionQuote(ctx, owner, q2.ID, domain.QuoteSent); err != nil {
		t.Fatalf("resend expired quote: %v", err)
	}
}

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"invoicing_backend/internal/invoicing/domain"
	"invoicing_backend/internal/invoicing/repository"
	"invoicing_backend/platform/apperr"

	"github.com/google/uuid"
)

// fakeStore is an in-memory Store with the same contract as the
// PostgreSQL repository: owner-scoped lookups, serialized number
// allocation, and a uniqueness guarantee on the source quote reference.
type fakeStore struct {
	mu       sync.Mutex
	quotes   map[uuid.UUID]domain.Quote
	invoices map[uuid.UUID]domain.Invoice
	counters map[string]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		quotes:   make(map[uuid.UUID]domain.Quote),
		invoices: make(map[uuid.UUID]domain.Invoice),
		counters: make(map[string]int64),
	}
}

func (f *fakeStore) allocate(ownerID uuid.UUID, docType domain.DocType, issueDate time.Time) string {
	year := issueDate.Year()
	key := fmt.Sprintf("%s/%s/%d", ownerID, docType, year)
	f.counters[key]++
	return domain.FormatNumber(docType, year, f.counters[key])
}

func copyQuote(q domain.Quote) domain.Quote {
	q.Items = append([]domain.LineItem(nil), q.Items...)
	return q
}

func copyInvoice(inv domain.Invoice) domain.Invoice {
	inv.Items = append([]domain.LineItem(nil), inv.Items...)
	return inv
}

func (f *fakeStore) CreateQuote(_ context.Context, q *domain.Quote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	q.QuoteNumber = f.allocate(q.OwnerID, domain.DocTypeQuote, q.IssueDate)
	f.quotes[q.ID] = copyQuote(*q)
	return nil
}

func (f *fakeStore) GetQuote(_ context.Context, ownerID, id uuid.UUID) (*domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.quotes[id]
	if !ok || q.OwnerID != ownerID {
		return nil, apperr.NotFound("quote not found")
	}
	out := copyQuote(q)
	return &out, nil
}

func (f *fakeStore) ListQuotes(_ context.Context, params repository.ListParams) (*repository.QuoteListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []domain.Quote
	for _, q := range f.quotes {
		if q.OwnerID != params.OwnerID {
			continue
		}
		if params.Status != nil && string(q.Status) != *params.Status {
			continue
		}
		items = append(items, copyQuote(q))
	}
	return &repository.QuoteListResult{Items: items, Total: len(items), Page: 1, PageSize: len(items)}, nil
}

func (f *fakeStore) UpdateQuote(_ context.Context, q *domain.Quote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.quotes[q.ID]
	if !ok || stored.OwnerID != q.OwnerID {
		return apperr.NotFound("quote not found")
	}
	f.quotes[q.ID] = copyQuote(*q)
	return nil
}

func (f *fakeStore) UpdateQuoteStatus(_ context.Context, ownerID, id uuid.UUID, status domain.Status, sentAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.quotes[id]
	if !ok || q.OwnerID != ownerID {
		return apperr.NotFound("quote not found")
	}
	q.Status = status
	if sentAt != nil {
		q.SentAt = sentAt
	}
	f.quotes[id] = q
	return nil
}

func (f *fakeStore) DeleteQuote(_ context.Context, ownerID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.quotes[id]
	if !ok || q.OwnerID != ownerID {
		return apperr.NotFound("quote not found")
	}
	delete(f.quotes, id)
	return nil
}

func (f *fakeStore) ExpireQuotes(_ context.Context, asOf time.Time) ([]domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var expired []domain.Quote
	for id, q := range f.quotes {
		if q.Status == domain.QuoteSent && q.ValidUntil.Before(asOf) {
			q.Status = domain.QuoteExpired
			f.quotes[id] = q
			expired = append(expired, copyQuote(q))
		}
	}
	return expired, nil
}

func (f *fakeStore) ListQuotesExpiringWithin(_ context.Context, _ time.Time, _ int) ([]repository.ReminderRow, error) {
	return nil, nil
}

func (f *fakeStore) CreateInvoice(_ context.Context, inv *domain.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if inv.SourceQuoteID != nil {
		for _, existing := range f.invoices {
			if existing.SourceQuoteID != nil && *existing.SourceQuoteID == *inv.SourceQuoteID {
				return apperr.AlreadyConverted("quote has already been converted to an invoice")
			}
		}
	}
	inv.InvoiceNumber = f.allocate(inv.OwnerID, domain.DocTypeInvoice, inv.IssueDate)
	f.invoices[inv.ID] = copyInvoice(*inv)
	return nil
}

func (f *fakeStore) GetInvoice(_ context.Context, ownerID, id uuid.UUID) (*domain.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id]
	if !ok || inv.OwnerID != ownerID {
		return nil, apperr.NotFound("invoice not found")
	}
	out := copyInvoice(inv)
	return &out, nil
}

func (f *fakeStore) ListInvoices(_ context.Context, params repository.ListParams) (*repository.InvoiceListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []domain.Invoice
	for _, inv := range f.invoices {
		if inv.OwnerID != params.OwnerID {
			continue
		}
		if params.Status != nil && string(inv.Status) != *params.Status {
			continue
		}
		items = append(items, copyInvoice(inv))
	}
	return &repository.InvoiceListResult{Items: items, Total: len(items), Page: 1, PageSize: len(items)}, nil
}

func (f *fakeStore) UpdateInvoice(_ context.Context, inv *domain.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.invoices[inv.ID]
	if !ok || stored.OwnerID != inv.OwnerID {
		return apperr.NotFound("invoice not found")
	}
	f.invoices[inv.ID] = copyInvoice(*inv)
	return nil
}

func (f *fakeStore) UpdateInvoiceStatus(_ context.Context, ownerID, id uuid.UUID, status domain.Status, sentAt, paidAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id]
	if !ok || inv.OwnerID != ownerID {
		return apperr.NotFound("invoice not found")
	}
	inv.Status = status
	if sentAt != nil {
		inv.SentAt = sentAt
	}
	if paidAt != nil {
		inv.PaidAt = paidAt
	}
	f.invoices[id] = inv
	return nil
}

func (f *fakeStore) DeleteInvoice(_ context.Context, ownerID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id]
	if !ok || inv.OwnerID != ownerID {
		return apperr.NotFound("invoice not found")
	}
	delete(f.invoices, id)
	return nil
}

func (f *fakeStore) InvoiceIDBySourceQuote(_ context.Context, ownerID, quoteID uuid.UUID) (*uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, inv := range f.invoices {
		if inv.OwnerID == ownerID && inv.SourceQuoteID != nil && *inv.SourceQuoteID == quoteID {
			found := id
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) MarkOverdueInvoices(_ context.Context, asOf time.Time) ([]domain.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var overdue []domain.Invoice
	for id, inv := range f.invoices {
		if (inv.Status == domain.InvoiceSent || inv.Status == domain.InvoiceViewed) && inv.DueDate.Before(asOf) {
			inv.Status = domain.InvoiceOverdue
			f.invoices[id] = inv
			overdue = append(overdue, copyInvoice(inv))
		}
	}
	return overdue, nil
}

func (f *fakeStore) ListInvoicesDueWithin(_ context.Context, _ time.Time, _ int) ([]repository.ReminderRow, error) {
	return nil, nil
}

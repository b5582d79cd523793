package service

import (
	"context"

	"invoicing_backend/internal/events"
	"invoicing_backend/internal/invoicing/domain"
	"invoicing_backend/platform/apperr"

	"github.com/google/uuid"
)

// ConvertQuote turns an approved quote into a draft invoice. Line items
// are copied verbatim with fresh identifiers, so the invoice's totals
// equal the quote's at the moment of conversion; the two documents are
// independent afterwards. The quote's own status is left untouched: the
// source quote link on the invoice is the authoritative signal that a
// conversion happened.
//
// The invoice insert runs in one transaction and the unique constraint
// on the source quote reference backstops concurrent conversions, so a
// second attempt fails with an already-converted error and leaves
// nothing behind.
func (s *Service) ConvertQuote(ctx context.Context, ownerID, quoteID uuid.UUID) (*domain.Invoice, error) {
	q, err := s.store.GetQuote(ctx, ownerID, quoteID)
	if err != nil {
		return nil, err
	}
	if q.OwnerID != ownerID {
		return nil, apperr.Ownership("quote not found")
	}
	if q.Status != domain.QuoteApproved {
		return nil, apperr.InvalidState("only approved quotes can be converted to an invoice")
	}
	if len(q.Items) == 0 {
		return nil, apperr.InvalidState("cannot convert a quote without line items")
	}

	existing, err := s.store.InvoiceIDBySourceQuote(ctx, ownerID, quoteID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.AlreadyConverted("quote has already been converted to an invoice")
	}

	now := s.now()
	issueDate := s.today()
	sourceID := q.ID

	inv := &domain.Invoice{
		ID:            uuid.New(),
		OwnerID:       q.OwnerID,
		ClientID:      q.ClientID,
		Status:        domain.InvoiceDraft,
		Title:         q.Title,
		Notes:         q.Notes,
		Terms:         q.Terms,
		IssueDate:     issueDate,
		DueDate:       issueDate.AddDate(0, 0, s.cfg.GetPaymentTermDays()),
		TaxRate:       q.TaxRate,
		SourceQuoteID: &sourceID,
		Items:         copyItems(q.Items),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	inv.Recalculate()

	if err := s.store.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.QuoteConverted{
			BaseEvent:     events.NewBaseEvent(),
			QuoteID:       q.ID,
			InvoiceID:     inv.ID,
			OwnerID:       q.OwnerID,
			QuoteNumber:   q.QuoteNumber,
			InvoiceNumber: inv.InvoiceNumber,
			TotalAmount:   inv.TotalAmount.String(),
		})
	}
	return inv, nil
}

func copyItems(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	for i, li := range items {
		li.ID = uuid.New()
		out[i] = li
	}
	return out
}

package service

import (
	"context"

	"invoicing_backend/internal/events"
)

// SweepOverdueInvoices promotes awaiting-payment invoices past their due
// date to overdue across all owners, publishing an event per promotion.
// Called by the scheduler; reads never trigger this mutation.
func (s *Service) SweepOverdueInvoices(ctx context.Context) (int, error) {
	overdue, err := s.store.MarkOverdueInvoices(ctx, s.today())
	if err != nil {
		return 0, err
	}

	for _, inv := range overdue {
		if s.bus == nil {
			break
		}
		s.bus.Publish(ctx, events.InvoiceOverdue{
			BaseEvent:     events.NewBaseEvent(),
			InvoiceID:     inv.ID,
			OwnerID:       inv.OwnerID,
			ClientID:      inv.ClientID,
			InvoiceNumber: inv.InvoiceNumber,
			TotalAmount:   inv.TotalAmount.StringFixed(2),
			DueDate:       inv.DueDate,
		})
	}

	if s.log != nil && len(overdue) > 0 {
		s.log.Info("marked invoices overdue", "count", len(overdue))
	}
	return len(overdue), nil
}

// SweepExpiredQuotes promotes sent quotes past their validity date to
// expired across all owners.
func (s *Service) SweepExpiredQuotes(ctx context.Context) (int, error) {
	expired, err := s.store.ExpireQuotes(ctx, s.today())
	if err != nil {
		return 0, err
	}

	for _, q := range expired {
		if s.bus == nil {
			break
		}
		s.bus.Publish(ctx, events.QuoteStatusChanged{
			BaseEvent:   events.NewBaseEvent(),
			QuoteID:     q.ID,
			OwnerID:     q.OwnerID,
			QuoteNumber: q.QuoteNumber,
			OldStatus:   "sent",
			NewStatus:   "expired",
		})
	}

	if s.log != nil && len(expired) > 0 {
		s.log.Info("marked quotes expired", "count", len(expired))
	}
	return len(expired), nil
}

// DispatchDueReminders publishes reminder events for invoices approaching
// their due date and for sent quotes approaching their validity date. The
// lookahead window comes from the reminder lead-days setting.
func (s *Service) DispatchDueReminders(ctx context.Context) (int, error) {
	if s.bus == nil {
		return 0, nil
	}

	lead := s.cfg.GetReminderLeadDays()
	asOf := s.today()

	invoices, err := s.store.ListInvoicesDueWithin(ctx, asOf, lead)
	if err != nil {
		return 0, err
	}
	for _, row := range invoices {
		s.bus.Publish(ctx, events.InvoiceDueSoon{
			BaseEvent:     events.NewBaseEvent(),
			InvoiceID:     row.DocumentID,
			OwnerID:       row.OwnerID,
			ClientID:      row.ClientID,
			InvoiceNumber: row.Number,
			ClientEmail:   row.ClientEmail,
			ClientName:    row.ClientName,
			TotalAmount:   row.TotalAmount,
			DueDate:       row.Date,
		})
	}

	quotes, err := s.store.ListQuotesExpiringWithin(ctx, asOf, lead)
	if err != nil {
		return 0, err
	}
	for _, row := range quotes {
		s.bus.Publish(ctx, events.QuoteExpiringSoon{
			BaseEvent:   events.NewBaseEvent(),
			QuoteID:     row.DocumentID,
			OwnerID:     row.OwnerID,
			ClientID:    row.ClientID,
			QuoteNumber: row.Number,
			ClientEmail: row.ClientEmail,
			ClientName:  row.ClientName,
			ValidUntil:  row.Date,
		})
	}

	count := len(invoices) + len(quotes)
	if s.log != nil && count > 0 {
		s.log.Info("dispatched due reminders", "invoices", len(invoices), "quotes", len(quotes))
	}
	return count, nil
}

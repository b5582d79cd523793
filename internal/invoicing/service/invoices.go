package service

import (
	"context"
	"fmt"
	"time"

	"invoicing_backend/internal/events"
	"invoicing_backend/internal/invoicing/domain"
	"invoicing_backend/internal/invoicing/repository"
	"invoicing_backend/internal/invoicing/transport"
	"invoicing_backend/platform/apperr"

	"github.com/google/uuid"
)

// CreateInvoice creates a draft invoice directly, without a source
// quote.
func (s *Service) CreateInvoice(ctx context.Context, ownerID uuid.UUID, req transport.CreateInvoiceRequest) (*domain.Invoice, error) {
	clientID, err := parseClientID(req.ClientID)
	if err != nil {
		return nil, err
	}
	issueDate, err := parseDate(req.IssueDate, s.today())
	if err != nil {
		return nil, err
	}
	dueDate, err := parseDate(req.DueDate, issueDate.AddDate(0, 0, s.cfg.GetPaymentTermDays()))
	if err != nil {
		return nil, err
	}
	if dueDate.Before(issueDate) {
		return nil, apperr.Validation("due date cannot be before issue date")
	}
	taxRate, err := parseTaxRate(req.TaxRate)
	if err != nil {
		return nil, err
	}
	items, err := parseItems(req.Items)
	if err != nil {
		return nil, err
	}

	now := s.now()
	inv := &domain.Invoice{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		ClientID:  clientID,
		Status:    domain.InvoiceDraft,
		Title:     req.Title,
		Notes:     req.Notes,
		Terms:     req.Terms,
		IssueDate: issueDate,
		DueDate:   dueDate,
		TaxRate:   taxRate,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
	inv.Recalculate()

	if err := s.store.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// GetInvoice retrieves an invoice with its line items.
func (s *Service) GetInvoice(ctx context.Context, ownerID, id uuid.UUID) (*domain.Invoice, error) {
	return s.store.GetInvoice(ctx, ownerID, id)
}

// ListInvoices retrieves invoices matching the query.
func (s *Service) ListInvoices(ctx context.Context, ownerID uuid.UUID, query transport.ListQuery) (*repository.InvoiceListResult, error) {
	params, err := listParams(domain.DocTypeInvoice, ownerID, query)
	if err != nil {
		return nil, err
	}
	return s.store.ListInvoices(ctx, params)
}

// UpdateInvoice replaces a draft invoice's header and line items. Totals
// are recomputed as the final step before persisting.
func (s *Service) UpdateInvoice(ctx context.Context, ownerID, id uuid.UUID, req transport.UpdateInvoiceRequest) (*domain.Invoice, error) {
	inv, err := s.store.GetInvoice(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanEdit(inv.Status) {
		return nil, apperr.EditNotAllowed(fmt.Sprintf("invoice in status %q cannot be edited", inv.Status))
	}

	clientID, err := parseClientID(req.ClientID)
	if err != nil {
		return nil, err
	}
	issueDate, err := parseDate(req.IssueDate, inv.IssueDate)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseDate(req.DueDate, inv.DueDate)
	if err != nil {
		return nil, err
	}
	if dueDate.Before(issueDate) {
		return nil, apperr.Validation("due date cannot be before issue date")
	}
	taxRate, err := parseTaxRate(req.TaxRate)
	if err != nil {
		return nil, err
	}
	items, err := parseItems(req.Items)
	if err != nil {
		return nil, err
	}

	inv.ClientID = clientID
	inv.Title = req.Title
	inv.Notes = req.Notes
	inv.Terms = req.Terms
	inv.IssueDate = issueDate
	inv.DueDate = dueDate
	inv.TaxRate = taxRate
	inv.Items = items
	inv.UpdatedAt = s.now()
	inv.Recalculate()

	if err := s.store.UpdateInvoice(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// AddInvoiceItem appends a line item to a draft invoice and recomputes
// its totals.
func (s *Service) AddInvoiceItem(ctx context.Context, ownerID, invoiceID uuid.UUID, req transport.LineItemRequest) (*domain.Invoice, error) {
	return s.mutateInvoiceItems(ctx, ownerID, invoiceID, func(inv *domain.Invoice) error {
		items, err := parseItems([]transport.LineItemRequest{req})
		if err != nil {
			return err
		}
		item := items[0]
		if req.SortOrder == nil {
			item.SortOrder = len(inv.Items)
		}
		inv.Items = append(inv.Items, item)
		return nil
	})
}

// UpdateInvoiceItem replaces a single line item on a draft invoice and
// recomputes its totals.
func (s *Service) UpdateInvoiceItem(ctx context.Context, ownerID, invoiceID, itemID uuid.UUID, req transport.LineItemRequest) (*domain.Invoice, error) {
	return s.mutateInvoiceItems(ctx, ownerID, invoiceID, func(inv *domain.Invoice) error {
		for i := range inv.Items {
			if inv.Items[i].ID != itemID {
				continue
			}
			items, err := parseItems([]transport.LineItemRequest{req})
			if err != nil {
				return err
			}
			item := items[0]
			item.ID = itemID
			if req.SortOrder == nil {
				item.SortOrder = inv.Items[i].SortOrder
			}
			inv.Items[i] = item
			return nil
		}
		return apperr.NotFound("line item not found")
	})
}

// DeleteInvoiceItem removes a line item from a draft invoice and
// recomputes its totals.
func (s *Service) DeleteInvoiceItem(ctx context.Context, ownerID, invoiceID, itemID uuid.UUID) (*domain.Invoice, error) {
	return s.mutateInvoiceItems(ctx, ownerID, invoiceID, func(inv *domain.Invoice) error {
		for i := range inv.Items {
			if inv.Items[i].ID == itemID {
				inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
				return nil
			}
		}
		return apperr.NotFound("line item not found")
	})
}

func (s *Service) mutateInvoiceItems(ctx context.Context, ownerID, invoiceID uuid.UUID, mutate func(inv *domain.Invoice) error) (*domain.Invoice, error) {
	inv, err := s.store.GetInvoice(ctx, ownerID, invoiceID)
	if err != nil {
		return nil, err
	}
	if !domain.CanEdit(inv.Status) {
		return nil, apperr.EditNotAllowed(fmt.Sprintf("invoice in status %q cannot be edited", inv.Status))
	}

	if err := mutate(inv); err != nil {
		return nil, err
	}

	inv.UpdatedAt = s.now()
	inv.Recalculate()

	if err := s.store.UpdateInvoice(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// TransitionInvoice moves an invoice to a new status, stamping sent_at
// and paid_at when it goes out or gets paid.
func (s *Service) TransitionInvoice(ctx context.Context, ownerID, id uuid.UUID, target domain.Status) (*domain.Invoice, error) {
	inv, err := s.store.GetInvoice(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if inv.OwnerID != ownerID {
		return nil, apperr.Ownership("invoice not found")
	}
	if err := domain.CheckTransition(domain.DocTypeInvoice, inv.Status, target); err != nil {
		return nil, err
	}

	var sentAt, paidAt *time.Time
	now := s.now()
	switch target {
	case domain.InvoiceSent:
		sentAt = &now
	case domain.InvoicePaid:
		paidAt = &now
	}

	if err := s.store.UpdateInvoiceStatus(ctx, ownerID, id, target, sentAt, paidAt); err != nil {
		return nil, err
	}

	oldStatus := inv.Status
	inv.Status = target
	if sentAt != nil {
		inv.SentAt = sentAt
	}
	if paidAt != nil {
		inv.PaidAt = paidAt
	}
	inv.UpdatedAt = now

	s.publishInvoiceTransition(ctx, inv, oldStatus)
	return inv, nil
}

func (s *Service) publishInvoiceTransition(ctx context.Context, inv *domain.Invoice, oldStatus domain.Status) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.InvoiceStatusChanged{
		BaseEvent:     events.NewBaseEvent(),
		InvoiceID:     inv.ID,
		OwnerID:       inv.OwnerID,
		InvoiceNumber: inv.InvoiceNumber,
		OldStatus:     string(oldStatus),
		NewStatus:     string(inv.Status),
	})

	switch inv.Status {
	case domain.InvoiceSent:
		s.bus.Publish(ctx, events.InvoiceSent{
			BaseEvent:     events.NewBaseEvent(),
			InvoiceID:     inv.ID,
			OwnerID:       inv.OwnerID,
			ClientID:      inv.ClientID,
			InvoiceNumber: inv.InvoiceNumber,
			TotalAmount:   inv.TotalAmount.String(),
			DueDate:       inv.DueDate,
		})
	case domain.InvoicePaid:
		s.bus.Publish(ctx, events.InvoicePaid{
			BaseEvent:     events.NewBaseEvent(),
			InvoiceID:     inv.ID,
			OwnerID:       inv.OwnerID,
			InvoiceNumber: inv.InvoiceNumber,
			TotalAmount:   inv.TotalAmount.String(),
			PaidAt:        *inv.PaidAt,
		})
	}
}

// DeleteInvoice removes an invoice. Only draft invoices may be deleted;
// anything sent must be cancelled instead.
func (s *Service) DeleteInvoice(ctx context.Context, ownerID, id uuid.UUID) error {
	inv, err := s.store.GetInvoice(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if !domain.CanDeleteInvoice(inv.Status) {
		return apperr.InvalidState(fmt.Sprintf("invoice in status %q cannot be deleted", inv.Status))
	}
	return s.store.DeleteInvoice(ctx, ownerID, id)
}

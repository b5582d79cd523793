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
	"invoicing_backend/platform/money"

	"github.com/google/uuid"
)

func parseItems(reqs []transport.LineItemRequest) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0, len(reqs))
	for i, req := range reqs {
		qty, err := money.Parse(req.Quantity)
		if err != nil {
			return nil, apperr.Validation("invalid line item quantity")
		}
		price, err := money.Parse(req.UnitPrice)
		if err != nil {
			return nil, apperr.Validation("invalid line item unit price")
		}

		sortOrder := i
		if req.SortOrder != nil {
			sortOrder = *req.SortOrder
		}

		items = append(items, domain.LineItem{
			ID:          uuid.New(),
			Description: req.Description,
			Quantity:    qty,
			UnitPrice:   price,
			SortOrder:   sortOrder,
		})
	}
	if err := domain.ValidateLineItems(items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateQuote creates a draft quote with an auto-generated sequence
// number. Totals are derived from the line items before persisting.
func (s *Service) CreateQuote(ctx context.Context, ownerID uuid.UUID, req transport.CreateQuoteRequest) (*domain.Quote, error) {
	clientID, err := parseClientID(req.ClientID)
	if err != nil {
		return nil, err
	}
	issueDate, err := parseDate(req.IssueDate, s.today())
	if err != nil {
		return nil, err
	}
	validUntil, err := parseDate(req.ValidUntil, issueDate.AddDate(0, 0, s.cfg.GetQuoteValidityDays()))
	if err != nil {
		return nil, err
	}
	if validUntil.Before(issueDate) {
		return nil, apperr.Validation("valid until date cannot be before issue date")
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
	q := &domain.Quote{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		ClientID:   clientID,
		Status:     domain.QuoteDraft,
		Title:      req.Title,
		Notes:      req.Notes,
		Terms:      req.Terms,
		IssueDate:  issueDate,
		ValidUntil: validUntil,
		TaxRate:    taxRate,
		Items:      items,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	q.Recalculate()

	if err := s.store.CreateQuote(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// GetQuote retrieves a quote with its line items.
func (s *Service) GetQuote(ctx context.Context, ownerID, id uuid.UUID) (*domain.Quote, error) {
	return s.store.GetQuote(ctx, ownerID, id)
}

// ListQuotes retrieves quotes matching the query.
func (s *Service) ListQuotes(ctx context.Context, ownerID uuid.UUID, query transport.ListQuery) (*repository.QuoteListResult, error) {
	params, err := listParams(domain.DocTypeQuote, ownerID, query)
	if err != nil {
		return nil, err
	}
	return s.store.ListQuotes(ctx, params)
}

func listParams(docType domain.DocType, ownerID uuid.UUID, query transport.ListQuery) (repository.ListParams, error) {
	params := repository.ListParams{
		OwnerID:  ownerID,
		Search:   query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.ClientID != "" {
		clientID, err := parseClientID(query.ClientID)
		if err != nil {
			return params, err
		}
		params.ClientID = &clientID
	}
	if query.Status != "" {
		if !domain.ValidStatus(docType, domain.Status(query.Status)) {
			return params, apperr.Validation(fmt.Sprintf("unknown %s status %q", docType, query.Status))
		}
		params.Status = &query.Status
	}
	return params, nil
}

// UpdateQuote replaces a draft quote's header and line items. Totals are
// recomputed as the final step before persisting.
func (s *Service) UpdateQuote(ctx context.Context, ownerID, id uuid.UUID, req transport.UpdateQuoteRequest) (*domain.Quote, error) {
	q, err := s.store.GetQuote(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanEdit(q.Status) {
		return nil, apperr.EditNotAllowed(fmt.Sprintf("quote in status %q cannot be edited", q.Status))
	}

	clientID, err := parseClientID(req.ClientID)
	if err != nil {
		return nil, err
	}
	issueDate, err := parseDate(req.IssueDate, q.IssueDate)
	if err != nil {
		return nil, err
	}
	validUntil, err := parseDate(req.ValidUntil, q.ValidUntil)
	if err != nil {
		return nil, err
	}
	if validUntil.Before(issueDate) {
		return nil, apperr.Validation("valid until date cannot be before issue date")
	}
	taxRate, err := parseTaxRate(req.TaxRate)
	if err != nil {
		return nil, err
	}
	items, err := parseItems(req.Items)
	if err != nil {
		return nil, err
	}

	q.ClientID = clientID
	q.Title = req.Title
	q.Notes = req.Notes
	q.Terms = req.Terms
	q.IssueDate = issueDate
	q.ValidUntil = validUntil
	q.TaxRate = taxRate
	q.Items = items
	q.UpdatedAt = s.now()
	q.Recalculate()

	if err := s.store.UpdateQuote(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// AddQuoteItem appends a line item to a draft quote and recomputes its
// totals.
func (s *Service) AddQuoteItem(ctx context.Context, ownerID, quoteID uuid.UUID, req transport.LineItemRequest) (*domain.Quote, error) {
	return s.mutateQuoteItems(ctx, ownerID, quoteID, func(q *domain.Quote) error {
		items, err := parseItems([]transport.LineItemRequest{req})
		if err != nil {
			return err
		}
		item := items[0]
		if req.SortOrder == nil {
			item.SortOrder = len(q.Items)
		}
		q.Items = append(q.Items, item)
		return nil
	})
}

// UpdateQuoteItem replaces a single line item on a draft quote and
// recomputes its totals.
func (s *Service) UpdateQuoteItem(ctx context.Context, ownerID, quoteID, itemID uuid.UUID, req transport.LineItemRequest) (*domain.Quote, error) {
	return s.mutateQuoteItems(ctx, ownerID, quoteID, func(q *domain.Quote) error {
		for i := range q.Items {
			if q.Items[i].ID != itemID {
				continue
			}
			items, err := parseItems([]transport.LineItemRequest{req})
			if err != nil {
				return err
			}
			item := items[0]
			item.ID = itemID
			if req.SortOrder == nil {
				item.SortOrder = q.Items[i].SortOrder
			}
			q.Items[i] = item
			return nil
		}
		return apperr.NotFound("line item not found")
	})
}

// DeleteQuoteItem removes a line item from a draft quote and recomputes
// its totals.
func (s *Service) DeleteQuoteItem(ctx context.Context, ownerID, quoteID, itemID uuid.UUID) (*domain.Quote, error) {
	return s.mutateQuoteItems(ctx, ownerID, quoteID, func(q *domain.Quote) error {
		for i := range q.Items {
			if q.Items[i].ID == itemID {
				q.Items = append(q.Items[:i], q.Items[i+1:]...)
				return nil
			}
		}
		return apperr.NotFound("line item not found")
	})
}

// mutateQuoteItems loads a quote, applies a line-item mutation under the
// edit guard, and persists with recomputed totals.
func (s *Service) mutateQuoteItems(ctx context.Context, ownerID, quoteID uuid.UUID, mutate func(q *domain.Quote) error) (*domain.Quote, error) {
	q, err := s.store.GetQuote(ctx, ownerID, quoteID)
	if err != nil {
		return nil, err
	}
	if !domain.CanEdit(q.Status) {
		return nil, apperr.EditNotAllowed(fmt.Sprintf("quote in status %q cannot be edited", q.Status))
	}

	if err := mutate(q); err != nil {
		return nil, err
	}

	q.UpdatedAt = s.now()
	q.Recalculate()

	if err := s.store.UpdateQuote(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// TransitionQuote moves a quote to a new status, stamping sent_at when
// it goes out.
func (s *Service) TransitionQuote(ctx context.Context, ownerID, id uuid.UUID, target domain.Status) (*domain.Quote, error) {
	q, err := s.store.GetQuote(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if q.OwnerID != ownerID {
		return nil, apperr.Ownership("quote not found")
	}
	if err := domain.CheckTransition(domain.DocTypeQuote, q.Status, target); err != nil {
		return nil, err
	}

	var sentAt *time.Time
	if target == domain.QuoteSent {
		now := s.now()
		sentAt = &now
	}

	if err := s.store.UpdateQuoteStatus(ctx, ownerID, id, target, sentAt); err != nil {
		return nil, err
	}

	oldStatus := q.Status
	q.Status = target
	if sentAt != nil {
		q.SentAt = sentAt
	}
	q.UpdatedAt = s.now()

	s.publishQuoteTransition(ctx, q, oldStatus)
	return q, nil
}

func (s *Service) publishQuoteTransition(ctx context.Context, q *domain.Quote, oldStatus domain.Status) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.QuoteStatusChanged{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     q.ID,
		OwnerID:     q.OwnerID,
		QuoteNumber: q.QuoteNumber,
		OldStatus:   string(oldStatus),
		NewStatus:   string(q.Status),
	})
	if q.Status == domain.QuoteSent {
		s.bus.Publish(ctx, events.QuoteSent{
			BaseEvent:   events.NewBaseEvent(),
			QuoteID:     q.ID,
			OwnerID:     q.OwnerID,
			ClientID:    q.ClientID,
			QuoteNumber: q.QuoteNumber,
			TotalAmount: q.TotalAmount.StringFixed(2),
			ValidUntil:  q.ValidUntil,
		})
	}
}

// DeleteQuote removes a quote. Only draft and declined quotes may be
// deleted.
func (s *Service) DeleteQuote(ctx context.Context, ownerID, id uuid.UUID) error {
	q, err := s.store.GetQuote(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if !domain.CanDeleteQuote(q.Status) {
		return apperr.InvalidState(fmt.Sprintf("quote in status %q cannot be deleted", q.Status))
	}
	return s.store.DeleteQuote(ctx, ownerID, id)
}

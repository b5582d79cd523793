// Package service implements the invoicing business operations on top of
// a storage interface: document creation and editing with recompute on
// every line-item change, the status transition engine, quote-to-invoice
// conversion, and the date-driven maintenance sweeps.
package service

import (
	"context"
	"time"

	"invoicing_backend/internal/events"
	"invoicing_backend/internal/invoicing/domain"
	"invoicing_backend/internal/invoicing/repository"
	"invoicing_backend/platform/apperr"
	"invoicing_backend/platform/config"
	"invoicing_backend/platform/logger"
	"invoicing_backend/platform/money"

	"github.com/google/uuid"
)

// Store is the persistence surface the service needs. It is implemented
// by repository.Repository; tests substitute an in-memory fake.
type Store interface {
	CreateQuote(ctx context.Context, q *domain.Quote) error
	GetQuote(ctx context.Context, ownerID, id uuid.UUID) (*domain.Quote, error)
	ListQuotes(ctx context.Context, params repository.ListParams) (*repository.QuoteListResult, error)
	UpdateQuote(ctx context.Context, q *domain.Quote) error
	UpdateQuoteStatus(ctx context.Context, ownerID, id uuid.UUID, status domain.Status, sentAt *time.Time) error
	DeleteQuote(ctx context.Context, ownerID, id uuid.UUID) error
	ExpireQuotes(ctx context.Context, asOf time.Time) ([]domain.Quote, error)
	ListQuotesExpiringWithin(ctx context.Context, asOf time.Time, days int) ([]repository.ReminderRow, error)

	CreateInvoice(ctx context.Context, inv *domain.Invoice) error
	GetInvoice(ctx context.Context, ownerID, id uuid.UUID) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, params repository.ListParams) (*repository.InvoiceListResult, error)
	UpdateInvoice(ctx context.Context, inv *domain.Invoice) error
	UpdateInvoiceStatus(ctx context.Context, ownerID, id uuid.UUID, status domain.Status, sentAt, paidAt *time.Time) error
	DeleteInvoice(ctx context.Context, ownerID, id uuid.UUID) error
	InvoiceIDBySourceQuote(ctx context.Context, ownerID, quoteID uuid.UUID) (*uuid.UUID, error)
	MarkOverdueInvoices(ctx context.Context, asOf time.Time) ([]domain.Invoice, error)
	ListInvoicesDueWithin(ctx context.Context, asOf time.Time, days int) ([]repository.ReminderRow, error)
}

// Service orchestrates invoicing operations.
type Service struct {
	store Store
	bus   events.Bus
	log   *logger.Logger
	cfg   config.InvoicingConfig

	// now is swappable in tests
	now func() time.Time
}

// New creates the invoicing service.
func New(store Store, bus events.Bus, log *logger.Logger, cfg config.InvoicingConfig) *Service {
	return &Service{
		store: store,
		bus:   bus,
		log:   log,
		cfg:   cfg,
		now:   time.Now,
	}
}

// today returns the current date truncated to midnight UTC. Dates on
// documents never carry a time of day.
func (s *Service) today() time.Time {
	t := s.now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseDate(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, apperr.Validation("invalid date, expected YYYY-MM-DD")
	}
	return t, nil
}

func parseTaxRate(value string) (money.Amount, error) {
	if value == "" {
		return money.FromInt(0), nil
	}
	rate, err := money.Parse(value)
	if err != nil {
		return money.Amount{}, apperr.Validation("invalid tax rate")
	}
	if err := domain.ValidateTaxRate(rate); err != nil {
		return money.Amount{}, err
	}
	return rate, nil
}

func parseClientID(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid client id")
	}
	return id, nil
}

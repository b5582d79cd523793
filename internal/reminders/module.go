// Package reminders provides event handlers for sending document lifecycle
// emails. The module subscribes to domain events and inverts the dependency:
// the invoicing module never needs to know about email providers or
// templates.
package reminders

import (
	"context"
	"fmt"
	"time"

	"invoicing_backend/internal/email"
	"invoicing_backend/internal/events"
	"invoicing_backend/platform/logger"

	"github.com/google/uuid"
)

// ContactReader resolves a client's name and email address. Events carry
// the client ID only; contact details are looked up at send time so a
// client edit between transition and delivery uses the current address.
type ContactReader interface {
	ClientContact(ctx context.Context, ownerID, clientID uuid.UUID) (name, emailAddr string, err error)
}

// displayDateFormat is the date format used in customer-facing emails.
const displayDateFormat = "02-01-2006"

// Module handles all reminder-related event subscriptions.
type Module struct {
	sender   email.Sender
	contacts ContactReader
	log      *logger.Logger
}

// New creates a new reminders module.
func New(sender email.Sender, contacts ContactReader, log *logger.Logger) *Module {
	return &Module{sender: sender, contacts: contacts, log: log}
}

// Name returns the module name.
func (m *Module) Name() string { return "reminders" }

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.QuoteSent{}.EventName(), m)
	bus.Subscribe(events.InvoiceSent{}.EventName(), m)
	bus.Subscribe(events.InvoiceOverdue{}.EventName(), m)
	bus.Subscribe(events.InvoiceDueSoon{}.EventName(), m)
	bus.Subscribe(events.QuoteExpiringSoon{}.EventName(), m)

	if m.log != nil {
		m.log.Info("reminders module registered event handlers")
	}
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.QuoteSent:
		return m.handleQuoteSent(ctx, e)
	case events.InvoiceSent:
		return m.handleInvoiceSent(ctx, e)
	case events.InvoiceOverdue:
		return m.handleInvoiceOverdue(ctx, e)
	case events.InvoiceDueSoon:
		return m.handleInvoiceDueSoon(ctx, e)
	case events.QuoteExpiringSoon:
		return m.handleQuoteExpiringSoon(ctx, e)
	default:
		if m.log != nil {
			m.log.Warn("unhandled event type", "event", event.EventName())
		}
		return nil
	}
}

func (m *Module) handleQuoteSent(ctx context.Context, e events.QuoteSent) error {
	name, addr, err := m.contacts.ClientContact(ctx, e.OwnerID, e.ClientID)
	if err != nil {
		return fmt.Errorf("resolve contact for quote %s: %w", e.QuoteNumber, err)
	}
	return m.sender.SendQuoteEmail(ctx, addr, name, e.QuoteNumber,
		formatDate(e.ValidUntil), formatAmount(e.TotalAmount))
}

func (m *Module) handleInvoiceSent(ctx context.Context, e events.InvoiceSent) error {
	name, addr, err := m.contacts.ClientContact(ctx, e.OwnerID, e.ClientID)
	if err != nil {
		return fmt.Errorf("resolve contact for invoice %s: %w", e.InvoiceNumber, err)
	}
	return m.sender.SendInvoiceEmail(ctx, addr, name, e.InvoiceNumber,
		formatDate(e.DueDate), formatAmount(e.TotalAmount))
}

func (m *Module) handleInvoiceOverdue(ctx context.Context, e events.InvoiceOverdue) error {
	name, addr, err := m.contacts.ClientContact(ctx, e.OwnerID, e.ClientID)
	if err != nil {
		return fmt.Errorf("resolve contact for invoice %s: %w", e.InvoiceNumber, err)
	}
	return m.sender.SendInvoiceOverdueEmail(ctx, addr, name, e.InvoiceNumber,
		formatDate(e.DueDate), formatAmount(e.TotalAmount))
}

func (m *Module) handleInvoiceDueSoon(ctx context.Context, e events.InvoiceDueSoon) error {
	return m.sender.SendInvoiceDueSoonEmail(ctx, e.ClientEmail, e.ClientName,
		e.InvoiceNumber, formatDate(e.DueDate), formatAmount(e.TotalAmount))
}

func (m *Module) handleQuoteExpiringSoon(ctx context.Context, e events.QuoteExpiringSoon) error {
	return m.sender.SendQuoteExpiringEmail(ctx, e.ClientEmail, e.ClientName,
		e.QuoteNumber, formatDate(e.ValidUntil))
}

func formatDate(t time.Time) string {
	return t.Format(displayDateFormat)
}

func formatAmount(total string) string {
	return "€ " + total
}

var _ events.Handler = (*Module)(nil)

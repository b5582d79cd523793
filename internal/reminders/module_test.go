package reminders

import (
	"context"
	"testing"
	"time"

	"invoicing_backend/internal/events"
	"invoicing_backend/platform/logger"

	"github.com/google/uuid"
)

type sentEmail struct {
	kind       string
	to         string
	clientName string
	number     string
	date       string
	total      string
}

type testSender struct {
	sent []sentEmail
}

func (s *testSender) SendQuoteEmail(_ context.Context, to, name, number, validUntil, total string) error {
	s.sent = append(s.sent, sentEmail{"quote", to, name, number, validUntil, total})
	return nil
}

func (s *testSender) SendQuoteExpiringEmail(_ context.Context, to, name, number, validUntil string) error {
	s.sent = append(s.sent, sentEmail{"quote_expiring", to, name, number, validUntil, ""})
	return nil
}

func (s *testSender) SendInvoiceEmail(_ context.Context, to, name, number, dueDate, total string) error {
	s.sent = append(s.sent, sentEmail{"invoice", to, name, number, dueDate, total})
	return nil
}

func (s *testSender) SendInvoiceDueSoonEmail(_ context.Context, to, name, number, dueDate, total string) error {
	s.sent = append(s.sent, sentEmail{"invoice_due_soon", to, name, number, dueDate, total})
	return nil
}

func (s *testSender) SendInvoiceOverdueEmail(_ context.Context, to, name, number, dueDate, total string) error {
	s.sent = append(s.sent, sentEmail{"invoice_overdue", to, name, number, dueDate, total})
	return nil
}

type testContacts struct {
	name  string
	email string
}

func (c testContacts) ClientContact(_ context.Context, _, _ uuid.UUID) (string, string, error) {
	return c.name, c.email, nil
}

func newTestModule(sender *testSender) *Module {
	return New(sender, testContacts{name: "Acme BV", email: "billing@acme.nl"}, logger.New("development"))
}

func TestHandleInvoiceSentResolvesContactAndSends(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender)

	err := m.Handle(context.Background(), events.InvoiceSent{
		BaseEvent:     events.NewBaseEvent(),
		InvoiceID:     uuid.New(),
		OwnerID:       uuid.New(),
		ClientID:      uuid.New(),
		InvoiceNumber: "INV-2026-0007",
		TotalAmount:   "137.50",
		DueDate:       time.Date(2026, 9, 28, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("handle invoice sent: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sender.sent))
	}
	got := sender.sent[0]
	if got.kind != "invoice" || got.to != "billing@acme.nl" || got.clientName != "Acme BV" {
		t.Fatalf("unexpected email: %+v", got)
	}
	if got.date != "28-09-2026" {
		t.Fatalf("expected formatted due date, got %q", got.date)
	}
	if got.total != "€ 137.50" {
		t.Fatalf("expected formatted total, got %q", got.total)
	}
}

func TestHandleDueSoonUsesContactFromEvent(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender)

	err := m.Handle(context.Background(), events.InvoiceDueSoon{
		BaseEvent:     events.NewBaseEvent(),
		InvoiceID:     uuid.New(),
		OwnerID:       uuid.New(),
		ClientID:      uuid.New(),
		InvoiceNumber: "INV-2026-0008",
		ClientEmail:   "other@client.nl",
		ClientName:    "Other Client",
		TotalAmount:   "99.00",
		DueDate:       time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("handle invoice due soon: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sender.sent))
	}
	got := sender.sent[0]
	if got.kind != "invoice_due_soon" || got.to != "other@client.nl" || got.clientName != "Other Client" {
		t.Fatalf("unexpected email: %+v", got)
	}
}

func TestHandleQuoteExpiringSoon(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender)

	err := m.Handle(context.Background(), events.QuoteExpiringSoon{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     uuid.New(),
		OwnerID:     uuid.New(),
		ClientID:    uuid.New(),
		QuoteNumber: "QT-2026-0012",
		ClientEmail: "billing@acme.nl",
		ClientName:  "Acme BV",
		ValidUntil:  time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("handle quote expiring soon: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0].kind != "quote_expiring" {
		t.Fatalf("unexpected emails: %+v", sender.sent)
	}
	if sender.sent[0].date != "03-09-2026" {
		t.Fatalf("expected formatted valid-until date, got %q", sender.sent[0].date)
	}
}

func TestHandleUnknownEventIsIgnored(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender)

	err := m.Handle(context.Background(), events.UserSignedUp{
		BaseEvent: events.NewBaseEvent(),
		UserID:    uuid.New(),
		Email:     "user@example.com",
	})
	if err != nil {
		t.Fatalf("unknown event should be ignored, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no emails, got %d", len(sender.sent))
	}
}

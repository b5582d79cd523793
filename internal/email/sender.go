// Package email renders and delivers transactional emails for the
// document lifecycle.
package email

import (
	"context"
)

// Sender delivers the transactional emails of the document lifecycle.
type Sender interface {
	SendQuoteEmail(ctx context.Context, toEmail, clientName, quoteNumber, validUntil, total string) error
	SendQuoteExpiringEmail(ctx context.Context, toEmail, clientName, quoteNumber, validUntil string) error
	SendInvoiceEmail(ctx context.Context, toEmail, clientName, invoiceNumber, dueDate, total string) error
	SendInvoiceDueSoonEmail(ctx context.Context, toEmail, clientName, invoiceNumber, dueDate, total string) error
	SendInvoiceOverdueEmail(ctx context.Context, toEmail, clientName, invoiceNumber, dueDate, total string) error
}

// NoopSender discards all emails. Used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendQuoteEmail(ctx context.Context, toEmail, clientName, quoteNumber, validUntil, total string) error {
	return nil
}

func (NoopSender) SendQuoteExpiringEmail(ctx context.Context, toEmail, clientName, quoteNumber, validUntil string) error {
	return nil
}

func (NoopSender) SendInvoiceEmail(ctx context.Context, toEmail, clientName, invoiceNumber, dueDate, total string) error {
	return nil
}

func (NoopSender) SendInvoiceDueSoonEmail(ctx context.Context, toEmail, clientName, invoiceNumber, dueDate, total string) error {
	return nil
}

func (NoopSender) SendInvoiceOverdueEmail(ctx context.Context, toEmail, clientName, invoiceNumber, dueDate, total string) error {
	return nil
}

var _ Sender = NoopSender{}

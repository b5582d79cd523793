package email

import (
	"context"
	"fmt"
	"net"
	"time"

	"invoicing_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection
// via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

// NewSender returns the SMTP sender, or a no-op sender when email delivery
// is disabled.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(cfg)
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendQuoteEmail(ctx context.Context, toEmail, clientName, quoteNumber, validUntil, total string) error {
	subject := fmt.Sprintf(subjectQuoteFmt, quoteNumber)
	content, err := renderEmailTemplate("quote_sent.html", quoteEmailData{
		baseEmailData: baseEmailData{
			Title:   "Uw offerte",
			Heading: "Uw offerte",
		},
		ClientName:  clientName,
		QuoteNumber: quoteNumber,
		ValidUntil:  validUntil,
		Total:       total,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendQuoteExpiringEmail(ctx context.Context, toEmail, clientName, quoteNumber, validUntil string) error {
	subject := fmt.Sprintf(subjectQuoteExpiringFmt, quoteNumber)
	content, err := renderEmailTemplate("quote_expiring.html", quoteEmailData{
		baseEmailData: baseEmailData{
			Title:   "Offerte verloopt binnenkort",
			Heading: "Offerte verloopt binnenkort",
		},
		ClientName:  clientName,
		QuoteNumber: quoteNumber,
		ValidUntil:  validUntil,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendInvoiceEmail(ctx context.Context, toEmail, clientName, invoiceNumber, dueDate, total string) error {
	subject := fmt.Sprintf(subjectInvoiceFmt, invoiceNumber)
	content, err := renderEmailTemplate("invoice_sent.html", invoiceEmailData{
		baseEmailData: baseEmailData{
			Title:   "Uw factuur",
			Heading: "Uw factuur",
		},
		ClientName:    clientName,
		InvoiceNumber: invoiceNumber,
		DueDate:       dueDate,
		Total:         total,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendInvoiceDueSoonEmail(ctx context.Context, toEmail, clientName, invoiceNumber, dueDate, total string) error {
	subject := fmt.Sprintf(subjectInvoiceDueSoonFmt, invoiceNumber)
	content, err := renderEmailTemplate("invoice_due_soon.html", invoiceEmailData{
		baseEmailData: baseEmailData{
			Title:   "Betalingsherinnering",
			Heading: "Factuur vervalt binnenkort",
		},
		ClientName:    clientName,
		InvoiceNumber: invoiceNumber,
		DueDate:       dueDate,
		Total:         total,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendInvoiceOverdueEmail(ctx context.Context, toEmail, clientName, invoiceNumber, dueDate, total string) error {
	subject := fmt.Sprintf(subjectInvoiceOverdueFmt, invoiceNumber)
	content, err := renderEmailTemplate("invoice_overdue.html", invoiceEmailData{
		baseEmailData: baseEmailData{
			Title:   "Betalingsherinnering",
			Heading: "Factuur is vervallen",
		},
		ClientName:    clientName,
		InvoiceNumber: invoiceNumber,
		DueDate:       dueDate,
		Total:         total,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

var _ Sender = (*SMTPSender)(nil)

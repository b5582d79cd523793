// Package transport defines the request and response shapes of the
// invoicing API. Monetary fields travel as decimal strings.
package transport

import (
	"time"

	"invoicing_backend/internal/invoicing/domain"

	"github.com/google/uuid"
)

// DateFormat is the wire format for date-only fields.
const DateFormat = "2006-01-02"

// LineItemRequest is a single line item in a create or update request.
// SortOrder is a pointer so an explicit position 0 is distinguishable
// from an omitted field, which defaults per operation.
type LineItemRequest struct {
	Description string `json:"description" validate:"required"`
	Quantity    string `json:"quantity" validate:"required"`
	UnitPrice   string `json:"unitPrice" validate:"required"`
	SortOrder   *int   `json:"sortOrder" validate:"omitempty,gte=0"`
}

// CreateQuoteRequest creates a draft quote.
type CreateQuoteRequest struct {
	ClientID   string            `json:"clientId" validate:"required,uuid"`
	Title      string            `json:"title" validate:"max=200"`
	Notes      string            `json:"notes"`
	Terms      string            `json:"terms"`
	IssueDate  string            `json:"issueDate" validate:"omitempty,datetime=2006-01-02"`
	ValidUntil string            `json:"validUntil" validate:"omitempty,datetime=2006-01-02"`
	TaxRate    string            `json:"taxRate"`
	Items      []LineItemRequest `json:"items" validate:"dive"`
}

// UpdateQuoteRequest replaces a draft quote's header and line items.
type UpdateQuoteRequest struct {
	ClientID   string            `json:"clientId" validate:"required,uuid"`
	Title      string            `json:"title" validate:"max=200"`
	Notes      string            `json:"notes"`
	Terms      string            `json:"terms"`
	IssueDate  string            `json:"issueDate" validate:"omitempty,datetime=2006-01-02"`
	ValidUntil string            `json:"validUntil" validate:"omitempty,datetime=2006-01-02"`
	TaxRate    string            `json:"taxRate"`
	Items      []LineItemRequest `json:"items" validate:"dive"`
}

// CreateInvoiceRequest creates a draft invoice directly, without a
// source quote.
type CreateInvoiceRequest struct {
	ClientID  string            `json:"clientId" validate:"required,uuid"`
	Title     string            `json:"title" validate:"max=200"`
	Notes     string            `json:"notes"`
	Terms     string            `json:"terms"`
	IssueDate string            `json:"issueDate" validate:"omitempty,datetime=2006-01-02"`
	DueDate   string            `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	TaxRate   string            `json:"taxRate"`
	Items     []LineItemRequest `json:"items" validate:"dive"`
}

// UpdateInvoiceRequest replaces a draft invoice's header and line items.
type UpdateInvoiceRequest struct {
	ClientID  string            `json:"clientId" validate:"required,uuid"`
	Title     string            `json:"title" validate:"max=200"`
	Notes     string            `json:"notes"`
	Terms     string            `json:"terms"`
	IssueDate string            `json:"issueDate" validate:"omitempty,datetime=2006-01-02"`
	DueDate   string            `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	TaxRate   string            `json:"taxRate"`
	Items     []LineItemRequest `json:"items" validate:"dive"`
}

// TransitionRequest requests a status change.
type TransitionRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListQuery carries list filters from the query string.
type ListQuery struct {
	ClientID string `form:"clientId" validate:"omitempty,uuid"`
	Status   string `form:"status"`
	Search   string `form:"search" validate:"max=100"`
	Page     int    `form:"page" validate:"gte=0"`
	PageSize int    `form:"pageSize" validate:"gte=0,lte=100"`
}

// LineItemResponse is a line item in API responses.
type LineItemResponse struct {
	ID            uuid.UUID `json:"id"`
	Description   string    `json:"description"`
	Quantity      string    `json:"quantity"`
	UnitPrice     string    `json:"unitPrice"`
	ExtendedPrice string    `json:"extendedPrice"`
	SortOrder     int       `json:"sortOrder"`
}

// QuoteResponse is the API representation of a quote.
type QuoteResponse struct {
	ID          uuid.UUID          `json:"id"`
	ClientID    uuid.UUID          `json:"clientId"`
	QuoteNumber string             `json:"quoteNumber"`
	Status      string             `json:"status"`
	Title       string             `json:"title"`
	Notes       string             `json:"notes"`
	Terms       string             `json:"terms"`
	IssueDate   string             `json:"issueDate"`
	ValidUntil  string             `json:"validUntil"`
	TaxRate     string             `json:"taxRate"`
	Subtotal    string             `json:"subtotal"`
	TaxAmount   string             `json:"taxAmount"`
	TotalAmount string             `json:"totalAmount"`
	SentAt      *time.Time         `json:"sentAt,omitempty"`
	Items       []LineItemResponse `json:"items,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// InvoiceResponse is the API representation of an invoice.
type InvoiceResponse struct {
	ID            uuid.UUID          `json:"id"`
	ClientID      uuid.UUID          `json:"clientId"`
	InvoiceNumber string             `json:"invoiceNumber"`
	Status        string             `json:"status"`
	Title         string             `json:"title"`
	Notes         string             `json:"notes"`
	Terms         string             `json:"terms"`
	IssueDate     string             `json:"issueDate"`
	DueDate       string             `json:"dueDate"`
	TaxRate       string             `json:"taxRate"`
	Subtotal      string             `json:"subtotal"`
	TaxAmount     string             `json:"taxAmount"`
	TotalAmount   string             `json:"totalAmount"`
	SentAt        *time.Time         `json:"sentAt,omitempty"`
	PaidAt        *time.Time         `json:"paidAt,omitempty"`
	SourceQuoteID *uuid.UUID         `json:"sourceQuoteId,omitempty"`
	Items         []LineItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// ListResponse is a generic paginated list envelope.
type ListResponse[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// FromLineItem maps a domain line item to its response shape.
func FromLineItem(li domain.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:            li.ID,
		Description:   li.Description,
		Quantity:      li.Quantity.String(),
		UnitPrice:     li.UnitPrice.String(),
		ExtendedPrice: li.ExtendedPrice().String(),
		SortOrder:     li.SortOrder,
	}
}

// FromQuote maps a domain quote to its response shape.
func FromQuote(q *domain.Quote) QuoteResponse {
	resp := QuoteResponse{
		ID:          q.ID,
		ClientID:    q.ClientID,
		QuoteNumber: q.QuoteNumber,
		Status:      string(q.Status),
		Title:       q.Title,
		Notes:       q.Notes,
		Terms:       q.Terms,
		IssueDate:   q.IssueDate.Format(DateFormat),
		ValidUntil:  q.ValidUntil.Format(DateFormat),
		TaxRate:     q.TaxRate.String(),
		Subtotal:    q.Subtotal.String(),
		TaxAmount:   q.TaxAmount.String(),
		TotalAmount: q.TotalAmount.String(),
		SentAt:      q.SentAt,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
	for _, li := range q.Items {
		resp.Items = append(resp.Items, FromLineItem(li))
	}
	return resp
}

// FromInvoice maps a domain invoice to its response shape.
func FromInvoice(inv *domain.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            inv.ID,
		ClientID:      inv.ClientID,
		InvoiceNumber: inv.InvoiceNumber,
		Status:        string(inv.Status),
		Title:         inv.Title,
		Notes:         inv.Notes,
		Terms:         inv.Terms,
		IssueDate:     inv.IssueDate.Format(DateFormat),
		DueDate:       inv.DueDate.Format(DateFormat),
		TaxRate:       inv.TaxRate.String(),
		Subtotal:      inv.Subtotal.String(),
		TaxAmount:     inv.TaxAmount.String(),
		TotalAmount:   inv.TotalAmount.String(),
		SentAt:        inv.SentAt,
		PaidAt:        inv.PaidAt,
		SourceQuoteID: inv.SourceQuoteID,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
	for _, li := range inv.Items {
		resp.Items = append(resp.Items, FromLineItem(li))
	}
	return resp
}

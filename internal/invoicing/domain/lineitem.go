package domain

import (
	"strings"

	"invoicing_backend/platform/apperr"
	"invoicing_backend/platform/money"

	"github.com/google/uuid"
)

// LineItem is a single billable line on a quote or invoice. Quantity and
// unit price carry at most 2 fraction digits; the extended price rounds
// once per line before it enters a total.
type LineItem struct {
	ID          uuid.UUID
	Description string
	Quantity    money.Amount
	UnitPrice   money.Amount
	SortOrder   int
}

// ExtendedPrice returns quantity times unit price, rounded half-up to
// 2 fraction digits. Each line rounds independently, so a document's
// subtotal is the sum of what the lines individually display.
func (li LineItem) ExtendedPrice() money.Amount {
	return money.Round2(li.Quantity.Mul(li.UnitPrice))
}

// Validate checks a line item's fields. Description must be non-blank,
// quantity strictly positive, unit price non-negative (zero allows free
// or included lines), both with at most 2 fraction digits.
func (li LineItem) Validate() error {
	if strings.TrimSpace(li.Description) == "" {
		return apperr.Validation("line item description must not be blank")
	}
	if !li.Quantity.IsPositive() {
		return apperr.Validation("line item quantity must be greater than zero")
	}
	if li.UnitPrice.IsNegative() {
		return apperr.Validation("line item unit price must not be negative")
	}
	if !li.Quantity.Equal(money.Round2(li.Quantity)) {
		return apperr.Validation("line item quantity must have at most 2 decimal places")
	}
	if !li.UnitPrice.Equal(money.Round2(li.UnitPrice)) {
		return apperr.Validation("line item unit price must have at most 2 decimal places")
	}
	return nil
}

// ValidateLineItems validates every item in order and returns the first
// failure.
func ValidateLineItems(items []LineItem) error {
	for _, li := range items {
		if err := li.Validate(); err != nil {
			return err
		}
	}
	return nil
}

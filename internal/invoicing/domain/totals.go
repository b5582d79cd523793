package domain

import (
	"invoicing_backend/platform/apperr"
	"invoicing_backend/platform/money"
)

// Totals is the derived financial summary of a document. All three
// amounts carry exactly 2 fraction digits.
type Totals struct {
	Subtotal    money.Amount
	TaxAmount   money.Amount
	TotalAmount money.Amount
}

// ValidateTaxRate checks that a tax rate percentage is within 0..100
// inclusive.
func ValidateTaxRate(rate money.Amount) error {
	if rate.IsNegative() || rate.GreaterThan(money.FromInt(100)) {
		return apperr.Validation("tax rate must be between 0 and 100")
	}
	return nil
}

// CalculateTotals derives subtotal, tax amount and total from line items
// and a tax rate percentage. Each extended price is already rounded per
// line; the subtotal is their sum rounded once more, the tax is computed
// from the subtotal and rounded once, and the total is their exact sum.
// An empty item list yields all zeroes.
func CalculateTotals(items []LineItem, taxRate money.Amount) Totals {
	var sum money.Amount
	for _, li := range items {
		sum = sum.Add(li.ExtendedPrice())
	}

	subtotal := money.Round2(sum)
	taxAmount := money.ApplyRate(subtotal, taxRate)

	return Totals{
		Subtotal:    subtotal,
		TaxAmount:   taxAmount,
		TotalAmount: subtotal.Add(taxAmount),
	}
}

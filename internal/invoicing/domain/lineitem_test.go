package domain

import (
	"testing"

	"invoicing_backend/platform/money"
)

func TestLineItemValidate(t *testing.T) {
	valid := item("work", "1.00", "99.99")
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid line item, got %v", err)
	}
	// Zero unit price is allowed, for free or included lines.
	if err := item("site survey", "1", "0").Validate(); err != nil {
		t.Fatalf("expected zero unit price to be valid, got %v", err)
	}

	cases := []struct {
		name string
		li   LineItem
	}{
		{"blank description", item("   ", "1", "10.00")},
		{"zero quantity", item("x", "0", "10.00")},
		{"negative quantity", item("x", "-1", "10.00")},
		{"negative unit price", item("x", "1", "-0.01")},
		{"quantity precision", item("x", "1.005", "10.00")},
		{"unit price precision", item("x", "1", "9.999")},
	}

	for _, tc := range cases {
		if err := tc.li.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestValidateLineItems_ReturnsFirstFailure(t *testing.T) {
	items := []LineItem{
		item("ok", "1", "10.00"),
		item("", "1", "10.00"),
	}
	if err := ValidateLineItems(items); err == nil {
		t.Fatalf("expected error for blank description in second item")
	}
	if err := ValidateLineItems(items[:1]); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestExtendedPrice_RoundsPerLine(t *testing.T) {
	cases := []struct {
		qty, price, want string
	}{
		{"0.33", "0.33", "0.11"},   // 0.1089 rounds down
		{"0.67", "1.50", "1.01"},   // 1.005 rounds half-up
		{"0.50", "0.05", "0.03"},   // 0.025 rounds half-up
		{"2", "50.00", "100.00"},   // exact values pass through
	}
	for _, tc := range cases {
		li := item("x", tc.qty, tc.price)
		if !li.ExtendedPrice().Equal(money.MustParse(tc.want)) {
			t.Fatalf("%s x %s: expected extended price %s, got %s", tc.qty, tc.price, tc.want, li.ExtendedPrice())
		}
	}
}

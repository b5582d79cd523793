package domain

import (
	"math/rand"
	"testing"

	"invoicing_backend/platform/money"
)

func item(desc, qty, price string) LineItem {
	return LineItem{
		Description: desc,
		Quantity:    money.MustParse(qty),
		UnitPrice:   money.MustParse(price),
	}
}

func TestCalculateTotals_ConcreteScenario(t *testing.T) {
	items := []LineItem{
		item("consulting", "2", "50.00"),
		item("travel", "1", "25.00"),
	}

	got := CalculateTotals(items, money.FromInt(10))

	if !got.Subtotal.Equal(money.MustParse("125.00")) {
		t.Fatalf("expected subtotal 125.00, got %s", got.Subtotal)
	}
	if !got.TaxAmount.Equal(money.MustParse("12.50")) {
		t.Fatalf("expected tax 12.50, got %s", got.TaxAmount)
	}
	if !got.TotalAmount.Equal(money.MustParse("137.50")) {
		t.Fatalf("expected total 137.50, got %s", got.TotalAmount)
	}
}

func TestCalculateTotals_EmptyItems(t *testing.T) {
	got := CalculateTotals(nil, money.FromInt(21))

	if !got.Subtotal.IsZero() || !got.TaxAmount.IsZero() || !got.TotalAmount.IsZero() {
		t.Fatalf("expected all-zero totals, got %s/%s/%s", got.Subtotal, got.TaxAmount, got.TotalAmount)
	}
}

func TestCalculateTotals_RoundsHalfUp(t *testing.T) {
	// 0.67 * 1.50 = 1.005, which must round up to 1.01.
	items := []LineItem{item("fractional", "0.67", "1.50")}

	got := CalculateTotals(items, money.FromInt(0))

	if !got.Subtotal.Equal(money.MustParse("1.01")) {
		t.Fatalf("expected subtotal 1.01, got %s", got.Subtotal)
	}
}

func TestCalculateTotals_RoundsEachLineBeforeSumming(t *testing.T) {
	// Each line extends to 0.025 and rounds to 0.03 on its own; the
	// subtotal is the sum of the rounded lines, not a rounding of the
	// raw 0.05 product sum.
	items := []LineItem{
		item("half unit a", "0.5", "0.05"),
		item("half unit b", "0.5", "0.05"),
	}

	got := CalculateTotals(items, money.FromInt(0))

	if !got.Subtotal.Equal(money.MustParse("0.06")) {
		t.Fatalf("expected subtotal 0.06, got %s", got.Subtotal)
	}
}

func TestCalculateTotals_TaxRoundsFromRoundedSubtotal(t *testing.T) {
	// Subtotal 33.33 at 15% is 4.9995, rounding to 5.00.
	items := []LineItem{item("one third", "1", "33.33")}

	got := CalculateTotals(items, money.FromInt(15))

	if !got.TaxAmount.Equal(money.MustParse("5.00")) {
		t.Fatalf("expected tax 5.00, got %s", got.TaxAmount)
	}
	if !got.TotalAmount.Equal(money.MustParse("38.33")) {
		t.Fatalf("expected total 38.33, got %s", got.TotalAmount)
	}
}

func TestCalculateTotals_Idempotent(t *testing.T) {
	items := []LineItem{
		item("a", "3.25", "19.99"),
		item("b", "0.50", "120.00"),
	}
	rate := money.MustParse("21")

	first := CalculateTotals(items, rate)
	second := CalculateTotals(items, rate)

	if !first.Subtotal.Equal(second.Subtotal) ||
		!first.TaxAmount.Equal(second.TaxAmount) ||
		!first.TotalAmount.Equal(second.TotalAmount) {
		t.Fatalf("recomputation must be stable: %+v vs %+v", first, second)
	}
}

func TestCalculateTotals_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		n := 1 + rng.Intn(6)
		items := make([]LineItem, 0, n)
		var lineSum money.Amount
		for j := 0; j < n; j++ {
			qty := money.FromInt(int64(1 + rng.Intn(900))).Shift(-2)
			price := money.FromInt(int64(1 + rng.Intn(100000))).Shift(-2)
			li := LineItem{Description: "x", Quantity: qty, UnitPrice: price}
			items = append(items, li)
			lineSum = lineSum.Add(li.ExtendedPrice())
		}
		rate := money.FromInt(int64(rng.Intn(101)))

		got := CalculateTotals(items, rate)

		if !got.Subtotal.Equal(money.Round2(lineSum)) {
			t.Fatalf("iteration %d: subtotal %s != sum of extended prices %s", i, got.Subtotal, lineSum)
		}
		if got.Subtotal.Exponent() < -2 || got.TaxAmount.Exponent() < -2 || got.TotalAmount.Exponent() < -2 {
			t.Fatalf("iteration %d: totals carry more than 2 fraction digits: %+v", i, got)
		}
		if !got.TotalAmount.Equal(got.Subtotal.Add(got.TaxAmount)) {
			t.Fatalf("iteration %d: total %s != subtotal %s + tax %s", i, got.TotalAmount, got.Subtotal, got.TaxAmount)
		}
	}
}

func TestValidateTaxRate(t *testing.T) {
	for _, ok := range []string{"0", "10", "21", "100", "0.5"} {
		if err := ValidateTaxRate(money.MustParse(ok)); err != nil {
			t.Fatalf("rate %s should be valid: %v", ok, err)
		}
	}
	for _, bad := range []string{"-1", "100.01", "250"} {
		if err := ValidateTaxRate(money.MustParse(bad)); err == nil {
			t.Fatalf("rate %s should be rejected", bad)
		}
	}
}

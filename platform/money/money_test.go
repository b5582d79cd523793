package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRound2_HalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1.005", "1.01"},
		{"1.004", "1"},
		{"2.675", "2.68"},
		{"0.125", "0.13"},
		{"10", "10"},
		{"0.1", "0.1"},
	}
	for _, tc := range cases {
		got := Round2(MustParse(tc.in))
		if !got.Equal(MustParse(tc.want)) {
			t.Fatalf("Round2(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestRound2_NeverMoreThanTwoFractionDigits(t *testing.T) {
	got := Round2(MustParse("3.14159"))
	if got.Exponent() < -2 {
		t.Fatalf("Round2 produced more than 2 fraction digits: %s", got)
	}
}

func TestApplyRate(t *testing.T) {
	// 125.00 at 10% -> 12.50
	got := ApplyRate(MustParse("125.00"), MustParse("10"))
	if !got.Equal(MustParse("12.50")) {
		t.Fatalf("ApplyRate(125.00, 10) = %s, want 12.50", got)
	}

	// 99.99 at 8.25% -> 8.249175 -> 8.25
	got = ApplyRate(MustParse("99.99"), MustParse("8.25"))
	if !got.Equal(MustParse("8.25")) {
		t.Fatalf("ApplyRate(99.99, 8.25) = %s, want 8.25", got)
	}

	// zero rate
	got = ApplyRate(MustParse("50.00"), decimal.Zero)
	if !got.IsZero() {
		t.Fatalf("ApplyRate(50.00, 0) = %s, want 0", got)
	}
}

func TestPercentFraction_Exact(t *testing.T) {
	if !PercentFraction(MustParse("10")).Equal(MustParse("0.1")) {
		t.Fatalf("PercentFraction(10) != 0.1")
	}
	if !PercentFraction(MustParse("8.25")).Equal(MustParse("0.0825")) {
		t.Fatalf("PercentFraction(8.25) != 0.0825")
	}
}

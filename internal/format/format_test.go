package format

import (
	"testing"
	"time"
)

func TestCurrency(t *testing.T) {
	cases := []struct {
		minor    int64
		currency string
		want     string
	}{
		{123456, "usd", "$1,234.56"},
		{5, "USD", "$0.05"},
		{-1999, "USD", "-$19.99"},
		{12345, "JPY", "¥12,345"},
		{100000, "EUR", "€1,000.00"},
		{999, "CHF", "CHF 999"},
	}
	for _, tc := range cases {
		if got := Currency(tc.minor, tc.currency); got != tc.want {
			t.Errorf("Currency(%d, %q) = %q, want %q", tc.minor, tc.currency, got, tc.want)
		}
	}
}

func TestPlanPrice(t *testing.T) {
	if got := PlanPrice(0, "USD", "month"); got != "Free" {
		t.Fatalf("expected Free, got %q", got)
	}
	if got := PlanPrice(1900, "USD", "month"); got != "$19/month" {
		t.Fatalf("unexpected price: %q", got)
	}
	if got := PlanPrice(1950, "USD", ""); got != "$19.50" {
		t.Fatalf("unexpected price: %q", got)
	}
}

func TestDates(t *testing.T) {
	d := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	if got := Date(d); got != "Mar 1, 2024" {
		t.Fatalf("unexpected display date: %q", got)
	}
	if got := ISODate(d); got != "2024-03-01" {
		t.Fatalf("unexpected iso date: %q", got)
	}
	if Date(time.Time{}) != "" || ISODate(time.Time{}) != "" {
		t.Fatal("zero time should format empty")
	}
}

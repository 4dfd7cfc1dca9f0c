package format

import (
	"fmt"
	"strings"
	"time"
)

// Currency formats an amount in minor units.
// Example: Currency(123456, "USD") => "$1,234.56"
func Currency(minor int64, currency string) string {
	currency = strings.ToUpper(currency)
	neg := minor < 0
	if neg {
		minor = -minor
	}
	var out string
	switch currency {
	case "JPY":
		out = "¥" + thousandSep(minor)
	case "USD", "EUR", "GBP":
		out = symbols[currency] + thousandSep(minor/100) + fmt.Sprintf(".%02d", minor%100)
	default:
		// generic minor units
		out = fmt.Sprintf("%s %s", currency, thousandSep(minor))
	}
	if neg {
		return "-" + out
	}
	return out
}

var symbols = map[string]string{"USD": "$", "EUR": "€", "GBP": "£"}

// PlanPrice formats a recurring plan price, dropping zero cents.
// Example: PlanPrice(1900, "USD", "month") => "$19/month"; zero is "Free".
func PlanPrice(minor int64, currency, period string) string {
	if minor == 0 {
		return "Free"
	}
	s := strings.TrimSuffix(Currency(minor, currency), ".00")
	if period == "" {
		return s
	}
	return s + "/" + period
}

func thousandSep(n int64) string {
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Date formats t for display, e.g. "Mar 1, 2024".
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// ISODate formats t as YYYY-MM-DD for machine-readable fields.
func ISODate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

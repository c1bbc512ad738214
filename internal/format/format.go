// Package format renders amounts and dates for display fields in summary
// payloads. Formatting is locale-aware so grouped digits come out right for
// the consumer's language.
package format

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var defaultPrinter = message.NewPrinter(language.English)

// Amount renders a monetary value with its currency code, grouping digits
// per locale: Amount(1234567.5, "USD") -> "1,234,567.50 USD".
func Amount(value float64, currency string) string {
	formatted := defaultPrinter.Sprint(number.Decimal(value,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	if currency == "" {
		return formatted
	}
	return formatted + " " + currency
}

// Count renders an integer with digit grouping: Count(1234567) -> "1,234,567".
func Count(value int) string {
	return defaultPrinter.Sprint(number.Decimal(value))
}

// Date renders a timestamp as a calendar date.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// DateTime renders a timestamp with minute precision in UTC.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04 MST")
}

package locale

import (
	"strings"
)

const (
	DefaultTimezone = "UTC"
	DefaultCurrency = "USD"
)

type Country struct {
	Code            string   // ISO 3166-1 alpha-2 country code (e.g., "TW", "US")
	Name            string   // Human-readable country name
	DefaultTimezone string   // IANA timezone identifier (e.g., "Asia/Taipei")
	Currency        string   // ISO 4217 code hotels in this country price in
}

var (
	Countries = map[string]Country{
		"TW": {Code: "TW", Name: "Taiwan", DefaultTimezone: "Asia/Taipei", Currency: "TWD"},
		"JP": {Code: "JP", Name: "Japan", DefaultTimezone: "Asia/Tokyo", Currency: "JPY"},
		"KR": {Code: "KR", Name: "South Korea", DefaultTimezone: "Asia/Seoul", Currency: "KRW"},
		"TH": {Code: "TH", Name: "Thailand", DefaultTimezone: "Asia/Bangkok", Currency: "THB"},
		"SG": {Code: "SG", Name: "Singapore", DefaultTimezone: "Asia/Singapore", Currency: "SGD"},
		"IL": {Code: "IL", Name: "Israel", DefaultTimezone: "Asia/Jerusalem", Currency: "ILS"},
		"GB": {Code: "GB", Name: "United Kingdom", DefaultTimezone: "Europe/London", Currency: "GBP"},
		"FR": {Code: "FR", Name: "France", DefaultTimezone: "Europe/Paris", Currency: "EUR"},
		"DE": {Code: "DE", Name: "Germany", DefaultTimezone: "Europe/Berlin", Currency: "EUR"},
		"US": {Code: "US", Name: "United States", DefaultTimezone: "America/New_York", Currency: "USD"},
		"AU": {Code: "AU", Name: "Australia", DefaultTimezone: "Australia/Sydney", Currency: "AUD"},
	}

	// Currencies PayPal settles that the platform accepts on plans.
	Currencies = map[string]bool{
		"USD": true, "EUR": true, "GBP": true, "JPY": true, "TWD": true, "AUD": true,
		"SGD": true, "THB": true, "ILS": true, "CAD": true, "HKD": true,
	}
)

// Lookup finds a country by alpha-2 code, case-insensitively.
func Lookup(code string) (Country, bool) {
	c, ok := Countries[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// TimezoneFor returns the country's default zone, or UTC for unknown countries.
func TimezoneFor(code string) string {
	if c, ok := Lookup(code); ok {
		return c.DefaultTimezone
	}
	return DefaultTimezone
}

// CurrencyFor returns the country's currency, or fallback when the country is
// unknown or its currency is not accepted.
func CurrencyFor(code, fallback string) string {
	if c, ok := Lookup(code); ok && Currencies[c.Currency] {
		return c.Currency
	}
	if fallback == "" {
		return DefaultCurrency
	}
	return fallback
}

func IsCurrency(code string) bool {
	return Currencies[strings.ToUpper(code)]
}

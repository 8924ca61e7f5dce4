// Package normalize provides pure field-coercion helpers for tabular imports.
// All functions are stateless and never perform I/O; failures are reported
// through ok-flags rather than panics so callers can turn them into row-level
// diagnostics.
package normalize

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Key normalizes a string for matching against existing records
// (currency codes, category names, payment methods, income sources).
func Key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DisplayName converts a raw name to title case. It is used when a new
// category is materialized from imported data, so auto-created categories
// look consistent regardless of the input casing.
func DisplayName(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		r := []rune(word)
		words[i] = strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
	}
	return strings.Join(words, " ")
}

// dateLayouts lists the formats tried for free-form date values,
// most specific first.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"02-01-2006",
	"01-02-2006",
	"2006/01/02",
	"02/01/2006",
	"01/02/2006",
	"02/01/2006 15:04",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Date coerces a cell value into a date. Native time.Time values pass
// through untouched. Strings get an ISO-like parse after separator
// punctuation is normalized (dots become dashes), then fall back to a list
// of common layouts. Returns ok=false on total failure; never panics.
func Date(v any) (time.Time, bool) {
	switch value := v.(type) {
	case time.Time:
		if value.IsZero() {
			return time.Time{}, false
		}
		return value, true
	case *time.Time:
		if value == nil || value.IsZero() {
			return time.Time{}, false
		}
		return *value, true
	case string:
		return parseDateString(value)
	}
	return time.Time{}, false
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// Dotted dates ("2024.01.05", "05.01.2024") parse through the dashed layouts.
	normalized := strings.ReplaceAll(s, ".", "-")

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t, true
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// currencyNoise lists symbols stripped from amount cells before parsing.
var currencyNoise = []string{"$", "€", "£", "¥", "₹", "R$", "USD", "EUR", "GBP"}

// Amount coerces a cell value into a decimal amount. Thousands-separator
// commas and stray currency symbols are stripped before parsing. The sign is
// preserved; expense mapping takes the absolute value because the source
// sign is not semantically meaningful there. Returns ok=false on failure.
func Amount(v any) (decimal.Decimal, bool) {
	switch value := v.(type) {
	case decimal.Decimal:
		return value, true
	case float64:
		return decimal.NewFromFloat(value), true
	case int:
		return decimal.NewFromInt(int64(value)), true
	case int64:
		return decimal.NewFromInt(value), true
	case string:
		return parseAmountString(value)
	}
	return decimal.Decimal{}, false
}

func parseAmountString(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	for _, sym := range currencyNoise {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// Bool coerces assorted textual truthy/falsy tokens. Recognizes
// {true, yes, 1} and {false, no, 0} case-insensitively. Anything else
// returns ok=false, which callers treat as "flag absent" rather than false.
func Bool(v any) (value bool, ok bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch Key(b) {
		case "true", "yes", "1":
			return true, true
		case "false", "no", "0":
			return false, true
		}
		return false, false
	case int:
		if b == 1 {
			return true, true
		}
		if b == 0 {
			return false, true
		}
	case float64:
		if b == 1 {
			return true, true
		}
		if b == 0 {
			return false, true
		}
	}
	return false, false
}

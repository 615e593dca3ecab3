package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Stripe amounts for these currencies are already in major units.
var zeroDecimalCurrencies = map[string]struct{}{
	"bif": {}, "clp": {}, "djf": {}, "gnf": {}, "jpy": {}, "kmf": {},
	"krw": {}, "mga": {}, "pyg": {}, "rwf": {}, "ugx": {}, "vnd": {},
	"vuv": {}, "xaf": {}, "xof": {}, "xpf": {},
}

// MinorToMajor converts a Stripe minor-unit amount to major units.
func MinorToMajor(amount int64, currency string) decimal.Decimal {
	if _, ok := zeroDecimalCurrencies[strings.ToLower(strings.TrimSpace(currency))]; ok {
		return decimal.NewFromInt(amount)
	}
	return decimal.New(amount, -2)
}

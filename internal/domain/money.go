package domain

import "github.com/shopspring/decimal"

// CurrencySymbol is the fixed display currency.
const CurrencySymbol = "₱"

// FormatAmount renders an amount with the currency symbol and two decimals.
func FormatAmount(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + CurrencySymbol + d.Neg().StringFixed(2)
	}
	return CurrencySymbol + d.StringFixed(2)
}

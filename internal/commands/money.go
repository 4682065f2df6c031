package commands

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const currency = money.EUR

// formatMoney renders an amount in the store currency, rounded to its minor unit.
// Amounts beyond int64 minor units are printed without thousand separators.
func formatMoney(amount decimal.Decimal) string {
	cur := money.GetCurrency(currency)
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	if !minor.BigInt().IsInt64() {
		sign := ""
		if amount.IsNegative() {
			sign = "-"
		}
		return sign + cur.Grapheme + amount.Abs().StringFixed(int32(cur.Fraction))
	}
	return money.New(minor.IntPart(), currency).Display()
}

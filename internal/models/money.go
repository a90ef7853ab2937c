package models

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders d in the given ISO currency, e.g. "$1,234.50".
// Unknown currency codes fall back to USD.
func FormatMoney(d decimal.Decimal, currency string) string {
	if money.GetCurrency(currency) == nil {
		currency = "USD"
	}
	c := money.GetCurrency(currency)
	minor := d.Shift(int32(c.Fraction)).Round(0).IntPart()
	return money.New(minor, currency).Display()
}

package model

import "github.com/shopspring/decimal"

// Money is a fixed-point monetary amount.
type Money = decimal.Decimal

// MoneyScale is the number of decimal places amounts are rounded to.
const MoneyScale = 2

// Zero is the zero amount.
var Zero = decimal.Zero

// Amounts are JSON numbers on the wire.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// NewMoney converts a float to Money rounded to two decimal places.
func NewMoney(v float64) Money {
	return decimal.NewFromFloat(v).Round(MoneyScale)
}

// ParseMoney parses a decimal string such as "45.50".
func ParseMoney(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// SumMoney adds up amounts.
func SumMoney(amounts ...Money) Money {
	return decimal.Sum(Zero, amounts...)
}

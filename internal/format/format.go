// Package format renders money and rates the way Brazilian payslips show them.
package format

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const ptBRNumber = "#.###,##"

var hundred = decimal.NewFromInt(100)

// Number formats v with pt-BR separators and two decimal places.
func Number(v decimal.Decimal) string {
	return humanize.FormatFloat(ptBRNumber, v.Round(2).InexactFloat64())
}

// Currency formats v as BRL, e.g. "R$ 3.000,00".
func Currency(v decimal.Decimal) string {
	if v.Round(2).IsNegative() {
		return "-R$ " + Number(v.Neg())
	}
	return "R$ " + Number(v)
}

// Percentage formats a fraction as a percentage, e.g. 0.0863 → "8,63%".
func Percentage(fraction decimal.Decimal) string {
	return Number(fraction.Mul(hundred)) + "%"
}

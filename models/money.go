package models

import "github.com/shopspring/decimal"

// Money columns are NUMERIC(14,2).
const moneyScale = 2

var moneyLimit = decimal.New(1, 12)

// FitsMoney reports whether d can be stored in a money column without rounding
// or overflow.
func FitsMoney(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(moneyScale)) && d.Abs().LessThan(moneyLimit)
}

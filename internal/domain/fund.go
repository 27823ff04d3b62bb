package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fund is an investable security referenced by schedule distributions.
type Fund struct {
	ID   string
	Name string
	Code string
}

// Quotation is the value of one fund unit valid from FromDate until the
// next verified quotation.
type Quotation struct {
	FromDate time.Time
	FundID   string
	Value    decimal.Decimal
	Verified bool
}

// FundDistribution allocates a percentage of a schedule's invested amount
// to a fund.
type FundDistribution struct {
	FundID     string
	Percentage decimal.Decimal
}

// UnitScale is the number of decimals fund unit quantities are quantized to.
const UnitScale int32 = 5

// UnitsFor converts a monetary amount into fund units at the quotation
// value, quantized to UnitScale decimals.
func (q *Quotation) UnitsFor(amount decimal.Decimal) decimal.Decimal {
	if q.Value.IsZero() {
		return decimal.Zero
	}

	return RoundHalfUp(amount.Div(q.Value), UnitScale)
}

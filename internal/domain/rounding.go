package domain

import "github.com/shopspring/decimal"

var half = decimal.New(5, -1)

// RoundHalfUp rounds to places decimals with ties rounded away from zero.
func RoundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	shifted := d.Abs().Shift(places)
	floor := shifted.Floor()

	if shifted.Sub(floor).GreaterThanOrEqual(half) {
		floor = floor.Add(decimal.New(1, 0))
	}

	r := floor.Shift(-places)
	if d.IsNegative() {
		return r.Neg()
	}

	return r
}

// RoundHalfDown rounds to places decimals with ties rounded toward zero.
// The financed-commission deduction uses this for the capital share; the
// asymmetry versus RoundHalfUp is contractual.
func RoundHalfDown(d decimal.Decimal, places int32) decimal.Decimal {
	shifted := d.Abs().Shift(places)
	floor := shifted.Floor()

	if shifted.Sub(floor).GreaterThan(half) {
		floor = floor.Add(decimal.New(1, 0))
	}

	r := floor.Shift(-places)
	if d.IsNegative() {
		return r.Neg()
	}

	return r
}

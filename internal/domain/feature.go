package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeatureName identifies a product feature resolvable through the catalog.
type FeatureName string

const (
	FeatureCommissionPrincipal  FeatureName = "financed_commission_principal"
	FeatureDeductionRate        FeatureName = "financed_commission_deduction_rate"
	FeatureInterestRate         FeatureName = "financed_commission_interest_rate"
	FeatureDeducedInterest      FeatureName = "financed_commission_deduced_interest"
	FeatureDeductionPeriodicity FeatureName = "financed_commission_periodicity"
	FeatureAccountInterestRate  FeatureName = "account_interest_rate"
	FeatureRedemptionFee        FeatureName = "redemption_fee"
	FeatureRedemptionRate       FeatureName = "redemption_rate"
	FeatureExitRate             FeatureName = "exit_rate"
	FeatureSwitchOutRate        FeatureName = "switch_out_rate"
	FeatureSwitchInRate         FeatureName = "switch_in_rate"
)

// Feature is a dated product parameter: a flat amount, a percentage of a
// base amount, or both.
type Feature struct {
	ValidFrom time.Time
	ValidThru *time.Time
	Name      FeatureName
	Fixed     decimal.Decimal
	Rate      decimal.Decimal
}

// AppliesAt reports whether the feature is in force at date.
func (f *Feature) AppliesAt(date time.Time) bool {
	if date.Before(f.ValidFrom) {
		return false
	}

	if f.ValidThru != nil && date.After(*f.ValidThru) {
		return false
	}

	return true
}

// Apply computes the feature amount for a base: fixed part plus rate
// percentage of the base.
func (f *Feature) Apply(base decimal.Decimal) decimal.Decimal {
	return f.Fixed.Add(base.Mul(f.Rate).Div(decimal.New(100, 0)))
}

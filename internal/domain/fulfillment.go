package domain

import "time"

// FulfillmentType classifies what contractual event a ledger line satisfies.
type FulfillmentType string

const (
	FulfillmentPremium             FulfillmentType = "premium"
	FulfillmentAccountAttribution  FulfillmentType = "account_attribution"
	FulfillmentSecurityOrder       FulfillmentType = "security_order"
	FulfillmentSecurityQuotation   FulfillmentType = "security_quotation"
	FulfillmentInterest            FulfillmentType = "interest"
	FulfillmentCommissionCapital   FulfillmentType = "financed_commission_capital"
	FulfillmentCommissionInterest  FulfillmentType = "financed_commission_interest"
	FulfillmentRedemption          FulfillmentType = "redemption"
	FulfillmentRedemptionFee       FulfillmentType = "redemption_fee_revenue"
	FulfillmentRedemptionRate      FulfillmentType = "redemption_rate_revenue"
	FulfillmentSwitchRevenue       FulfillmentType = "switch_revenue"
	FulfillmentRepaymentInstalment FulfillmentType = "repayment_instalment"
)

// Fulfillment links a ledger entry to the domain object it satisfies.
// Created exactly once per entry key, never updated.
type Fulfillment struct {
	CreatedAt      time.Time
	AssociatedToID *string
	WithinID       *string
	ID             string
	BookingOfID    string
	Type           FulfillmentType
	Entry          EntryKey
}

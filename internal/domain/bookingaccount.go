package domain

import "fmt"

// AccountRole is the abstract addressee of a posting line.
type AccountRole string

const (
	RoleCustomer AccountRole = "customer"
	RoleProduct  AccountRole = "product"
	RoleFund     AccountRole = "fund"
	RoleSchedule AccountRole = "schedule"
)

// BookingAccount is a polymorphic account address, resolved to a concrete
// ledger account number only at posting time. Never persisted as its own
// entity.
type BookingAccount struct {
	Role       AccountRole
	CustomerID string
	ProductID  string
	FundID     string
	ScheduleID string
	Suffix     string
}

// CustomerAccount addresses the customer's receivable account.
func CustomerAccount(customerID string) BookingAccount {
	return BookingAccount{Role: RoleCustomer, CustomerID: customerID}
}

// ProductAccount addresses a product account, optionally with a suffix
// (revenue, commission recovery, ...).
func ProductAccount(productID, suffix string) BookingAccount {
	return BookingAccount{Role: RoleProduct, ProductID: productID, Suffix: suffix}
}

// FundAccount addresses the holdings account of a fund.
func FundAccount(fundID string) BookingAccount {
	return BookingAccount{Role: RoleFund, FundID: fundID}
}

// ScheduleAccount addresses the schedule's internal cash account.
func ScheduleAccount(scheduleID string) BookingAccount {
	return BookingAccount{Role: RoleSchedule, ScheduleID: scheduleID}
}

// AccountScheme resolves booking accounts from static product and fund
// configuration. Resolution is pure and stable: the same address always
// yields the same number for the life of a contract, because prefixes and
// mappings derive from immutable identifiers.
type AccountScheme struct {
	CustomerPrefix  string
	SchedulePrefix  string
	ProductAccounts map[string]string
	FundAccounts    map[string]string
}

// Resolve maps an abstract booking account to a concrete account number.
func (s *AccountScheme) Resolve(a BookingAccount) (string, error) {
	switch a.Role {
	case RoleCustomer:
		return s.CustomerPrefix + a.CustomerID, nil
	case RoleSchedule:
		return s.SchedulePrefix + a.ScheduleID, nil
	case RoleProduct:
		base, ok := s.ProductAccounts[a.ProductID]
		if !ok {
			return "", fmt.Errorf("product %s: %w", a.ProductID, ErrUnmappedAccount)
		}

		if a.Suffix != "" {
			return base + "." + a.Suffix, nil
		}

		return base, nil
	case RoleFund:
		number, ok := s.FundAccounts[a.FundID]
		if !ok {
			return "", fmt.Errorf("fund %s: %w", a.FundID, ErrUnmappedAccount)
		}

		return number, nil
	default:
		return "", fmt.Errorf("role %q: %w", a.Role, ErrUnmappedAccount)
	}
}

package domain_test

import (
	"errors"
	"testing"

	"github.com/iho/contractledger/internal/domain"
)

func testScheme() *domain.AccountScheme {
	return &domain.AccountScheme{
		CustomerPrefix: "400",
		SchedulePrefix: "290",
		ProductAccounts: map[string]string{
			"prod-1": "700100",
		},
		FundAccounts: map[string]string{
			"fund-1": "520010",
		},
	}
}

func TestAccountSchemeResolve(t *testing.T) {
	scheme := testScheme()

	tests := []struct {
		name    string
		account domain.BookingAccount
		want    string
	}{
		{"customer", domain.CustomerAccount("c42"), "400c42"},
		{"schedule", domain.ScheduleAccount("s7"), "290s7"},
		{"product", domain.ProductAccount("prod-1", ""), "700100"},
		{"product suffix", domain.ProductAccount("prod-1", "commission"), "700100.commission"},
		{"fund", domain.FundAccount("fund-1"), "520010"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scheme.Resolve(tt.account)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %s, want %s", got, tt.want)
			}

			// Resolution must be stable.
			again, _ := scheme.Resolve(tt.account)
			if again != got {
				t.Errorf("Resolve() not stable: %s then %s", got, again)
			}
		})
	}
}

func TestAccountSchemeResolveUnmapped(t *testing.T) {
	scheme := testScheme()

	_, err := scheme.Resolve(domain.FundAccount("unknown"))
	if !errors.Is(err, domain.ErrUnmappedAccount) {
		t.Errorf("expected ErrUnmappedAccount, got %v", err)
	}

	_, err = scheme.Resolve(domain.ProductAccount("unknown", ""))
	if !errors.Is(err, domain.ErrUnmappedAccount) {
		t.Errorf("expected ErrUnmappedAccount, got %v", err)
	}
}

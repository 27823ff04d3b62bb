package main

import (
	"errors"
	"testing"

	"github.com/iho/contractledger/internal/domain"
)

func TestFailureKind(t *testing.T) {
	violation := domain.NewRuleViolation(domain.RuleMissingQuotation, "no quotation", "")
	if got := failureKind(violation); got != "business" {
		t.Fatalf("expected business failure, got %s", got)
	}

	if got := failureKind(errors.New("connection reset")); got != "fault" {
		t.Fatalf("expected fault, got %s", got)
	}
}

package postgres

import (
	"context"
	"testing"
)

func TestNewPoolRejectsMalformedURL(t *testing.T) {
	if _, err := NewPool(context.Background(), "not-a-url", 4, 1); err == nil {
		t.Fatal("expected error for malformed database URL")
	}
}

func TestNewPoolWithConfigRejectsMalformedURL(t *testing.T) {
	_, err := NewPoolWithConfig(context.Background(), PoolConfig{DatabaseURL: "not-a-url"})
	if err == nil {
		t.Fatal("expected error for malformed database URL")
	}
}

func TestNewPoolWithConfigFailsWithoutServer(t *testing.T) {
	cfg := PoolConfig{
		DatabaseURL: "postgres://invalid:5432/ledger",
		MaxConns:    1,
		MinConns:    0,
	}

	if _, err := NewPoolWithConfig(context.Background(), cfg); err == nil {
		t.Fatal("expected error when no server is reachable")
	}
}

// Package testutil provides shared testing utilities and helpers.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/vpnforge/vpnforge/internal/ledger"
)

const testContextTimeout = 5 * time.Second

// LedgerBuilder provides a fluent interface for building test ledgers.
type LedgerBuilder struct {
	ledger *ledger.Ledger
}

// NewLedgerBuilder creates a new LedgerBuilder for region.
func NewLedgerBuilder(region string) *LedgerBuilder {
	return &LedgerBuilder{ledger: ledger.New(region)}
}

// With records a created entry.
func (b *LedgerBuilder) With(name, id string) *LedgerBuilder {
	b.ledger.Set(name, id)
	return b
}

// WithAdopted records an operator-supplied entry.
func (b *LedgerBuilder) WithAdopted(name, id string) *LedgerBuilder {
	b.ledger.Adopt(name, id)
	return b
}

// WithNetwork records a created VPC, subnet, gateway and route table.
func (b *LedgerBuilder) WithNetwork() *LedgerBuilder {
	return b.
		With(ledger.VPC, "vpc-0001").
		With(ledger.Subnet, "subnet-0001").
		With(ledger.InternetGateway, "igw-0001").
		With(ledger.RouteTable, "rtb-0001")
}

// Build returns the constructed Ledger.
func (b *LedgerBuilder) Build() *ledger.Ledger {
	return b.ledger
}

// TestContext creates a test context with a reasonable timeout, cancelled
// when the test completes.
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testContextTimeout)
	t.Cleanup(cancel)
	return ctx
}

// SilentLogger creates a logger that discards all output.
func SilentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

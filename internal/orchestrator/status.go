package orchestrator

import (
	"context"
	"fmt"

	appErrors "github.com/vpnforge/vpnforge/internal/errors"
	"github.com/vpnforge/vpnforge/internal/ledger"
	"github.com/vpnforge/vpnforge/internal/provider"
)

// Status is a snapshot of the deployment as recorded and as the cloud sees it.
type Status struct {
	State    State
	Region   string
	Entries  []ledger.Entry
	Adopted  []ledger.Entry
	Instance *provider.Instance
	Address  *provider.Address
	// KeyPath is where a created key pair's private key is expected.
	KeyPath  string
	SSHUser  string
	Warnings []string
}

// Describe reads the ledger and looks up the instance and its address. Lookups
// that fail become warnings rather than errors.
func (o *Orchestrator) Describe(ctx context.Context) (*Status, error) {
	st := &Status{
		State:   stateOf(o.ledger, o.plan),
		Region:  o.ledger.Region(),
		Entries: o.ledger.Entries(),
		Adopted: o.ledger.Adopted(),
		SSHUser: o.plan.Instance.SSHUser,
	}
	if name, ok := o.ledger.Get(ledger.KeyPairName); ok && o.ledger.Owned(ledger.KeyPairName) {
		plan := o.plan.Instance
		plan.KeyName = name
		st.KeyPath = plan.KeyPath()
	}

	if id, ok := o.ledger.Get(ledger.Instance); ok {
		inst, err := o.cloud.DescribeInstance(ctx, id)
		switch {
		case appErrors.IsAlreadyAbsent(err):
			st.Warnings = append(st.Warnings, fmt.Sprintf("instance %s no longer exists", id))
		case err != nil:
			st.Warnings = append(st.Warnings, fmt.Sprintf("failed to describe instance %s: %v", id, err))
		default:
			st.Instance = &inst
		}
	}

	if id, ok := o.ledger.Get(ledger.ElasticIP); ok {
		addr, err := o.cloud.DescribeAddress(ctx, id)
		switch {
		case appErrors.IsAlreadyAbsent(err):
			st.Warnings = append(st.Warnings, fmt.Sprintf("address %s no longer exists", id))
		case err != nil:
			st.Warnings = append(st.Warnings, fmt.Sprintf("failed to describe address %s: %v", id, err))
		default:
			st.Address = &addr
		}
	}
	return st, nil
}

// PublicIP returns the elastic address, falling back to the instance's own.
func (s *Status) PublicIP() string {
	if s.Address != nil && s.Address.PublicIP != "" {
		return s.Address.PublicIP
	}
	if s.Instance != nil {
		return s.Instance.PublicIP
	}
	return ""
}

// ConnectionHint returns the ssh command reaching the VPN server.
func ConnectionHint(keyPath, user, address string) string {
	return fmt.Sprintf("ssh -i %q %s@%s", keyPath, user, address)
}

package orchestrator

import (
	"github.com/vpnforge/vpnforge/internal/ledger"
)

// State is where a deployment stands in its lifecycle.
type State string

// Lifecycle states.
const (
	StateEmpty                State = "empty"
	StatePartiallyProvisioned State = "partially-provisioned"
	StateFullyProvisioned     State = "fully-provisioned"
	StatePartiallyTornDown    State = "partially-torn-down"
)

// requiredNames lists the entries a complete deployment records.
// Adopted network entries count.
func (p Plan) requiredNames() []string {
	names := []string{ledger.VPC, ledger.Subnet}
	if !p.Network.Reuse() {
		if p.Network.SecondarySubnetCIDR != "" {
			names = append(names, ledger.SecondarySubnet)
		}
		names = append(names, ledger.InternetGateway, ledger.RouteTable)
	}
	names = append(names, ledger.SecurityGroup, ledger.KeyPairName, ledger.Instance, ledger.ElasticIP)
	if p.Guard.Enabled {
		names = append(names, ledger.LambdaRoleName, ledger.LambdaFunctionName, ledger.CloudWatchAlarmName)
	}
	return names
}

// stateOf derives the provisioning state of a ledger.
func stateOf(l *ledger.Ledger, p Plan) State {
	if l.IsEmpty() && len(l.Adopted()) == 0 {
		return StateEmpty
	}
	for _, name := range p.requiredNames() {
		if _, ok := l.Get(name); !ok {
			return StatePartiallyProvisioned
		}
	}
	return StateFullyProvisioned
}

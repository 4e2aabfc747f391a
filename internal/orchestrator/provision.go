package orchestrator

import (
	"context"
	"fmt"

	appErrors "github.com/vpnforge/vpnforge/internal/errors"
	"github.com/vpnforge/vpnforge/internal/ledger"
	"github.com/vpnforge/vpnforge/internal/provider"
)

// anywhere is the destination of the default route.
const anywhere = "0.0.0.0/0"

// stepInstanceRunning waits for the launched instance; it records nothing.
const stepInstanceRunning = "instance_running"

// Result summarises a provisioning run.
type Result struct {
	State      State
	InstanceID string
	PublicIP   string
	KeyName    string
	// KeyPath is set when a key pair was created and its private key written.
	KeyPath string
}

// Provision builds the whole topology, then wires the usage guard when
// enabled. It stops at the first failing step and leaves everything recorded
// so far in the ledger.
func (o *Orchestrator) Provision(ctx context.Context) (*Result, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}

	result := &Result{KeyName: o.plan.Instance.KeyName}
	steps := o.networkSteps()
	steps = append(steps, o.computeSteps(result)...)
	if o.plan.Guard.Enabled {
		steps = append(steps, o.guardSteps()...)
	}

	err := o.runSteps(ctx, steps)
	result.State = o.state
	result.InstanceID, _ = o.ledger.Get(ledger.Instance)
	return result, err
}

func (o *Orchestrator) validate() error {
	n := o.plan.Network
	if n.Reuse() {
		if n.ExistingVPCID == "" || n.ExistingSubnetID == "" {
			return appErrors.ErrInvalidInput("an existing network needs both a VPC id and a subnet id", nil)
		}
		if o.ledger.Owned(ledger.VPC) {
			return appErrors.ErrInvalidInput(
				"the ledger already records a created VPC; destroy it before reusing an existing network", nil)
		}
	}
	if o.plan.Instance.KeyName == "" {
		return appErrors.ErrInvalidInput("a key pair name is required", nil)
	}
	if o.plan.Instance.ImageID == "" && o.plan.Instance.ImageParameter == "" {
		return appErrors.ErrInvalidInput("an image id or image parameter is required", nil)
	}
	if err := o.checkRecordedNames(ledger.KeyPairName); err != nil {
		return err
	}
	if o.plan.Guard.Enabled {
		if err := o.plan.Guard.Threshold.Validate(); err != nil {
			return appErrors.ErrInvalidInput("invalid usage threshold", err)
		}
		return o.checkRecordedNames(guardNames...)
	}
	return nil
}

// checkRecordedNames refuses a plan that names a resource differently from the
// one the ledger records. Recording the new one would overwrite the old entry
// and leave the old resource behind on teardown.
func (o *Orchestrator) checkRecordedNames(entries ...string) error {
	for _, entry := range entries {
		recorded, ok := o.ledger.Get(entry)
		if !ok {
			continue
		}
		if planned := o.plan.nameOf(entry); planned != recorded {
			return appErrors.ErrInvalidInput(fmt.Sprintf(
				"the ledger records %s %q but the configuration names %q; destroy it before renaming", entry, recorded, planned), nil)
		}
	}
	return nil
}

func (o *Orchestrator) networkSteps() []step {
	if o.plan.Network.Reuse() {
		return []step{
			{name: ledger.VPC, record: true, run: o.adoptNetwork},
			{name: ledger.Subnet, needs: []string{ledger.VPC}, record: true, run: o.adoptSubnet},
		}
	}

	steps := []step{
		{name: ledger.VPC, record: true, run: o.ensureNetwork},
		{name: ledger.Subnet, needs: []string{ledger.VPC}, record: true, run: o.createSubnet(ledger.Subnet, 0)},
	}
	if o.plan.Network.SecondarySubnetCIDR != "" {
		steps = append(steps, step{
			name: ledger.SecondarySubnet, needs: []string{ledger.VPC}, record: true,
			run: o.createSubnet(ledger.SecondarySubnet, 1),
		})
	}
	return append(steps,
		step{name: ledger.InternetGateway, needs: []string{ledger.VPC}, record: true, run: o.ensureGateway},
		step{
			name: ledger.RouteTable, needs: []string{ledger.VPC, ledger.InternetGateway, ledger.Subnet},
			record: true, run: o.ensureRouteTable,
		},
	)
}

func (o *Orchestrator) computeSteps(result *Result) []step {
	return []step{
		{name: ledger.SecurityGroup, needs: []string{ledger.VPC}, record: true, run: o.ensureSecurityGroup},
		{name: ledger.KeyPairName, record: true, run: o.ensureKeyPair(result)},
		{
			name: ledger.Instance, needs: []string{ledger.Subnet, ledger.SecurityGroup, ledger.KeyPairName},
			record: true, run: o.ensureInstance,
		},
		{name: stepInstanceRunning, needs: []string{ledger.Instance}, run: o.waitRunning},
		{name: ledger.ElasticIP, needs: []string{ledger.Instance}, record: true, run: o.ensureAddress(result)},
	}
}

// ensureNetwork reuses the recorded VPC, then one tagged for this deployment,
// and creates one otherwise.
func (o *Orchestrator) ensureNetwork(ctx context.Context) (string, Outcome, error) {
	if id, outcome, ok := o.recorded(ledger.VPC); ok {
		exists, err := o.cloud.NetworkExists(ctx, id)
		if err != nil {
			return "", "", err
		}
		if exists {
			return id, outcome, nil
		}
	}

	tags := o.plan.tags(o.plan.Network.Name)
	id, found, err := o.cloud.FindNetwork(ctx, tags)
	if err != nil {
		return "", "", err
	}
	if found {
		return id, OutcomeReused, nil
	}

	id, err = o.cloud.CreateNetwork(ctx, o.plan.Network.VPCCIDR, tags)
	return id, OutcomeCreated, err
}

func (o *Orchestrator) adoptNetwork(ctx context.Context) (string, Outcome, error) {
	id := o.plan.Network.ExistingVPCID
	exists, err := o.cloud.NetworkExists(ctx, id)
	if err != nil {
		return "", "", err
	}
	if !exists {
		return "", "", appErrors.ErrInvalidInput(fmt.Sprintf("VPC %s does not exist", id), nil)
	}
	return id, OutcomeAdopted, o.adopt(ctx, ledger.VPC, id)
}

// adoptSubnet checks the supplied subnet belongs to the supplied VPC.
func (o *Orchestrator) adoptSubnet(ctx context.Context) (string, Outcome, error) {
	vpcID, _ := o.ledger.Get(ledger.VPC)
	id := o.plan.Network.ExistingSubnetID

	subnet, err := o.cloud.DescribeSubnet(ctx, id)
	if appErrors.IsAlreadyAbsent(err) {
		return "", "", appErrors.ErrInvalidInput(fmt.Sprintf("subnet %s does not exist", id), err)
	}
	if err != nil {
		return "", "", err
	}
	if subnet.NetworkID != vpcID {
		return "", "", appErrors.ErrInvalidInput(
			fmt.Sprintf("subnet %s belongs to %s, not %s", id, subnet.NetworkID, vpcID), nil)
	}
	return id, OutcomeAdopted, o.adopt(ctx, ledger.Subnet, id)
}

// createSubnet creates a subnet in the zone at zoneIndex. The primary subnet
// (index 0) maps public addresses on launch.
func (o *Orchestrator) createSubnet(name string, zoneIndex int) func(context.Context) (string, Outcome, error) {
	return func(ctx context.Context) (string, Outcome, error) {
		if id, outcome, ok := o.recorded(name); ok {
			return id, outcome, nil
		}

		zones, err := o.cloud.AvailabilityZones(ctx)
		if err != nil {
			return "", "", err
		}
		if len(zones) == 0 {
			return "", "", appErrors.ErrRemoteRejected(
				fmt.Sprintf("region %s reports no available zones", o.plan.Region), nil)
		}
		zone := zones[zoneIndex%len(zones)]

		cidr := o.plan.Network.SubnetCIDR
		if zoneIndex > 0 {
			cidr = o.plan.Network.SecondarySubnetCIDR
		}
		vpcID, _ := o.ledger.Get(ledger.VPC)

		id, err := o.cloud.CreateSubnet(ctx, vpcID, cidr, zone, zoneIndex == 0,
			o.plan.tags(fmt.Sprintf("%s-subnet-%d", o.plan.Network.Name, zoneIndex+1)))
		return id, OutcomeCreated, err
	}
}

func (o *Orchestrator) ensureGateway(ctx context.Context) (string, Outcome, error) {
	vpcID, _ := o.ledger.Get(ledger.VPC)

	id, outcome, ok := o.recorded(ledger.InternetGateway)
	if !ok {
		var err error
		id, err = o.cloud.CreateGateway(ctx, o.plan.tags(o.plan.Network.Name+"-igw"))
		if err != nil {
			return "", "", err
		}
		outcome = OutcomeCreated
	}

	return id, outcome, o.cloud.AttachGateway(ctx, id, vpcID)
}

func (o *Orchestrator) ensureRouteTable(ctx context.Context) (string, Outcome, error) {
	vpcID, _ := o.ledger.Get(ledger.VPC)
	gatewayID, _ := o.ledger.Get(ledger.InternetGateway)
	subnetID, _ := o.ledger.Get(ledger.Subnet)

	id, outcome, ok := o.recorded(ledger.RouteTable)
	if !ok {
		var err error
		id, err = o.cloud.CreateRouteTable(ctx, vpcID, o.plan.tags(o.plan.Network.Name+"-rt"))
		if err != nil {
			return "", "", err
		}
		outcome = OutcomeCreated
	}

	if err := o.cloud.AddRoute(ctx, id, anywhere, gatewayID); err != nil {
		return id, outcome, err
	}
	return id, outcome, o.cloud.AssociateRouteTable(ctx, id, subnetID)
}

// ensureSecurityGroup reuses the recorded group, then one with the same name in
// the VPC, and creates one otherwise. Ingress rules are (re)applied every time.
func (o *Orchestrator) ensureSecurityGroup(ctx context.Context) (string, Outcome, error) {
	vpcID, _ := o.ledger.Get(ledger.VPC)
	name := o.plan.Security.GroupName

	id, outcome, err := o.findSecurityGroup(ctx, vpcID, name)
	if err != nil {
		return "", "", err
	}
	if id == "" {
		id, err = o.cloud.CreateSecurityGroup(ctx, vpcID, name, o.plan.Security.Description, o.plan.tags(name))
		if err != nil {
			return "", "", err
		}
		outcome = OutcomeCreated
	}

	if outcome == OutcomeAdopted {
		if err = o.adopt(ctx, ledger.SecurityGroup, id); err != nil {
			return id, outcome, err
		}
	}
	return id, outcome, o.cloud.AuthorizeIngress(ctx, id, o.plan.Security.Ingress)
}

func (o *Orchestrator) findSecurityGroup(ctx context.Context, vpcID, name string) (string, Outcome, error) {
	if id, outcome, ok := o.recorded(ledger.SecurityGroup); ok {
		exists, err := o.cloud.SecurityGroupExists(ctx, id)
		if err != nil {
			return "", "", err
		}
		if exists {
			return id, outcome, nil
		}
	}

	id, found, err := o.cloud.FindSecurityGroup(ctx, vpcID, name)
	if err != nil || !found {
		return "", "", err
	}
	// A group found in an operator's VPC is theirs.
	if !o.ledger.Owned(ledger.VPC) {
		return id, OutcomeAdopted, nil
	}
	return id, OutcomeReused, nil
}

// ensureKeyPair reuses the recorded key pair or creates it. A key pair that
// already existed under that name is the operator's and is adopted.
func (o *Orchestrator) ensureKeyPair(result *Result) func(context.Context) (string, Outcome, error) {
	return func(ctx context.Context) (string, Outcome, error) {
		name := o.plan.Instance.KeyName

		if recorded, outcome, ok := o.recorded(ledger.KeyPairName); ok && recorded == name {
			exists, err := o.cloud.KeyPairExists(ctx, name)
			if err != nil {
				return "", "", err
			}
			if exists {
				return name, outcome, nil
			}
		}

		kp, err := o.cloud.CreateOrReuseKeyPair(ctx, name, o.plan.tags(name))
		if err != nil {
			return "", "", err
		}
		if kp.PrivateKey == "" {
			return name, OutcomeAdopted, o.adopt(ctx, ledger.KeyPairName, name)
		}

		path := o.plan.Instance.KeyPath()
		if err = o.writeKey(path, []byte(kp.PrivateKey)); err != nil {
			return name, OutcomeCreated, appErrors.ErrInvalidInput(
				fmt.Sprintf("key pair %s was created but its private key could not be written to %s", name, path), err)
		}
		result.KeyPath = path
		return name, OutcomeCreated, nil
	}
}

// ensureInstance reuses a recorded instance that is still alive and launches
// one otherwise.
func (o *Orchestrator) ensureInstance(ctx context.Context) (string, Outcome, error) {
	if id, ok := o.ledger.Get(ledger.Instance); ok {
		inst, err := o.cloud.DescribeInstance(ctx, id)
		if err != nil && !appErrors.IsAlreadyAbsent(err) {
			return "", "", err
		}
		if err == nil && inst.State != provider.InstanceTerminated && inst.State != provider.InstanceShuttingDown {
			return id, OutcomeReused, nil
		}
	}

	imageID := o.plan.Instance.ImageID
	if imageID == "" {
		var err error
		imageID, err = o.cloud.ResolveImage(ctx, o.plan.Instance.ImageParameter)
		if err != nil {
			return "", "", err
		}
	}

	subnetID, _ := o.ledger.Get(ledger.Subnet)
	groupID, _ := o.ledger.Get(ledger.SecurityGroup)
	keyName, _ := o.ledger.Get(ledger.KeyPairName)

	id, err := o.cloud.LaunchInstance(ctx, provider.LaunchSpec{
		ImageID:          imageID,
		InstanceType:     o.plan.Instance.InstanceType,
		KeyName:          keyName,
		SecurityGroupIDs: []string{groupID},
		SubnetID:         subnetID,
		Tags:             o.plan.tags(o.plan.Instance.Name),
		ClientToken:      o.newToken(),
	})
	return id, OutcomeCreated, err
}

func (o *Orchestrator) waitRunning(ctx context.Context) (string, Outcome, error) {
	id, _ := o.ledger.Get(ledger.Instance)

	err := WaitFor(ctx, fmt.Sprintf("instance %s to run", id), o.plan.Poll.Interval, o.plan.Poll.RunningTimeout,
		func(ctx context.Context) (bool, error) {
			inst, err := o.cloud.DescribeInstance(ctx, id)
			if appErrors.IsAlreadyAbsent(err) {
				// Not visible yet right after launch.
				return false, nil
			}
			if err != nil {
				return false, err
			}
			switch inst.State {
			case provider.InstanceRunning:
				return true, nil
			case provider.InstancePending:
				return false, nil
			default:
				return false, appErrors.ErrRemoteRejected(
					fmt.Sprintf("instance %s is %s instead of running", id, inst.State), nil)
			}
		})
	return id, OutcomeDone, err
}

// ensureAddress allocates an elastic IP and binds it to the instance. A
// recorded address already bound to the instance is kept.
func (o *Orchestrator) ensureAddress(result *Result) func(context.Context) (string, Outcome, error) {
	return func(ctx context.Context) (string, Outcome, error) {
		instanceID, _ := o.ledger.Get(ledger.Instance)

		if id, ok := o.ledger.Get(ledger.ElasticIP); ok {
			addr, err := o.cloud.DescribeAddress(ctx, id)
			if err != nil && !appErrors.IsAlreadyAbsent(err) {
				return "", "", err
			}
			if err == nil {
				result.PublicIP = addr.PublicIP
				if addr.InstanceID == instanceID {
					return id, OutcomeReused, nil
				}
				return id, OutcomeReused, o.cloud.AssociateAddress(ctx, id, instanceID)
			}
		}

		addr, err := o.cloud.AllocateAddress(ctx, o.plan.tags(o.plan.Instance.Name+"-eip"))
		if err != nil {
			return "", "", err
		}
		result.PublicIP = addr.PublicIP
		return addr.AllocationID, OutcomeCreated, o.cloud.AssociateAddress(ctx, addr.AllocationID, instanceID)
	}
}

// Package provider defines the capabilities the orchestrator consumes from a cloud.
// Implementations map remote failures onto the internal/errors taxonomy: a
// missing target is AlreadyAbsent, everything else is RemoteRejected.
package provider

import (
	"context"
)

// Networking manages the VPC topology and the security group.
type Networking interface {
	// CreateNetwork creates a VPC and returns its id
	CreateNetwork(ctx context.Context, cidr string, tags Tags) (string, error)
	// FindNetwork returns the id of a VPC carrying all tags, if any
	FindNetwork(ctx context.Context, tags Tags) (string, bool, error)
	// NetworkExists verifies a recorded VPC id is still live
	NetworkExists(ctx context.Context, id string) (bool, error)
	// ListNetworks returns every VPC in the region with its subnets
	ListNetworks(ctx context.Context) ([]Network, error)
	DeleteNetwork(ctx context.Context, id string) error

	// AvailabilityZones returns the usable zones of the region in name order
	AvailabilityZones(ctx context.Context) ([]string, error)
	CreateSubnet(ctx context.Context, networkID, cidr, zone string, public bool, tags Tags) (string, error)
	DescribeSubnet(ctx context.Context, id string) (Subnet, error)
	DeleteSubnet(ctx context.Context, id string) error

	CreateGateway(ctx context.Context, tags Tags) (string, error)
	AttachGateway(ctx context.Context, gatewayID, networkID string) error
	// DetachGateway detaches the gateway from the network; not attached is AlreadyAbsent
	DetachGateway(ctx context.Context, gatewayID, networkID string) error
	DeleteGateway(ctx context.Context, id string) error

	CreateRouteTable(ctx context.Context, networkID string, tags Tags) (string, error)
	AddRoute(ctx context.Context, tableID, destinationCIDR, gatewayID string) error
	AssociateRouteTable(ctx context.Context, tableID, subnetID string) error
	// DisassociateRouteTable removes every explicit subnet association of the table
	DisassociateRouteTable(ctx context.Context, tableID string) error
	DeleteRouteTable(ctx context.Context, id string) error

	// FindSecurityGroup looks a group up by name inside a VPC
	FindSecurityGroup(ctx context.Context, networkID, name string) (string, bool, error)
	SecurityGroupExists(ctx context.Context, id string) (bool, error)
	CreateSecurityGroup(ctx context.Context, networkID, name, description string, tags Tags) (string, error)
	// AuthorizeIngress adds the rules one by one; rules already present are not an error
	AuthorizeIngress(ctx context.Context, groupID string, rules []IngressRule) error
	DeleteSecurityGroup(ctx context.Context, id string) error

	// DeleteNetworkInterfaces removes detachable interfaces left in the VPC.
	// With a non-empty groupID only interfaces using that group are touched.
	// It returns the ids it deleted.
	DeleteNetworkInterfaces(ctx context.Context, networkID, groupID string) ([]string, error)
}

// Compute manages the key pair, the instance and its public address.
type Compute interface {
	KeyPairExists(ctx context.Context, name string) (bool, error)
	// CreateOrReuseKeyPair creates the key pair unless one with that name exists
	CreateOrReuseKeyPair(ctx context.Context, name string, tags Tags) (KeyPair, error)
	DeleteKeyPair(ctx context.Context, name string) error

	// ResolveImage turns a public parameter path into an image id
	ResolveImage(ctx context.Context, parameter string) (string, error)
	LaunchInstance(ctx context.Context, spec LaunchSpec) (string, error)
	// DescribeInstance returns AlreadyAbsent when the instance is unknown
	DescribeInstance(ctx context.Context, id string) (Instance, error)
	TerminateInstance(ctx context.Context, id string) error

	AllocateAddress(ctx context.Context, tags Tags) (Address, error)
	AssociateAddress(ctx context.Context, allocationID, instanceID string) error
	DescribeAddress(ctx context.Context, allocationID string) (Address, error)
	DisassociateAddress(ctx context.Context, associationID string) error
	ReleaseAddress(ctx context.Context, allocationID string) error
}

// Identity manages the execution role of the stop function.
type Identity interface {
	AccountID(ctx context.Context) (string, error)
	// ResourceARN builds the ARN of a regional resource in the caller's account
	ResourceARN(ctx context.Context, service, resource string) (string, error)
	// EnsureRole returns the role's ARN, creating it with trustPolicy when missing
	EnsureRole(ctx context.Context, name, trustPolicy string, tags Tags) (arn string, created bool, err error)
	AttachManagedPolicy(ctx context.Context, roleName, policyARN string) error
	PutInlinePolicy(ctx context.Context, roleName, policyName, document string) error
	// DeleteRole detaches managed policies and deletes inline ones before the role
	DeleteRole(ctx context.Context, name string) error
}

// Functions manages the stop function.
type Functions interface {
	// GetFunction returns ok=false when the function does not exist
	GetFunction(ctx context.Context, name string) (Function, bool, error)
	CreateFunction(ctx context.Context, spec FunctionSpec) (arn string, err error)
	DeleteFunction(ctx context.Context, name string) error
	// AddInvokePermission lets principal invoke the function from sourceARN; an existing statement is kept
	AddInvokePermission(ctx context.Context, functionName, statementID, principal, sourceARN string) error
	// DeleteFunctionLogs removes the log group the function wrote to
	DeleteFunctionLogs(ctx context.Context, functionName string) error
}

// Alarms manages the usage alarm.
type Alarms interface {
	// PutUsageAlarm creates or replaces the alarm and returns its ARN
	PutUsageAlarm(ctx context.Context, spec UsageAlarmSpec) (string, error)
	// AlarmARN returns the ARN the named alarm has or will have once created
	AlarmARN(ctx context.Context, name string) (string, error)
	DeleteAlarm(ctx context.Context, name string) error
}

// Provider is a single-region cloud account.
type Provider interface {
	Networking
	Compute
	Identity
	Functions
	Alarms

	// Region returns the region every call targets
	Region() string
}

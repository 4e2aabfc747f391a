package provider

// Tags are key/value labels applied to created resources.
type Tags map[string]string

// Merge returns a copy of t with other's entries layered on top.
func (t Tags) Merge(other Tags) Tags {
	merged := make(Tags, len(t)+len(other))
	for k, v := range t {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// IngressRule allows inbound traffic on a single port from a CIDR range.
type IngressRule struct {
	Protocol string
	Port     int32
	CIDR     string
}

// InstanceState is the lifecycle state of a compute instance.
type InstanceState string

// Instance states the orchestrator waits on.
const (
	InstancePending      InstanceState = "pending"
	InstanceRunning      InstanceState = "running"
	InstanceShuttingDown InstanceState = "shutting-down"
	InstanceStopping     InstanceState = "stopping"
	InstanceStopped      InstanceState = "stopped"
	InstanceTerminated   InstanceState = "terminated"
)

// Network describes an existing VPC and its subnets.
type Network struct {
	ID        string
	CIDR      string
	Name      string
	IsDefault bool
	Subnets   []Subnet
}

// Subnet describes an existing subnet.
type Subnet struct {
	ID               string
	NetworkID        string
	CIDR             string
	AvailabilityZone string
	Public           bool
}

// KeyPair is the outcome of ensuring a key pair.
// PrivateKey is only set when the key pair was created by this call.
type KeyPair struct {
	Name       string
	PrivateKey string
}

// LaunchSpec is everything needed to launch the VPN instance.
type LaunchSpec struct {
	ImageID          string
	InstanceType     string
	KeyName          string
	SecurityGroupIDs []string
	SubnetID         string
	Tags             Tags
	// ClientToken makes the launch request idempotent.
	ClientToken string
}

// Instance describes a launched instance.
type Instance struct {
	ID       string
	State    InstanceState
	PublicIP string
	SubnetID string
}

// Address describes an allocated public address.
type Address struct {
	AllocationID  string
	PublicIP      string
	AssociationID string
	InstanceID    string
}

// FunctionSpec is the stop function to create.
type FunctionSpec struct {
	Name        string
	RoleARN     string
	Runtime     string
	Handler     string
	Code        []byte
	TimeoutSecs int32
	MemoryMB    int32
	Environment map[string]string
	Tags        Tags
}

// Function describes an existing function.
type Function struct {
	Name        string
	ARN         string
	Environment map[string]string
	Tags        Tags
}

// UsageAlarmSpec is a metric-math alarm summing inbound and outbound bytes of one instance.
type UsageAlarmSpec struct {
	Name              string
	Description       string
	InstanceID        string
	Threshold         float64
	PeriodSeconds     int32
	EvaluationPeriods int32
	ActionARNs        []string
	Tags              Tags
}

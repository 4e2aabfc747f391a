package orchestrator

import (
	"path/filepath"
	"time"

	"github.com/vpnforge/vpnforge/internal/config"
	"github.com/vpnforge/vpnforge/internal/constants"
	"github.com/vpnforge/vpnforge/internal/ledger"
	"github.com/vpnforge/vpnforge/internal/provider"
	"github.com/vpnforge/vpnforge/internal/sidechannel"
)

// Plan is everything a run needs to know about the topology to build.
type Plan struct {
	Region     string
	Deployment string

	Network  NetworkPlan
	Security SecurityPlan
	Instance InstancePlan
	Guard    GuardPlan
	Poll     PollPlan
}

// NetworkPlan describes the network to create or the existing one to reuse.
type NetworkPlan struct {
	VPCCIDR             string
	SubnetCIDR          string
	SecondarySubnetCIDR string
	Name                string
	ExistingVPCID       string
	ExistingSubnetID    string
}

// Reuse reports whether operator-supplied identifiers replace network creation.
func (n NetworkPlan) Reuse() bool {
	return n.ExistingVPCID != "" || n.ExistingSubnetID != ""
}

// SecurityPlan describes the VPN security group.
type SecurityPlan struct {
	GroupName   string
	Description string
	Ingress     []provider.IngressRule
}

// InstancePlan describes the VPN server and its key pair.
type InstancePlan struct {
	ImageID        string
	ImageParameter string
	InstanceType   string
	Name           string
	KeyName        string
	KeyDir         string
	SSHUser        string
}

// KeyPath is where the private key of a created key pair is written.
func (i InstancePlan) KeyPath() string {
	return filepath.Join(i.KeyDir, i.KeyName+".pem")
}

// GuardPlan describes the usage alarm and its stop function.
type GuardPlan struct {
	Enabled       bool
	RoleName      string
	FunctionName  string
	AlarmName     string
	Runtime       string
	BootstrapPath string
	Threshold     sidechannel.Threshold
	SettleDelay   time.Duration
}

// PollPlan bounds the waits for instance state changes.
type PollPlan struct {
	Interval          time.Duration
	RunningTimeout    time.Duration
	TerminatedTimeout time.Duration
}

// PlanFromConfig builds a plan from loaded configuration.
func PlanFromConfig(cfg *config.Config) Plan {
	rules := make([]provider.IngressRule, 0, len(cfg.Security.Ingress))
	for _, r := range cfg.Security.Ingress {
		rules = append(rules, provider.IngressRule{Protocol: r.Protocol, Port: r.Port, CIDR: r.CIDR})
	}

	return Plan{
		Region:     cfg.Region,
		Deployment: cfg.Deployment,
		Network: NetworkPlan{
			VPCCIDR:             cfg.Network.VPCCIDR,
			SubnetCIDR:          cfg.Network.SubnetCIDR,
			SecondarySubnetCIDR: cfg.Network.SecondarySubnetCIDR,
			Name:                cfg.Network.Name,
			ExistingVPCID:       cfg.Network.ExistingVPCID,
			ExistingSubnetID:    cfg.Network.ExistingSubnetID,
		},
		Security: SecurityPlan{
			GroupName:   cfg.Security.GroupName,
			Description: cfg.Security.Description,
			Ingress:     rules,
		},
		Instance: InstancePlan{
			ImageID:        cfg.Instance.ImageID,
			ImageParameter: cfg.Instance.ImageParameter,
			InstanceType:   cfg.Instance.InstanceType,
			Name:           cfg.Instance.Name,
			KeyName:        cfg.Instance.KeyName,
			KeyDir:         cfg.Instance.KeyDir,
			SSHUser:        cfg.Instance.SSHUser,
		},
		Guard: GuardPlan{
			Enabled:       cfg.Guard.Enabled,
			RoleName:      cfg.Guard.RoleName,
			FunctionName:  cfg.Guard.FunctionName,
			AlarmName:     cfg.Guard.AlarmName,
			Runtime:       cfg.Guard.Runtime,
			BootstrapPath: cfg.Guard.BootstrapPath,
			Threshold: sidechannel.Threshold{
				TotalBytes:        cfg.Guard.ThresholdBytes,
				PeriodSeconds:     cfg.Guard.PeriodSeconds,
				EvaluationPeriods: cfg.Guard.EvaluationPeriods,
			},
			SettleDelay: cfg.Guard.SettleDelay,
		},
		Poll: PollPlan{
			Interval:          cfg.Poll.Interval,
			RunningTimeout:    cfg.Poll.RunningTimeout,
			TerminatedTimeout: cfg.Poll.TerminatedTimeout,
		},
	}
}

// baseTags are applied to every created resource.
func (p Plan) baseTags() provider.Tags {
	return provider.Tags{
		constants.ResourceManagedByTagKey:  constants.ProjectName,
		constants.ResourceDeploymentTagKey: p.Deployment,
	}
}

// manages reports whether tags mark a resource created for this deployment.
func (p Plan) manages(tags provider.Tags) bool {
	for k, v := range p.baseTags() {
		if tags[k] != v {
			return false
		}
	}
	return true
}

// tags returns the base tags plus a Name tag.
func (p Plan) tags(name string) provider.Tags {
	return p.baseTags().Merge(provider.Tags{constants.ResourceNameTagKey: name})
}

// nameOf returns the configured name recorded under a named ledger entry.
func (p Plan) nameOf(entry string) string {
	switch entry {
	case ledger.KeyPairName:
		return p.Instance.KeyName
	case ledger.LambdaRoleName:
		return p.Guard.RoleName
	case ledger.LambdaFunctionName:
		return p.Guard.FunctionName
	case ledger.CloudWatchAlarmName:
		return p.Guard.AlarmName
	default:
		return ""
	}
}

package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vpnforge/vpnforge/internal/client/output"
	"github.com/vpnforge/vpnforge/internal/config"
	appErrors "github.com/vpnforge/vpnforge/internal/errors"
	"github.com/vpnforge/vpnforge/internal/ledger"
	"github.com/vpnforge/vpnforge/internal/orchestrator"
	"github.com/vpnforge/vpnforge/internal/provider"
)

var (
	createRegion    string
	createVPCID     string
	createSubnetID  string
	createKeyName   string
	createSkipGuard bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Provision the VPN server and everything it needs",
	Long: `Provision the network, security group, key pair, instance and public address,
then wire the usage alarm that stops the instance. Every created resource is
recorded in the ledger; running create again resumes or confirms the deployment.`,
	Example: fmt.Sprintf(`  - %[1]s create
  - %[1]s create --region eu-west-2 --key-name office
  - %[1]s create --vpc-id vpc-0abc --subnet-id subnet-0def --skip-guard`, "vpnforge"),
	RunE: createRun,
}

func init() {
	createCmd.Flags().StringVar(&createRegion, "region", "", "AWS region to deploy into")
	createCmd.Flags().StringVar(&createVPCID, "vpc-id", "", "Reuse this existing VPC (requires --subnet-id)")
	createCmd.Flags().StringVar(&createSubnetID, "subnet-id", "", "Reuse this existing subnet (requires --vpc-id)")
	createCmd.Flags().StringVar(&createKeyName, "key-name", "", "Name of the EC2 key pair to create or reuse")
	createCmd.Flags().BoolVar(&createSkipGuard, "skip-guard", false, "Do not create the usage alarm and stop function")
	rootCmd.AddCommand(createCmd)
}

func createRun(cmd *cobra.Command, _ []string) error {
	cfg, err := getConfigFromContext(cmd)
	if err != nil {
		return err
	}
	applyCreateFlags(cfg)

	ctx := cmd.Context()
	service := NewCreateService(NewOutputWrapper(), output.IsInteractive())

	sess, err := openSession(ctx, cfg, slog.Default(), service.askRegion)
	if err != nil {
		return err
	}
	if err = service.ResolveInputs(ctx, cfg, sess.ledger, sess.cloud); err != nil {
		return err
	}
	if err = cfg.Validate(); err != nil {
		return appErrors.ErrInvalidInput("invalid configuration", err)
	}

	plan := orchestrator.PlanFromConfig(cfg)
	o, err := sess.orchestrator(plan, service.output)
	if err != nil {
		return err
	}
	return service.Create(ctx, o, plan)
}

func applyCreateFlags(cfg *config.Config) {
	if createRegion != "" {
		cfg.Region = createRegion
	}
	if createVPCID != "" {
		cfg.Network.ExistingVPCID = createVPCID
	}
	if createSubnetID != "" {
		cfg.Network.ExistingSubnetID = createSubnetID
	}
	if createKeyName != "" {
		cfg.Instance.KeyName = createKeyName
	}
	if createSkipGuard {
		cfg.Guard.Enabled = false
	}
}

// provisioner is the orchestrator surface create drives.
type provisioner interface {
	Provision(ctx context.Context) (*orchestrator.Result, error)
}

// CreateService handles the create flow.
type CreateService struct {
	output      OutputInterface
	interactive bool
}

// NewCreateService creates a new CreateService with the provided dependencies.
func NewCreateService(outputter OutputInterface, interactive bool) *CreateService {
	return &CreateService{output: outputter, interactive: interactive}
}

func (s *CreateService) askRegion() string {
	if !s.interactive {
		return ""
	}
	return s.output.PromptRequired("AWS region (e.g. eu-west-2)")
}

// ResolveInputs fills in what configuration and flags left open: a network
// and key pair the ledger already records, then the key pair name and the
// network choice, asked for interactively.
func (s *CreateService) ResolveInputs(
	ctx context.Context, cfg *config.Config, l *ledger.Ledger, lister networkLister,
) error {
	networkFromLedger(cfg, l)

	if recorded, ok := l.Get(ledger.KeyPairName); ok {
		if cfg.Instance.KeyName != "" && cfg.Instance.KeyName != recorded {
			return appErrors.ErrInvalidInput(fmt.Sprintf(
				"the instance uses key pair %q; destroy the deployment before switching to %q",
				recorded, cfg.Instance.KeyName), nil)
		}
		cfg.Instance.KeyName = recorded
	}

	if cfg.Instance.KeyName == "" {
		if s.interactive {
			cfg.Instance.KeyName = s.output.PromptRequired("Key pair name")
		}
		if cfg.Instance.KeyName == "" {
			return appErrors.ErrInvalidInput("a key pair name is required (--key-name or instance.key_name)", nil)
		}
	}

	if !s.interactive || cfg.Network.ExistingVPCID != "" || cfg.Network.ExistingSubnetID != "" {
		return nil
	}
	if _, ok := l.Get(ledger.VPC); ok {
		return nil
	}
	return s.chooseNetwork(ctx, cfg, lister)
}

func (s *CreateService) chooseNetwork(ctx context.Context, cfg *config.Config, lister networkLister) error {
	networks, err := lister.ListNetworks(ctx)
	if err != nil {
		return fmt.Errorf("failed to list networks: %w", err)
	}
	if len(networks) == 0 {
		return nil
	}

	listing := NewNetworksService(s.output)
	listing.showNetworks(networks)
	vpcID := s.output.Prompt("Existing VPC id to reuse (leave empty to create a new VPC)")
	if vpcID == "" {
		return nil
	}

	var chosen *provider.Network
	for i := range networks {
		if networks[i].ID == vpcID {
			chosen = &networks[i]
		}
	}
	if chosen == nil {
		return appErrors.ErrInvalidInput(fmt.Sprintf("VPC %s is not in %s", vpcID, lister.Region()), nil)
	}
	if len(chosen.Subnets) == 0 {
		return appErrors.ErrInvalidInput(fmt.Sprintf("VPC %s has no subnets", vpcID), nil)
	}

	listing.showSubnets(chosen.Subnets)
	subnetID := s.output.PromptRequired("Subnet id")
	for _, sn := range chosen.Subnets {
		if sn.ID == subnetID {
			cfg.Network.ExistingVPCID = vpcID
			cfg.Network.ExistingSubnetID = subnetID
			return nil
		}
	}
	return appErrors.ErrInvalidInput(fmt.Sprintf("subnet %q is not in VPC %s", subnetID, vpcID), nil)
}

// Create provisions the deployment and prints how to reach it.
func (s *CreateService) Create(ctx context.Context, p provisioner, plan orchestrator.Plan) error {
	s.output.Infof("Provisioning %s in %s", s.output.Bold(plan.Deployment), s.output.Bold(plan.Region))
	s.output.Blank()

	result, err := p.Provision(ctx)
	if err != nil {
		s.output.Blank()
		s.output.Warningf("Provisioning stopped; everything created so far is recorded in the ledger")
		s.output.Warningf("Run create again to resume, or destroy to remove it")
		return err
	}

	s.output.Blank()
	s.output.Successf("Deployment is %s", s.output.StatusBadge(string(result.State)))
	s.output.KeyValue("Instance", result.InstanceID)
	s.output.KeyValueBold("Public address", result.PublicIP)
	s.output.KeyValue("Key pair", result.KeyName)
	if result.KeyPath != "" {
		s.output.KeyValue("Private key", result.KeyPath)
	}
	if plan.Guard.Enabled {
		s.output.KeyValue("Usage guard", plan.Guard.Threshold.Description())
	}

	keyPath := result.KeyPath
	if keyPath == "" {
		keyPath = plan.Instance.KeyPath()
	}
	if result.PublicIP != "" {
		s.output.Blank()
		s.output.Box(orchestrator.ConnectionHint(keyPath, plan.Instance.SSHUser, result.PublicIP))
	}
	return nil
}

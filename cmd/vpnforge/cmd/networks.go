package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vpnforge/vpnforge/internal/provider"
)

var networksRegion string

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List the VPCs and subnets of a region",
	Long:  "List the VPCs of a region with their subnets, to pick an existing network for create --vpc-id --subnet-id",
	RunE:  networksRun,
}

func init() {
	networksCmd.Flags().StringVar(&networksRegion, "region", "", "AWS region to list")
	rootCmd.AddCommand(networksCmd)
}

func networksRun(cmd *cobra.Command, _ []string) error {
	cfg, err := getConfigFromContext(cmd)
	if err != nil {
		return err
	}
	if networksRegion != "" {
		cfg.Region = networksRegion
	}

	sess, err := openSession(cmd.Context(), cfg, slog.Default(), nil)
	if err != nil {
		return err
	}
	return NewNetworksService(NewOutputWrapper()).Display(cmd.Context(), sess.cloud)
}

// networkLister is the one provider call listing networks needs.
type networkLister interface {
	Region() string
	ListNetworks(ctx context.Context) ([]provider.Network, error)
}

// NetworksService handles network listing.
type NetworksService struct {
	output OutputInterface
}

// NewNetworksService creates a new NetworksService with the provided dependencies.
func NewNetworksService(outputter OutputInterface) *NetworksService {
	return &NetworksService{output: outputter}
}

// Display lists every VPC of the region and its subnets.
func (s *NetworksService) Display(ctx context.Context, lister networkLister) error {
	networks, err := lister.ListNetworks(ctx)
	if err != nil {
		return fmt.Errorf("failed to list networks: %w", err)
	}
	if len(networks) == 0 {
		s.output.Infof("No VPCs found in %s", lister.Region())
		return nil
	}

	s.showNetworks(networks)
	for _, n := range networks {
		if len(n.Subnets) == 0 {
			continue
		}
		s.output.Blank()
		s.output.Infof("Subnets of %s", s.output.Bold(n.ID))
		s.showSubnets(n.Subnets)
	}
	return nil
}

func (s *NetworksService) showNetworks(networks []provider.Network) {
	rows := make([][]string, 0, len(networks))
	for _, n := range networks {
		rows = append(rows, []string{n.ID, n.Name, n.CIDR, strconv.FormatBool(n.IsDefault), strconv.Itoa(len(n.Subnets))})
	}
	s.output.Table([]string{"VPC ID", "Name", "CIDR", "Default", "Subnets"}, rows)
}

func (s *NetworksService) showSubnets(subnets []provider.Subnet) {
	rows := make([][]string, 0, len(subnets))
	for _, sn := range subnets {
		rows = append(rows, []string{sn.ID, sn.CIDR, sn.AvailabilityZone, strconv.FormatBool(sn.Public)})
	}
	s.output.Table([]string{"Subnet ID", "CIDR", "Zone", "Public"}, rows)
}

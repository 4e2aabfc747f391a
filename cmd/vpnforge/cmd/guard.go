package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vpnforge/vpnforge/internal/orchestrator"
)

var guardCmd = &cobra.Command{
	Use:   "guard",
	Short: "Manage the usage alarm that stops the VPN server",
}

var guardCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create or update the usage alarm and its stop function",
	Long: `Create the role, the stop function and the alarm on the combined inbound and
outbound traffic of the instance in the ledger. Running it again rebinds the function to the current
instance and applies the configured threshold.`,
	RunE: guardCreateRun,
}

var guardDestroyCmd = &cobra.Command{
	Use:   "destroy",
	Short: "Delete the usage alarm, its stop function and role",
	Long:  "Delete the usage alarm, its stop function and role, leaving the VPN server running",
	RunE:  guardDestroyRun,
}

func init() {
	guardCmd.AddCommand(guardCreateCmd)
	guardCmd.AddCommand(guardDestroyCmd)
	rootCmd.AddCommand(guardCmd)
}

func openGuard(cmd *cobra.Command, out OutputInterface) (*orchestrator.Orchestrator, error) {
	cfg, err := getConfigFromContext(cmd)
	if err != nil {
		return nil, err
	}
	cfg.Guard.Enabled = true

	sess, err := openSession(cmd.Context(), cfg, slog.Default(), nil)
	if err != nil {
		return nil, err
	}
	return sess.resume(out)
}

func guardCreateRun(cmd *cobra.Command, _ []string) error {
	out := NewOutputWrapper()
	o, err := openGuard(cmd, out)
	if err != nil {
		return err
	}
	return NewGuardService(out).Create(cmd.Context(), o)
}

func guardDestroyRun(cmd *cobra.Command, _ []string) error {
	out := NewOutputWrapper()
	o, err := openGuard(cmd, out)
	if err != nil {
		return err
	}
	return NewGuardService(out).Destroy(cmd.Context(), o)
}

// guardian is the orchestrator surface the guard commands drive.
type guardian interface {
	Guard(ctx context.Context) error
	TeardownGuard(ctx context.Context) (*orchestrator.Report, error)
	State() orchestrator.State
}

// GuardService handles the usage guard commands.
type GuardService struct {
	output OutputInterface
}

// NewGuardService creates a new GuardService with the provided dependencies.
func NewGuardService(outputter OutputInterface) *GuardService {
	return &GuardService{output: outputter}
}

// Create wires the usage alarm to the recorded instance.
func (s *GuardService) Create(ctx context.Context, g guardian) error {
	if err := g.Guard(ctx); err != nil {
		return err
	}
	s.output.Blank()
	s.output.Successf("Usage guard is in place, deployment is %s", s.output.StatusBadge(string(g.State())))
	return nil
}

// Destroy removes the usage guard and nothing else.
func (s *GuardService) Destroy(ctx context.Context, g guardian) error {
	report, err := g.TeardownGuard(ctx)
	if err != nil {
		return err
	}
	if !report.OK() {
		s.output.Warningf("%d guard resources could not be deleted and remain in the ledger", len(report.Failures))
		return report.Err()
	}
	if len(report.Removed) == 0 {
		s.output.Infof("No usage guard recorded")
		return nil
	}
	s.output.Successf("Usage guard removed, deployment is %s", s.output.StatusBadge(string(report.State)))
	return nil
}

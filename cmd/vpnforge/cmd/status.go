package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vpnforge/vpnforge/internal/orchestrator"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the ledger records and how the server is doing",
	RunE:  statusRun,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusRun(cmd *cobra.Command, _ []string) error {
	cfg, err := getConfigFromContext(cmd)
	if err != nil {
		return err
	}

	out := NewOutputWrapper()
	sess, err := openSession(cmd.Context(), cfg, slog.Default(), nil)
	if err != nil {
		return err
	}
	o, err := sess.resume(out)
	if err != nil {
		return err
	}
	return NewStatusService(out).DisplayStatus(cmd.Context(), o)
}

// describer is the orchestrator surface status reads.
type describer interface {
	Describe(ctx context.Context) (*orchestrator.Status, error)
}

// StatusService handles status display logic.
type StatusService struct {
	output OutputInterface
}

// NewStatusService creates a new StatusService with the provided dependencies.
func NewStatusService(outputter OutputInterface) *StatusService {
	return &StatusService{output: outputter}
}

// DisplayStatus prints the deployment state, its ledger and the ssh hint.
func (s *StatusService) DisplayStatus(ctx context.Context, d describer) error {
	st, err := d.Describe(ctx)
	if err != nil {
		return err
	}

	s.output.KeyValue("Region", st.Region)
	s.output.KeyValue("State", s.output.StatusBadge(string(st.State)))
	if st.State == orchestrator.StateEmpty {
		return nil
	}

	rows := make([][]string, 0, len(st.Entries)+len(st.Adopted))
	for _, e := range st.Entries {
		rows = append(rows, []string{e.Name, e.ID, "created"})
	}
	for _, e := range st.Adopted {
		rows = append(rows, []string{e.Name, e.ID, "adopted"})
	}
	s.output.Blank()
	s.output.Table([]string{"Name", "ID", "Ownership"}, rows)

	if st.Instance != nil {
		s.output.Blank()
		s.output.KeyValue("Instance", st.Instance.ID)
		s.output.KeyValue("Instance state", s.output.StatusBadge(string(st.Instance.State)))
	}
	if ip := st.PublicIP(); ip != "" {
		s.output.KeyValueBold("Public address", ip)
	}

	for _, w := range st.Warnings {
		s.output.Warningf("%s", w)
	}

	if ip := st.PublicIP(); ip != "" && st.KeyPath != "" {
		s.output.Blank()
		s.output.Box(orchestrator.ConnectionHint(st.KeyPath, st.SSHUser, ip))
	}
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vpnforge/vpnforge/internal/client/output"
	appErrors "github.com/vpnforge/vpnforge/internal/errors"
	"github.com/vpnforge/vpnforge/internal/ledger"
	"github.com/vpnforge/vpnforge/internal/orchestrator"
)

var destroyYes bool

var destroyCmd = &cobra.Command{
	Use:   "destroy",
	Short: "Delete every resource the ledger records",
	Long: `Delete every created resource in reverse creation order. Resources that
cannot be deleted stay in the ledger and are retried by the next destroy.
An operator network reused by create is left untouched.`,
	RunE: destroyRun,
}

func init() {
	destroyCmd.Flags().BoolVarP(&destroyYes, "yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(destroyCmd)
}

func destroyRun(cmd *cobra.Command, _ []string) error {
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
	return NewDestroyService(out, output.IsInteractive()).Destroy(cmd.Context(), o, destroyYes)
}

// tearer is the orchestrator surface destroy drives.
type tearer interface {
	Ledger() *ledger.Ledger
	Teardown(ctx context.Context) (*orchestrator.Report, error)
}

// DestroyService handles the destroy flow.
type DestroyService struct {
	output      OutputInterface
	interactive bool
}

// NewDestroyService creates a new DestroyService with the provided dependencies.
func NewDestroyService(outputter OutputInterface, interactive bool) *DestroyService {
	return &DestroyService{output: outputter, interactive: interactive}
}

// Destroy confirms, then tears the deployment down. It returns an error
// naming every entry that could not be removed.
func (s *DestroyService) Destroy(ctx context.Context, t tearer, assumeYes bool) error {
	l := t.Ledger()
	if l.IsEmpty() && len(l.Adopted()) == 0 {
		s.output.Infof("Nothing to destroy in %s", l.Region())
		return nil
	}

	items := make([]string, 0, l.Len())
	for _, e := range l.Entries() {
		items = append(items, fmt.Sprintf("%s %s", s.output.Bold(e.Name), e.ID))
	}
	s.output.Infof("The following resources in %s will be deleted:", l.Region())
	s.output.List(items)

	if !assumeYes {
		if !s.interactive {
			return appErrors.ErrInvalidInput("refusing to destroy without confirmation; pass --yes", nil)
		}
		if !s.output.Confirm("Delete these resources?") {
			s.output.Infof("Aborted")
			return nil
		}
	}
	s.output.Blank()

	report, err := t.Teardown(ctx)
	if err != nil {
		return err
	}

	s.output.Blank()
	if !report.OK() {
		rows := make([][]string, 0, len(report.Failures))
		for _, f := range report.Failures {
			rows = append(rows, []string{f.Name, f.ID, f.Err.Error()})
		}
		s.output.Warningf("%d resources could not be deleted and remain in the ledger", len(report.Failures))
		s.output.Table([]string{"Name", "ID", "Error"}, rows)
		s.output.Infof("Run destroy again to retry them")
		return report.Err()
	}

	s.output.Successf("Removed %d resources, deployment is %s", len(report.Removed),
		s.output.StatusBadge(string(report.State)))
	return nil
}

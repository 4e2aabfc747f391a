package cmd

import (
	"fmt"

	"github.com/vpnforge/vpnforge/internal/orchestrator"
)

// stepReporter prints numbered lines for each orchestrator step.
type stepReporter struct {
	output  OutputInterface
	step    int
	current string
}

var _ orchestrator.Reporter = (*stepReporter)(nil)

func newStepReporter(out OutputInterface) *stepReporter {
	return &stepReporter{output: out}
}

// number returns the number of the named step. A step that fails its
// dependency check is reported without having started.
func (r *stepReporter) number(name string) int {
	if name != r.current {
		r.step++
		r.current = name
	}
	return r.step
}

func (r *stepReporter) StepStarted(name string) {
	r.output.Step(r.number(name), r.output.Bold(name))
}

func (r *stepReporter) StepSucceeded(name, id string, outcome orchestrator.Outcome) {
	message := fmt.Sprintf("%s %s", r.output.Bold(name), r.output.StatusBadge(string(outcome)))
	if id != "" {
		message = fmt.Sprintf("%s %s %s", r.output.Bold(name), id, r.output.StatusBadge(string(outcome)))
	}
	r.output.StepSuccess(r.number(name), message)
}

func (r *stepReporter) StepFailed(name, id string, err error) {
	message := fmt.Sprintf("%s failed: %v", name, err)
	if id != "" {
		message = fmt.Sprintf("%s %s failed: %v", name, id, err)
	}
	r.output.StepError(r.number(name), message)
}

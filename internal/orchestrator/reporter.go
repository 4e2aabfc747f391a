package orchestrator

// Outcome is what a step did.
type Outcome string

// Step outcomes.
const (
	OutcomeCreated Outcome = "created"
	OutcomeReused  Outcome = "reused"
	OutcomeAdopted Outcome = "adopted"
	OutcomeDone    Outcome = "done"
	OutcomeDeleted Outcome = "deleted"
	OutcomeAbsent  Outcome = "absent"
)

// Reporter receives a line per step for the operator.
type Reporter interface {
	StepStarted(name string)
	StepSucceeded(name, id string, outcome Outcome)
	StepFailed(name, id string, err error)
}

type nopReporter struct{}

func (nopReporter) StepStarted(string)                    {}
func (nopReporter) StepSucceeded(string, string, Outcome) {}
func (nopReporter) StepFailed(string, string, error)      {}

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"slices"

	appErrors "github.com/vpnforge/vpnforge/internal/errors"
	"github.com/vpnforge/vpnforge/internal/ledger"
	"github.com/vpnforge/vpnforge/internal/logger"
	"github.com/vpnforge/vpnforge/internal/provider"
)

// Removal is one ledger entry teardown dealt with.
type Removal struct {
	Name    string
	ID      string
	Outcome Outcome
}

// Failure is one ledger entry teardown could not remove. The entry stays in
// the ledger so a later run retries it.
type Failure struct {
	Name string
	ID   string
	Err  error
}

// Report summarises a teardown run.
type Report struct {
	State    State
	Removed  []Removal
	Failures []Failure
}

// OK reports whether every entry was removed.
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

// Err joins the failures, or returns nil when there were none.
func (r *Report) Err() error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, fmt.Errorf("%s (%s): %w", f.Name, f.ID, f.Err))
	}
	return errors.Join(errs...)
}

// Teardown deletes every created entry in reverse creation order. A failing
// entry is reported and kept; the walk continues with the next one. Adopted
// entries are never deleted and are forgotten once nothing created remains.
// The returned error is only set when the ledger itself could not be written
// or ctx ended.
func (o *Orchestrator) Teardown(ctx context.Context) (*Report, error) {
	report, err := o.teardown(ctx, o.ledger.Entries())
	if err != nil {
		return report, err
	}

	if o.ledger.IsEmpty() {
		o.ledger.Reset()
		if err = o.persist(ctx); err != nil {
			return report, err
		}
		o.state = StateEmpty
	}
	report.State = o.state
	return report, nil
}

// TeardownGuard removes only the usage alarm, the stop function and its role.
func (o *Orchestrator) TeardownGuard(ctx context.Context) (*Report, error) {
	var entries []ledger.Entry
	for _, e := range o.ledger.Entries() {
		if slices.Contains(guardNames, e.Name) {
			entries = append(entries, e)
		}
	}

	report, err := o.teardown(ctx, entries)
	if err != nil {
		return report, err
	}
	o.state = stateOf(o.ledger, o.plan)
	report.State = o.state
	return report, nil
}

func (o *Orchestrator) teardown(ctx context.Context, entries []ledger.Entry) (*Report, error) {
	reqLogger := logger.DeriveRequestLogger(ctx, o.logger)
	report := &Report{State: o.state}
	if len(entries) == 0 {
		return report, nil
	}
	o.state = StatePartiallyTornDown

	for _, e := range slices.Backward(entries) {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		o.reporter.StepStarted(e.Name)
		err := o.remove(ctx, e)
		outcome := OutcomeDeleted
		if appErrors.IsAlreadyAbsent(err) {
			outcome, err = OutcomeAbsent, nil
		}

		if err != nil {
			reqLogger.Error("teardown step failed", "context", map[string]any{
				"entry": e.Name,
				"id":    e.ID,
				"error": err.Error(),
			})
			o.reporter.StepFailed(e.Name, e.ID, err)
			report.Failures = append(report.Failures, Failure{Name: e.Name, ID: e.ID, Err: err})
			continue
		}

		o.ledger.Delete(e.Name)
		if err = o.persist(ctx); err != nil {
			o.reporter.StepFailed(e.Name, e.ID, err)
			return report, err
		}
		reqLogger.Info("teardown step succeeded", "entry", e.Name, "id", e.ID, "outcome", outcome)
		o.reporter.StepSucceeded(e.Name, e.ID, outcome)
		report.Removed = append(report.Removed, Removal{Name: e.Name, ID: e.ID, Outcome: outcome})
	}

	report.State = o.state
	return report, nil
}

// remove deletes the remote resource behind one entry. A missing resource is
// AlreadyAbsent.
func (o *Orchestrator) remove(ctx context.Context, e ledger.Entry) error {
	vpcID, _ := o.ledger.Get(ledger.VPC)

	switch e.Name {
	case ledger.CloudWatchAlarmName:
		return o.cloud.DeleteAlarm(ctx, e.ID)
	case ledger.LambdaFunctionName:
		return o.removeFunction(ctx, e.ID)
	case ledger.LambdaRoleName:
		return o.cloud.DeleteRole(ctx, e.ID)
	case ledger.ElasticIP:
		return o.removeAddress(ctx, e.ID)
	case ledger.Instance:
		return o.removeInstance(ctx, e.ID)
	case ledger.KeyPairName:
		return o.cloud.DeleteKeyPair(ctx, e.ID)
	case ledger.SecurityGroup:
		if vpcID != "" {
			o.sweepInterfaces(ctx, vpcID, e.ID)
		}
		return o.cloud.DeleteSecurityGroup(ctx, e.ID)
	case ledger.RouteTable:
		if err := o.cloud.DisassociateRouteTable(ctx, e.ID); err != nil && !appErrors.IsAlreadyAbsent(err) {
			return err
		}
		return o.cloud.DeleteRouteTable(ctx, e.ID)
	case ledger.InternetGateway:
		if vpcID != "" {
			if err := o.cloud.DetachGateway(ctx, e.ID, vpcID); err != nil && !appErrors.IsAlreadyAbsent(err) {
				return err
			}
		}
		return o.cloud.DeleteGateway(ctx, e.ID)
	case ledger.Subnet, ledger.SecondarySubnet:
		return o.cloud.DeleteSubnet(ctx, e.ID)
	case ledger.VPC:
		o.sweepInterfaces(ctx, e.ID, "")
		return o.cloud.DeleteNetwork(ctx, e.ID)
	default:
		return appErrors.ErrInvalidInput(fmt.Sprintf("no teardown action for ledger entry %q", e.Name), nil)
	}
}

// removeFunction deletes the function, then its log group. Log group failures
// are only logged because the group is not a ledger entry.
func (o *Orchestrator) removeFunction(ctx context.Context, name string) error {
	if err := o.cloud.DeleteFunction(ctx, name); err != nil {
		return err
	}
	if err := o.cloud.DeleteFunctionLogs(ctx, name); err != nil && !appErrors.IsAlreadyAbsent(err) {
		logger.DeriveRequestLogger(ctx, o.logger).Warn("failed to delete function logs",
			"function", name, "error", err)
	}
	return nil
}

func (o *Orchestrator) removeAddress(ctx context.Context, allocationID string) error {
	addr, err := o.cloud.DescribeAddress(ctx, allocationID)
	if err != nil {
		return err
	}
	if addr.AssociationID != "" {
		if err = o.cloud.DisassociateAddress(ctx, addr.AssociationID); err != nil && !appErrors.IsAlreadyAbsent(err) {
			return err
		}
	}
	return o.cloud.ReleaseAddress(ctx, allocationID)
}

// removeInstance terminates the instance and waits until it is gone, so the
// network it sits in can be deleted next.
func (o *Orchestrator) removeInstance(ctx context.Context, id string) error {
	if err := o.cloud.TerminateInstance(ctx, id); err != nil {
		return err
	}

	return WaitFor(ctx, fmt.Sprintf("instance %s to terminate", id), o.plan.Poll.Interval, o.plan.Poll.TerminatedTimeout,
		func(ctx context.Context) (bool, error) {
			inst, err := o.cloud.DescribeInstance(ctx, id)
			if appErrors.IsAlreadyAbsent(err) {
				return true, nil
			}
			if err != nil {
				return false, err
			}
			return inst.State == provider.InstanceTerminated, nil
		})
}

// sweepInterfaces deletes leftover network interfaces that would block the
// next delete. Failures surface through that delete.
func (o *Orchestrator) sweepInterfaces(ctx context.Context, vpcID, groupID string) {
	deleted, err := o.cloud.DeleteNetworkInterfaces(ctx, vpcID, groupID)
	reqLogger := logger.DeriveRequestLogger(ctx, o.logger)
	if len(deleted) > 0 {
		reqLogger.Info("deleted leftover network interfaces", "vpc_id", vpcID, "interfaces", deleted)
	}
	if err != nil {
		reqLogger.Warn("failed to delete leftover network interfaces", "vpc_id", vpcID, "error", err)
	}
}

package orchestrator

import (
	"context"
	"fmt"

	"github.com/vpnforge/vpnforge/internal/constants"
	appErrors "github.com/vpnforge/vpnforge/internal/errors"
	"github.com/vpnforge/vpnforge/internal/ledger"
	"github.com/vpnforge/vpnforge/internal/provider"
	awsConstants "github.com/vpnforge/vpnforge/internal/providers/aws/constants"
	"github.com/vpnforge/vpnforge/internal/sidechannel"
)

const (
	functionTimeoutSeconds = 10
	functionMemoryMB       = 128
)

// stepInvokePermission lets the alarm invoke the function; it records nothing.
const stepInvokePermission = "alarm_invoke_permission"

// guardNames are the ledger entries recorded under a configured name.
var guardNames = []string{ledger.LambdaRoleName, ledger.LambdaFunctionName, ledger.CloudWatchAlarmName}

// Guard wires the usage alarm and its stop function to an already provisioned
// instance.
func (o *Orchestrator) Guard(ctx context.Context) error {
	if err := o.plan.Guard.Threshold.Validate(); err != nil {
		return appErrors.ErrInvalidInput("invalid usage threshold", err)
	}
	if err := o.checkRecordedNames(guardNames...); err != nil {
		return err
	}
	return o.runSteps(ctx, o.guardSteps())
}

func (o *Orchestrator) guardSteps() []step {
	return []step{
		{name: ledger.LambdaRoleName, needs: []string{ledger.Instance}, record: true, run: o.ensureStopRole},
		{
			name: ledger.LambdaFunctionName, needs: []string{ledger.LambdaRoleName, ledger.Instance},
			record: true, run: o.ensureStopFunction,
		},
		{name: stepInvokePermission, needs: []string{ledger.LambdaFunctionName}, run: o.allowAlarmInvoke},
		{
			name: ledger.CloudWatchAlarmName, needs: []string{ledger.LambdaFunctionName, ledger.Instance},
			record: true, run: o.ensureUsageAlarm,
		},
	}
}

// ensureStopRole makes sure the execution role exists and may only stop the
// guarded instance. A role that existed before this deployment is adopted.
func (o *Orchestrator) ensureStopRole(ctx context.Context) (string, Outcome, error) {
	name := o.plan.Guard.RoleName
	_, recorded := o.ledger.Get(ledger.LambdaRoleName)

	trust, err := sidechannel.TrustPolicy(awsConstants.LambdaServicePrincipal)
	if err != nil {
		return "", "", err
	}
	arn, created, err := o.cloud.EnsureRole(ctx, name, trust, o.plan.tags(name))
	if err != nil {
		return "", "", err
	}
	o.roleARN = arn

	outcome := OutcomeCreated
	switch {
	case created:
	case recorded && o.ledger.Owned(ledger.LambdaRoleName):
		outcome = OutcomeReused
	default:
		outcome = OutcomeAdopted
		if err = o.adopt(ctx, ledger.LambdaRoleName, name); err != nil {
			return name, outcome, err
		}
	}

	if err = o.cloud.AttachManagedPolicy(ctx, name, awsConstants.BasicExecutionPolicyARN); err != nil {
		return name, outcome, err
	}

	policy, err := o.stopPolicy(ctx)
	if err != nil {
		return name, outcome, err
	}
	if err = o.cloud.PutInlinePolicy(ctx, name, awsConstants.StopInstancePolicyName, policy); err != nil {
		return name, outcome, err
	}

	if created {
		return name, outcome, o.sleep(ctx, o.plan.Guard.SettleDelay)
	}
	return name, outcome, nil
}

func (o *Orchestrator) stopPolicy(ctx context.Context) (string, error) {
	instanceID, _ := o.ledger.Get(ledger.Instance)

	var data sidechannel.StopPolicyData
	var err error
	if data.InstanceARN, err = o.cloud.ResourceARN(ctx, "ec2", "instance/"+instanceID); err != nil {
		return "", err
	}
	if allocationID, ok := o.ledger.Get(ledger.ElasticIP); ok {
		if data.AddressARN, err = o.cloud.ResourceARN(ctx, "ec2", "elastic-ip/"+allocationID); err != nil {
			return "", err
		}
	}
	return sidechannel.StopInstancePolicy(data)
}

// ensureStopFunction keeps a function already bound to the current instance
// and replaces one this deployment created for anything else.
func (o *Orchestrator) ensureStopFunction(ctx context.Context) (string, Outcome, error) {
	name := o.plan.Guard.FunctionName
	instanceID, _ := o.ledger.Get(ledger.Instance)

	fn, exists, err := o.cloud.GetFunction(ctx, name)
	if err != nil {
		return "", "", err
	}
	if exists {
		if fn.Tags[constants.ResourceInstanceTagKey] == instanceID {
			o.functionARN = fn.ARN
			return name, OutcomeReused, nil
		}
		if !o.plan.manages(fn.Tags) {
			return "", "", appErrors.ErrInvalidInput(fmt.Sprintf(
				"function %s exists but does not belong to deployment %s; choose another function name",
				name, o.plan.Deployment), nil)
		}
		o.logger.Info("replacing stop function bound to another instance",
			"function", name, "bound_to", fn.Tags[constants.ResourceInstanceTagKey], "instance_id", instanceID)
		if err = o.cloud.DeleteFunction(ctx, name); err != nil && !appErrors.IsAlreadyAbsent(err) {
			return "", "", err
		}
	}

	code, err := sidechannel.BuildCode(sidechannel.CodeOptions{
		Runtime:       o.plan.Guard.Runtime,
		Region:        o.plan.Region,
		InstanceID:    instanceID,
		BootstrapPath: o.plan.Guard.BootstrapPath,
	})
	if err != nil {
		return "", "", appErrors.ErrInvalidInput("failed to package the stop function", err)
	}

	if o.roleARN == "" {
		return "", "", appErrors.ErrDependencyMissing(ledger.LambdaFunctionName, ledger.LambdaRoleName)
	}

	arn, err := o.cloud.CreateFunction(ctx, provider.FunctionSpec{
		Name:        name,
		RoleARN:     o.roleARN,
		Runtime:     code.Runtime,
		Handler:     code.Handler,
		Code:        code.Zip,
		TimeoutSecs: functionTimeoutSeconds,
		MemoryMB:    functionMemoryMB,
		Environment: code.Environment,
		Tags:        o.plan.tags(name).Merge(provider.Tags{constants.ResourceInstanceTagKey: instanceID}),
	})
	if err != nil {
		return "", "", err
	}
	o.functionARN = arn
	return name, OutcomeCreated, nil
}

func (o *Orchestrator) allowAlarmInvoke(ctx context.Context) (string, Outcome, error) {
	functionName, _ := o.ledger.Get(ledger.LambdaFunctionName)

	alarmARN, err := o.cloud.AlarmARN(ctx, o.plan.Guard.AlarmName)
	if err != nil {
		return "", "", err
	}
	err = o.cloud.AddInvokePermission(ctx, functionName,
		awsConstants.AlarmInvokeStatementID, awsConstants.AlarmInvokePrincipal, alarmARN)
	return functionName, OutcomeDone, err
}

// ensureUsageAlarm puts the alarm every run so threshold changes take effect.
func (o *Orchestrator) ensureUsageAlarm(ctx context.Context) (string, Outcome, error) {
	name := o.plan.Guard.AlarmName
	instanceID, _ := o.ledger.Get(ledger.Instance)
	threshold := o.plan.Guard.Threshold

	if o.functionARN == "" {
		functionName, _ := o.ledger.Get(ledger.LambdaFunctionName)
		fn, exists, err := o.cloud.GetFunction(ctx, functionName)
		if err != nil {
			return "", "", err
		}
		if !exists {
			return "", "", appErrors.ErrDependencyMissing(ledger.CloudWatchAlarmName, ledger.LambdaFunctionName)
		}
		o.functionARN = fn.ARN
	}

	outcome := OutcomeCreated
	if o.ledger.Owned(ledger.CloudWatchAlarmName) {
		outcome = OutcomeReused
	}

	_, err := o.cloud.PutUsageAlarm(ctx, provider.UsageAlarmSpec{
		Name:              name,
		Description:       threshold.Description(),
		InstanceID:        instanceID,
		Threshold:         threshold.PerPeriod(),
		PeriodSeconds:     threshold.PeriodSeconds,
		EvaluationPeriods: threshold.EvaluationPeriods,
		ActionARNs:        []string{o.functionARN},
		Tags:              o.plan.tags(name),
	})
	if err != nil {
		return "", "", err
	}
	return name, outcome, nil
}

package cloud

import (
	"context"
	"strings"

	awsStd "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdaTypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"github.com/vpnforge/vpnforge/internal/provider"
	awsConstants "github.com/vpnforge/vpnforge/internal/providers/aws/constants"
)

// customRuntimePrefix marks runtimes that run a bootstrap binary.
const customRuntimePrefix = "provided"

// GetFunction returns a function's configuration and tags.
func (p *Provider) GetFunction(ctx context.Context, name string) (provider.Function, bool, error) {
	p.logCall(ctx, "Lambda.GetFunction", "function_name", name)
	out, err := p.clients.Lambda.GetFunction(ctx, &lambda.GetFunctionInput{
		FunctionName: awsStd.String(name),
	})
	if isNotFound(err) {
		return provider.Function{}, false, nil
	}
	if err != nil {
		return provider.Function{}, false, classify(err, "failed to get function %s", name)
	}

	fn := provider.Function{Name: name, Tags: provider.Tags(out.Tags)}
	if cfg := out.Configuration; cfg != nil {
		fn.ARN = awsStd.ToString(cfg.FunctionArn)
		if cfg.Environment != nil {
			fn.Environment = cfg.Environment.Variables
		}
	}
	return fn, true, nil
}

// CreateFunction uploads a zip package and creates the function.
// Custom runtimes are built for arm64.
func (p *Provider) CreateFunction(ctx context.Context, spec provider.FunctionSpec) (string, error) {
	p.logCall(ctx, "Lambda.CreateFunction",
		"function_name", spec.Name, "runtime", spec.Runtime, "handler", spec.Handler, "code_bytes", len(spec.Code))

	input := &lambda.CreateFunctionInput{
		FunctionName: awsStd.String(spec.Name),
		Role:         awsStd.String(spec.RoleARN),
		Runtime:      lambdaTypes.Runtime(spec.Runtime),
		Handler:      awsStd.String(spec.Handler),
		Code:         &lambdaTypes.FunctionCode{ZipFile: spec.Code},
		Tags:         spec.Tags,
	}
	if spec.TimeoutSecs > 0 {
		input.Timeout = awsStd.Int32(spec.TimeoutSecs)
	}
	if spec.MemoryMB > 0 {
		input.MemorySize = awsStd.Int32(spec.MemoryMB)
	}
	if len(spec.Environment) > 0 {
		input.Environment = &lambdaTypes.Environment{Variables: spec.Environment}
	}
	if strings.HasPrefix(spec.Runtime, customRuntimePrefix) {
		input.Architectures = []lambdaTypes.Architecture{lambdaTypes.ArchitectureArm64}
	}

	out, err := p.clients.Lambda.CreateFunction(ctx, input)
	if err != nil {
		return "", classify(err, "failed to create function %s", spec.Name)
	}
	return awsStd.ToString(out.FunctionArn), nil
}

// DeleteFunction deletes a function.
func (p *Provider) DeleteFunction(ctx context.Context, name string) error {
	p.logCall(ctx, "Lambda.DeleteFunction", "function_name", name)
	_, err := p.clients.Lambda.DeleteFunction(ctx, &lambda.DeleteFunctionInput{
		FunctionName: awsStd.String(name),
	})
	return classify(err, "failed to delete function %s", name)
}

// AddInvokePermission grants principal the right to invoke the function from sourceARN.
// A statement with the same id is replaced, since it may name another source.
func (p *Provider) AddInvokePermission(
	ctx context.Context, functionName, statementID, principal, sourceARN string,
) error {
	err := p.addPermission(ctx, functionName, statementID, principal, sourceARN)
	if !isAlreadyExists(err) {
		return classify(err, "failed to grant %s invoke on %s", principal, functionName)
	}

	p.logCall(ctx, "Lambda.RemovePermission", "function_name", functionName, "statement_id", statementID)
	_, err = p.clients.Lambda.RemovePermission(ctx, &lambda.RemovePermissionInput{
		FunctionName: awsStd.String(functionName),
		StatementId:  awsStd.String(statementID),
	})
	if err != nil && !isNotFound(err) {
		return classify(err, "failed to replace permission %s on %s", statementID, functionName)
	}
	return classify(p.addPermission(ctx, functionName, statementID, principal, sourceARN),
		"failed to grant %s invoke on %s", principal, functionName)
}

func (p *Provider) addPermission(ctx context.Context, functionName, statementID, principal, sourceARN string) error {
	p.logCall(ctx, "Lambda.AddPermission",
		"function_name", functionName, "statement_id", statementID, "principal", principal, "source_arn", sourceARN)
	_, err := p.clients.Lambda.AddPermission(ctx, &lambda.AddPermissionInput{
		FunctionName: awsStd.String(functionName),
		StatementId:  awsStd.String(statementID),
		Action:       awsStd.String("lambda:InvokeFunction"),
		Principal:    awsStd.String(principal),
		SourceArn:    awsStd.String(sourceARN),
	})
	return err
}

// DeleteFunctionLogs deletes the log group of a function.
func (p *Provider) DeleteFunctionLogs(ctx context.Context, functionName string) error {
	group := awsConstants.LogGroupPrefix + functionName
	p.logCall(ctx, "CloudWatchLogs.DeleteLogGroup", "log_group", group)
	_, err := p.clients.CloudWatchLogs.DeleteLogGroup(ctx, &cloudwatchlogs.DeleteLogGroupInput{
		LogGroupName: awsStd.String(group),
	})
	return classify(err, "failed to delete log group %s", group)
}

package cloud

import (
	"context"

	awsStd "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"

	"github.com/vpnforge/vpnforge/internal/providers/aws/client"
	"github.com/vpnforge/vpnforge/internal/testutil"
)

// apiError builds the error shape the SDK returns for a service error code.
func apiError(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: code}
}

// mockEC2 embeds the interface so only the calls a test needs are implemented.
// Calling anything else panics on the nil embedded value.
type mockEC2 struct {
	client.EC2Client

	createVpcFunc                 func(*ec2.CreateVpcInput) (*ec2.CreateVpcOutput, error)
	describeVpcsFunc              func(*ec2.DescribeVpcsInput) (*ec2.DescribeVpcsOutput, error)
	describeSubnetsFunc           func(*ec2.DescribeSubnetsInput) (*ec2.DescribeSubnetsOutput, error)
	createSubnetFunc              func(*ec2.CreateSubnetInput) (*ec2.CreateSubnetOutput, error)
	modifySubnetAttributeFunc     func(*ec2.ModifySubnetAttributeInput) (*ec2.ModifySubnetAttributeOutput, error)
	describeRouteTablesFunc       func(*ec2.DescribeRouteTablesInput) (*ec2.DescribeRouteTablesOutput, error)
	disassociateRouteTableFunc    func(*ec2.DisassociateRouteTableInput) (*ec2.DisassociateRouteTableOutput, error)
	createSecurityGroupFunc       func(*ec2.CreateSecurityGroupInput) (*ec2.CreateSecurityGroupOutput, error)
	describeSecurityGroupsFunc    func(*ec2.DescribeSecurityGroupsInput) (*ec2.DescribeSecurityGroupsOutput, error)
	authorizeIngressFunc          func(*ec2.AuthorizeSecurityGroupIngressInput) (*ec2.AuthorizeSecurityGroupIngressOutput, error)
	describeNetworkInterfacesFunc func(*ec2.DescribeNetworkInterfacesInput) (*ec2.DescribeNetworkInterfacesOutput, error)
	detachNetworkInterfaceFunc    func(*ec2.DetachNetworkInterfaceInput) (*ec2.DetachNetworkInterfaceOutput, error)
	deleteNetworkInterfaceFunc    func(*ec2.DeleteNetworkInterfaceInput) (*ec2.DeleteNetworkInterfaceOutput, error)
	describeKeyPairsFunc          func(*ec2.DescribeKeyPairsInput) (*ec2.DescribeKeyPairsOutput, error)
	createKeyPairFunc             func(*ec2.CreateKeyPairInput) (*ec2.CreateKeyPairOutput, error)
	runInstancesFunc              func(*ec2.RunInstancesInput) (*ec2.RunInstancesOutput, error)
	describeInstancesFunc         func(*ec2.DescribeInstancesInput) (*ec2.DescribeInstancesOutput, error)
	deleteVpcFunc                 func(*ec2.DeleteVpcInput) (*ec2.DeleteVpcOutput, error)
}

func (m *mockEC2) CreateVpc(
	_ context.Context, params *ec2.CreateVpcInput, _ ...func(*ec2.Options),
) (*ec2.CreateVpcOutput, error) {
	return m.createVpcFunc(params)
}

func (m *mockEC2) DescribeVpcs(
	_ context.Context, params *ec2.DescribeVpcsInput, _ ...func(*ec2.Options),
) (*ec2.DescribeVpcsOutput, error) {
	return m.describeVpcsFunc(params)
}

func (m *mockEC2) DeleteVpc(
	_ context.Context, params *ec2.DeleteVpcInput, _ ...func(*ec2.Options),
) (*ec2.DeleteVpcOutput, error) {
	return m.deleteVpcFunc(params)
}

func (m *mockEC2) DescribeSubnets(
	_ context.Context, params *ec2.DescribeSubnetsInput, _ ...func(*ec2.Options),
) (*ec2.DescribeSubnetsOutput, error) {
	return m.describeSubnetsFunc(params)
}

func (m *mockEC2) CreateSubnet(
	_ context.Context, params *ec2.CreateSubnetInput, _ ...func(*ec2.Options),
) (*ec2.CreateSubnetOutput, error) {
	return m.createSubnetFunc(params)
}

func (m *mockEC2) ModifySubnetAttribute(
	_ context.Context, params *ec2.ModifySubnetAttributeInput, _ ...func(*ec2.Options),
) (*ec2.ModifySubnetAttributeOutput, error) {
	return m.modifySubnetAttributeFunc(params)
}

func (m *mockEC2) DescribeRouteTables(
	_ context.Context, params *ec2.DescribeRouteTablesInput, _ ...func(*ec2.Options),
) (*ec2.DescribeRouteTablesOutput, error) {
	return m.describeRouteTablesFunc(params)
}

func (m *mockEC2) DisassociateRouteTable(
	_ context.Context, params *ec2.DisassociateRouteTableInput, _ ...func(*ec2.Options),
) (*ec2.DisassociateRouteTableOutput, error) {
	return m.disassociateRouteTableFunc(params)
}

func (m *mockEC2) CreateSecurityGroup(
	_ context.Context, params *ec2.CreateSecurityGroupInput, _ ...func(*ec2.Options),
) (*ec2.CreateSecurityGroupOutput, error) {
	return m.createSecurityGroupFunc(params)
}

func (m *mockEC2) DescribeSecurityGroups(
	_ context.Context, params *ec2.DescribeSecurityGroupsInput, _ ...func(*ec2.Options),
) (*ec2.DescribeSecurityGroupsOutput, error) {
	return m.describeSecurityGroupsFunc(params)
}

func (m *mockEC2) AuthorizeSecurityGroupIngress(
	_ context.Context, params *ec2.AuthorizeSecurityGroupIngressInput, _ ...func(*ec2.Options),
) (*ec2.AuthorizeSecurityGroupIngressOutput, error) {
	return m.authorizeIngressFunc(params)
}

func (m *mockEC2) DescribeNetworkInterfaces(
	_ context.Context, params *ec2.DescribeNetworkInterfacesInput, _ ...func(*ec2.Options),
) (*ec2.DescribeNetworkInterfacesOutput, error) {
	return m.describeNetworkInterfacesFunc(params)
}

func (m *mockEC2) DetachNetworkInterface(
	_ context.Context, params *ec2.DetachNetworkInterfaceInput, _ ...func(*ec2.Options),
) (*ec2.DetachNetworkInterfaceOutput, error) {
	return m.detachNetworkInterfaceFunc(params)
}

func (m *mockEC2) DeleteNetworkInterface(
	_ context.Context, params *ec2.DeleteNetworkInterfaceInput, _ ...func(*ec2.Options),
) (*ec2.DeleteNetworkInterfaceOutput, error) {
	return m.deleteNetworkInterfaceFunc(params)
}

func (m *mockEC2) DescribeKeyPairs(
	_ context.Context, params *ec2.DescribeKeyPairsInput, _ ...func(*ec2.Options),
) (*ec2.DescribeKeyPairsOutput, error) {
	return m.describeKeyPairsFunc(params)
}

func (m *mockEC2) CreateKeyPair(
	_ context.Context, params *ec2.CreateKeyPairInput, _ ...func(*ec2.Options),
) (*ec2.CreateKeyPairOutput, error) {
	return m.createKeyPairFunc(params)
}

func (m *mockEC2) RunInstances(
	_ context.Context, params *ec2.RunInstancesInput, _ ...func(*ec2.Options),
) (*ec2.RunInstancesOutput, error) {
	return m.runInstancesFunc(params)
}

func (m *mockEC2) DescribeInstances(
	_ context.Context, params *ec2.DescribeInstancesInput, _ ...func(*ec2.Options),
) (*ec2.DescribeInstancesOutput, error) {
	return m.describeInstancesFunc(params)
}

type mockIAM struct {
	client.IAMClient

	getRoleFunc                  func(*iam.GetRoleInput) (*iam.GetRoleOutput, error)
	createRoleFunc               func(*iam.CreateRoleInput) (*iam.CreateRoleOutput, error)
	listAttachedRolePoliciesFunc func(*iam.ListAttachedRolePoliciesInput) (*iam.ListAttachedRolePoliciesOutput, error)
	detachRolePolicyFunc         func(*iam.DetachRolePolicyInput) (*iam.DetachRolePolicyOutput, error)
	listRolePoliciesFunc         func(*iam.ListRolePoliciesInput) (*iam.ListRolePoliciesOutput, error)
	deleteRolePolicyFunc         func(*iam.DeleteRolePolicyInput) (*iam.DeleteRolePolicyOutput, error)
	deleteRoleFunc               func(*iam.DeleteRoleInput) (*iam.DeleteRoleOutput, error)
}

func (m *mockIAM) GetRole(
	_ context.Context, params *iam.GetRoleInput, _ ...func(*iam.Options),
) (*iam.GetRoleOutput, error) {
	return m.getRoleFunc(params)
}

func (m *mockIAM) CreateRole(
	_ context.Context, params *iam.CreateRoleInput, _ ...func(*iam.Options),
) (*iam.CreateRoleOutput, error) {
	return m.createRoleFunc(params)
}

func (m *mockIAM) ListAttachedRolePolicies(
	_ context.Context, params *iam.ListAttachedRolePoliciesInput, _ ...func(*iam.Options),
) (*iam.ListAttachedRolePoliciesOutput, error) {
	return m.listAttachedRolePoliciesFunc(params)
}

func (m *mockIAM) DetachRolePolicy(
	_ context.Context, params *iam.DetachRolePolicyInput, _ ...func(*iam.Options),
) (*iam.DetachRolePolicyOutput, error) {
	return m.detachRolePolicyFunc(params)
}

func (m *mockIAM) ListRolePolicies(
	_ context.Context, params *iam.ListRolePoliciesInput, _ ...func(*iam.Options),
) (*iam.ListRolePoliciesOutput, error) {
	return m.listRolePoliciesFunc(params)
}

func (m *mockIAM) DeleteRolePolicy(
	_ context.Context, params *iam.DeleteRolePolicyInput, _ ...func(*iam.Options),
) (*iam.DeleteRolePolicyOutput, error) {
	return m.deleteRolePolicyFunc(params)
}

func (m *mockIAM) DeleteRole(
	_ context.Context, params *iam.DeleteRoleInput, _ ...func(*iam.Options),
) (*iam.DeleteRoleOutput, error) {
	return m.deleteRoleFunc(params)
}

type mockLambda struct {
	client.LambdaClient

	getFunctionFunc    func(*lambda.GetFunctionInput) (*lambda.GetFunctionOutput, error)
	createFunctionFunc func(*lambda.CreateFunctionInput) (*lambda.CreateFunctionOutput, error)
	addPermissionFunc  func(*lambda.AddPermissionInput) (*lambda.AddPermissionOutput, error)

	removePermissionFunc func(*lambda.RemovePermissionInput) (*lambda.RemovePermissionOutput, error)
}

func (m *mockLambda) GetFunction(
	_ context.Context, params *lambda.GetFunctionInput, _ ...func(*lambda.Options),
) (*lambda.GetFunctionOutput, error) {
	return m.getFunctionFunc(params)
}

func (m *mockLambda) CreateFunction(
	_ context.Context, params *lambda.CreateFunctionInput, _ ...func(*lambda.Options),
) (*lambda.CreateFunctionOutput, error) {
	return m.createFunctionFunc(params)
}

func (m *mockLambda) AddPermission(
	_ context.Context, params *lambda.AddPermissionInput, _ ...func(*lambda.Options),
) (*lambda.AddPermissionOutput, error) {
	return m.addPermissionFunc(params)
}

func (m *mockLambda) RemovePermission(
	_ context.Context, params *lambda.RemovePermissionInput, _ ...func(*lambda.Options),
) (*lambda.RemovePermissionOutput, error) {
	return m.removePermissionFunc(params)
}

type mockCloudWatch struct {
	putMetricAlarmFunc func(*cloudwatch.PutMetricAlarmInput) (*cloudwatch.PutMetricAlarmOutput, error)
	deleteAlarmsFunc   func(*cloudwatch.DeleteAlarmsInput) (*cloudwatch.DeleteAlarmsOutput, error)
}

func (m *mockCloudWatch) PutMetricAlarm(
	_ context.Context, params *cloudwatch.PutMetricAlarmInput, _ ...func(*cloudwatch.Options),
) (*cloudwatch.PutMetricAlarmOutput, error) {
	return m.putMetricAlarmFunc(params)
}

func (m *mockCloudWatch) DeleteAlarms(
	_ context.Context, params *cloudwatch.DeleteAlarmsInput, _ ...func(*cloudwatch.Options),
) (*cloudwatch.DeleteAlarmsOutput, error) {
	return m.deleteAlarmsFunc(params)
}

type mockCloudWatchLogs struct {
	deletedGroups []string
	err           error
}

func (m *mockCloudWatchLogs) DeleteLogGroup(
	_ context.Context, params *cloudwatchlogs.DeleteLogGroupInput, _ ...func(*cloudwatchlogs.Options),
) (*cloudwatchlogs.DeleteLogGroupOutput, error) {
	m.deletedGroups = append(m.deletedGroups, awsStd.ToString(params.LogGroupName))
	return &cloudwatchlogs.DeleteLogGroupOutput{}, m.err
}

type mockSTS struct {
	calls int
	arn   string
}

func (m *mockSTS) GetCallerIdentity(
	_ context.Context, _ *sts.GetCallerIdentityInput, _ ...func(*sts.Options),
) (*sts.GetCallerIdentityOutput, error) {
	m.calls++
	return &sts.GetCallerIdentityOutput{
		Account: awsStd.String("123456789012"),
		Arn:     awsStd.String(m.arn),
	}, nil
}

type mockSSM struct {
	getParameterFunc func(*ssm.GetParameterInput) (*ssm.GetParameterOutput, error)
}

func (m *mockSSM) GetParameter(
	_ context.Context, params *ssm.GetParameterInput, _ ...func(*ssm.Options),
) (*ssm.GetParameterOutput, error) {
	return m.getParameterFunc(params)
}

// newTestProvider wires a provider to whichever mocks the test filled in.
func newTestProvider(set *client.Set) *Provider {
	if set.STS == nil {
		set.STS = &mockSTS{arn: "arn:aws:iam::123456789012:user/operator"}
	}
	return New(set, "eu-west-2", testutil.SilentLogger())
}

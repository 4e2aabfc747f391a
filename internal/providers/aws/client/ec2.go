package client

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
)

// EC2Client defines the interface for EC2 operations used to build and dismantle the VPN topology.
// This interface makes the code easier to test by allowing mock implementations.
type EC2Client interface {
	CreateVpc(
		ctx context.Context,
		params *ec2.CreateVpcInput,
		optFns ...func(*ec2.Options),
	) (*ec2.CreateVpcOutput, error)
	DescribeVpcs(
		ctx context.Context,
		params *ec2.DescribeVpcsInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeVpcsOutput, error)
	DeleteVpc(
		ctx context.Context,
		params *ec2.DeleteVpcInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DeleteVpcOutput, error)
	DescribeAvailabilityZones(
		ctx context.Context,
		params *ec2.DescribeAvailabilityZonesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeAvailabilityZonesOutput, error)
	CreateSubnet(
		ctx context.Context,
		params *ec2.CreateSubnetInput,
		optFns ...func(*ec2.Options),
	) (*ec2.CreateSubnetOutput, error)
	DescribeSubnets(
		ctx context.Context,
		params *ec2.DescribeSubnetsInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeSubnetsOutput, error)
	ModifySubnetAttribute(
		ctx context.Context,
		params *ec2.ModifySubnetAttributeInput,
		optFns ...func(*ec2.Options),
	) (*ec2.ModifySubnetAttributeOutput, error)
	DeleteSubnet(
		ctx context.Context,
		params *ec2.DeleteSubnetInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DeleteSubnetOutput, error)
	CreateInternetGateway(
		ctx context.Context,
		params *ec2.CreateInternetGatewayInput,
		optFns ...func(*ec2.Options),
	) (*ec2.CreateInternetGatewayOutput, error)
	AttachInternetGateway(
		ctx context.Context,
		params *ec2.AttachInternetGatewayInput,
		optFns ...func(*ec2.Options),
	) (*ec2.AttachInternetGatewayOutput, error)
	DetachInternetGateway(
		ctx context.Context,
		params *ec2.DetachInternetGatewayInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DetachInternetGatewayOutput, error)
	DeleteInternetGateway(
		ctx context.Context,
		params *ec2.DeleteInternetGatewayInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DeleteInternetGatewayOutput, error)
	CreateRouteTable(
		ctx context.Context,
		params *ec2.CreateRouteTableInput,
		optFns ...func(*ec2.Options),
	) (*ec2.CreateRouteTableOutput, error)
	CreateRoute(
		ctx context.Context,
		params *ec2.CreateRouteInput,
		optFns ...func(*ec2.Options),
	) (*ec2.CreateRouteOutput, error)
	AssociateRouteTable(
		ctx context.Context,
		params *ec2.AssociateRouteTableInput,
		optFns ...func(*ec2.Options),
	) (*ec2.AssociateRouteTableOutput, error)
	DescribeRouteTables(
		ctx context.Context,
		params *ec2.DescribeRouteTablesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeRouteTablesOutput, error)
	DisassociateRouteTable(
		ctx context.Context,
		params *ec2.DisassociateRouteTableInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DisassociateRouteTableOutput, error)
	DeleteRouteTable(
		ctx context.Context,
		params *ec2.DeleteRouteTableInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DeleteRouteTableOutput, error)
	CreateSecurityGroup(
		ctx context.Context,
		params *ec2.CreateSecurityGroupInput,
		optFns ...func(*ec2.Options),
	) (*ec2.CreateSecurityGroupOutput, error)
	DescribeSecurityGroups(
		ctx context.Context,
		params *ec2.DescribeSecurityGroupsInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeSecurityGroupsOutput, error)
	AuthorizeSecurityGroupIngress(
		ctx context.Context,
		params *ec2.AuthorizeSecurityGroupIngressInput,
		optFns ...func(*ec2.Options),
	) (*ec2.AuthorizeSecurityGroupIngressOutput, error)
	DeleteSecurityGroup(
		ctx context.Context,
		params *ec2.DeleteSecurityGroupInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DeleteSecurityGroupOutput, error)
	DescribeNetworkInterfaces(
		ctx context.Context,
		params *ec2.DescribeNetworkInterfacesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeNetworkInterfacesOutput, error)
	DetachNetworkInterface(
		ctx context.Context,
		params *ec2.DetachNetworkInterfaceInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DetachNetworkInterfaceOutput, error)
	DeleteNetworkInterface(
		ctx context.Context,
		params *ec2.DeleteNetworkInterfaceInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DeleteNetworkInterfaceOutput, error)
	CreateKeyPair(
		ctx context.Context,
		params *ec2.CreateKeyPairInput,
		optFns ...func(*ec2.Options),
	) (*ec2.CreateKeyPairOutput, error)
	DescribeKeyPairs(
		ctx context.Context,
		params *ec2.DescribeKeyPairsInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeKeyPairsOutput, error)
	DeleteKeyPair(
		ctx context.Context,
		params *ec2.DeleteKeyPairInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DeleteKeyPairOutput, error)
	RunInstances(
		ctx context.Context,
		params *ec2.RunInstancesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.RunInstancesOutput, error)
	DescribeInstances(
		ctx context.Context,
		params *ec2.DescribeInstancesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeInstancesOutput, error)
	TerminateInstances(
		ctx context.Context,
		params *ec2.TerminateInstancesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.TerminateInstancesOutput, error)
	AllocateAddress(
		ctx context.Context,
		params *ec2.AllocateAddressInput,
		optFns ...func(*ec2.Options),
	) (*ec2.AllocateAddressOutput, error)
	AssociateAddress(
		ctx context.Context,
		params *ec2.AssociateAddressInput,
		optFns ...func(*ec2.Options),
	) (*ec2.AssociateAddressOutput, error)
	DescribeAddresses(
		ctx context.Context,
		params *ec2.DescribeAddressesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeAddressesOutput, error)
	DisassociateAddress(
		ctx context.Context,
		params *ec2.DisassociateAddressInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DisassociateAddressOutput, error)
	ReleaseAddress(
		ctx context.Context,
		params *ec2.ReleaseAddressInput,
		optFns ...func(*ec2.Options),
	) (*ec2.ReleaseAddressOutput, error)
}

package client

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/iam"
)

// IAMClient defines the interface for IAM operations used to manage the stop function's execution role.
// This interface makes the code easier to test by allowing mock implementations.
type IAMClient interface {
	GetRole(
		ctx context.Context,
		params *iam.GetRoleInput,
		optFns ...func(*iam.Options),
	) (*iam.GetRoleOutput, error)
	CreateRole(
		ctx context.Context,
		params *iam.CreateRoleInput,
		optFns ...func(*iam.Options),
	) (*iam.CreateRoleOutput, error)
	AttachRolePolicy(
		ctx context.Context,
		params *iam.AttachRolePolicyInput,
		optFns ...func(*iam.Options),
	) (*iam.AttachRolePolicyOutput, error)
	PutRolePolicy(
		ctx context.Context,
		params *iam.PutRolePolicyInput,
		optFns ...func(*iam.Options),
	) (*iam.PutRolePolicyOutput, error)
	ListAttachedRolePolicies(
		ctx context.Context,
		params *iam.ListAttachedRolePoliciesInput,
		optFns ...func(*iam.Options),
	) (*iam.ListAttachedRolePoliciesOutput, error)
	DetachRolePolicy(
		ctx context.Context,
		params *iam.DetachRolePolicyInput,
		optFns ...func(*iam.Options),
	) (*iam.DetachRolePolicyOutput, error)
	ListRolePolicies(
		ctx context.Context,
		params *iam.ListRolePoliciesInput,
		optFns ...func(*iam.Options),
	) (*iam.ListRolePoliciesOutput, error)
	DeleteRolePolicy(
		ctx context.Context,
		params *iam.DeleteRolePolicyInput,
		optFns ...func(*iam.Options),
	) (*iam.DeleteRolePolicyOutput, error)
	DeleteRole(
		ctx context.Context,
		params *iam.DeleteRoleInput,
		optFns ...func(*iam.Options),
	) (*iam.DeleteRoleOutput, error)
}

package cloud

import (
	"context"
	"errors"

	awsStd "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/vpnforge/vpnforge/internal/provider"
)

// EnsureRole returns the ARN of the named role, creating it when missing.
func (p *Provider) EnsureRole(
	ctx context.Context, name, trustPolicy string, tags provider.Tags,
) (string, bool, error) {
	arn, found, err := p.getRole(ctx, name)
	if err != nil || found {
		return arn, false, err
	}

	p.logCall(ctx, "IAM.CreateRole", "role_name", name)
	out, err := p.clients.IAM.CreateRole(ctx, &iam.CreateRoleInput{
		RoleName:                 awsStd.String(name),
		AssumeRolePolicyDocument: awsStd.String(trustPolicy),
		Tags:                     iamTags(tags),
	})
	if isAlreadyExists(err) {
		// Created concurrently; use the existing role.
		arn, found, err = p.getRole(ctx, name)
		if err == nil && !found {
			err = absent("role %s vanished after a create conflict", name)
		}
		return arn, false, err
	}
	if err != nil {
		return "", false, classify(err, "failed to create role %s", name)
	}
	return awsStd.ToString(out.Role.Arn), true, nil
}

func (p *Provider) getRole(ctx context.Context, name string) (string, bool, error) {
	p.logCall(ctx, "IAM.GetRole", "role_name", name)
	out, err := p.clients.IAM.GetRole(ctx, &iam.GetRoleInput{RoleName: awsStd.String(name)})
	if isNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, classify(err, "failed to get role %s", name)
	}
	return awsStd.ToString(out.Role.Arn), true, nil
}

// AttachManagedPolicy attaches a managed policy to a role.
func (p *Provider) AttachManagedPolicy(ctx context.Context, roleName, policyARN string) error {
	p.logCall(ctx, "IAM.AttachRolePolicy", "role_name", roleName, "policy_arn", policyARN)
	_, err := p.clients.IAM.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
		RoleName:  awsStd.String(roleName),
		PolicyArn: awsStd.String(policyARN),
	})
	return classify(err, "failed to attach %s to %s", policyARN, roleName)
}

// PutInlinePolicy creates or replaces an inline policy of a role.
func (p *Provider) PutInlinePolicy(ctx context.Context, roleName, policyName, document string) error {
	p.logCall(ctx, "IAM.PutRolePolicy", "role_name", roleName, "policy_name", policyName)
	_, err := p.clients.IAM.PutRolePolicy(ctx, &iam.PutRolePolicyInput{
		RoleName:       awsStd.String(roleName),
		PolicyName:     awsStd.String(policyName),
		PolicyDocument: awsStd.String(document),
	})
	return classify(err, "failed to put policy %s on %s", policyName, roleName)
}

// DeleteRole deletes a role. IAM refuses to delete roles with policies, so
// managed policies are detached and inline policies deleted first.
func (p *Provider) DeleteRole(ctx context.Context, name string) error {
	var errs []error

	p.logCall(ctx, "IAM.ListAttachedRolePolicies", "role_name", name)
	attached := iam.NewListAttachedRolePoliciesPaginator(p.clients.IAM, &iam.ListAttachedRolePoliciesInput{
		RoleName: awsStd.String(name),
	})
	for attached.HasMorePages() {
		page, err := attached.NextPage(ctx)
		if err != nil {
			return classify(err, "failed to list policies attached to %s", name)
		}
		for _, policy := range page.AttachedPolicies {
			policyARN := awsStd.ToString(policy.PolicyArn)
			p.logCall(ctx, "IAM.DetachRolePolicy", "role_name", name, "policy_arn", policyARN)
			_, err = p.clients.IAM.DetachRolePolicy(ctx, &iam.DetachRolePolicyInput{
				RoleName:  awsStd.String(name),
				PolicyArn: awsStd.String(policyARN),
			})
			if err != nil && !isNotFound(err) {
				errs = append(errs, classify(err, "failed to detach %s from %s", policyARN, name))
			}
		}
	}

	p.logCall(ctx, "IAM.ListRolePolicies", "role_name", name)
	inline := iam.NewListRolePoliciesPaginator(p.clients.IAM, &iam.ListRolePoliciesInput{
		RoleName: awsStd.String(name),
	})
	for inline.HasMorePages() {
		page, err := inline.NextPage(ctx)
		if err != nil {
			return classify(err, "failed to list inline policies of %s", name)
		}
		for _, policyName := range page.PolicyNames {
			p.logCall(ctx, "IAM.DeleteRolePolicy", "role_name", name, "policy_name", policyName)
			_, err = p.clients.IAM.DeleteRolePolicy(ctx, &iam.DeleteRolePolicyInput{
				RoleName:   awsStd.String(name),
				PolicyName: awsStd.String(policyName),
			})
			if err != nil && !isNotFound(err) {
				errs = append(errs, classify(err, "failed to delete policy %s of %s", policyName, name))
			}
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	p.logCall(ctx, "IAM.DeleteRole", "role_name", name)
	_, err := p.clients.IAM.DeleteRole(ctx, &iam.DeleteRoleInput{RoleName: awsStd.String(name)})
	return classify(err, "failed to delete role %s", name)
}

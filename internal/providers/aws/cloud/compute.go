package cloud

import (
	"context"

	awsStd "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/vpnforge/vpnforge/internal/provider"
)

// KeyPairExists reports whether a key pair with that name is registered.
func (p *Provider) KeyPairExists(ctx context.Context, name string) (bool, error) {
	p.logCall(ctx, "EC2.DescribeKeyPairs", "key_name", name)
	out, err := p.clients.EC2.DescribeKeyPairs(ctx, &ec2.DescribeKeyPairsInput{
		KeyNames: []string{name},
	})
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, classify(err, "failed to describe key pair %s", name)
	}
	return len(out.KeyPairs) > 0, nil
}

// CreateOrReuseKeyPair creates an RSA key pair unless one with that name exists.
// The private key is only returned for a key pair created by this call.
func (p *Provider) CreateOrReuseKeyPair(ctx context.Context, name string, tags provider.Tags) (provider.KeyPair, error) {
	exists, err := p.KeyPairExists(ctx, name)
	if err != nil {
		return provider.KeyPair{}, err
	}
	if exists {
		return provider.KeyPair{Name: name}, nil
	}

	p.logCall(ctx, "EC2.CreateKeyPair", "key_name", name)
	out, err := p.clients.EC2.CreateKeyPair(ctx, &ec2.CreateKeyPairInput{
		KeyName:           awsStd.String(name),
		KeyType:           ec2Types.KeyTypeRsa,
		KeyFormat:         ec2Types.KeyFormatPem,
		TagSpecifications: tagSpecifications(ec2Types.ResourceTypeKeyPair, tags),
	})
	if isAlreadyExists(err) {
		return provider.KeyPair{Name: name}, nil
	}
	if err != nil {
		return provider.KeyPair{}, classify(err, "failed to create key pair %s", name)
	}

	return provider.KeyPair{
		Name:       awsStd.ToString(out.KeyName),
		PrivateKey: awsStd.ToString(out.KeyMaterial),
	}, nil
}

// DeleteKeyPair deletes a key pair by name.
func (p *Provider) DeleteKeyPair(ctx context.Context, name string) error {
	p.logCall(ctx, "EC2.DeleteKeyPair", "key_name", name)
	_, err := p.clients.EC2.DeleteKeyPair(ctx, &ec2.DeleteKeyPairInput{KeyName: awsStd.String(name)})
	return classify(err, "failed to delete key pair %s", name)
}

// ResolveImage reads an image id from a public SSM parameter.
func (p *Provider) ResolveImage(ctx context.Context, parameter string) (string, error) {
	p.logCall(ctx, "SSM.GetParameter", "name", parameter)
	out, err := p.clients.SSM.GetParameter(ctx, &ssm.GetParameterInput{Name: awsStd.String(parameter)})
	if err != nil {
		return "", classify(err, "failed to resolve image parameter %s", parameter)
	}
	if out.Parameter == nil || awsStd.ToString(out.Parameter.Value) == "" {
		return "", absent("image parameter %s has no value", parameter)
	}
	return awsStd.ToString(out.Parameter.Value), nil
}

// LaunchInstance launches exactly one instance.
func (p *Provider) LaunchInstance(ctx context.Context, spec provider.LaunchSpec) (string, error) {
	p.logCall(ctx, "EC2.RunInstances",
		"image_id", spec.ImageID, "instance_type", spec.InstanceType,
		"subnet_id", spec.SubnetID, "key_name", spec.KeyName)

	input := &ec2.RunInstancesInput{
		ImageId:           awsStd.String(spec.ImageID),
		InstanceType:      ec2Types.InstanceType(spec.InstanceType),
		MinCount:          awsStd.Int32(1),
		MaxCount:          awsStd.Int32(1),
		SecurityGroupIds:  spec.SecurityGroupIDs,
		SubnetId:          awsStd.String(spec.SubnetID),
		TagSpecifications: tagSpecifications(ec2Types.ResourceTypeInstance, spec.Tags),
	}
	if spec.KeyName != "" {
		input.KeyName = awsStd.String(spec.KeyName)
	}
	if spec.ClientToken != "" {
		input.ClientToken = awsStd.String(spec.ClientToken)
	}

	out, err := p.clients.EC2.RunInstances(ctx, input)
	if err != nil {
		return "", classify(err, "failed to launch instance from %s", spec.ImageID)
	}
	if len(out.Instances) == 0 {
		return "", absent("launch of %s returned no instance", spec.ImageID)
	}
	return awsStd.ToString(out.Instances[0].InstanceId), nil
}

// DescribeInstance returns the current state of an instance.
func (p *Provider) DescribeInstance(ctx context.Context, id string) (provider.Instance, error) {
	p.logCall(ctx, "EC2.DescribeInstances", "instance_id", id)
	out, err := p.clients.EC2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil {
		return provider.Instance{}, classify(err, "failed to describe instance %s", id)
	}

	for _, reservation := range out.Reservations {
		for i := range reservation.Instances {
			inst := &reservation.Instances[i]
			if awsStd.ToString(inst.InstanceId) != id {
				continue
			}
			result := provider.Instance{
				ID:       id,
				PublicIP: awsStd.ToString(inst.PublicIpAddress),
				SubnetID: awsStd.ToString(inst.SubnetId),
			}
			if inst.State != nil {
				result.State = provider.InstanceState(inst.State.Name)
			}
			return result, nil
		}
	}
	return provider.Instance{}, absent("instance %s not found", id)
}

// TerminateInstance requests termination; it does not wait.
func (p *Provider) TerminateInstance(ctx context.Context, id string) error {
	p.logCall(ctx, "EC2.TerminateInstances", "instance_id", id)
	_, err := p.clients.EC2.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{id},
	})
	return classify(err, "failed to terminate instance %s", id)
}

// AllocateAddress allocates a VPC elastic IP.
func (p *Provider) AllocateAddress(ctx context.Context, tags provider.Tags) (provider.Address, error) {
	p.logCall(ctx, "EC2.AllocateAddress")
	out, err := p.clients.EC2.AllocateAddress(ctx, &ec2.AllocateAddressInput{
		Domain:            ec2Types.DomainTypeVpc,
		TagSpecifications: tagSpecifications(ec2Types.ResourceTypeElasticIp, tags),
	})
	if err != nil {
		return provider.Address{}, classify(err, "failed to allocate elastic IP")
	}
	return provider.Address{
		AllocationID: awsStd.ToString(out.AllocationId),
		PublicIP:     awsStd.ToString(out.PublicIp),
	}, nil
}

// AssociateAddress binds an allocated address to an instance.
func (p *Provider) AssociateAddress(ctx context.Context, allocationID, instanceID string) error {
	p.logCall(ctx, "EC2.AssociateAddress", "allocation_id", allocationID, "instance_id", instanceID)
	_, err := p.clients.EC2.AssociateAddress(ctx, &ec2.AssociateAddressInput{
		AllocationId: awsStd.String(allocationID),
		InstanceId:   awsStd.String(instanceID),
	})
	return classify(err, "failed to associate %s with %s", allocationID, instanceID)
}

// DescribeAddress returns an allocated address and its current association.
func (p *Provider) DescribeAddress(ctx context.Context, allocationID string) (provider.Address, error) {
	p.logCall(ctx, "EC2.DescribeAddresses", "allocation_id", allocationID)
	out, err := p.clients.EC2.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{
		AllocationIds: []string{allocationID},
	})
	if err != nil {
		return provider.Address{}, classify(err, "failed to describe address %s", allocationID)
	}
	if len(out.Addresses) == 0 {
		return provider.Address{}, absent("address %s not found", allocationID)
	}

	addr := out.Addresses[0]
	return provider.Address{
		AllocationID:  awsStd.ToString(addr.AllocationId),
		PublicIP:      awsStd.ToString(addr.PublicIp),
		AssociationID: awsStd.ToString(addr.AssociationId),
		InstanceID:    awsStd.ToString(addr.InstanceId),
	}, nil
}

// DisassociateAddress removes an address association.
func (p *Provider) DisassociateAddress(ctx context.Context, associationID string) error {
	p.logCall(ctx, "EC2.DisassociateAddress", "association_id", associationID)
	_, err := p.clients.EC2.DisassociateAddress(ctx, &ec2.DisassociateAddressInput{
		AssociationId: awsStd.String(associationID),
	})
	return classify(err, "failed to disassociate %s", associationID)
}

// ReleaseAddress returns an address to the pool.
func (p *Provider) ReleaseAddress(ctx context.Context, allocationID string) error {
	p.logCall(ctx, "EC2.ReleaseAddress", "allocation_id", allocationID)
	_, err := p.clients.EC2.ReleaseAddress(ctx, &ec2.ReleaseAddressInput{
		AllocationId: awsStd.String(allocationID),
	})
	return classify(err, "failed to release %s", allocationID)
}

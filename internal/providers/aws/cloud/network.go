package cloud

import (
	"context"
	"errors"
	"slices"
	"time"

	awsStd "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/vpnforge/vpnforge/internal/constants"
	"github.com/vpnforge/vpnforge/internal/logger"
	"github.com/vpnforge/vpnforge/internal/provider"
)

// Bounds of the wait between force-detaching an interface and deleting it.
const (
	interfaceDetachTimeout  = 2 * time.Minute
	interfaceDetachMinDelay = 2 * time.Second
	interfaceDetachMaxDelay = 15 * time.Second
)

// CreateNetwork creates a VPC.
func (p *Provider) CreateNetwork(ctx context.Context, cidr string, tags provider.Tags) (string, error) {
	p.logCall(ctx, "EC2.CreateVpc", "cidr", cidr)
	out, err := p.clients.EC2.CreateVpc(ctx, &ec2.CreateVpcInput{
		CidrBlock:         awsStd.String(cidr),
		TagSpecifications: tagSpecifications(ec2Types.ResourceTypeVpc, tags),
	})
	if err != nil {
		return "", classify(err, "failed to create VPC %s", cidr)
	}
	return awsStd.ToString(out.Vpc.VpcId), nil
}

// FindNetwork returns the first VPC carrying every tag.
func (p *Provider) FindNetwork(ctx context.Context, tags provider.Tags) (string, bool, error) {
	p.logCall(ctx, "EC2.DescribeVpcs", "tags", tags)
	out, err := p.clients.EC2.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{
		Filters: tagFilters(tags),
	})
	if err != nil {
		return "", false, classify(err, "failed to look up VPC by tags")
	}
	if len(out.Vpcs) == 0 {
		return "", false, nil
	}
	return awsStd.ToString(out.Vpcs[0].VpcId), true, nil
}

// NetworkExists reports whether the VPC is still there.
func (p *Provider) NetworkExists(ctx context.Context, id string) (bool, error) {
	p.logCall(ctx, "EC2.DescribeVpcs", "vpc_id", id)
	out, err := p.clients.EC2.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{
		VpcIds: []string{id},
	})
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, classify(err, "failed to describe VPC %s", id)
	}
	return len(out.Vpcs) > 0, nil
}

// ListNetworks returns every VPC of the region with its subnets.
func (p *Provider) ListNetworks(ctx context.Context) ([]provider.Network, error) {
	p.logCall(ctx, "EC2.DescribeVpcs", "paginated", "true")
	var networks []provider.Network
	index := make(map[string]int)

	vpcPages := ec2.NewDescribeVpcsPaginator(p.clients.EC2, &ec2.DescribeVpcsInput{})
	for vpcPages.HasMorePages() {
		page, err := vpcPages.NextPage(ctx)
		if err != nil {
			return nil, classify(err, "failed to list VPCs")
		}
		for i := range page.Vpcs {
			vpc := &page.Vpcs[i]
			id := awsStd.ToString(vpc.VpcId)
			index[id] = len(networks)
			networks = append(networks, provider.Network{
				ID:        id,
				CIDR:      awsStd.ToString(vpc.CidrBlock),
				Name:      tagValue(vpc.Tags, constants.ResourceNameTagKey),
				IsDefault: awsStd.ToBool(vpc.IsDefault),
			})
		}
	}

	p.logCall(ctx, "EC2.DescribeSubnets", "paginated", "true")
	subnetPages := ec2.NewDescribeSubnetsPaginator(p.clients.EC2, &ec2.DescribeSubnetsInput{})
	for subnetPages.HasMorePages() {
		page, err := subnetPages.NextPage(ctx)
		if err != nil {
			return nil, classify(err, "failed to list subnets")
		}
		for i := range page.Subnets {
			subnet := toSubnet(&page.Subnets[i])
			if n, ok := index[subnet.NetworkID]; ok {
				networks[n].Subnets = append(networks[n].Subnets, subnet)
			}
		}
	}

	return networks, nil
}

// DeleteNetwork deletes a VPC.
func (p *Provider) DeleteNetwork(ctx context.Context, id string) error {
	p.logCall(ctx, "EC2.DeleteVpc", "vpc_id", id)
	_, err := p.clients.EC2.DeleteVpc(ctx, &ec2.DeleteVpcInput{VpcId: awsStd.String(id)})
	return classify(err, "failed to delete VPC %s", id)
}

// AvailabilityZones returns the available zones of the region sorted by name.
func (p *Provider) AvailabilityZones(ctx context.Context) ([]string, error) {
	p.logCall(ctx, "EC2.DescribeAvailabilityZones")
	out, err := p.clients.EC2.DescribeAvailabilityZones(ctx, &ec2.DescribeAvailabilityZonesInput{
		Filters: []ec2Types.Filter{ec2Filter("state", "available")},
	})
	if err != nil {
		return nil, classify(err, "failed to list availability zones")
	}

	zones := make([]string, 0, len(out.AvailabilityZones))
	for _, az := range out.AvailabilityZones {
		zones = append(zones, awsStd.ToString(az.ZoneName))
	}
	slices.Sort(zones)
	return zones, nil
}

// CreateSubnet creates a subnet, optionally mapping public addresses on launch.
func (p *Provider) CreateSubnet(
	ctx context.Context, networkID, cidr, zone string, public bool, tags provider.Tags,
) (string, error) {
	p.logCall(ctx, "EC2.CreateSubnet", "vpc_id", networkID, "cidr", cidr, "zone", zone)
	out, err := p.clients.EC2.CreateSubnet(ctx, &ec2.CreateSubnetInput{
		VpcId:             awsStd.String(networkID),
		CidrBlock:         awsStd.String(cidr),
		AvailabilityZone:  awsStd.String(zone),
		TagSpecifications: tagSpecifications(ec2Types.ResourceTypeSubnet, tags),
	})
	if err != nil {
		return "", classify(err, "failed to create subnet %s", cidr)
	}
	id := awsStd.ToString(out.Subnet.SubnetId)

	if public {
		p.logCall(ctx, "EC2.ModifySubnetAttribute", "subnet_id", id, "map_public_ip_on_launch", "true")
		_, err = p.clients.EC2.ModifySubnetAttribute(ctx, &ec2.ModifySubnetAttributeInput{
			SubnetId:            awsStd.String(id),
			MapPublicIpOnLaunch: &ec2Types.AttributeBooleanValue{Value: awsStd.Bool(true)},
		})
		if err != nil {
			// The subnet exists; report its id so the caller can still record it.
			return id, classify(err, "failed to enable public addresses on subnet %s", id)
		}
	}

	return id, nil
}

// DescribeSubnet returns a subnet, AlreadyAbsent when unknown.
func (p *Provider) DescribeSubnet(ctx context.Context, id string) (provider.Subnet, error) {
	p.logCall(ctx, "EC2.DescribeSubnets", "subnet_id", id)
	out, err := p.clients.EC2.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{
		SubnetIds: []string{id},
	})
	if err != nil {
		return provider.Subnet{}, classify(err, "failed to describe subnet %s", id)
	}
	if len(out.Subnets) == 0 {
		return provider.Subnet{}, absent("subnet %s not found", id)
	}
	return toSubnet(&out.Subnets[0]), nil
}

func toSubnet(s *ec2Types.Subnet) provider.Subnet {
	return provider.Subnet{
		ID:               awsStd.ToString(s.SubnetId),
		NetworkID:        awsStd.ToString(s.VpcId),
		CIDR:             awsStd.ToString(s.CidrBlock),
		AvailabilityZone: awsStd.ToString(s.AvailabilityZone),
		Public:           awsStd.ToBool(s.MapPublicIpOnLaunch),
	}
}

// DeleteSubnet deletes a subnet.
func (p *Provider) DeleteSubnet(ctx context.Context, id string) error {
	p.logCall(ctx, "EC2.DeleteSubnet", "subnet_id", id)
	_, err := p.clients.EC2.DeleteSubnet(ctx, &ec2.DeleteSubnetInput{SubnetId: awsStd.String(id)})
	return classify(err, "failed to delete subnet %s", id)
}

// CreateGateway creates an internet gateway.
func (p *Provider) CreateGateway(ctx context.Context, tags provider.Tags) (string, error) {
	p.logCall(ctx, "EC2.CreateInternetGateway")
	out, err := p.clients.EC2.CreateInternetGateway(ctx, &ec2.CreateInternetGatewayInput{
		TagSpecifications: tagSpecifications(ec2Types.ResourceTypeInternetGateway, tags),
	})
	if err != nil {
		return "", classify(err, "failed to create internet gateway")
	}
	return awsStd.ToString(out.InternetGateway.InternetGatewayId), nil
}

// AttachGateway attaches an internet gateway to a VPC.
func (p *Provider) AttachGateway(ctx context.Context, gatewayID, networkID string) error {
	p.logCall(ctx, "EC2.AttachInternetGateway", "internet_gateway_id", gatewayID, "vpc_id", networkID)
	_, err := p.clients.EC2.AttachInternetGateway(ctx, &ec2.AttachInternetGatewayInput{
		InternetGatewayId: awsStd.String(gatewayID),
		VpcId:             awsStd.String(networkID),
	})
	if isAlreadyExists(err) {
		return nil
	}
	return classify(err, "failed to attach internet gateway %s to %s", gatewayID, networkID)
}

// DetachGateway detaches an internet gateway from a VPC.
func (p *Provider) DetachGateway(ctx context.Context, gatewayID, networkID string) error {
	p.logCall(ctx, "EC2.DetachInternetGateway", "internet_gateway_id", gatewayID, "vpc_id", networkID)
	_, err := p.clients.EC2.DetachInternetGateway(ctx, &ec2.DetachInternetGatewayInput{
		InternetGatewayId: awsStd.String(gatewayID),
		VpcId:             awsStd.String(networkID),
	})
	return classify(err, "failed to detach internet gateway %s", gatewayID)
}

// DeleteGateway deletes an internet gateway.
func (p *Provider) DeleteGateway(ctx context.Context, id string) error {
	p.logCall(ctx, "EC2.DeleteInternetGateway", "internet_gateway_id", id)
	_, err := p.clients.EC2.DeleteInternetGateway(ctx, &ec2.DeleteInternetGatewayInput{
		InternetGatewayId: awsStd.String(id),
	})
	return classify(err, "failed to delete internet gateway %s", id)
}

// CreateRouteTable creates a route table in a VPC.
func (p *Provider) CreateRouteTable(ctx context.Context, networkID string, tags provider.Tags) (string, error) {
	p.logCall(ctx, "EC2.CreateRouteTable", "vpc_id", networkID)
	out, err := p.clients.EC2.CreateRouteTable(ctx, &ec2.CreateRouteTableInput{
		VpcId:             awsStd.String(networkID),
		TagSpecifications: tagSpecifications(ec2Types.ResourceTypeRouteTable, tags),
	})
	if err != nil {
		return "", classify(err, "failed to create route table in %s", networkID)
	}
	return awsStd.ToString(out.RouteTable.RouteTableId), nil
}

// AddRoute routes a destination through a gateway.
func (p *Provider) AddRoute(ctx context.Context, tableID, destinationCIDR, gatewayID string) error {
	p.logCall(ctx, "EC2.CreateRoute", "route_table_id", tableID, "destination", destinationCIDR, "gateway_id", gatewayID)
	_, err := p.clients.EC2.CreateRoute(ctx, &ec2.CreateRouteInput{
		RouteTableId:         awsStd.String(tableID),
		DestinationCidrBlock: awsStd.String(destinationCIDR),
		GatewayId:            awsStd.String(gatewayID),
	})
	if isAlreadyExists(err) {
		return nil
	}
	return classify(err, "failed to add route %s to %s", destinationCIDR, tableID)
}

// AssociateRouteTable associates a route table with a subnet.
func (p *Provider) AssociateRouteTable(ctx context.Context, tableID, subnetID string) error {
	p.logCall(ctx, "EC2.AssociateRouteTable", "route_table_id", tableID, "subnet_id", subnetID)
	_, err := p.clients.EC2.AssociateRouteTable(ctx, &ec2.AssociateRouteTableInput{
		RouteTableId: awsStd.String(tableID),
		SubnetId:     awsStd.String(subnetID),
	})
	if isAlreadyExists(err) {
		return nil
	}
	return classify(err, "failed to associate route table %s with %s", tableID, subnetID)
}

// DisassociateRouteTable removes every explicit subnet association of a route table.
func (p *Provider) DisassociateRouteTable(ctx context.Context, tableID string) error {
	p.logCall(ctx, "EC2.DescribeRouteTables", "route_table_id", tableID)
	out, err := p.clients.EC2.DescribeRouteTables(ctx, &ec2.DescribeRouteTablesInput{
		RouteTableIds: []string{tableID},
	})
	if err != nil {
		return classify(err, "failed to describe route table %s", tableID)
	}

	var errs []error
	for _, table := range out.RouteTables {
		for _, assoc := range table.Associations {
			if awsStd.ToBool(assoc.Main) || assoc.RouteTableAssociationId == nil {
				continue
			}
			associationID := awsStd.ToString(assoc.RouteTableAssociationId)
			p.logCall(ctx, "EC2.DisassociateRouteTable", "association_id", associationID)
			_, err = p.clients.EC2.DisassociateRouteTable(ctx, &ec2.DisassociateRouteTableInput{
				AssociationId: awsStd.String(associationID),
			})
			if err != nil && !isNotFound(err) {
				errs = append(errs, classify(err, "failed to remove association %s", associationID))
			}
		}
	}
	return errors.Join(errs...)
}

// DeleteRouteTable deletes a route table.
func (p *Provider) DeleteRouteTable(ctx context.Context, id string) error {
	p.logCall(ctx, "EC2.DeleteRouteTable", "route_table_id", id)
	_, err := p.clients.EC2.DeleteRouteTable(ctx, &ec2.DeleteRouteTableInput{
		RouteTableId: awsStd.String(id),
	})
	return classify(err, "failed to delete route table %s", id)
}

// FindSecurityGroup looks up a security group by name inside a VPC.
func (p *Provider) FindSecurityGroup(ctx context.Context, networkID, name string) (string, bool, error) {
	p.logCall(ctx, "EC2.DescribeSecurityGroups", "vpc_id", networkID, "group_name", name)
	out, err := p.clients.EC2.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		Filters: []ec2Types.Filter{
			ec2Filter("vpc-id", networkID),
			ec2Filter("group-name", name),
		},
	})
	if err != nil {
		return "", false, classify(err, "failed to look up security group %s", name)
	}
	if len(out.SecurityGroups) == 0 {
		return "", false, nil
	}
	return awsStd.ToString(out.SecurityGroups[0].GroupId), true, nil
}

// SecurityGroupExists reports whether the security group is still there.
func (p *Provider) SecurityGroupExists(ctx context.Context, id string) (bool, error) {
	p.logCall(ctx, "EC2.DescribeSecurityGroups", "group_id", id)
	out, err := p.clients.EC2.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		GroupIds: []string{id},
	})
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, classify(err, "failed to describe security group %s", id)
	}
	return len(out.SecurityGroups) > 0, nil
}

// CreateSecurityGroup creates a security group. When a group with the same
// name already exists in the VPC its id is returned instead.
func (p *Provider) CreateSecurityGroup(
	ctx context.Context, networkID, name, description string, tags provider.Tags,
) (string, error) {
	p.logCall(ctx, "EC2.CreateSecurityGroup", "vpc_id", networkID, "group_name", name)
	out, err := p.clients.EC2.CreateSecurityGroup(ctx, &ec2.CreateSecurityGroupInput{
		VpcId:             awsStd.String(networkID),
		GroupName:         awsStd.String(name),
		Description:       awsStd.String(description),
		TagSpecifications: tagSpecifications(ec2Types.ResourceTypeSecurityGroup, tags),
	})
	if isAlreadyExists(err) {
		id, found, findErr := p.FindSecurityGroup(ctx, networkID, name)
		if findErr != nil {
			return "", findErr
		}
		if found {
			return id, nil
		}
	}
	if err != nil {
		return "", classify(err, "failed to create security group %s", name)
	}
	return awsStd.ToString(out.GroupId), nil
}

// AuthorizeIngress adds the rules one at a time so an existing rule does not
// prevent the others from being added.
func (p *Provider) AuthorizeIngress(ctx context.Context, groupID string, rules []provider.IngressRule) error {
	for _, rule := range rules {
		p.logCall(ctx, "EC2.AuthorizeSecurityGroupIngress",
			"group_id", groupID, "protocol", rule.Protocol, "port", rule.Port, "cidr", rule.CIDR)
		_, err := p.clients.EC2.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
			GroupId:       awsStd.String(groupID),
			IpPermissions: []ec2Types.IpPermission{ipPermission(rule)},
		})
		if err != nil && !isAlreadyExists(err) {
			return classify(err, "failed to authorize %s/%d on %s", rule.Protocol, rule.Port, groupID)
		}
	}
	return nil
}

func ipPermission(rule provider.IngressRule) ec2Types.IpPermission {
	port := rule.Port
	if rule.Protocol == "icmp" || rule.Protocol == "-1" {
		port = -1
	}
	return ec2Types.IpPermission{
		IpProtocol: awsStd.String(rule.Protocol),
		FromPort:   awsStd.Int32(port),
		ToPort:     awsStd.Int32(port),
		IpRanges:   []ec2Types.IpRange{{CidrIp: awsStd.String(rule.CIDR)}},
	}
}

// DeleteSecurityGroup deletes a security group.
func (p *Provider) DeleteSecurityGroup(ctx context.Context, id string) error {
	p.logCall(ctx, "EC2.DeleteSecurityGroup", "group_id", id)
	_, err := p.clients.EC2.DeleteSecurityGroup(ctx, &ec2.DeleteSecurityGroupInput{
		GroupId: awsStd.String(id),
	})
	return classify(err, "failed to delete security group %s", id)
}

// DeleteNetworkInterfaces removes interfaces left behind in a VPC. Primary
// interfaces go away with their instance and service-managed ones cannot be
// touched, so both are skipped. Secondary attachments are force-detached first.
func (p *Provider) DeleteNetworkInterfaces(ctx context.Context, networkID, groupID string) ([]string, error) {
	filters := []ec2Types.Filter{ec2Filter("vpc-id", networkID)}
	if groupID != "" {
		filters = append(filters, ec2Filter("group-id", groupID))
	}

	p.logCall(ctx, "EC2.DescribeNetworkInterfaces", "vpc_id", networkID, "group_id", groupID, "paginated", "true")
	var (
		deleted []string
		errs    []error
	)
	pages := ec2.NewDescribeNetworkInterfacesPaginator(p.clients.EC2, &ec2.DescribeNetworkInterfacesInput{
		Filters: filters,
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return deleted, classify(err, "failed to list network interfaces in %s", networkID)
		}

		for i := range page.NetworkInterfaces {
			eni := &page.NetworkInterfaces[i]
			id := awsStd.ToString(eni.NetworkInterfaceId)
			if awsStd.ToBool(eni.RequesterManaged) {
				continue
			}

			if eni.Attachment != nil && eni.Status != ec2Types.NetworkInterfaceStatusAvailable {
				if awsStd.ToInt32(eni.Attachment.DeviceIndex) == 0 {
					continue
				}
				p.logCall(ctx, "EC2.DetachNetworkInterface", "network_interface_id", id)
				_, err = p.clients.EC2.DetachNetworkInterface(ctx, &ec2.DetachNetworkInterfaceInput{
					AttachmentId: eni.Attachment.AttachmentId,
					Force:        awsStd.Bool(true),
				})
				if err != nil && !isNotFound(err) {
					errs = append(errs, classify(err, "failed to detach network interface %s", id))
					continue
				}
				p.waitDetached(ctx, id)
			}

			p.logCall(ctx, "EC2.DeleteNetworkInterface", "network_interface_id", id)
			_, err = p.clients.EC2.DeleteNetworkInterface(ctx, &ec2.DeleteNetworkInterfaceInput{
				NetworkInterfaceId: awsStd.String(id),
			})
			switch {
			case err == nil:
				deleted = append(deleted, id)
			case !isNotFound(err):
				errs = append(errs, classify(err, "failed to delete network interface %s", id))
			}
		}
	}

	return deleted, errors.Join(errs...)
}

// waitDetached blocks until a detached interface becomes available. A timeout
// is only logged; the delete that follows reports whatever is still wrong.
func (p *Provider) waitDetached(ctx context.Context, id string) {
	p.logCall(ctx, "EC2.DescribeNetworkInterfaces", "network_interface_id", id, "waiter", "NetworkInterfaceAvailable")
	waiter := ec2.NewNetworkInterfaceAvailableWaiter(p.clients.EC2,
		func(o *ec2.NetworkInterfaceAvailableWaiterOptions) {
			o.MinDelay = interfaceDetachMinDelay
			o.MaxDelay = interfaceDetachMaxDelay
		})
	err := waiter.Wait(ctx, &ec2.DescribeNetworkInterfacesInput{
		NetworkInterfaceIds: []string{id},
	}, interfaceDetachTimeout)
	if err != nil {
		logger.DeriveRequestLogger(ctx, p.logger).Warn("network interface did not become available",
			"network_interface_id", id, "error", err)
	}
}

package cloud

import (
	"maps"
	"slices"

	awsStd "github.com/aws/aws-sdk-go-v2/aws"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	iamTypes "github.com/aws/aws-sdk-go-v2/service/iam/types"

	"github.com/vpnforge/vpnforge/internal/provider"
)

// ec2Tags converts tags to EC2 format, sorted by key.
func ec2Tags(tags provider.Tags) []ec2Types.Tag {
	out := make([]ec2Types.Tag, 0, len(tags))
	for _, k := range slices.Sorted(maps.Keys(tags)) {
		out = append(out, ec2Types.Tag{
			Key:   awsStd.String(k),
			Value: awsStd.String(tags[k]),
		})
	}
	return out
}

// tagSpecifications tags a resource at creation time.
func tagSpecifications(resourceType ec2Types.ResourceType, tags provider.Tags) []ec2Types.TagSpecification {
	if len(tags) == 0 {
		return nil
	}
	return []ec2Types.TagSpecification{{
		ResourceType: resourceType,
		Tags:         ec2Tags(tags),
	}}
}

// tagFilters matches resources carrying every tag.
func tagFilters(tags provider.Tags) []ec2Types.Filter {
	filters := make([]ec2Types.Filter, 0, len(tags))
	for _, k := range slices.Sorted(maps.Keys(tags)) {
		filters = append(filters, ec2Types.Filter{
			Name:   awsStd.String("tag:" + k),
			Values: []string{tags[k]},
		})
	}
	return filters
}

func ec2Filter(name string, values ...string) ec2Types.Filter {
	return ec2Types.Filter{
		Name:   awsStd.String(name),
		Values: values,
	}
}

// tagValue returns the value of key in an EC2 tag list.
func tagValue(tags []ec2Types.Tag, key string) string {
	for _, t := range tags {
		if awsStd.ToString(t.Key) == key {
			return awsStd.ToString(t.Value)
		}
	}
	return ""
}

func iamTags(tags provider.Tags) []iamTypes.Tag {
	out := make([]iamTypes.Tag, 0, len(tags))
	for _, k := range slices.Sorted(maps.Keys(tags)) {
		out = append(out, iamTypes.Tag{
			Key:   awsStd.String(k),
			Value: awsStd.String(tags[k]),
		})
	}
	return out
}

package cloud

import (
	"context"
	"maps"
	"slices"

	awsStd "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/vpnforge/vpnforge/internal/provider"
	awsConstants "github.com/vpnforge/vpnforge/internal/providers/aws/constants"
)

// PutUsageAlarm creates or replaces a metric-math alarm on the sum of an
// instance's inbound and outbound bytes.
func (p *Provider) PutUsageAlarm(ctx context.Context, spec provider.UsageAlarmSpec) (string, error) {
	arn, err := p.AlarmARN(ctx, spec.Name)
	if err != nil {
		return "", err
	}

	p.logCall(ctx, "CloudWatch.PutMetricAlarm",
		"alarm_name", spec.Name, "instance_id", spec.InstanceID, "threshold", spec.Threshold,
		"period", spec.PeriodSeconds, "evaluation_periods", spec.EvaluationPeriods)

	_, err = p.clients.CloudWatch.PutMetricAlarm(ctx, &cloudwatch.PutMetricAlarmInput{
		AlarmName:          awsStd.String(spec.Name),
		AlarmDescription:   awsStd.String(spec.Description),
		ActionsEnabled:     awsStd.Bool(true),
		AlarmActions:       spec.ActionARNs,
		ComparisonOperator: cwTypes.ComparisonOperatorGreaterThanOrEqualToThreshold,
		EvaluationPeriods:  awsStd.Int32(spec.EvaluationPeriods),
		Threshold:          awsStd.Float64(spec.Threshold),
		TreatMissingData:   awsStd.String("notBreaching"),
		Metrics:            usageQueries(spec),
		Tags:               cloudwatchTags(spec.Tags),
	})
	if err != nil {
		return "", classify(err, "failed to put alarm %s", spec.Name)
	}
	return arn, nil
}

func usageQueries(spec provider.UsageAlarmSpec) []cwTypes.MetricDataQuery {
	metric := func(id, name string) cwTypes.MetricDataQuery {
		return cwTypes.MetricDataQuery{
			Id: awsStd.String(id),
			MetricStat: &cwTypes.MetricStat{
				Metric: &cwTypes.Metric{
					Namespace:  awsStd.String(awsConstants.MetricNamespaceEC2),
					MetricName: awsStd.String(name),
					Dimensions: []cwTypes.Dimension{{
						Name:  awsStd.String(awsConstants.MetricDimensionInstanceID),
						Value: awsStd.String(spec.InstanceID),
					}},
				},
				Period: awsStd.Int32(spec.PeriodSeconds),
				Stat:   awsStd.String("Sum"),
			},
			ReturnData: awsStd.Bool(false),
		}
	}

	return []cwTypes.MetricDataQuery{
		metric(awsConstants.UsageQueryIn, awsConstants.MetricNetworkIn),
		metric(awsConstants.UsageQueryOut, awsConstants.MetricNetworkOut),
		{
			Id:         awsStd.String(awsConstants.UsageQueryTotal),
			Expression: awsStd.String(awsConstants.UsageExpression),
			Label:      awsStd.String("Total network usage"),
			ReturnData: awsStd.Bool(true),
		},
	}
}

func cloudwatchTags(tags provider.Tags) []cwTypes.Tag {
	out := make([]cwTypes.Tag, 0, len(tags))
	for _, k := range slices.Sorted(maps.Keys(tags)) {
		out = append(out, cwTypes.Tag{Key: awsStd.String(k), Value: awsStd.String(tags[k])})
	}
	return out
}

// AlarmARN returns the ARN of the named alarm in this region.
func (p *Provider) AlarmARN(ctx context.Context, name string) (string, error) {
	return p.ResourceARN(ctx, "cloudwatch", "alarm:"+name)
}

// DeleteAlarm deletes an alarm. Deleting a missing alarm succeeds.
func (p *Provider) DeleteAlarm(ctx context.Context, name string) error {
	p.logCall(ctx, "CloudWatch.DeleteAlarms", "alarm_name", name)
	_, err := p.clients.CloudWatch.DeleteAlarms(ctx, &cloudwatch.DeleteAlarmsInput{
		AlarmNames: []string{name},
	})
	return classify(err, "failed to delete alarm %s", name)
}

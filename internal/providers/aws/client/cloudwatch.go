package client

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
)

// CloudWatchClient defines the interface for CloudWatch operations used to manage the usage alarm.
// This interface makes the code easier to test by allowing mock implementations.
type CloudWatchClient interface {
	PutMetricAlarm(
		ctx context.Context,
		params *cloudwatch.PutMetricAlarmInput,
		optFns ...func(*cloudwatch.Options),
	) (*cloudwatch.PutMetricAlarmOutput, error)
	DeleteAlarms(
		ctx context.Context,
		params *cloudwatch.DeleteAlarmsInput,
		optFns ...func(*cloudwatch.Options),
	) (*cloudwatch.DeleteAlarmsOutput, error)
}

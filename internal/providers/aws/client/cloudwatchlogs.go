package client

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
)

// CloudWatchLogsClient defines the interface for CloudWatch Logs operations used to clean up the stop function's logs.
// This interface makes the code easier to test by allowing mock implementations.
type CloudWatchLogsClient interface {
	DeleteLogGroup(
		ctx context.Context,
		params *cloudwatchlogs.DeleteLogGroupInput,
		optFns ...func(*cloudwatchlogs.Options),
	) (*cloudwatchlogs.DeleteLogGroupOutput, error)
}

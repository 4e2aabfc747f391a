package client

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Set bundles every service client vpnforge talks to in one region.
type Set struct {
	EC2            EC2Client
	IAM            IAMClient
	Lambda         LambdaClient
	CloudWatch     CloudWatchClient
	CloudWatchLogs CloudWatchLogsClient
	STS            STSClient
	SSM            SSMClient
	S3             S3Client
}

// NewSet creates SDK clients from a loaded configuration.
func NewSet(cfg aws.Config) *Set {
	return &Set{
		EC2:            ec2.NewFromConfig(cfg),
		IAM:            iam.NewFromConfig(cfg),
		Lambda:         lambda.NewFromConfig(cfg),
		CloudWatch:     cloudwatch.NewFromConfig(cfg),
		CloudWatchLogs: cloudwatchlogs.NewFromConfig(cfg),
		STS:            sts.NewFromConfig(cfg),
		SSM:            ssm.NewFromConfig(cfg),
		S3:             s3.NewFromConfig(cfg),
	}
}

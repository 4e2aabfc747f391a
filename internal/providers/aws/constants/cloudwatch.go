package constants

// LogGroupPrefix is the prefix of the log group every Lambda function writes to.
const LogGroupPrefix = "/aws/lambda/"

// MetricNamespaceEC2 is the namespace of the instance network metrics.
const MetricNamespaceEC2 = "AWS/EC2"

// Instance network metrics summed by the usage alarm.
const (
	MetricNetworkIn  = "NetworkIn"
	MetricNetworkOut = "NetworkOut"
)

// MetricDimensionInstanceID is the dimension selecting a single instance.
const MetricDimensionInstanceID = "InstanceId"

// UsageExpression adds the two metric queries of the usage alarm.
const UsageExpression = "network_in + network_out"

// Metric query ids used by the usage alarm.
const (
	UsageQueryIn    = "network_in"
	UsageQueryOut   = "network_out"
	UsageQueryTotal = "combined_usage"
)

package constants

// BasicExecutionPolicyARN is the managed policy letting a function write its logs.
const BasicExecutionPolicyARN = "arn:aws:iam::aws:policy/service-role/AWSLambdaBasicExecutionRole"

// LambdaServicePrincipal is the principal that assumes function execution roles.
const LambdaServicePrincipal = "lambda.amazonaws.com"

// AlarmInvokePrincipal is the principal CloudWatch alarms use to invoke a function.
const AlarmInvokePrincipal = "lambda.alarms.cloudwatch.amazonaws.com"

// StopInstancePolicyName is the name of the inline policy scoped to the VPN instance.
const StopInstancePolicyName = "StopVPNInstance"

// AlarmInvokeStatementID is the statement id of the alarm invoke permission.
const AlarmInvokeStatementID = "AllowUsageAlarmInvoke"

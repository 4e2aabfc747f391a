package ledger

// Logical resource names recorded in the ledger.
const (
	VPC                 = "vpc"
	Subnet              = "subnet"
	SecondarySubnet     = "subnet_secondary"
	InternetGateway     = "internet_gateway"
	RouteTable          = "route_table"
	SecurityGroup       = "security_group"
	KeyPairName         = "key_pair_name"
	Instance            = "instance"
	ElasticIP           = "elastic_ip"
	LambdaRoleName      = "lambda_role_name"
	LambdaFunctionName  = "lambda_function_name"
	CloudWatchAlarmName = "cloudwatch_alarm_name"
)

// regionKey is the reserved top-level key carrying the region.
const regionKey = "region"

// adoptedKey is the reserved top-level key carrying operator-supplied identifiers.
const adoptedKey = "adopted"

// CanonicalNames are the names a full create run with the side-channel records.
var CanonicalNames = []string{
	VPC,
	Subnet,
	InternetGateway,
	RouteTable,
	SecurityGroup,
	KeyPairName,
	Instance,
	ElasticIP,
	LambdaFunctionName,
	CloudWatchAlarmName,
}

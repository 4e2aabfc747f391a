package client

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// STSClient defines the interface for STS operations used to resolve the account id.
// This interface makes the code easier to test by allowing mock implementations.
type STSClient interface {
	GetCallerIdentity(
		ctx context.Context,
		params *sts.GetCallerIdentityInput,
		optFns ...func(*sts.Options),
	) (*sts.GetCallerIdentityOutput, error)
}

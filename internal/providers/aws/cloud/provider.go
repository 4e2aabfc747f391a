// Package cloud implements the provider capabilities on top of the AWS SDK.
package cloud

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	awsStd "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	appErrors "github.com/vpnforge/vpnforge/internal/errors"
	"github.com/vpnforge/vpnforge/internal/logger"
	"github.com/vpnforge/vpnforge/internal/provider"
	"github.com/vpnforge/vpnforge/internal/providers/aws/client"
)

// Provider talks to a single AWS region.
type Provider struct {
	clients *client.Set
	region  string
	logger  *slog.Logger

	accountID string
	partition string
}

var _ provider.Provider = (*Provider)(nil)

// New creates a provider using the given clients.
func New(clients *client.Set, region string, log *slog.Logger) *Provider {
	return &Provider{
		clients: clients,
		region:  region,
		logger:  log,
	}
}

// NewFromConfig creates a provider with SDK clients built from cfg.
func NewFromConfig(cfg awsStd.Config, log *slog.Logger) *Provider {
	return New(client.NewSet(cfg), cfg.Region, log)
}

// Region returns the region every call targets.
func (p *Provider) Region() string {
	return p.region
}

// AccountID returns the account of the caller. The result is cached.
func (p *Provider) AccountID(ctx context.Context) (string, error) {
	if p.accountID != "" {
		return p.accountID, nil
	}

	p.logCall(ctx, "STS.GetCallerIdentity")
	out, err := p.clients.STS.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", classify(err, "failed to resolve account id")
	}
	if out.Account == nil {
		return "", appErrors.ErrRemoteRejected("caller identity carries no account id", nil)
	}

	p.accountID = *out.Account
	p.partition = partitionFromARN(awsStd.ToString(out.Arn))
	return p.accountID, nil
}

// partitionFromARN returns the partition segment of an ARN, "aws" when unknown.
func partitionFromARN(arn string) string {
	parts := strings.SplitN(arn, ":", 3)
	if len(parts) < 3 || parts[1] == "" {
		return "aws"
	}
	return parts[1]
}

// ResourceARN builds the ARN of a regional resource in the caller's account
// and partition.
func (p *Provider) ResourceARN(ctx context.Context, service, resource string) (string, error) {
	account, err := p.AccountID(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("arn:%s:%s:%s:%s:%s", p.partition, service, p.region, account, resource), nil
}

func (p *Provider) logCall(ctx context.Context, operation string, args ...any) {
	logArgs := append([]any{"operation", operation}, args...)
	logArgs = append(logArgs, logger.GetDeadlineInfo(ctx)...)
	logger.DeriveRequestLogger(ctx, p.logger).Debug("calling external service", "context", logger.SliceToMap(logArgs))
}

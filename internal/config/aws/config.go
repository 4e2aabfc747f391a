// Package aws contains AWS-specific configuration helpers for vpnforge.
package aws

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/spf13/viper"
)

// Config contains AWS-specific configuration.
type Config struct {
	// Profile selects a named profile from the shared credentials file.
	Profile string `mapstructure:"profile" yaml:"profile"`

	// LedgerBucket stores the ledger in S3 instead of the local file system when set.
	LedgerBucket string `mapstructure:"ledger_bucket" yaml:"ledger_bucket"`
	// LedgerKey is the object key of the ledger inside LedgerBucket.
	LedgerKey string `mapstructure:"ledger_key" yaml:"ledger_key" validate:"required_with=LedgerBucket"`

	// AWS SDK Configuration (credentials, region, etc.)
	SDKConfig *aws.Config `mapstructure:"-"`
}

// BindEnvVars binds AWS-specific environment variables to the provided Viper instance.
func BindEnvVars(v *viper.Viper, prefix string) {
	v.SetDefault("aws.ledger_key", "vpnforge/resources.json")

	_ = v.BindEnv("aws.profile", prefix+"_AWS_PROFILE", "AWS_PROFILE")
	_ = v.BindEnv("aws.ledger_bucket", prefix+"_AWS_LEDGER_BUCKET")
	_ = v.BindEnv("aws.ledger_key", prefix+"_AWS_LEDGER_KEY")
}

// LoadSDKConfig loads the AWS SDK configuration for the given region.
// An empty region falls back to the SDK's own resolution chain.
func (c *Config) LoadSDKConfig(ctx context.Context, region string) error {
	var opts []func(*awsConfig.LoadOptions) error
	if region = strings.TrimSpace(region); region != "" {
		opts = append(opts, awsConfig.WithRegion(region))
	}
	if c.Profile != "" {
		opts = append(opts, awsConfig.WithSharedConfigProfile(c.Profile))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to load AWS SDK configuration: %w", err)
	}
	c.SDKConfig = &awsCfg
	return nil
}

// UsesRemoteLedger reports whether the ledger lives in S3.
func (c *Config) UsesRemoteLedger() bool {
	return c != nil && c.LedgerBucket != ""
}

// Package main implements the stop function invoked by the vpnforge usage alarm.
// It stops the single EC2 instance named by its INSTANCE_ID environment variable.
package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/vpnforge/vpnforge/internal/config"
	"github.com/vpnforge/vpnforge/internal/constants"
	"github.com/vpnforge/vpnforge/internal/logger"
	"github.com/vpnforge/vpnforge/internal/stopper"
)

func main() {
	cfg := config.MustLoadStopper()
	log := logger.Initialize(constants.Production, cfg.GetLogLevel())
	ctx, cancel := context.WithTimeout(context.Background(), cfg.InitTimeout)

	var opts []func(*awsConfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsConfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	cancel()
	if err != nil {
		log.Error("failed to load AWS configuration", "error", err)
		os.Exit(1)
	}

	handler := stopper.New(ec2.NewFromConfig(awsCfg), cfg.InstanceID, log)
	log.With("version", *constants.GetVersion(), "instance_id", cfg.InstanceID).
		Debug("starting stop function handler")
	lambda.Start(handler.Handle)
}

// Package main writes a starter vpnforge configuration file.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/vpnforge/vpnforge/internal/config"
)

func main() {
	var (
		region     string
		deployment string
		keyName    string
		noGuard    bool
	)
	flag.StringVar(&region, "region", "", "AWS region (defaults to the SDK's resolved region)")
	flag.StringVar(&deployment, "deployment", "", "deployment name, used to tag every resource")
	flag.StringVar(&keyName, "key-name", "", "EC2 key pair name")
	flag.BoolVar(&noGuard, "no-guard", false, "disable the usage alarm")
	flag.Parse()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("error: failed to load existing configuration: %v", err)
	}

	if region == "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		awsCfg, loadErr := awsconfig.LoadDefaultConfig(ctx)
		if loadErr != nil {
			log.Fatalf("error: failed to load AWS configuration: %v", loadErr)
		}
		region = awsCfg.Region
	}
	if region != "" {
		cfg.Region = region
	}
	if deployment != "" {
		cfg.Deployment = deployment
	}
	if keyName != "" {
		cfg.Instance.KeyName = keyName
	}
	if noGuard {
		cfg.Guard.Enabled = false
	}

	if err = cfg.Validate(); err != nil {
		log.Fatalf("error: %v", err)
	}
	if err = config.Save(cfg); err != nil {
		log.Fatalf("error: failed to save config file: %v", err)
	}

	path, _ := config.GetConfigPath()
	log.Printf("config file written to %s (region %q, deployment %q)", path, cfg.Region, cfg.Deployment)
}

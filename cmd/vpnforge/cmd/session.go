package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	awsconfig "github.com/vpnforge/vpnforge/internal/config/aws"
	"github.com/vpnforge/vpnforge/internal/config"
	appErrors "github.com/vpnforge/vpnforge/internal/errors"
	"github.com/vpnforge/vpnforge/internal/ledger"
	"github.com/vpnforge/vpnforge/internal/orchestrator"
	"github.com/vpnforge/vpnforge/internal/providers/aws/cloud"
	awsLedger "github.com/vpnforge/vpnforge/internal/providers/aws/ledger"
)

// session is an opened ledger plus a provider for the region it belongs to.
type session struct {
	cfg    *config.Config
	cloud  *cloud.Provider
	ledger *ledger.Ledger
	store  ledger.Store
	log    *slog.Logger
}

// openSession loads AWS credentials, opens the ledger and settles the region.
// The region comes from configuration, then the ledger, then the SDK's own
// resolution chain, then askRegion when given.
func openSession(ctx context.Context, cfg *config.Config, log *slog.Logger, askRegion func() string) (*session, error) {
	awsCfg := cfg.AWS
	if awsCfg == nil {
		awsCfg = &awsconfig.Config{}
	}
	if err := awsCfg.LoadSDKConfig(ctx, cfg.Region); err != nil {
		return nil, err
	}
	sdkCfg := *awsCfg.SDKConfig

	var store ledger.Store = ledger.NewFileStore(cfg.LedgerPath)
	if awsCfg.UsesRemoteLedger() {
		store = awsLedger.NewS3Store(s3.NewFromConfig(sdkCfg), awsCfg.LedgerBucket, awsCfg.LedgerKey, log)
	}

	l, err := ledger.Open(ctx, store)
	if err != nil {
		return nil, err
	}

	region := cfg.Region
	if region == "" {
		region = l.Region()
	}
	if region == "" {
		region = sdkCfg.Region
	}
	if region == "" && askRegion != nil {
		region = askRegion()
	}
	if region == "" {
		return nil, appErrors.ErrInvalidInput("no region configured; set region, AWS_REGION or pass --region", nil)
	}
	sdkCfg.Region = region

	log.Debug("session opened", "region", region, "ledger", store.Location(), "entries", l.Len())
	return &session{
		cfg:    cfg,
		cloud:  cloud.NewFromConfig(sdkCfg, log),
		ledger: l,
		store:  store,
		log:    log,
	}, nil
}

// orchestrator builds an orchestrator for plan over the session's ledger.
func (s *session) orchestrator(plan orchestrator.Plan, out OutputInterface) (*orchestrator.Orchestrator, error) {
	plan.Region = s.cloud.Region()
	o, err := orchestrator.New(s.cloud, s.ledger, plan,
		orchestrator.WithReporter(newStepReporter(out)),
		orchestrator.WithLogger(s.log),
	)
	if err != nil {
		return nil, fmt.Errorf("ledger %s: %w", s.store.Location(), err)
	}
	return o, nil
}

// networkFromLedger points cfg at the operator network a previous run adopted,
// unless configuration already names one.
func networkFromLedger(cfg *config.Config, l *ledger.Ledger) {
	for _, e := range l.Adopted() {
		switch e.Name {
		case ledger.VPC:
			if cfg.Network.ExistingVPCID == "" {
				cfg.Network.ExistingVPCID = e.ID
			}
		case ledger.Subnet:
			if cfg.Network.ExistingSubnetID == "" {
				cfg.Network.ExistingSubnetID = e.ID
			}
		}
	}
}

// resume builds an orchestrator for the deployment the ledger already holds.
func (s *session) resume(out OutputInterface) (*orchestrator.Orchestrator, error) {
	networkFromLedger(s.cfg, s.ledger)
	if name, ok := s.ledger.Get(ledger.KeyPairName); ok {
		s.cfg.Instance.KeyName = name
	}
	return s.orchestrator(orchestrator.PlanFromConfig(s.cfg), out)
}

// Package orchestrator provisions and tears down the VPN topology recorded in
// a ledger. Provisioning is fail-fast and persists the ledger after every step;
// teardown is fail-soft and walks the ledger in reverse creation order.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/vpnforge/vpnforge/internal/constants"
	appErrors "github.com/vpnforge/vpnforge/internal/errors"
	"github.com/vpnforge/vpnforge/internal/ledger"
	"github.com/vpnforge/vpnforge/internal/logger"
	"github.com/vpnforge/vpnforge/internal/provider"
)

// Orchestrator drives one deployment against one region.
type Orchestrator struct {
	cloud    provider.Provider
	ledger   *ledger.Ledger
	plan     Plan
	reporter Reporter
	logger   *slog.Logger
	sleep    Sleeper
	writeKey func(path string, pem []byte) error
	newToken func() string

	state State

	// remembered between steps of one run
	roleARN     string
	functionARN string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithReporter sets the receiver of per-step outcome lines.
func WithReporter(r Reporter) Option {
	return func(o *Orchestrator) { o.reporter = r }
}

// WithLogger sets the base logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = log }
}

// WithSleeper replaces the settle-delay sleep.
func WithSleeper(s Sleeper) Option {
	return func(o *Orchestrator) { o.sleep = s }
}

// WithKeyWriter replaces how private key material is stored.
func WithKeyWriter(w func(path string, pem []byte) error) Option {
	return func(o *Orchestrator) { o.writeKey = w }
}

// WithTokenSource replaces the generator of idempotency tokens.
func WithTokenSource(f func() string) Option {
	return func(o *Orchestrator) { o.newToken = f }
}

// New creates an orchestrator over an opened ledger. The ledger must be bound
// to a store so every step can persist it.
func New(cloud provider.Provider, l *ledger.Ledger, plan Plan, opts ...Option) (*Orchestrator, error) {
	if plan.Region == "" {
		plan.Region = cloud.Region()
	}
	if recorded := l.Region(); recorded != "" && recorded != plan.Region {
		return nil, appErrors.ErrInvalidInput(
			fmt.Sprintf("ledger belongs to region %s, not %s", recorded, plan.Region), nil)
	}
	if l.Region() == "" {
		l.SetRegion(plan.Region)
	}

	o := &Orchestrator{
		cloud:    cloud,
		ledger:   l,
		plan:     plan,
		reporter: nopReporter{},
		logger:   slog.Default(),
		sleep:    sleepContext,
		writeKey: writePrivateKey,
		newToken: uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.state = stateOf(l, plan)
	return o, nil
}

// State returns the lifecycle state of the deployment.
func (o *Orchestrator) State() State {
	return o.state
}

// Ledger returns the ledger the orchestrator records into.
func (o *Orchestrator) Ledger() *ledger.Ledger {
	return o.ledger
}

// step is one provisioning action. needs lists ledger entries that must be
// present before run may issue any remote call. When record is set the id
// returned by run is stored under name, even alongside an error, so that a
// resource created by a step that later failed is still torn down.
type step struct {
	name   string
	needs  []string
	record bool
	run    func(ctx context.Context) (string, Outcome, error)
}

// runSteps executes steps in order and stops at the first failure.
func (o *Orchestrator) runSteps(ctx context.Context, steps []step) error {
	reqLogger := logger.DeriveRequestLogger(ctx, o.logger)

	for _, s := range steps {
		for _, dep := range s.needs {
			if _, ok := o.ledger.Get(dep); !ok {
				err := appErrors.ErrDependencyMissing(s.name, dep)
				o.reporter.StepFailed(s.name, "", err)
				return err
			}
		}

		o.reporter.StepStarted(s.name)
		id, outcome, err := s.run(ctx)

		if s.record && id != "" && outcome != OutcomeAdopted {
			o.ledger.Set(s.name, id)
			if persistErr := o.persist(ctx); persistErr != nil {
				o.reporter.StepFailed(s.name, id, persistErr)
				return persistErr
			}
		}

		if err != nil {
			reqLogger.Error("provisioning step failed", "context", map[string]any{
				"step":  s.name,
				"id":    id,
				"error": err.Error(),
			})
			o.reporter.StepFailed(s.name, id, err)
			o.state = stateOf(o.ledger, o.plan)
			return err
		}

		reqLogger.Info("provisioning step succeeded", "step", s.name, "id", id, "outcome", outcome)
		o.reporter.StepSucceeded(s.name, id, outcome)
		o.state = stateOf(o.ledger, o.plan)
	}
	return nil
}

// recorded returns the ledger entry for name and whether it was created by
// this deployment (reused) or supplied by the operator (adopted).
func (o *Orchestrator) recorded(name string) (string, Outcome, bool) {
	id, ok := o.ledger.Get(name)
	if !ok {
		return "", "", false
	}
	if o.ledger.Owned(name) {
		return id, OutcomeReused, true
	}
	return id, OutcomeAdopted, true
}

func (o *Orchestrator) persist(ctx context.Context) error {
	return o.ledger.Persist(ctx)
}

// adopt records an identifier the operator owns and persists it.
func (o *Orchestrator) adopt(ctx context.Context, name, id string) error {
	o.ledger.Adopt(name, id)
	return o.persist(ctx)
}

func writePrivateKey(path string, pem []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.ConfigDirPermissions); err != nil {
			return err
		}
	}
	return os.WriteFile(path, pem, constants.PrivateKeyFilePermissions)
}

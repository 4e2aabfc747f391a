package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/vpnforge/vpnforge/internal/ledger"
	"github.com/vpnforge/vpnforge/internal/orchestrator"
	"github.com/vpnforge/vpnforge/internal/provider"
)

// mockOutputInterface is a manual mock for testing
type mockOutputInterface struct {
	calls   []call
	answers []string
	confirm bool
}

type call struct {
	method string
	args   []any
}

func (m *mockOutputInterface) record(method string, args ...any) {
	m.calls = append(m.calls, call{method: method, args: args})
}

func (m *mockOutputInterface) Infof(format string, a ...any) {
	m.record("Infof", fmt.Sprintf(format, a...))
}
func (m *mockOutputInterface) Successf(format string, a ...any) {
	m.record("Successf", fmt.Sprintf(format, a...))
}
func (m *mockOutputInterface) Warningf(format string, a ...any) {
	m.record("Warningf", fmt.Sprintf(format, a...))
}
func (m *mockOutputInterface) Step(step int, message string) {
	m.record("Step", fmt.Sprintf("[%d] %s", step, message))
}
func (m *mockOutputInterface) StepSuccess(step int, message string) {
	m.record("StepSuccess", fmt.Sprintf("[%d] %s", step, message))
}
func (m *mockOutputInterface) StepError(step int, message string) {
	m.record("StepError", fmt.Sprintf("[%d] %s", step, message))
}
func (m *mockOutputInterface) Table(headers []string, rows [][]string) {
	m.record("Table", headers, rows)
}
func (m *mockOutputInterface) List(items []string) {
	m.record("List", items)
}
func (m *mockOutputInterface) Box(text string) {
	m.record("Box", text)
}
func (m *mockOutputInterface) Blank() {
	m.record("Blank")
}
func (m *mockOutputInterface) Bold(text string) string {
	return text
}
func (m *mockOutputInterface) KeyValue(key, value string) {
	m.record("KeyValue", key, value)
}
func (m *mockOutputInterface) KeyValueBold(key, value string) {
	m.record("KeyValueBold", key, value)
}
func (m *mockOutputInterface) StatusBadge(status string) string {
	return status
}
func (m *mockOutputInterface) Prompt(prompt string) string {
	m.record("Prompt", prompt)
	if len(m.answers) == 0 {
		return ""
	}
	answer := m.answers[0]
	m.answers = m.answers[1:]
	return answer
}
func (m *mockOutputInterface) PromptRequired(prompt string) string {
	return m.Prompt(prompt)
}
func (m *mockOutputInterface) Confirm(prompt string) bool {
	m.record("Confirm", prompt)
	return m.confirm
}

// messages returns the first argument of every call to method.
func (m *mockOutputInterface) messages(method string) []any {
	var out []any
	for _, c := range m.calls {
		if c.method == method && len(c.args) > 0 {
			out = append(out, c.args[0])
		}
	}
	return out
}

// keyValues collects KeyValue and KeyValueBold calls into a map.
func (m *mockOutputInterface) keyValues() map[string]string {
	kv := make(map[string]string)
	for _, c := range m.calls {
		if c.method == "KeyValue" || c.method == "KeyValueBold" {
			kv[c.args[0].(string)] = c.args[1].(string)
		}
	}
	return kv
}

type mockNetworkLister struct {
	networks []provider.Network
	err      error
	listed   int
}

func (m *mockNetworkLister) Region() string {
	return "eu-west-2"
}

func (m *mockNetworkLister) ListNetworks(context.Context) ([]provider.Network, error) {
	m.listed++
	return m.networks, m.err
}

type mockProvisioner struct {
	provisionFunc func(ctx context.Context) (*orchestrator.Result, error)
}

func (m *mockProvisioner) Provision(ctx context.Context) (*orchestrator.Result, error) {
	if m.provisionFunc != nil {
		return m.provisionFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

type mockTearer struct {
	ledger       *ledger.Ledger
	teardownFunc func(ctx context.Context) (*orchestrator.Report, error)
	calls        int
}

func (m *mockTearer) Ledger() *ledger.Ledger {
	return m.ledger
}

func (m *mockTearer) Teardown(ctx context.Context) (*orchestrator.Report, error) {
	m.calls++
	if m.teardownFunc != nil {
		return m.teardownFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

type mockDescriber struct {
	status *orchestrator.Status
	err    error
}

func (m *mockDescriber) Describe(context.Context) (*orchestrator.Status, error) {
	return m.status, m.err
}

type mockGuardian struct {
	guardErr error
	report   *orchestrator.Report
	err      error
	state    orchestrator.State
}

func (m *mockGuardian) Guard(context.Context) error {
	return m.guardErr
}

func (m *mockGuardian) TeardownGuard(context.Context) (*orchestrator.Report, error) {
	return m.report, m.err
}

func (m *mockGuardian) State() orchestrator.State {
	return m.state
}

var operatorNetworks = []provider.Network{
	{
		ID:        "vpc-default",
		CIDR:      "172.31.0.0/16",
		IsDefault: true,
		Subnets: []provider.Subnet{
			{ID: "subnet-a", NetworkID: "vpc-default", CIDR: "172.31.0.0/20", AvailabilityZone: "eu-west-2a", Public: true},
			{ID: "subnet-b", NetworkID: "vpc-default", CIDR: "172.31.16.0/20", AvailabilityZone: "eu-west-2b", Public: true},
		},
	},
	{ID: "vpc-empty", CIDR: "10.9.0.0/16", Name: "lab"},
}

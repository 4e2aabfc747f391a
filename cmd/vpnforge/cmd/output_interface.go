package cmd

import "github.com/vpnforge/vpnforge/internal/client/output"

// OutputInterface defines the interface for output operations to enable dependency injection and testing.
type OutputInterface interface {
	Infof(format string, a ...any)
	Successf(format string, a ...any)
	Warningf(format string, a ...any)
	Step(step int, message string)
	StepSuccess(step int, message string)
	StepError(step int, message string)
	Table(headers []string, rows [][]string)
	List(items []string)
	Box(text string)
	Blank()
	Bold(text string) string
	KeyValue(key, value string)
	KeyValueBold(key, value string)
	StatusBadge(status string) string
	Prompt(prompt string) string
	PromptRequired(prompt string) string
	Confirm(prompt string) bool
}

// outputWrapper wraps the global output package functions to implement OutputInterface.
type outputWrapper struct{}

// NewOutputWrapper creates a new output wrapper that implements OutputInterface.
func NewOutputWrapper() OutputInterface {
	return &outputWrapper{}
}

func (o *outputWrapper) Infof(format string, a ...any) {
	output.Infof(format, a...)
}

func (o *outputWrapper) Successf(format string, a ...any) {
	output.Successf(format, a...)
}

func (o *outputWrapper) Warningf(format string, a ...any) {
	output.Warningf(format, a...)
}

func (o *outputWrapper) Step(step int, message string) {
	output.Step(step, message)
}

func (o *outputWrapper) StepSuccess(step int, message string) {
	output.StepSuccess(step, message)
}

func (o *outputWrapper) StepError(step int, message string) {
	output.StepError(step, message)
}

func (o *outputWrapper) Table(headers []string, rows [][]string) {
	output.Table(headers, rows)
}

func (o *outputWrapper) List(items []string) {
	output.List(items)
}

func (o *outputWrapper) Box(text string) {
	output.Box(text)
}

func (o *outputWrapper) Blank() {
	output.Blank()
}

func (o *outputWrapper) Bold(text string) string {
	return output.Bold(text)
}

func (o *outputWrapper) KeyValue(key, value string) {
	output.KeyValue(key, value)
}

func (o *outputWrapper) KeyValueBold(key, value string) {
	output.KeyValueBold(key, value)
}

func (o *outputWrapper) StatusBadge(status string) string {
	return output.StatusBadge(status)
}

func (o *outputWrapper) Prompt(prompt string) string {
	return output.Prompt(prompt)
}

func (o *outputWrapper) PromptRequired(prompt string) string {
	return output.PromptRequired(prompt)
}

func (o *outputWrapper) Confirm(prompt string) bool {
	return output.Confirm(prompt)
}

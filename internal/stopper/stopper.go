// Package stopper implements the stop function invoked by the usage alarm.
// It stops exactly one instance, the one it was bound to at creation.
package stopper

import (
	"context"
	"fmt"
	"log/slog"

	awsStd "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/vpnforge/vpnforge/internal/logger"
)

// alarmStateAlarm is the state an alarm reports when its threshold is breached.
const alarmStateAlarm = "ALARM"

// EC2API is the one EC2 call the stop function makes.
type EC2API interface {
	StopInstances(ctx context.Context, params *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (
		*ec2.StopInstancesOutput, error)
}

// AlarmEvent is the payload CloudWatch sends to a function alarm action.
// Only the fields the handler reads are declared.
type AlarmEvent struct {
	AlarmARN  string    `json:"alarmArn"`
	Region    string    `json:"region"`
	AlarmData AlarmData `json:"alarmData"`
}

// AlarmData describes the alarm that fired.
type AlarmData struct {
	AlarmName string     `json:"alarmName"`
	State     AlarmState `json:"state"`
}

// AlarmState is the alarm state after the transition.
type AlarmState struct {
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// Response reports what the handler did.
type Response struct {
	InstanceID    string `json:"instance_id"`
	Stopped       bool   `json:"stopped"`
	PreviousState string `json:"previous_state,omitempty"`
	CurrentState  string `json:"current_state,omitempty"`
}

// Handler stops the bound instance.
type Handler struct {
	ec2        EC2API
	instanceID string
	logger     *slog.Logger
}

// New creates a handler bound to instanceID.
func New(client EC2API, instanceID string, log *slog.Logger) *Handler {
	return &Handler{ec2: client, instanceID: instanceID, logger: log}
}

// Handle stops the instance when the alarm is in ALARM. An event without a
// state, such as a manual test invocation, also stops it.
func (h *Handler) Handle(ctx context.Context, event AlarmEvent) (*Response, error) {
	reqLogger := logger.DeriveRequestLogger(ctx, h.logger)
	resp := &Response{InstanceID: h.instanceID}

	state := event.AlarmData.State.Value
	if state != "" && state != alarmStateAlarm {
		reqLogger.Info("alarm is not breached, leaving instance running",
			"alarm", event.AlarmData.AlarmName, "state", state, "instance_id", h.instanceID)
		return resp, nil
	}

	reqLogger.Info("usage threshold breached, stopping instance",
		"alarm", event.AlarmData.AlarmName, "reason", event.AlarmData.State.Reason, "instance_id", h.instanceID)

	out, err := h.ec2.StopInstances(ctx, &ec2.StopInstancesInput{
		InstanceIds: []string{h.instanceID},
	})
	if err != nil {
		reqLogger.Error("failed to stop instance", "instance_id", h.instanceID, "error", err)
		return nil, fmt.Errorf("failed to stop instance %s: %w", h.instanceID, err)
	}

	resp.Stopped = true
	for _, change := range out.StoppingInstances {
		if awsStd.ToString(change.InstanceId) != h.instanceID {
			continue
		}
		if change.PreviousState != nil {
			resp.PreviousState = string(change.PreviousState.Name)
		}
		if change.CurrentState != nil {
			resp.CurrentState = string(change.CurrentState.Name)
		}
	}

	reqLogger.Info("instance stop requested", "context", map[string]any{
		"instance_id":    h.instanceID,
		"previous_state": resp.PreviousState,
		"current_state":  resp.CurrentState,
	})
	return resp, nil
}

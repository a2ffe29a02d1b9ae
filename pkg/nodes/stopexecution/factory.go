// Package stopexecution provides the blocking stop-execution module.
package stopexecution

import (
	"github.com/flowgate-io/flowgate/pkg/protocol"
)

// Factory creates StopExecutionNode instances.
type Factory struct{}

// Create creates a new StopExecutionNode instance.
func (f *Factory) Create(config map[string]any) (protocol.Module, error) {
	return NewStopExecutionNode(config), nil
}

// ID returns the factory ID.
func (f *Factory) ID() string {
	return "stop-execution"
}

// Name returns the factory name.
func (f *Factory) Name() string {
	return "Stop Execution"
}

// Description returns the factory description.
func (f *Factory) Description() string {
	return "Blocks the gated action and reports a configurable message to the user"
}

// Schema returns the JSON schema for stop-execution configuration.
func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"description": "Message surfaced to the user when the action is blocked. Supports {{Entity.field}} placeholders.",
				"default":     DefaultMessage,
			},
		},
	}
}

// NewFactory creates a new factory instance.
func NewFactory() protocol.ModuleFactory {
	return &Factory{}
}

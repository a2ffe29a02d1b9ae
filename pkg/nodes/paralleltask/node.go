// Package paralleltask provides the fan-out pass-through module. It is the
// only built-in module kind allowed to feed several connections from one
// output port.
package paralleltask

import (
	"context"

	"github.com/flowgate-io/flowgate/pkg/models"
	"github.com/flowgate-io/flowgate/pkg/protocol"
)

// ParallelTaskNode does nothing on its own; traversal simply continues down
// every connection of its output port.
type ParallelTaskNode struct{}

// ID returns the node kind id.
func (n *ParallelTaskNode) ID() string {
	return "parallel-task"
}

// Exec is a no-op pass-through.
func (n *ParallelTaskNode) Exec(_ context.Context, _ *protocol.ExecutionRequest) (protocol.ExecResult, error) {
	return protocol.ExecResult{Status: models.ExecSuccess}, nil
}

// Factory creates ParallelTaskNode instances.
type Factory struct{}

// Create creates a new ParallelTaskNode instance.
func (f *Factory) Create(_ map[string]any) (protocol.Module, error) {
	return &ParallelTaskNode{}, nil
}

// ID returns the factory ID.
func (f *Factory) ID() string {
	return "parallel-task"
}

// Name returns the factory name.
func (f *Factory) Name() string {
	return "Parallel Task"
}

// Description returns the factory description.
func (f *Factory) Description() string {
	return "Splits the flow so one output can feed several downstream branches"
}

// Schema returns the JSON schema for parallel-task configuration.
func (f *Factory) Schema() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

// NewFactory creates a new factory instance.
func NewFactory() protocol.ModuleFactory {
	return &Factory{}
}

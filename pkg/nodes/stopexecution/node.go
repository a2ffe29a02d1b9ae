package stopexecution

import (
	"context"

	"github.com/flowgate-io/flowgate/pkg/models"
	"github.com/flowgate-io/flowgate/pkg/protocol"
)

// DefaultMessage is used when the node carries no message configuration.
const DefaultMessage = "Execution stopped"

// StopExecutionNode reports partial-success so the engine, which knows the
// kind is blocking, marks the run blocked and halts the branch.
type StopExecutionNode struct {
	message string
}

// NewStopExecutionNode creates a stop-execution node from its configuration.
func NewStopExecutionNode(config map[string]any) *StopExecutionNode {
	message := DefaultMessage
	if m, ok := config["message"].(string); ok && m != "" {
		message = m
	}

	return &StopExecutionNode{message: message}
}

// ID returns the node kind id.
func (n *StopExecutionNode) ID() string {
	return "stop-execution"
}

// Exec reports the blocking message.
func (n *StopExecutionNode) Exec(_ context.Context, _ *protocol.ExecutionRequest) (protocol.ExecResult, error) {
	return protocol.ExecResult{
		Status:  models.ExecPartialSuccess,
		Message: n.message,
	}, nil
}

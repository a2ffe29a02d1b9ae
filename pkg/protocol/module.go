// Package protocol defines the contracts between the execution engine and
// the compiled-in module implementations.
package protocol

import (
	"context"
	"log/slog"

	"github.com/flowgate-io/flowgate/pkg/models"
	"github.com/flowgate-io/flowgate/pkg/persistence"
)

// ExecutionRequest carries everything a module may touch during one node
// execution. Config is the node configuration with template placeholders
// already rendered against Scope.
type ExecutionRequest struct {
	WorkflowID   int
	WorkflowName string
	TriggerID    string
	Graph        *models.Graph
	Node         *models.GraphNode
	Config       map[string]any
	Scope        map[string]any
	Tx           persistence.DBTX
	Logger       *slog.Logger
}

// ExecResult is what a module reports back to the traversal loop.
type ExecResult struct {
	Status  models.ExecStatus
	Message string

	// Matched overrides the default connection-following traversal for this
	// branch. Condition modules set it to the node of the chosen path.
	Matched *models.GraphNode

	// Halt stops traversal of this branch without touching other branches.
	Halt bool
}

// Module is a unit of business logic placed in a workflow graph.
type Module interface {
	ID() string
	Exec(ctx context.Context, req *ExecutionRequest) (ExecResult, error)
}

// ModuleFactory creates module instances and describes the module kind to
// the registry and the node editor.
type ModuleFactory interface {
	// Create creates a module instance with the given configuration.
	Create(config map[string]any) (Module, error)

	// ID returns the unique identifier for this module kind.
	ID() string

	// Name returns the human-readable name for this module kind.
	Name() string

	// Description returns a description of what this module does.
	Description() string

	// Schema returns the JSON schema for configuring this module.
	Schema() map[string]any
}

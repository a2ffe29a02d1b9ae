// Package workflow implements the trigger-dispatch execution engine. A CRUD
// handler calls Execute when a lifecycle event fires; the engine locates the
// bound workflow, walks its graph and reports whether the gated action may
// proceed.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/flowgate-io/flowgate/pkg/graphcheck"
	"github.com/flowgate-io/flowgate/pkg/models"
	"github.com/flowgate-io/flowgate/pkg/otelhelper"
	"github.com/flowgate-io/flowgate/pkg/persistence"
	"github.com/flowgate-io/flowgate/pkg/protocol"
	"github.com/flowgate-io/flowgate/pkg/registry"
	"github.com/flowgate-io/flowgate/pkg/template"
)

const auditModel = "Workflow"

type Executor struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	logger      *slog.Logger
	tracer      trace.Tracer
	timeout     time.Duration
}

// Option adjusts executor behavior.
type Option func(*Executor)

// WithTimeout bounds the wall-clock time of one run. The surrounding CRUD
// request stalls for as long as a run takes, so production deployments
// should set this.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) { e.timeout = d }
}

func NewExecutor(p persistence.Persistence, reg *registry.Registry, logger *slog.Logger, opts ...Option) *Executor {
	executor := &Executor{
		persistence: p,
		registry:    reg,
		logger:      logger,
		tracer:      otel.Tracer("flowgate"),
	}

	for _, opt := range opts {
		opt(executor)
	}

	return executor
}

// Execute runs the workflow bound to triggerID against the trigger scope.
// tx is the database handle the caller shares with module side effects; for
// gating triggers it is the caller's own transaction, so a blocked run rolls
// those effects back with the caller's mutation. Audit rows are written
// outside tx and survive the rollback.
func (e *Executor) Execute(ctx context.Context, triggerID string, scope map[string]any, tx persistence.DBTX) (*models.Outcome, error) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.execute",
		attribute.String(otelhelper.TriggerIDKey, triggerID))
	defer span.End()

	if e.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	outcome, err := e.execute(ctx, triggerID, scope, tx)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	span.SetAttributes(attribute.String(otelhelper.OutcomeKey, string(outcome.Status)))

	return outcome, nil
}

func (e *Executor) execute(ctx context.Context, triggerID string, scope map[string]any, tx persistence.DBTX) (*models.Outcome, error) {
	logger := e.logger.With("trigger_id", triggerID)

	enabled, err := e.featureEnabled(ctx)
	if err != nil {
		return nil, err
	}

	if !enabled {
		return &models.Outcome{Status: models.RunSkippedDisabled}, nil
	}

	wf, err := e.persistence.WorkflowByTrigger(ctx, triggerID)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return &models.Outcome{Status: models.RunSkippedDisabled}, nil
		}

		return nil, fmt.Errorf("failed to resolve workflow for trigger %s: %w", triggerID, err)
	}

	if !wf.Enabled || wf.Data == nil {
		return &models.Outcome{Status: models.RunSkippedDisabled}, nil
	}

	root, err := wf.Data.Root()
	if err != nil {
		return nil, fmt.Errorf("workflow %d has a malformed graph: %w", wf.ID, err)
	}

	if root.Disabled {
		return &models.Outcome{Status: models.RunSkippedDisabled}, nil
	}

	if unsupported := graphcheck.CheckSupportedModules(wf.Data, e.registry); len(unsupported) > 0 {
		e.audit(ctx, logger, fmt.Sprintf(
			"Workflow was not executed, because it contained unsupported modules with the following IDs: %s",
			strings.Join(unsupported, ", ")))

		return &models.Outcome{Status: models.RunSkippedUnsupported}, nil
	}

	label := triggerID
	if desc, ok := e.registry.Resolve(triggerID); ok {
		label = desc.Name
	}

	logger = logger.With("workflow_id", wf.ID, "workflow_name", wf.Name)
	if wf.DebugEnabled {
		logger.Debug("Starting workflow run", "scope", scope)
	}

	e.audit(ctx, logger, fmt.Sprintf("Started executing workflow for trigger `%s` (%d)", label, wf.ID))

	run := &runState{
		executor: e,
		workflow: wf,
		root:     root,
		scope:    scope,
		tx:       tx,
		logger:   logger,
	}

	run.walk(ctx)

	outcomeLabel := "success"
	if run.blocked {
		outcomeLabel = "blocked"
	}

	e.audit(ctx, logger, fmt.Sprintf("Finished executing workflow for trigger `%s` (%d). Outcome: %s",
		label, wf.ID, outcomeLabel))

	status := models.RunCompleted
	if run.blocked {
		status = models.RunBlocked
	}

	return &models.Outcome{Status: status, Messages: run.messages}, nil
}

// featureEnabled reads the engine-wide admin switch. A missing row counts as
// disabled: the engine never runs unless explicitly turned on.
func (e *Executor) featureEnabled(ctx context.Context) (bool, error) {
	value, err := e.persistence.Setting(ctx, persistence.FeatureEnabledKey)
	if err != nil {
		if errors.Is(err, persistence.ErrSettingNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("failed to read %s: %w", persistence.FeatureEnabledKey, err)
	}

	return value == "True", nil
}

// audit writes one log row. Best effort: a failed write is reported to the
// structured logger and never masks the run outcome.
func (e *Executor) audit(ctx context.Context, logger *slog.Logger, title string) {
	entry := &models.LogEntry{Model: auditModel, Title: title}

	if err := e.persistence.AppendLog(ctx, entry); err != nil {
		logger.Warn("Failed to write audit log row", "error", err, "title", title)
	}
}

// runState tracks one traversal. Nothing here is shared between runs; the
// registry is the only cross-run state and it is read-only.
type runState struct {
	executor *Executor
	workflow *models.Workflow
	root     *models.GraphNode
	scope    map[string]any
	tx       persistence.DBTX
	logger   *slog.Logger

	blocked  bool
	messages []string
}

// walk traverses the graph depth-first from the root, following output
// connections in port order. A blocked branch halts only itself; sibling
// branches keep running. Each node runs at most once per traversal, so
// converging branches do not repeat a node and a cyclic graph that slipped
// past the save-time check still terminates.
func (r *runState) walk(ctx context.Context) {
	visited := map[int]bool{r.root.GraphID: true}
	stack := successorStack(r.workflow.Data, r.root, nil)

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[node.GraphID] {
			continue
		}

		visited[node.GraphID] = true

		if node.IsTrigger() {
			// A second trigger node cannot execute; just keep walking.
			stack = successorStack(r.workflow.Data, node, stack)

			continue
		}

		if node.Disabled {
			stack = successorStack(r.workflow.Data, node, stack)

			continue
		}

		result := r.execNode(ctx, node)

		desc, _ := r.executor.registry.Resolve(node.Kind)

		if result.Status == models.ExecPartialSuccess && desc != nil && desc.Blocking {
			r.blocked = true

			if result.Message != "" {
				r.messages = append(r.messages, result.Message)
			}

			continue
		}

		if result.Status == models.ExecFailure {
			// Fail closed: an unexplained failure must not silently allow
			// the gated action.
			r.blocked = true

			if result.Message != "" {
				r.messages = append(r.messages, result.Message)
			}

			continue
		}

		if result.Halt {
			continue
		}

		if result.Matched != nil {
			stack = append(stack, result.Matched)

			continue
		}

		stack = successorStack(r.workflow.Data, node, stack)
	}
}

func (r *runState) execNode(ctx context.Context, node *models.GraphNode) protocol.ExecResult {
	ctx, span := otelhelper.StartSpan(ctx, r.executor.tracer, "workflow.node",
		attribute.String(otelhelper.NodeKindKey, node.Kind),
		attribute.Int(otelhelper.NodeGraphIDKey, node.GraphID))
	defer span.End()

	result, err := r.invoke(ctx, node)
	if err != nil {
		otelhelper.SetError(span, err)

		result.Status = models.ExecFailure
		if result.Message == "" {
			result.Message = fmt.Sprintf("Node `%s` failed: %s", node.Kind, err)
		}

		r.logger.Error("Node execution failed", "node", node.Kind, "graph_id", node.GraphID, "error", err)
	}

	if r.workflow.DebugEnabled {
		r.logger.Debug("Executed node", "node", node.Kind, "graph_id", node.GraphID, "status", result.Status)
	}

	r.executor.audit(ctx, r.logger, fmt.Sprintf(
		"Executed node `%s`\nNode `%s` from Workflow `%s` (%d) executed successfully with status: %s",
		node.Kind, node.Kind, r.workflow.Name, r.workflow.ID, result.Status))

	return result
}

func (r *runState) invoke(ctx context.Context, node *models.GraphNode) (protocol.ExecResult, error) {
	rendered := template.RenderConfig(node.Configuration, r.scope)

	module, err := r.executor.registry.CreateModule(node.Kind, rendered)
	if err != nil {
		return protocol.ExecResult{}, fmt.Errorf("failed to create module %s: %w", node.Kind, err)
	}

	return module.Exec(ctx, &protocol.ExecutionRequest{
		WorkflowID:   r.workflow.ID,
		WorkflowName: r.workflow.Name,
		TriggerID:    r.workflow.TriggerID,
		Graph:        r.workflow.Data,
		Node:         node,
		Config:       rendered,
		Scope:        r.scope,
		Tx:           r.tx,
		Logger:       r.logger,
	})
}

// successorStack pushes node's successors so that the lowest output port and
// the first connection within it are visited first.
func successorStack(g *models.Graph, node *models.GraphNode, stack []*models.GraphNode) []*models.GraphNode {
	ports := node.OutputPorts()

	for i := len(ports) - 1; i >= 0; i-- {
		conns := node.Outputs[ports[i]]

		for j := len(conns) - 1; j >= 0; j-- {
			if target, ok := g.Node(conns[j].Node); ok {
				stack = append(stack, target)
			}
		}
	}

	return stack
}

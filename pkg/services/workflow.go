package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/flowgate-io/flowgate/pkg/graphcheck"
	"github.com/flowgate-io/flowgate/pkg/models"
	"github.com/flowgate-io/flowgate/pkg/persistence"
	"github.com/flowgate-io/flowgate/pkg/registry"
)

// Workflow is the authoring service: saving, listing and checking workflow
// graphs. Execution lives in pkg/workflow.
type Workflow struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	validate    *validator.Validate
}

// NewWorkflow creates a new workflow service.
func NewWorkflow(p persistence.Persistence, reg *registry.Registry) *Workflow {
	return &Workflow{
		persistence: p,
		registry:    reg,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// ListWorkflows returns every stored workflow.
func (w *Workflow) ListWorkflows(ctx context.Context) ([]*models.Workflow, error) {
	return w.persistence.Workflows(ctx)
}

// GetWorkflow loads one workflow.
func (w *Workflow) GetWorkflow(ctx context.Context, id int) (*models.Workflow, error) {
	return w.persistence.WorkflowByID(ctx, id)
}

// SaveWorkflow validates and stores a workflow. A cyclic graph is the one
// hard structural gate at save time; unsupported kinds and path warnings are
// tolerated here and reported by CheckGraph instead.
func (w *Workflow) SaveWorkflow(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	if workflow == nil {
		return nil, ErrWorkflowNil
	}

	if err := w.validate.Struct(workflow); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrWorkflowInvalid, err)
	}

	if workflow.Data == nil {
		return nil, ErrGraphMissing
	}

	if result := graphcheck.CheckAcyclic(workflow.Data); !result.IsAcyclic {
		return nil, fmt.Errorf("%w: %v", ErrGraphCyclic, result.Cycle)
	}

	if workflow.UUID == "" {
		workflow.UUID = uuid.New().String()
	}

	now := time.Now().UTC()
	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	if err := w.persistence.SaveWorkflow(ctx, workflow); err != nil {
		if persistence.IsTriggerAlreadyBound(err) {
			return nil, fmt.Errorf("%w: %s", ErrTriggerConflict, workflow.TriggerID)
		}

		return nil, err
	}

	return workflow, nil
}

// DeleteWorkflow removes a workflow.
func (w *Workflow) DeleteWorkflow(ctx context.Context, id int) error {
	return w.persistence.DeleteWorkflow(ctx, id)
}

// ToggleWorkflow flips the workflow-level enabled switch.
func (w *Workflow) ToggleWorkflow(ctx context.Context, id int) (*models.Workflow, error) {
	workflow, err := w.persistence.WorkflowByID(ctx, id)
	if err != nil {
		return nil, err
	}

	workflow.Enabled = !workflow.Enabled
	workflow.UpdatedAt = time.Now().UTC()

	if err := w.persistence.SaveWorkflow(ctx, workflow); err != nil {
		if persistence.IsTriggerAlreadyBound(err) {
			return nil, fmt.Errorf("%w: %s", ErrTriggerConflict, workflow.TriggerID)
		}

		return nil, err
	}

	return workflow, nil
}

// ToggleRoot flips the root trigger node's disabled flag without touching
// the workflow-level switch.
func (w *Workflow) ToggleRoot(ctx context.Context, id int) (*models.Workflow, error) {
	workflow, err := w.persistence.WorkflowByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if workflow.Data == nil {
		return nil, ErrGraphMissing
	}

	root, err := workflow.Data.Root()
	if err != nil {
		return nil, err
	}

	root.Disabled = !root.Disabled
	workflow.UpdatedAt = time.Now().UTC()

	if err := w.persistence.SaveWorkflow(ctx, workflow); err != nil {
		return nil, err
	}

	return workflow, nil
}

// CheckGraph runs the full structural check bundle for the editor.
func (w *Workflow) CheckGraph(g *models.Graph) *graphcheck.Result {
	return graphcheck.Check(g, w.registry)
}

// FeatureEnabled reads the engine-wide switch.
func (w *Workflow) FeatureEnabled(ctx context.Context) (bool, error) {
	value, err := w.persistence.Setting(ctx, persistence.FeatureEnabledKey)
	if err != nil {
		if errors.Is(err, persistence.ErrSettingNotFound) {
			return false, nil
		}

		return false, err
	}

	return value == "True", nil
}

// SetFeatureEnabled writes the engine-wide switch in the platform's
// "True"/"False" convention.
func (w *Workflow) SetFeatureEnabled(ctx context.Context, enabled bool) error {
	value := "False"
	if enabled {
		value = "True"
	}

	return w.persistence.SaveSetting(ctx, persistence.FeatureEnabledKey, value)
}

package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgate-io/flowgate/pkg/models"
	"github.com/flowgate-io/flowgate/pkg/persistence/file"
	"github.com/flowgate-io/flowgate/pkg/registry"
)

func newService(t *testing.T) *Workflow {
	t.Helper()

	reg := registry.NewRegistry(slog.Default())
	reg.RegisterDefaultNodes()

	return NewWorkflow(file.NewPersistence(t.TempDir()), reg)
}

func validWorkflow() *models.Workflow {
	return &models.Workflow{
		Name:      "Block publish when unreviewed",
		TriggerID: registry.TriggerEventPublish,
		Enabled:   true,
		Data: &models.Graph{Nodes: map[int]*models.GraphNode{
			1: {
				GraphID:  1,
				Kind:     registry.TriggerEventPublish,
				NodeKind: models.NodeKindTrigger,
				Outputs:  map[int][]models.Connection{1: {{Node: 2, Port: 1}}},
			},
			2: {
				GraphID:  2,
				Kind:     "stop-execution",
				NodeKind: models.NodeKindModule,
				Inputs:   map[int][]models.Connection{1: {{Node: 1, Port: 1}}},
			},
		}},
	}
}

func TestSaveWorkflow(t *testing.T) {
	service := newService(t)

	saved, err := service.SaveWorkflow(context.Background(), validWorkflow())
	require.NoError(t, err)

	assert.Equal(t, 1, saved.ID)
	assert.NotEmpty(t, saved.UUID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.False(t, saved.UpdatedAt.IsZero())
}

func TestSaveWorkflowNil(t *testing.T) {
	service := newService(t)

	_, err := service.SaveWorkflow(context.Background(), nil)
	assert.ErrorIs(t, err, ErrWorkflowNil)
	assert.True(t, IsValidationError(err))
}

func TestSaveWorkflowInvalidFields(t *testing.T) {
	service := newService(t)

	workflow := validWorkflow()
	workflow.Name = "ab"

	_, err := service.SaveWorkflow(context.Background(), workflow)
	assert.ErrorIs(t, err, ErrWorkflowInvalid)
	assert.True(t, IsValidationError(err))

	workflow = validWorkflow()
	workflow.TriggerID = ""

	_, err = service.SaveWorkflow(context.Background(), workflow)
	assert.ErrorIs(t, err, ErrWorkflowInvalid)
	assert.True(t, IsValidationError(err))
}

func TestSaveWorkflowMissingGraph(t *testing.T) {
	service := newService(t)

	workflow := validWorkflow()
	workflow.Data = nil

	_, err := service.SaveWorkflow(context.Background(), workflow)
	assert.ErrorIs(t, err, ErrGraphMissing)
}

func TestSaveWorkflowRejectsCycle(t *testing.T) {
	service := newService(t)

	workflow := validWorkflow()
	workflow.Data.Nodes[2].Outputs = map[int][]models.Connection{1: {{Node: 2, Port: 1}}}

	_, err := service.SaveWorkflow(context.Background(), workflow)
	assert.ErrorIs(t, err, ErrGraphCyclic)
	assert.True(t, IsValidationError(err))
}

func TestSaveWorkflowTriggerConflict(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	_, err := service.SaveWorkflow(ctx, validWorkflow())
	require.NoError(t, err)

	_, err = service.SaveWorkflow(ctx, validWorkflow())
	assert.ErrorIs(t, err, ErrTriggerConflict)
	assert.True(t, IsConflictError(err))
}

func TestToggleWorkflow(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	saved, err := service.SaveWorkflow(ctx, validWorkflow())
	require.NoError(t, err)

	toggled, err := service.ToggleWorkflow(ctx, saved.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Enabled)

	toggled, err = service.ToggleWorkflow(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Enabled)
}

func TestToggleRoot(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	saved, err := service.SaveWorkflow(ctx, validWorkflow())
	require.NoError(t, err)

	toggled, err := service.ToggleRoot(ctx, saved.ID)
	require.NoError(t, err)

	root, err := toggled.Data.Root()
	require.NoError(t, err)
	assert.True(t, root.Disabled)
	assert.True(t, toggled.Enabled)
}

func TestFeatureFlag(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	enabled, err := service.FeatureEnabled(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, service.SetFeatureEnabled(ctx, true))

	enabled, err = service.FeatureEnabled(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, service.SetFeatureEnabled(ctx, false))

	enabled, err = service.FeatureEnabled(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestCheckGraph(t *testing.T) {
	service := newService(t)

	result := service.CheckGraph(validWorkflow().Data)

	assert.True(t, result.Acyclic.IsAcyclic)
	assert.True(t, result.Executable())
}

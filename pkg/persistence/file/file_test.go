package file

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgate-io/flowgate/pkg/models"
	"github.com/flowgate-io/flowgate/pkg/persistence"
)

func testWorkflow(triggerID string) *models.Workflow {
	return &models.Workflow{
		Name:      "Block publish of low-quality events",
		TriggerID: triggerID,
		Enabled:   true,
		Data: &models.Graph{Nodes: map[int]*models.GraphNode{
			1: {
				GraphID:  1,
				Kind:     triggerID,
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

func TestSaveWorkflowAssignsIDs(t *testing.T) {
	ctx := context.Background()
	store := NewPersistence(t.TempDir())

	first := testWorkflow("event-publish")
	require.NoError(t, store.SaveWorkflow(ctx, first))
	assert.Equal(t, 1, first.ID)

	second := testWorkflow("event-before-save")
	require.NoError(t, store.SaveWorkflow(ctx, second))
	assert.Equal(t, 2, second.ID)
}

func TestWorkflowByIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewPersistence(t.TempDir())

	workflow := testWorkflow("event-publish")
	require.NoError(t, store.SaveWorkflow(ctx, workflow))

	loaded, err := store.WorkflowByID(ctx, workflow.ID)
	require.NoError(t, err)

	assert.Equal(t, workflow.Name, loaded.Name)
	assert.Equal(t, workflow.TriggerID, loaded.TriggerID)
	require.NotNil(t, loaded.Data)
	assert.Len(t, loaded.Data.Nodes, 2)

	root, err := loaded.Data.Root()
	require.NoError(t, err)
	assert.Equal(t, "event-publish", root.Kind)
}

func TestWorkflowByIDNotFound(t *testing.T) {
	store := NewPersistence(t.TempDir())

	_, err := store.WorkflowByID(context.Background(), 42)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflowByTrigger(t *testing.T) {
	ctx := context.Background()
	store := NewPersistence(t.TempDir())

	enabled := testWorkflow("event-publish")
	require.NoError(t, store.SaveWorkflow(ctx, enabled))

	disabled := testWorkflow("event-after-save")
	disabled.Enabled = false
	require.NoError(t, store.SaveWorkflow(ctx, disabled))

	found, err := store.WorkflowByTrigger(ctx, "event-publish")
	require.NoError(t, err)
	assert.Equal(t, enabled.ID, found.ID)

	_, err = store.WorkflowByTrigger(ctx, "event-after-save")
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestSaveWorkflowRejectsDuplicateTriggerBinding(t *testing.T) {
	ctx := context.Background()
	store := NewPersistence(t.TempDir())

	require.NoError(t, store.SaveWorkflow(ctx, testWorkflow("event-publish")))

	err := store.SaveWorkflow(ctx, testWorkflow("event-publish"))
	assert.True(t, persistence.IsTriggerAlreadyBound(err))

	// A disabled workflow may share the trigger.
	third := testWorkflow("event-publish")
	third.Enabled = false
	assert.NoError(t, store.SaveWorkflow(ctx, third))
}

func TestDeleteWorkflow(t *testing.T) {
	ctx := context.Background()
	store := NewPersistence(t.TempDir())

	workflow := testWorkflow("event-publish")
	require.NoError(t, store.SaveWorkflow(ctx, workflow))
	require.NoError(t, store.DeleteWorkflow(ctx, workflow.ID))

	_, err := store.WorkflowByID(ctx, workflow.ID)
	assert.True(t, persistence.IsWorkflowNotFound(err))

	err = store.DeleteWorkflow(ctx, workflow.ID)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	store := NewPersistence(t.TempDir())

	_, err := store.Setting(ctx, persistence.FeatureEnabledKey)
	assert.ErrorIs(t, err, persistence.ErrSettingNotFound)

	require.NoError(t, store.SaveSetting(ctx, persistence.FeatureEnabledKey, "True"))

	value, err := store.Setting(ctx, persistence.FeatureEnabledKey)
	require.NoError(t, err)
	assert.Equal(t, "True", value)
}

func TestLogs(t *testing.T) {
	ctx := context.Background()
	store := NewPersistence(t.TempDir())

	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, store.AppendLog(ctx, &models.LogEntry{Model: "Workflow", Title: title}))
	}

	logs, err := store.Logs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, 1, logs[0].ID)
	assert.Equal(t, "first", logs[0].Title)
	assert.False(t, logs[0].CreatedAt.IsZero())

	recent, err := store.Logs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "second", recent[0].Title)
	assert.Equal(t, "third", recent[1].Title)
}

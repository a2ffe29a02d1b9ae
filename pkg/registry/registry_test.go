package registry

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgate-io/flowgate/pkg/nodes/stopexecution"
)

func TestRegisterDefaultNodes(t *testing.T) {
	reg := NewRegistry(slog.Default())
	reg.RegisterDefaultNodes()

	triggers := reg.Triggers()
	require.Len(t, triggers, 4)
	assert.Equal(t, TriggerAttributeAfterSave, triggers[0].ID)

	modules := reg.Modules()
	require.Len(t, modules, 5)

	for _, desc := range modules {
		assert.False(t, desc.IsTrigger)
	}
}

func TestResolveCapabilities(t *testing.T) {
	reg := NewRegistry(slog.Default())
	reg.RegisterDefaultNodes()

	publish, ok := reg.Resolve(TriggerEventPublish)
	require.True(t, ok)
	assert.True(t, publish.IsTrigger)
	assert.True(t, publish.Blocking)
	assert.Equal(t, "Event Publish", publish.Name)

	afterSave, ok := reg.Resolve(TriggerEventAfterSave)
	require.True(t, ok)
	assert.False(t, afterSave.Blocking)

	stop, ok := reg.Resolve("stop-execution")
	require.True(t, ok)
	assert.True(t, stop.Blocking)
	assert.False(t, stop.AllowsFanOut)

	parallel, ok := reg.Resolve("parallel-task")
	require.True(t, ok)
	assert.True(t, parallel.AllowsFanOut)

	_, ok = reg.Resolve("enrich-event")
	assert.False(t, ok)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	reg := NewRegistry(slog.Default())
	reg.RegisterModule(stopexecution.NewFactory())

	assert.Panics(t, func() {
		reg.RegisterModule(stopexecution.NewFactory())
	})
}

func TestCreateModule(t *testing.T) {
	reg := NewRegistry(slog.Default())
	reg.RegisterDefaultNodes()

	module, err := reg.CreateModule("stop-execution", map[string]any{"message": "halt"})
	require.NoError(t, err)
	assert.Equal(t, "stop-execution", module.ID())
}

func TestCreateModuleUnknownKind(t *testing.T) {
	reg := NewRegistry(slog.Default())
	reg.RegisterDefaultNodes()

	_, err := reg.CreateModule("enrich-event", nil)
	assert.ErrorContains(t, err, "not registered")
}

func TestCreateModuleForTriggerFails(t *testing.T) {
	reg := NewRegistry(slog.Default())
	reg.RegisterDefaultNodes()

	// Triggers have no factory; only modules execute.
	_, err := reg.CreateModule(TriggerEventPublish, nil)
	assert.Error(t, err)
}
